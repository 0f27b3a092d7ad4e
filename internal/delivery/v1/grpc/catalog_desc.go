package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Сервис описан вручную поверх google.protobuf.Struct, поэтому .proto и protoc не нужны.
const (
	CatalogServiceName    = "calories.v1.CatalogService"
	GetProductsInfoMethod = "/" + CatalogServiceName + "/GetProductsInfo"
)

type CatalogServer interface {
	GetProductsInfo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProductsInfo",
			Handler:    getProductsInfoHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "calories/v1/catalog.proto",
}

func getProductsInfoHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetProductsInfo(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetProductsInfoMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).GetProductsInfo(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}

// CatalogClient вызывает CatalogService.
type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func (c *CatalogClient) GetProductsInfo(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetProductsInfoMethod, req, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
