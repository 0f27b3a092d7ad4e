package grpc

import (
	"context"
	"fmt"
	"math"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"google.golang.org/protobuf/types/known/structpb"
)

type CatalogService struct {
	prUC   usecase.ProductUC
	logger logger.Logger
}

func NewCatalogService(prUC usecase.ProductUC, logger logger.Logger) *CatalogService {
	return &CatalogService{prUC: prUC, logger: logger}
}

// GetProductsInfo принимает {"ids": [...]} и отвечает {"products": [...], "not_found": [...]}.
func (g *CatalogService) GetProductsInfo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetProductsInfo"

	ids, err := parseIDs(req)
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	res, err := g.prUC.GetProductsInfo(ctx, usecase.NewGetProductsReq(ids))
	if err != nil {
		wrapped := e.Wrap(op, err)
		g.logger.Errorf(wrapped, "%s", op)
		return nil, GRPCErrorResponse(wrapped)
	}

	out, err := structpb.NewStruct(map[string]any{
		"products":  toArrGRPCProduct(res.Products),
		"not_found": toAnyIDs(res.NotFoundProducts),
	})
	if err != nil {
		wrapped := e.Wrap(op, err)
		g.logger.Errorf(wrapped, "%s", op)
		return nil, GRPCErrorResponse(wrapped)
	}

	return out, nil
}

func parseIDs(req *structpb.Struct) ([]int64, error) {
	list := req.GetFields()["ids"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("ids: expected list of integers: %w", e.ErrInvalidInput)
	}

	ids := make([]int64, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue <= 0 || n.NumberValue > math.MaxInt64 {
			return nil, fmt.Errorf("ids[%d]: expected positive integer: %w", i, e.ErrInvalidInput)
		}
		ids = append(ids, int64(n.NumberValue))
	}

	return ids, nil
}

func toGRPCProduct(pr *domain.Product) map[string]any {
	var category any
	if pr.CategorySlug != nil {
		category = *pr.CategorySlug
	}

	return map[string]any{
		"id":                  pr.ID,
		"name":                pr.Name,
		"weight":              pr.Weight,
		"unit_of_measurement": string(pr.UnitOfMeasurement),
		"kcal":                pr.Kcal,
		"category":            category,
	}
}

func toArrGRPCProduct(prs []domain.Product) []any {
	res := make([]any, len(prs))
	for i := range prs {
		res[i] = toGRPCProduct(&prs[i])
	}

	return res
}

func toAnyIDs(ids []int64) []any {
	res := make([]any, len(ids))
	for i, id := range ids {
		res[i] = id
	}

	return res
}
