package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/domain"
)

type CategoryUC interface {
	List(ctx context.Context, subject *access.Subject) ([]domain.Category, error)
	Get(ctx context.Context, subject *access.Subject, slug string) (*domain.Category, error)
	Create(ctx context.Context, subject *access.Subject, req *CreateCategoryReq) (*domain.Category, error)
	Update(ctx context.Context, subject *access.Subject, req *UpdateCategoryReq) (*domain.Category, error)
	Delete(ctx context.Context, subject *access.Subject, slug string) error
}

type ProductUC interface {
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, subject *access.Subject, req *CreateProductReq) (*domain.Product, error)
	Update(ctx context.Context, subject *access.Subject, req *UpdateProductReq) (*domain.Product, error)
	Delete(ctx context.Context, subject *access.Subject, id int64) error
	UploadImage(ctx context.Context, subject *access.Subject, req *UploadProductImageReq) (*domain.Product, error)
	GetImage(ctx context.Context, id int64) (*domain.ImageObject, error)
	GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
}

type EatenProductUC interface {
	List(ctx context.Context, subject *access.Subject, filter EatenProductFilter) ([]domain.EatenProduct, error)
	Get(ctx context.Context, subject *access.Subject, id int64) (*domain.EatenProduct, error)
	Create(ctx context.Context, subject *access.Subject, req *CreateEatenProductReq) (*domain.EatenProduct, error)
	Update(ctx context.Context, subject *access.Subject, req *UpdateEatenProductReq) (*domain.EatenProduct, error)
	Delete(ctx context.Context, subject *access.Subject, id int64) error
}

type TotalKcalUC interface {
	List(ctx context.Context, subject *access.Subject) ([]domain.DailyTotal, error)
	Get(ctx context.Context, subject *access.Subject, date time.Time) (*domain.DailyTotal, error)
}

type AuthUC interface {
	Register(ctx context.Context, req *RegisterReq) (*domain.User, error)
	CreateAdmin(ctx context.Context, req *RegisterReq) (*domain.User, error)
	Login(ctx context.Context, req *LoginReq) (*TokenPair, error)
	Refresh(ctx context.Context, refresh string) (string, error)
	Verify(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*access.Subject, error)
	Me(ctx context.Context, subject *access.Subject) (*domain.User, error)
}
