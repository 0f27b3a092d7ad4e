package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/domain"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsInfo(ctx context.Context, ids []int64) ([]domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	// SetImageKey сохраняет ключ изображения и возвращает предыдущий.
	SetImageKey(ctx context.Context, id int64, key string) (*string, error)
	IDsByCategory(ctx context.Context, categoryID int64) ([]int64, error)
}

// EatenProductRepository — журнал питания. Все выборки, кроме GetByID, ограничены пользователем.
type EatenProductRepository interface {
	Create(ctx context.Context, ep *domain.EatenProduct) (*domain.EatenProduct, error)
	GetByID(ctx context.Context, id int64) (*domain.EatenProduct, error)
	List(ctx context.Context, userID int64, filter EatenProductFilter) ([]domain.EatenProduct, error)
	Update(ctx context.Context, ep *domain.EatenProduct) (*domain.EatenProduct, error)
	Delete(ctx context.Context, id, userID int64) error
	DailyTotals(ctx context.Context, userID int64, date *time.Time) ([]domain.DailyTotal, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Get(ctx context.Context, key string) (*domain.ImageObject, error)
	Delete(ctx context.Context, key string) error
}
