package usecase

import (
	"context"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
)

// CategoryUseCase управляет категориями. Доступно только администраторам.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	productRepo  ProductRepository
	cacheRepo    CacheRepository
	txManager    TxManager
	logger       logger.Logger
}

func NewCategoryUC(
	categoryRepo CategoryRepository,
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	txManager TxManager,
	logger logger.Logger,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cacheRepo:    cacheRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

func (c *CategoryUseCase) List(ctx context.Context, subject *access.Subject) ([]domain.Category, error) {
	const op = "CategoryUseCase.List"

	if err := c.check(subject, access.Read); err != nil {
		return nil, e.Wrap(op, err)
	}

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

func (c *CategoryUseCase) Get(ctx context.Context, subject *access.Subject, slug string) (*domain.Category, error) {
	const op = "CategoryUseCase.Get"

	if err := c.check(subject, access.Read); err != nil {
		return nil, e.Wrap(op, err)
	}

	category, err := c.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return category, nil
}

func (c *CategoryUseCase) Create(ctx context.Context, subject *access.Subject, req *CreateCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.Create"

	if err := c.check(subject, access.Write); err != nil {
		return nil, e.Wrap(op, err)
	}

	category := domain.NewCategory(req.Name, req.Slug)
	if err := validateCategory(category); err != nil {
		return nil, e.Wrap(op, err)
	}

	created, err := c.categoryRepo.Create(ctx, category)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

// Update меняет имя и/или slug категории. Кэш продуктов категории сбрасывается,
// так как в нём хранится slug.
func (c *CategoryUseCase) Update(ctx context.Context, subject *access.Subject, req *UpdateCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.Update"

	if err := c.check(subject, access.Write); err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		updated    *domain.Category
		productIDs []int64
	)
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		category, err := c.categoryRepo.GetBySlug(ctx, req.Slug)
		if err != nil {
			return err
		}

		if req.Name != nil {
			category.Name = *req.Name
		}
		if req.NewSlug != nil {
			category.Slug = *req.NewSlug
		}
		if err := validateCategory(category); err != nil {
			return err
		}

		updated, err = c.categoryRepo.Update(ctx, category)
		if err != nil {
			return err
		}

		productIDs, err = c.productRepo.IDsByCategory(ctx, category.ID)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidate(ctx, op, productIDs)

	return updated, nil
}

// Delete удаляет категорию. У продуктов и записей журнала категория обнуляется.
func (c *CategoryUseCase) Delete(ctx context.Context, subject *access.Subject, slug string) error {
	const op = "CategoryUseCase.Delete"

	if err := c.check(subject, access.Write); err != nil {
		return e.Wrap(op, err)
	}

	var productIDs []int64
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		category, err := c.categoryRepo.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}

		productIDs, err = c.productRepo.IDsByCategory(ctx, category.ID)
		if err != nil {
			return err
		}

		return c.categoryRepo.Delete(ctx, category.ID)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	c.invalidate(ctx, op, productIDs)

	return nil
}

func (c *CategoryUseCase) check(subject *access.Subject, action access.Action) error {
	return access.Check(access.Request{Resource: access.Category, Action: action, Subject: subject})
}

func (c *CategoryUseCase) invalidate(ctx context.Context, op string, productIDs []int64) {
	if len(productIDs) == 0 {
		return
	}

	if err := c.cacheRepo.DeleteProducts(ctx, productIDs); err != nil {
		c.logger.Warnf("Failed to delete products from cache: %v", e.Wrap(op, err))
	}
}
