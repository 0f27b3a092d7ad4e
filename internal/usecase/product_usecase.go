package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
)

const MaxImageSize = 15 << 20

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// ProductUseCase реализует бизнес-логику каталога продуктов.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	cacheRepo    CacheRepository
	imagesInfra  ImagesInfra
	txManager    TxManager
	logger       logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	cacheRepo CacheRepository,
	imagesInfra ImagesInfra,
	txManager TxManager,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cacheRepo:    cacheRepo,
		imagesInfra:  imagesInfra,
		txManager:    txManager,
		logger:       logger,
	}
}

func (p *ProductUseCase) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	const op = "ProductUseCase.List"

	products, err := p.productRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// Get возвращает продукт по id, сначала из кэша.
func (p *ProductUseCase) Get(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.Get"

	res, err := p.GetProductsInfo(ctx, NewGetProductsReq([]int64{id}))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(res.Products) == 0 {
		return nil, e.Wrap(op, fmt.Errorf("product %d: %w", id, e.ErrNotFound))
	}

	return &res.Products[0], nil
}

func (p *ProductUseCase) Create(ctx context.Context, subject *access.Subject, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Create"

	if err := p.check(subject, access.Write); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(req.Name, req.Weight, req.UnitOfMeasurement, req.Kcal, nil)
	if err := validateProduct(product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := p.resolveCategory(ctx, product, req.CategorySlug); err != nil {
		return nil, e.Wrap(op, err)
	}

	created, err := p.productRepo.Create(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

func (p *ProductUseCase) Update(ctx context.Context, subject *access.Subject, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Update"

	if err := p.check(subject, access.Write); err != nil {
		return nil, e.Wrap(op, err)
	}

	var updated *domain.Product
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := p.productRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		applyProductPatch(product, req)
		if err := validateProduct(product); err != nil {
			return err
		}

		if req.CategorySet {
			if err := p.resolveCategory(ctx, product, req.CategorySlug); err != nil {
				return err
			}
		}

		updated, err = p.productRepo.Update(ctx, product)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, op, updated.ID)

	return updated, nil
}

// Delete удаляет продукт вместе с записями журнала на него.
func (p *ProductUseCase) Delete(ctx context.Context, subject *access.Subject, id int64) error {
	const op = "ProductUseCase.Delete"

	if err := p.check(subject, access.Write); err != nil {
		return e.Wrap(op, err)
	}

	var imageKey *string
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := p.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		imageKey = product.ImageKey

		return p.productRepo.Delete(ctx, id)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	p.invalidate(ctx, op, id)
	if imageKey != nil {
		p.imagesInfra.CleanupImages([]string{*imageKey})
	}

	return nil
}

// UploadImage сохраняет изображение продукта в MinIO и заменяет предыдущее.
func (p *ProductUseCase) UploadImage(ctx context.Context, subject *access.Subject, req *UploadProductImageReq) (*domain.Product, error) {
	const op = "ProductUseCase.UploadImage"

	if err := p.check(subject, access.Write); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := validateImage(&req.Image); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	key, err := p.imagesInfra.UploadImage(ctx, NewUploadImageReq(product.ID, req.Image))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	prevKey, err := p.productRepo.SetImageKey(ctx, product.ID, key)
	if err != nil {
		p.logger.Warnf("Cleaning up orphaned image after db failure. product_id: %d, error: %v", product.ID, e.Wrap(op, err))
		p.imagesInfra.CleanupImages([]string{key})

		return nil, e.Wrap(op, err)
	}

	if prevKey != nil && *prevKey != key {
		p.imagesInfra.CleanupImages([]string{*prevKey})
	}
	p.invalidate(ctx, op, product.ID)

	product.ImageKey = &key

	return product, nil
}

func (p *ProductUseCase) GetImage(ctx context.Context, id int64) (*domain.ImageObject, error) {
	const op = "ProductUseCase.GetImage"

	product, err := p.Get(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if product.ImageKey == nil {
		return nil, e.Wrap(op, fmt.Errorf("product %d has no image: %w", id, e.ErrNotFound))
	}

	img, err := p.imagesInfra.GetImage(ctx, *product.ImageKey)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return img, nil
}

// GetProductsInfo возвращает информацию о продуктах по их идентификаторам.
func (p *ProductUseCase) GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "ProductUseCase.GetProductsInfo"

	// Валидация
	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.NewValidationError(map[string]string{"ids": "at least one id is required"}))
	}

	// Поиск продуктов в кэше
	cacheProductsMap, err := p.cacheRepo.GetProducts(ctx, req.IDs)
	if err != nil {
		p.logger.Warnf("Failed to read products from cache: %v", e.Wrap(op, err))
		cacheProductsMap = nil
	}

	var nonCacheable []int64
	for _, productID := range req.IDs {
		if _, ok := cacheProductsMap[productID]; !ok {
			nonCacheable = append(nonCacheable, productID)
		}
	}

	// Получение продуктов из БД
	var productsFromDB []domain.Product
	if len(nonCacheable) > 0 {
		productsFromDB, err = p.productRepo.GetProductsInfo(ctx, nonCacheable)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		if len(productsFromDB) > 0 {
			// Фоновое добавление продуктов в кэш
			go func(products []domain.Product) {
				bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
				defer cancel()

				if err := p.cacheRepo.SetProducts(bgCtx, products); err != nil {
					p.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
				}
			}(productsFromDB)
		}
	}

	dbProductsMap := make(map[int64]domain.Product, len(productsFromDB))
	for _, product := range productsFromDB {
		dbProductsMap[product.ID] = product
	}

	// Формирование результата
	result := make([]domain.Product, 0, len(req.IDs))
	notFoundProducts := make([]int64, 0)
	for _, id := range req.IDs {
		if pr, ok := cacheProductsMap[id]; ok {
			result = append(result, pr)
		} else if pr, ok := dbProductsMap[id]; ok {
			result = append(result, pr)
		} else {
			notFoundProducts = append(notFoundProducts, id)
		}
	}

	return NewGetProductsRes(result, notFoundProducts), nil
}

// resolveCategory проставляет продукту категорию по slug. nil снимает категорию.
func (p *ProductUseCase) resolveCategory(ctx context.Context, product *domain.Product, slug *string) error {
	if slug == nil {
		product.CategoryID = nil
		product.CategorySlug = nil
		return nil
	}

	category, err := p.categoryRepo.GetBySlug(ctx, *slug)
	if err != nil {
		return fmt.Errorf("category %q: %w", *slug, err)
	}

	product.CategoryID = &category.ID
	product.CategorySlug = &category.Slug

	return nil
}

func (p *ProductUseCase) check(subject *access.Subject, action access.Action) error {
	return access.Check(access.Request{Resource: access.Product, Action: action, Subject: subject})
}

// invalidate удаляет продукт из кэша. Ошибка кэша не прерывает запрос.
func (p *ProductUseCase) invalidate(ctx context.Context, op string, id int64) {
	if err := p.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		p.logger.Warnf("Failed to delete products: %v", e.Wrap(op, err))
	}
}

func applyProductPatch(product *domain.Product, req *UpdateProductReq) {
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Weight != nil {
		product.Weight = *req.Weight
	}
	if req.UnitOfMeasurement != nil {
		product.UnitOfMeasurement = *req.UnitOfMeasurement
	}
	if req.Kcal != nil {
		product.Kcal = *req.Kcal
	}
}

func validateImage(img *ProductImage) error {
	if len(img.Data) == 0 {
		return e.ErrNoImages
	}

	if img.Size > MaxImageSize || int64(len(img.Data)) > MaxImageSize {
		return fmt.Errorf("%s: %w", img.Name, e.ErrFileTooLarge)
	}

	if _, ok := allowedImageTypes[img.MimeType]; !ok {
		return fmt.Errorf("%s (%s): %w", img.Name, img.MimeType, e.ErrUnsupportedMediaType)
	}

	return nil
}
