package converter

import "github.com/DRSN-tech/calories-backend/internal/domain"

type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
	ToArrRedisModel(entities []domain.Product) []ProductRedisModel
}

type ProductConverterImpl struct{}

func (ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	if entity == nil {
		return nil
	}

	return &ProductRedisModel{
		ID:                entity.ID,
		Name:              entity.Name,
		Weight:            entity.Weight,
		UnitOfMeasurement: string(entity.UnitOfMeasurement),
		Kcal:              entity.Kcal,
		CategoryID:        entity.CategoryID,
		CategorySlug:      entity.CategorySlug,
		ImageKey:          entity.ImageKey,
	}
}

func (ProductConverterImpl) ToEntity(model *ProductRedisModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:                model.ID,
		Name:              model.Name,
		Weight:            model.Weight,
		UnitOfMeasurement: domain.UnitOfMeasurement(model.UnitOfMeasurement),
		Kcal:              model.Kcal,
		CategoryID:        model.CategoryID,
		CategorySlug:      model.CategorySlug,
		ImageKey:          model.ImageKey,
	}
}

func (c ProductConverterImpl) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	result := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		result = append(result, *c.ToRedisModel(&entities[i]))
	}

	return result
}
