package converter

import (
	"time"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
)

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) *domain.Category
}

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []ProductModel) []domain.Product
}

type EatenProductConverter interface {
	ToModel(entity *domain.EatenProduct) *EatenProductModel
	ToEntity(model *EatenProductModel) *domain.EatenProduct
	ToArrEntity(models []EatenProductModel) []domain.EatenProduct
	ToArrDailyTotal(models []DailyTotalModel) []domain.DailyTotal
}

type UserConverter interface {
	ToModel(entity *domain.User) *UserModel
	ToEntity(model *UserModel) *domain.User
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type CategoryConverterImpl struct{}

func (CategoryConverterImpl) ToModel(entity *domain.Category) *CategoryModel {
	if entity == nil {
		return nil
	}

	return &CategoryModel{ID: entity.ID, Name: entity.Name, Slug: entity.Slug}
}

func (CategoryConverterImpl) ToEntity(model *CategoryModel) *domain.Category {
	if model == nil {
		return nil
	}

	return &domain.Category{ID: model.ID, Name: model.Name, Slug: model.Slug}
}

type ProductConverterImpl struct{}

func (ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
		ID:                entity.ID,
		Name:              entity.Name,
		Weight:            int16(entity.Weight),
		UnitOfMeasurement: string(entity.UnitOfMeasurement),
		Kcal:              int16(entity.Kcal),
		CategoryID:        entity.CategoryID,
		CategorySlug:      entity.CategorySlug,
		ImageKey:          entity.ImageKey,
	}
}

func (ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:                model.ID,
		Name:              model.Name,
		Weight:            int(model.Weight),
		UnitOfMeasurement: domain.UnitOfMeasurement(model.UnitOfMeasurement),
		Kcal:              int(model.Kcal),
		CategoryID:        model.CategoryID,
		CategorySlug:      model.CategorySlug,
		ImageKey:          model.ImageKey,
	}
}

func (c ProductConverterImpl) ToArrEntity(models []ProductModel) []domain.Product {
	result := make([]domain.Product, 0, len(models))
	for i := range models {
		result = append(result, *c.ToEntity(&models[i]))
	}

	return result
}

type EatenProductConverterImpl struct{}

func (EatenProductConverterImpl) ToModel(entity *domain.EatenProduct) *EatenProductModel {
	if entity == nil {
		return nil
	}

	return &EatenProductModel{
		ID:                entity.ID,
		PublicationDate:   ConvertDate(entity.PublicationDate),
		ProductID:         entity.ProductID,
		ProductName:       entity.ProductName,
		UserID:            entity.UserID,
		Weight:            int16(entity.Weight),
		Kcal:              int32(entity.Kcal),
		UnitOfMeasurement: string(entity.UnitOfMeasurement),
		CategoryID:        entity.CategoryID,
		CategorySlug:      entity.CategorySlug,
	}
}

func (EatenProductConverterImpl) ToEntity(model *EatenProductModel) *domain.EatenProduct {
	if model == nil {
		return nil
	}

	return &domain.EatenProduct{
		ID:                model.ID,
		PublicationDate:   ConvertDate(model.PublicationDate),
		ProductID:         model.ProductID,
		ProductName:       model.ProductName,
		UserID:            model.UserID,
		Weight:            int(model.Weight),
		Kcal:              int(model.Kcal),
		UnitOfMeasurement: domain.UnitOfMeasurement(model.UnitOfMeasurement),
		CategoryID:        model.CategoryID,
		CategorySlug:      model.CategorySlug,
	}
}

func (c EatenProductConverterImpl) ToArrEntity(models []EatenProductModel) []domain.EatenProduct {
	result := make([]domain.EatenProduct, 0, len(models))
	for i := range models {
		result = append(result, *c.ToEntity(&models[i]))
	}

	return result
}

func (EatenProductConverterImpl) ToArrDailyTotal(models []DailyTotalModel) []domain.DailyTotal {
	result := make([]domain.DailyTotal, 0, len(models))
	for _, m := range models {
		result = append(result, domain.DailyTotal{Date: ConvertDate(m.PublicationDate), TotalKcal: m.TotalKcal})
	}

	return result
}

type UserConverterImpl struct{}

func (UserConverterImpl) ToModel(entity *domain.User) *UserModel {
	if entity == nil {
		return nil
	}

	return &UserModel{
		ID:           entity.ID,
		Username:     entity.Username,
		Email:        entity.Email,
		PasswordHash: entity.PasswordHash,
		IsStaff:      entity.IsStaff,
		CreatedAt:    entity.CreatedAt,
	}
}

func (UserConverterImpl) ToEntity(model *UserModel) *domain.User {
	if model == nil {
		return nil
	}

	return &domain.User{
		ID:           model.ID,
		Username:     model.Username,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		IsStaff:      model.IsStaff,
		CreatedAt:    model.CreatedAt,
	}
}

type OutboxEventConverterImpl struct{}

func (OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}

	return &OutboxEventModel{
		ID:                  entity.ID,
		EventID:             entity.EventID,
		EventType:           entity.EventType,
		AggregateID:         entity.AggregateID,
		UserID:              entity.UserID,
		Payload:             entity.Payload,
		Status:              string(entity.Status),
		CreatedAt:           entity.CreatedAt,
		ProcessingStartedAt: entity.ProcessingStartedAt,
		ProcessedAt:         entity.ProcessedAt,
	}
}

func (OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}

	return &usecase.OutboxEvent{
		ID:                  model.ID,
		EventID:             model.EventID,
		EventType:           model.EventType,
		AggregateID:         model.AggregateID,
		UserID:              model.UserID,
		Payload:             model.Payload,
		Status:              usecase.OutboxStatus(model.Status),
		CreatedAt:           model.CreatedAt,
		ProcessingStartedAt: model.ProcessingStartedAt,
		ProcessedAt:         model.ProcessedAt,
	}
}

func (c OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}

	return result
}

// ConvertDate приводит DATE из PostgreSQL к полуночи UTC.
func ConvertDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
