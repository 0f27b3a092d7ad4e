package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
)

// optionalString различает отсутствующее поле и явный null в PATCH.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s

	return nil
}

// CATEGORIES

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=256,slug"`
}

type categoryPatchRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=256"`
	Slug *string `json:"slug" validate:"omitempty,max=256,slug"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func toCategoryResponses(cs []domain.Category) []CategoryResponse {
	result := make([]CategoryResponse, 0, len(cs))
	for i := range cs {
		result = append(result, toCategoryResponse(&cs[i]))
	}
	return result
}

// PRODUCTS

type productRequest struct {
	Name              string  `json:"name" validate:"required,max=256"`
	Weight            int     `json:"weight" validate:"required,min=1,max=32767"`
	UnitOfMeasurement string  `json:"unit_of_measurement" validate:"required,oneof=гр мл шт"`
	Kcal              *int    `json:"kcal" validate:"required,min=0,max=32767"`
	Category          *string `json:"category" validate:"omitempty,max=256,slug"`
}

func (p *productRequest) toCreateReq() *usecase.CreateProductReq {
	return &usecase.CreateProductReq{
		Name:              p.Name,
		Weight:            p.Weight,
		UnitOfMeasurement: domain.UnitOfMeasurement(p.UnitOfMeasurement),
		Kcal:              *p.Kcal,
		CategorySlug:      p.Category,
	}
}

// toUpdateReq для PUT: все поля заменяются, отсутствующая категория снимается.
func (p *productRequest) toUpdateReq(id int64) *usecase.UpdateProductReq {
	unit := domain.UnitOfMeasurement(p.UnitOfMeasurement)
	return &usecase.UpdateProductReq{
		ID:                id,
		Name:              &p.Name,
		Weight:            &p.Weight,
		UnitOfMeasurement: &unit,
		Kcal:              p.Kcal,
		CategorySet:       true,
		CategorySlug:      p.Category,
	}
}

type productPatchRequest struct {
	Name              *string        `json:"name" validate:"omitempty,min=1,max=256"`
	Weight            *int           `json:"weight" validate:"omitempty,min=1,max=32767"`
	UnitOfMeasurement *string        `json:"unit_of_measurement" validate:"omitempty,oneof=гр мл шт"`
	Kcal              *int           `json:"kcal" validate:"omitempty,min=0,max=32767"`
	Category          optionalString `json:"category" validate:"-"`
}

func (p *productPatchRequest) toUpdateReq(id int64) *usecase.UpdateProductReq {
	req := &usecase.UpdateProductReq{
		ID:           id,
		Name:         p.Name,
		Weight:       p.Weight,
		Kcal:         p.Kcal,
		CategorySet:  p.Category.Set,
		CategorySlug: p.Category.Value,
	}
	if p.UnitOfMeasurement != nil {
		unit := domain.UnitOfMeasurement(*p.UnitOfMeasurement)
		req.UnitOfMeasurement = &unit
	}
	return req
}

type ProductResponse struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Weight            int     `json:"weight"`
	UnitOfMeasurement string  `json:"unit_of_measurement"`
	Kcal              int     `json:"kcal"`
	Category          *string `json:"category"`
	Image             *string `json:"image"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Weight:            p.Weight,
		UnitOfMeasurement: string(p.UnitOfMeasurement),
		Kcal:              p.Kcal,
		Category:          p.CategorySlug,
	}
	if p.ImageKey != nil {
		url := fmt.Sprintf("/api/v1/products/%d/image", p.ID)
		resp.Image = &url
	}
	return resp
}

func toProductResponses(ps []domain.Product) []ProductResponse {
	result := make([]ProductResponse, 0, len(ps))
	for i := range ps {
		result = append(result, toProductResponse(&ps[i]))
	}
	return result
}

// MY PRODUCTS

type eatenProductRequest struct {
	Product int64 `json:"product" validate:"required,min=1"`
	Weight  int   `json:"weight" validate:"required,min=1,max=32767"`
}

type eatenProductPatchRequest struct {
	Product *int64 `json:"product" validate:"omitempty,min=1"`
	Weight  *int   `json:"weight" validate:"omitempty,min=1,max=32767"`
}

type EatenProductResponse struct {
	ID                int64   `json:"id"`
	PublicationDate   string  `json:"publication_date"`
	Product           string  `json:"product"`
	ProductID         int64   `json:"product_id"`
	Weight            int     `json:"weight"`
	Kcal              int     `json:"kcal"`
	UnitOfMeasurement string  `json:"unit_of_measurement"`
	Category          *string `json:"category"`
}

func toEatenProductResponse(ep *domain.EatenProduct) EatenProductResponse {
	return EatenProductResponse{
		ID:                ep.ID,
		PublicationDate:   ep.PublicationDate.Format(time.DateOnly),
		Product:           ep.ProductName,
		ProductID:         ep.ProductID,
		Weight:            ep.Weight,
		Kcal:              ep.Kcal,
		UnitOfMeasurement: string(ep.UnitOfMeasurement),
		Category:          ep.CategorySlug,
	}
}

func toEatenProductResponses(eps []domain.EatenProduct) []EatenProductResponse {
	result := make([]EatenProductResponse, 0, len(eps))
	for i := range eps {
		result = append(result, toEatenProductResponse(&eps[i]))
	}
	return result
}

// TOTAL KCAL

type DailyTotalResponse struct {
	Date            string `json:"date"`
	TotalKcalForDay int64  `json:"total_kcal_for_day"`
}

func toDailyTotalResponse(d *domain.DailyTotal) DailyTotalResponse {
	return DailyTotalResponse{Date: d.Date.Format(time.DateOnly), TotalKcalForDay: d.TotalKcal}
}

func toDailyTotalResponses(ds []domain.DailyTotal) []DailyTotalResponse {
	result := make([]DailyTotalResponse, 0, len(ds))
	for i := range ds {
		result = append(result, toDailyTotalResponse(&ds[i]))
	}
	return result
}

// AUTH

type registerRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type verifyRequest struct {
	Token string `json:"token" validate:"required"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, IsStaff: u.IsStaff}
}

type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AccessTokenResponse struct {
	Access string `json:"access"`
}
