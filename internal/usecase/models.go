package usecase

import (
	"time"

	"github.com/DRSN-tech/calories-backend/internal/domain"
)

// CATEGORY USECASE

type CreateCategoryReq struct {
	Name string
	Slug string
}

// UpdateCategoryReq — PUT передаёт все поля, PATCH только изменённые.
type UpdateCategoryReq struct {
	Slug    string // текущий slug из пути
	Name    *string
	NewSlug *string
}

// PRODUCT USECASE

type ProductFilter struct {
	CategorySlug *string
	Search       string
}

type CreateProductReq struct {
	Name              string
	Weight            int
	UnitOfMeasurement domain.UnitOfMeasurement
	Kcal              int
	CategorySlug      *string
}

type UpdateProductReq struct {
	ID                int64
	Name              *string
	Weight            *int
	UnitOfMeasurement *domain.UnitOfMeasurement
	Kcal              *int
	CategorySet       bool    // категория передана в запросе, в том числе null
	CategorySlug      *string // nil при CategorySet снимает категорию
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

type UploadProductImageReq struct {
	ProductID int64
	Image     ProductImage
}

// GetProductsReq запрос информации о продуктах по их идентификаторам.
type GetProductsReq struct {
	IDs []int64
}

// GetProductsRes — найденные продукты в порядке запроса и ненайденные идентификаторы.
type GetProductsRes struct {
	Products         []domain.Product
	NotFoundProducts []int64
}

// EATEN PRODUCT USECASE

type EatenProductFilter struct {
	CategorySlug    *string
	PublicationDate *time.Time
	Search          string
}

type CreateEatenProductReq struct {
	ProductID int64
	Weight    int
}

type UpdateEatenProductReq struct {
	ID        int64
	ProductID *int64
	Weight    *int
}

// AUTH USECASE

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

type TokenClaims struct {
	UserID int64
	Type   TokenType
}

type TokenPair struct {
	Access  string
	Refresh string
}

type RegisterReq struct {
	Username string
	Email    string
	Password string
}

type LoginReq struct {
	Username string
	Password string
}

// INFRASTUCTURE

// UploadImageReq описывает загрузку изображения продукта.
type UploadImageReq struct {
	ProductID int64
	Image     ProductImage
}

type WriteRawMessageReq struct {
	Key     int64
	Payload []byte
}

// MAPPERS

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewGetProductsReq(ids []int64) *GetProductsReq {
	return &GetProductsReq{ids}
}

func NewGetProductsRes(pr []domain.Product, notFoundProducts []int64) *GetProductsRes {
	return &GetProductsRes{
		Products:         pr,
		NotFoundProducts: notFoundProducts,
	}
}

func NewUploadImageReq(productID int64, image ProductImage) *UploadImageReq {
	return &UploadImageReq{
		ProductID: productID,
		Image:     image,
	}
}

func NewWriteRawMessageReq(key int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}
