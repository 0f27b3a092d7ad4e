package domain

const (
	NameMaxLength = 256
	MaxSmallInt   = 32767
)

// UnitOfMeasurement — единица, в которой указан вес продукта.
type UnitOfMeasurement string

const (
	UnitGram       UnitOfMeasurement = "гр"
	UnitMilliliter UnitOfMeasurement = "мл"
	UnitPiece      UnitOfMeasurement = "шт"
)

var Units = []UnitOfMeasurement{UnitGram, UnitMilliliter, UnitPiece}

func (u UnitOfMeasurement) Valid() bool {
	for _, v := range Units {
		if u == v {
			return true
		}
	}

	return false
}

// Product описывает продукт каталога: Kcal калорий на Weight единиц.
type Product struct {
	ID                int64
	Name              string
	Weight            int
	UnitOfMeasurement UnitOfMeasurement
	Kcal              int
	CategoryID        *int64
	CategorySlug      *string // заполняется при чтении, join по categories
	ImageKey          *string
}

func NewProduct(name string, weight int, unit UnitOfMeasurement, kcal int, categoryID *int64) *Product {
	return &Product{
		Name:              name,
		Weight:            weight,
		UnitOfMeasurement: unit,
		Kcal:              kcal,
		CategoryID:        categoryID,
	}
}
