package domain

import "time"

// EatenProduct — запись журнала питания. Kcal, UnitOfMeasurement и CategoryID
// копируются из продукта в момент записи и не следуют за его изменениями.
type EatenProduct struct {
	ID                int64
	PublicationDate   time.Time // только дата, время 00:00
	ProductID         int64
	ProductName       string // заполняется при чтении
	UserID            int64
	Weight            int
	Kcal              int
	UnitOfMeasurement UnitOfMeasurement
	CategoryID        *int64
	CategorySlug      *string // заполняется при чтении
}

// Snapshot пересчитывает калории и копирует поля продукта в запись.
func (ep *EatenProduct) Snapshot(product *Product) error {
	kcal, err := CalculateKcal(product.Kcal, product.Weight, ep.Weight)
	if err != nil {
		return err
	}

	ep.ProductID = product.ID
	ep.ProductName = product.Name
	ep.Kcal = kcal
	ep.UnitOfMeasurement = product.UnitOfMeasurement
	ep.CategoryID = product.CategoryID
	ep.CategorySlug = product.CategorySlug

	return nil
}

// DateOf отбрасывает время, оставляя календарную дату в часовом поясе t.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
