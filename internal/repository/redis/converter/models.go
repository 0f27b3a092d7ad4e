package converter

// ProductRedisModel — JSON продукта в кэше по ключу product:<id>.
type ProductRedisModel struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Weight            int     `json:"weight"`
	UnitOfMeasurement string  `json:"unit_of_measurement"`
	Kcal              int     `json:"kcal"`
	CategoryID        *int64  `json:"category_id,omitempty"`
	CategorySlug      *string `json:"category_slug,omitempty"`
	ImageKey          *string `json:"image_key,omitempty"`
}
