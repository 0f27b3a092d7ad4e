package converter

import "time"

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

// ProductModel представляет запись таблицы products вместе со slug категории.
type ProductModel struct {
	ID                int64   `db:"id"`
	Name              string  `db:"name"`
	Weight            int16   `db:"weight"`
	UnitOfMeasurement string  `db:"unit_of_measurement"`
	Kcal              int16   `db:"kcal"`
	CategoryID        *int64  `db:"category_id"`
	CategorySlug      *string `db:"category_slug"`
	ImageKey          *string `db:"image_key"`
}

// EatenProductModel представляет запись таблицы eaten_products с именем продукта и slug категории.
type EatenProductModel struct {
	ID                int64     `db:"id"`
	PublicationDate   time.Time `db:"publication_date"`
	ProductID         int64     `db:"product_id"`
	ProductName       string    `db:"product_name"`
	UserID            int64     `db:"user_id"`
	Weight            int16     `db:"weight"`
	Kcal              int32     `db:"kcal"`
	UnitOfMeasurement string    `db:"unit_of_measurement"`
	CategoryID        *int64    `db:"category_id"`
	CategorySlug      *string   `db:"category_slug"`
}

type DailyTotalModel struct {
	PublicationDate time.Time `db:"publication_date"`
	TotalKcal       int64     `db:"total_kcal"`
}

type UserModel struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsStaff      bool      `db:"is_staff"`
	CreatedAt    time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events.
type OutboxEventModel struct {
	ID                  int64      `db:"id"`
	EventID             string     `db:"event_id"`
	EventType           string     `db:"event_type"`
	AggregateID         int64      `db:"aggregate_id"`
	UserID              int64      `db:"user_id"`
	Payload             []byte     `db:"payload"`
	Status              string     `db:"status"`
	CreatedAt           time.Time  `db:"created_at"`
	ProcessingStartedAt *time.Time `db:"processing_started_at"`
	ProcessedAt         *time.Time `db:"processed_at"`
}
