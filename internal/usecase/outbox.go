package usecase

import "time"

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

const (
	EventEatenProductCreated = "eaten_product.created"
	EventEatenProductUpdated = "eaten_product.updated"
	EventEatenProductDeleted = "eaten_product.deleted"
)

// OutboxEvent — событие, записанное в одной транзакции с изменением журнала.
type OutboxEvent struct {
	ID                  int64
	EventID             string
	EventType           string
	AggregateID         int64
	UserID              int64
	Payload             []byte
	Status              OutboxStatus
	CreatedAt           time.Time
	ProcessingStartedAt *time.Time
	ProcessedAt         *time.Time
}

// LedgerEvent — содержимое события об изменении журнала питания.
type LedgerEvent struct {
	EventID         string
	Type            string
	EatenProductID  int64
	UserID          int64
	ProductID       int64
	PublicationDate time.Time
	Weight          int
	Kcal            int
	OccurredAt      time.Time
}

func NewOutboxEvent(event *LedgerEvent, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:     event.EventID,
		EventType:   event.Type,
		AggregateID: event.EatenProductID,
		UserID:      event.UserID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   event.OccurredAt,
	}
}
