package kafka

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// LedgerEncoder кодирует события журнала в google.protobuf.Struct.
// Потребителям не нужна сгенерированная схема: достаточно well-known типа.
type LedgerEncoder struct{}

func NewLedgerEncoder() *LedgerEncoder {
	return &LedgerEncoder{}
}

func (LedgerEncoder) Encode(event *usecase.LedgerEvent) ([]byte, error) {
	const op = "LedgerEncoder.Encode"

	st, err := structpb.NewStruct(map[string]any{
		"event_id":         event.EventID,
		"type":             event.Type,
		"eaten_product_id": event.EatenProductID,
		"user_id":          event.UserID,
		"product_id":       event.ProductID,
		"publication_date": event.PublicationDate.Format(time.DateOnly),
		"weight":           event.Weight,
		"kcal":             event.Kcal,
		"occurred_at":      event.OccurredAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	payload, err := proto.Marshal(st)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return payload, nil
}

// Decode разбирает payload обратно в событие.
func (LedgerEncoder) Decode(payload []byte) (*usecase.LedgerEvent, error) {
	const op = "LedgerEncoder.Decode"

	var st structpb.Struct
	if err := proto.Unmarshal(payload, &st); err != nil {
		return nil, e.Wrap(op, err)
	}

	f := st.GetFields()
	str := func(key string) string { return f[key].GetStringValue() }
	num := func(key string) float64 { return f[key].GetNumberValue() }

	date, err := time.Parse(time.DateOnly, str("publication_date"))
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("publication_date: %w", err))
	}

	occurredAt, err := time.Parse(time.RFC3339Nano, str("occurred_at"))
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("occurred_at: %w", err))
	}

	return &usecase.LedgerEvent{
		EventID:         str("event_id"),
		Type:            str("type"),
		EatenProductID:  int64(num("eaten_product_id")),
		UserID:          int64(num("user_id")),
		ProductID:       int64(num("product_id")),
		PublicationDate: date,
		Weight:          int(num("weight")),
		Kcal:            int(num("kcal")),
		OccurredAt:      occurredAt,
	}, nil
}
