package usecase

import (
	"context"

	"github.com/DRSN-tech/calories-backend/internal/domain"
)

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (string, error)
	GetImage(ctx context.Context, key string) (*domain.ImageObject, error)
	CleanupImages(keys []string)
}

type TokenIssuer interface {
	Issue(userID int64, typ TokenType) (string, error)
	Parse(token string) (*TokenClaims, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// LedgerEventEncoder сериализует событие журнала в payload outbox.
type LedgerEventEncoder interface {
	Encode(event *LedgerEvent) ([]byte, error)
}

type LedgerMetrics interface {
	EatenProductChanged(eventType string)
}
