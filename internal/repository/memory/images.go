package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/google/uuid"
)

// Images хранит изображения продуктов. Очистка выполняется синхронно.
type Images struct {
	mu      sync.Mutex
	objects map[string]domain.Image
}

func NewImages() *Images {
	return &Images{objects: make(map[string]domain.Image)}
}

func (i *Images) UploadImage(_ context.Context, req *usecase.UploadImageReq) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	key := fmt.Sprintf("products/%d/%s", req.ProductID, uuid.NewString())
	i.objects[key] = *domain.NewImage(key, req.Image.Data, req.Image.MimeType)

	return key, nil
}

func (i *Images) GetImage(_ context.Context, key string) (*domain.ImageObject, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	img, ok := i.objects[key]
	if !ok {
		return nil, fmt.Errorf("image %s: %w", key, e.ErrNotFound)
	}

	return &domain.ImageObject{
		Body:        io.NopCloser(bytes.NewReader(img.Bytes)),
		Size:        img.Size,
		ContentType: img.ContentType,
	}, nil
}

func (i *Images) CleanupImages(keys []string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, key := range keys {
		delete(i.objects, key)
	}
}

func (i *Images) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	return len(i.objects)
}
