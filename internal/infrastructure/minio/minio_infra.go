package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/infrastructure"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/jitter"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	cleanupAttempts = 3
	cleanupTimeout  = 30 * time.Second
)

// MinioInfrastructure управляет загрузкой и фоновой очисткой изображений продуктов.
type MinioInfrastructure struct {
	minioRepo   usecase.ImageRepository
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup

	backoffBase time.Duration
	backoffMax  time.Duration
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		minioRepo:   minioRepo,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		backoffBase: time.Second,
		backoffMax:  8 * time.Second,
	}
}

// UploadImage загружает изображение продукта под ключом products/<id>/<uuid>.<ext>.
func (m *MinioInfrastructure) UploadImage(ctx context.Context, req *usecase.UploadImageReq) (string, error) {
	const op = "MinioInfrastructure.UploadImage"

	ext, err := infrastructure.GetExtensionFromMIME(req.Image.MimeType)
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("invalid mime type %s for %s: %w", req.Image.MimeType, req.Image.Name, err))
	}

	objKey := fmt.Sprintf("products/%d/%s.%s", req.ProductID, uuid.NewString(), ext)
	key, err := m.minioRepo.Upload(ctx, domain.NewImage(objKey, req.Image.Data, req.Image.MimeType))
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("upload %s failed: %w", req.Image.Name, err))
	}

	return key, nil
}

func (m *MinioInfrastructure) GetImage(ctx context.Context, key string) (*domain.ImageObject, error) {
	img, err := m.minioRepo.Get(ctx, key)
	if err != nil {
		return nil, e.Wrap("MinioInfrastructure.GetImage", err)
	}

	return img, nil
}

// CleanupImages запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет указанные объекты из MinIO с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Debugf("%s: cleaning up %d keys", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.minioRepo.Delete(ctx, key)
			if err == nil {
				break
			}

			if attempt == cleanupAttempts-1 {
				m.logger.Errorf(e.Wrap(op, err), "failed to delete image, key=%s", key)
				break
			}

			delay := jitter.ExponentialBackoff(m.backoffBase, m.backoffMax, attempt, jitter.DefaultJitter)
			if err := jitter.Sleep(ctx, delay); err != nil {
				m.logger.Warnf("cleanup interrupted by shutdown during backoff, key=%v", key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
