package usecase_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/repository/memory"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/stretchr/testify/require"
)

type jsonEncoder struct{}

func (jsonEncoder) Encode(event *usecase.LedgerEvent) ([]byte, error) {
	return json.Marshal(event)
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *countingMetrics) EatenProductChanged(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[eventType]++
}

func (m *countingMetrics) get(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[eventType]
}

var today = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	store   *memory.Store
	cache   *memory.CacheRepo
	images  *memory.Images
	metrics *countingMetrics

	category *usecase.CategoryUseCase
	product  *usecase.ProductUseCase
	eaten    *usecase.EatenProductUseCase
	total    *usecase.TotalKcalUseCase

	admin  *access.Subject
	author *access.Subject
	reader *access.Subject
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	cache := memory.NewCacheRepo()
	images := memory.NewImages()
	metrics := &countingMetrics{counts: map[string]int{}}
	log := logger.NewNop()
	tx := memory.TxManager{}

	env := &testEnv{
		store:    store,
		cache:    cache,
		images:   images,
		metrics:  metrics,
		category: usecase.NewCategoryUC(store.Categories(), store.Products(), cache, tx, log),
		product:  usecase.NewProductUC(store.Products(), store.Categories(), cache, images, tx, log),
		eaten: usecase.NewEatenProductUC(
			store.EatenProducts(), store.Products(), store.Outbox(), jsonEncoder{}, tx, metrics, log, time.UTC,
		).WithClock(func() time.Time { return today }),
		total: usecase.NewTotalKcalUC(store.EatenProducts()),
	}

	env.admin = env.user(t, "admin", true)
	env.author = env.user(t, "author", false)
	env.reader = env.user(t, "reader", false)

	return env
}

func (env *testEnv) user(t *testing.T, name string, staff bool) *access.Subject {
	t.Helper()

	u, err := env.store.Users().Create(context.Background(), domain.NewUser(name, name+"@example.com", "x", staff))
	require.NoError(t, err)

	return &access.Subject{UserID: u.ID, Admin: staff}
}

func (env *testEnv) mustCategory(t *testing.T, name, slug string) *domain.Category {
	t.Helper()

	c, err := env.category.Create(context.Background(), env.admin, &usecase.CreateCategoryReq{Name: name, Slug: slug})
	require.NoError(t, err)

	return c
}

func (env *testEnv) mustProduct(t *testing.T, name string, weight, kcal int, unit domain.UnitOfMeasurement, categorySlug *string) *domain.Product {
	t.Helper()

	p, err := env.product.Create(context.Background(), env.admin, &usecase.CreateProductReq{
		Name:              name,
		Weight:            weight,
		UnitOfMeasurement: unit,
		Kcal:              kcal,
		CategorySlug:      categorySlug,
	})
	require.NoError(t, err)

	return p
}

func ptr[T any](v T) *T { return &v }
