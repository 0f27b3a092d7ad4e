package memory

import (
	"context"
	"sync"

	"github.com/DRSN-tech/calories-backend/internal/domain"
)

// CacheRepo хранит продукты в памяти, без TTL.
type CacheRepo struct {
	mu       sync.Mutex
	products map[int64]domain.Product
}

func NewCacheRepo() *CacheRepo {
	return &CacheRepo{products: make(map[int64]domain.Product)}
}

func (c *CacheRepo) GetProducts(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[int64]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			result[id] = p
		}
	}

	return result, nil
}

func (c *CacheRepo) SetProducts(_ context.Context, products []domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range products {
		c.products[p.ID] = p
	}

	return nil
}

func (c *CacheRepo) DeleteProducts(_ context.Context, ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		delete(c.products, id)
	}

	return nil
}

func (c *CacheRepo) Has(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.products[id]
	return ok
}
