package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
)

type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(product); err != nil {
		return nil, err
	}

	p := *product
	p.ID = r.s.nextID()
	r.s.products[p.ID] = p

	return r.s.productView(p), nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, e.ErrNotFound)
	}

	return r.s.productView(p), nil
}

func (r *ProductRepo) GetProductsInfo(_ context.Context, ids []int64) ([]domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			result = append(result, *r.s.productView(p))
		}
	}

	return result, nil
}

func (r *ProductRepo) List(_ context.Context, filter usecase.ProductFilter) ([]domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(filter.Search)
	result := make([]domain.Product, 0)
	for _, p := range r.s.products {
		view := r.s.productView(p)
		if filter.CategorySlug != nil && (view.CategorySlug == nil || *view.CategorySlug != *filter.CategorySlug) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		result = append(result, *view)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

func (r *ProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[product.ID]; !ok {
		return nil, fmt.Errorf("product %d: %w", product.ID, e.ErrNotFound)
	}

	if err := r.check(product); err != nil {
		return nil, err
	}

	r.s.products[product.ID] = *product

	return r.s.productView(*product), nil
}

func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, e.ErrNotFound)
	}
	delete(r.s.products, id)

	// ON DELETE CASCADE
	for eid, ep := range r.s.eaten {
		if ep.ProductID == id {
			delete(r.s.eaten, eid)
		}
	}

	return nil
}

func (r *ProductRepo) SetImageKey(_ context.Context, id int64, key string) (*string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, e.ErrNotFound)
	}

	prev := p.ImageKey
	p.ImageKey = ptr(key)
	r.s.products[id] = p

	return prev, nil
}

func (r *ProductRepo) IDsByCategory(_ context.Context, categoryID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var ids []int64
	for id, p := range r.s.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

func (r *ProductRepo) check(product *domain.Product) error {
	for _, p := range r.s.products {
		if p.ID != product.ID && p.Name == product.Name {
			return fmt.Errorf("product %q: %w", product.Name, e.ErrAlreadyExists)
		}
	}

	if product.CategoryID != nil {
		if _, ok := r.s.categories[*product.CategoryID]; !ok {
			return fmt.Errorf("category %d: %w", *product.CategoryID, e.ErrNotFound)
		}
	}

	return nil
}

// productView дополняет продукт slug категории, как join в SQL.
func (s *Store) productView(p domain.Product) *domain.Product {
	p.CategorySlug = s.categorySlug(p.CategoryID)
	return &p
}
