package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/pkg/e"
)

type CategoryRepo struct {
	s *Store
}

func (r *CategoryRepo) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.unique(category); err != nil {
		return nil, err
	}

	c := *category
	c.ID = r.s.nextID()
	r.s.categories[c.ID] = c

	return &c, nil
}

func (r *CategoryRepo) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categoryBySlug(slug)
	if !ok {
		return nil, fmt.Errorf("category %q: %w", slug, e.ErrNotFound)
	}

	return &c, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slug < result[j].Slug })

	return result, nil
}

func (r *CategoryRepo) Update(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[category.ID]; !ok {
		return nil, fmt.Errorf("category %d: %w", category.ID, e.ErrNotFound)
	}

	if err := r.unique(category); err != nil {
		return nil, err
	}

	r.s.categories[category.ID] = *category
	c := *category

	return &c, nil
}

func (r *CategoryRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, e.ErrNotFound)
	}
	delete(r.s.categories, id)

	// ON DELETE SET NULL
	for pid, p := range r.s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			r.s.products[pid] = p
		}
	}
	for eid, ep := range r.s.eaten {
		if ep.CategoryID != nil && *ep.CategoryID == id {
			ep.CategoryID = nil
			r.s.eaten[eid] = ep
		}
	}

	return nil
}

func (r *CategoryRepo) unique(category *domain.Category) error {
	for _, c := range r.s.categories {
		if c.ID == category.ID {
			continue
		}
		if c.Name == category.Name || c.Slug == category.Slug {
			return fmt.Errorf("category %q: %w", category.Slug, e.ErrAlreadyExists)
		}
	}

	return nil
}

func (s *Store) categoryBySlug(slug string) (domain.Category, bool) {
	for _, c := range s.categories {
		if c.Slug == slug {
			return c, true
		}
	}

	return domain.Category{}, false
}

func (s *Store) categorySlug(id *int64) *string {
	if id == nil {
		return nil
	}

	c, ok := s.categories[*id]
	if !ok {
		return nil
	}

	return ptr(c.Slug)
}
