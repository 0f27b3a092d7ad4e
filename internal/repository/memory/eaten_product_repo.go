package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
)

type EatenProductRepo struct {
	s *Store
}

func (r *EatenProductRepo) Create(_ context.Context, ep *domain.EatenProduct) (*domain.EatenProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(ep); err != nil {
		return nil, err
	}

	row := *ep
	row.ID = r.s.nextID()
	r.s.eaten[row.ID] = row

	return r.s.eatenView(row), nil
}

func (r *EatenProductRepo) GetByID(_ context.Context, id int64) (*domain.EatenProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ep, ok := r.s.eaten[id]
	if !ok {
		return nil, fmt.Errorf("eaten product %d: %w", id, e.ErrNotFound)
	}

	return r.s.eatenView(ep), nil
}

func (r *EatenProductRepo) List(_ context.Context, userID int64, filter usecase.EatenProductFilter) ([]domain.EatenProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(filter.Search)
	result := make([]domain.EatenProduct, 0)
	for _, ep := range r.s.eaten {
		if ep.UserID != userID {
			continue
		}
		view := r.s.eatenView(ep)
		if filter.CategorySlug != nil && (view.CategorySlug == nil || *view.CategorySlug != *filter.CategorySlug) {
			continue
		}
		if filter.PublicationDate != nil && !view.PublicationDate.Equal(domain.DateOf(*filter.PublicationDate)) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(view.ProductName), search) {
			continue
		}
		result = append(result, *view)
	}
	sortEaten(result)

	return result, nil
}

func (r *EatenProductRepo) Update(_ context.Context, ep *domain.EatenProduct) (*domain.EatenProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.eaten[ep.ID]
	if !ok || current.UserID != ep.UserID {
		return nil, fmt.Errorf("eaten product %d: %w", ep.ID, e.ErrNotFound)
	}

	if err := r.check(ep); err != nil {
		return nil, err
	}

	row := *ep
	row.PublicationDate = current.PublicationDate
	r.s.eaten[row.ID] = row

	return r.s.eatenView(row), nil
}

func (r *EatenProductRepo) Delete(_ context.Context, id, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ep, ok := r.s.eaten[id]
	if !ok || ep.UserID != userID {
		return fmt.Errorf("eaten product %d: %w", id, e.ErrNotFound)
	}
	delete(r.s.eaten, id)

	return nil
}

func (r *EatenProductRepo) DailyTotals(_ context.Context, userID int64, date *time.Time) ([]domain.DailyTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var entries []domain.EatenProduct
	for _, ep := range r.s.eaten {
		if ep.UserID != userID {
			continue
		}
		if date != nil && !domain.DateOf(ep.PublicationDate).Equal(domain.DateOf(*date)) {
			continue
		}
		entries = append(entries, ep)
	}

	return domain.AggregateDaily(entries), nil
}

// Rows возвращает все записи без учёта владельца. Для проверок в тестах.
func (r *EatenProductRepo) Rows() []domain.EatenProduct {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]domain.EatenProduct, 0, len(r.s.eaten))
	for _, ep := range r.s.eaten {
		result = append(result, *r.s.eatenView(ep))
	}
	sortEaten(result)

	return result
}

func (r *EatenProductRepo) check(ep *domain.EatenProduct) error {
	if _, ok := r.s.products[ep.ProductID]; !ok {
		return fmt.Errorf("product %d: %w", ep.ProductID, e.ErrNotFound)
	}
	if _, ok := r.s.users[ep.UserID]; !ok {
		return fmt.Errorf("user %d: %w", ep.UserID, e.ErrNotFound)
	}

	return nil
}

func (s *Store) eatenView(ep domain.EatenProduct) *domain.EatenProduct {
	if p, ok := s.products[ep.ProductID]; ok {
		ep.ProductName = p.Name
	}
	ep.CategorySlug = s.categorySlug(ep.CategoryID)

	return &ep
}

func sortEaten(entries []domain.EatenProduct) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].PublicationDate.Equal(entries[j].PublicationDate) {
			return entries[i].PublicationDate.After(entries[j].PublicationDate)
		}
		return entries[i].ID > entries[j].ID
	})
}
