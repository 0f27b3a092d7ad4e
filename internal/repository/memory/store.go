// Package memory хранит данные в памяти процесса. Используется в тестах
// usecase и delivery вместо PostgreSQL, Redis и MinIO.
package memory

import (
	"context"
	"sync"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
)

// Store — общее состояние всех репозиториев. Повторяет ограничения схемы БД:
// уникальность, каскадное удаление и обнуление категории.
type Store struct {
	mu sync.Mutex

	categories map[int64]domain.Category
	products   map[int64]domain.Product
	eaten      map[int64]domain.EatenProduct
	users      map[int64]domain.User
	outbox     map[int64]*usecase.OutboxEvent
	lastID     int64
}

func NewStore() *Store {
	return &Store{
		categories: make(map[int64]domain.Category),
		products:   make(map[int64]domain.Product),
		eaten:      make(map[int64]domain.EatenProduct),
		users:      make(map[int64]domain.User),
		outbox:     make(map[int64]*usecase.OutboxEvent),
	}
}

func (s *Store) nextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{s} }
func (s *Store) EatenProducts() *EatenProductRepo { return &EatenProductRepo{s} }
func (s *Store) Users() *UserRepo { return &UserRepo{s} }
func (s *Store) Outbox() *OutboxRepo { return &OutboxRepo{s} }

// TxManager выполняет функцию без транзакции.
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func ptr[T any](v T) *T { return &v }
