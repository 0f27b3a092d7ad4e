package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/pkg/e"
)

type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return nil, fmt.Errorf("user %q: %w", user.Username, e.ErrAlreadyExists)
		}
	}

	u := *user
	u.ID = r.s.nextID()
	u.CreatedAt = time.Now().UTC()
	r.s.users[u.ID] = u

	return &u, nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, e.ErrNotFound)
	}

	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}

	return nil, fmt.Errorf("user %q: %w", username, e.ErrNotFound)
}

// Delete удаляет пользователя вместе с его журналом.
func (r *UserRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.users, id)
	for eid, ep := range r.s.eaten {
		if ep.UserID == id {
			delete(r.s.eaten, eid)
		}
	}

	return nil
}
