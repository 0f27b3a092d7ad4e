package memory

import (
	"context"
	"sort"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/usecase"
)

type OutboxRepo struct {
	s *Store
}

func (r *OutboxRepo) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ev := *event
	ev.ID = r.s.nextID()
	r.s.outbox[ev.ID] = &ev

	out := ev
	return &out, nil
}

func (r *OutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pending := make([]*usecase.OutboxEvent, 0)
	for _, ev := range r.s.outbox {
		if ev.Status == usecase.Pending {
			pending = append(pending, ev)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })

	if len(pending) > limit {
		pending = pending[:limit]
	}

	now := time.Now().UTC()
	result := make([]*usecase.OutboxEvent, 0, len(pending))
	for _, ev := range pending {
		ev.Status = usecase.Processing
		ev.ProcessingStartedAt = &now
		out := *ev
		result = append(result, &out)
	}

	return result, nil
}

func (r *OutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if ev, ok := r.s.outbox[id]; ok && ev.Status == usecase.Processing {
		now := time.Now().UTC()
		ev.Status = usecase.Processed
		ev.ProcessedAt = &now
	}

	return nil
}

func (r *OutboxRepo) RequeueStale(_ context.Context, olderThan time.Duration) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	deadline := time.Now().Add(-olderThan)
	for _, ev := range r.s.outbox {
		if ev.Status == usecase.Processing && ev.ProcessingStartedAt != nil && ev.ProcessingStartedAt.Before(deadline) {
			ev.Status = usecase.Pending
			ev.ProcessingStartedAt = nil
			n++
		}
	}

	return n, nil
}

// Events возвращает копии всех событий в порядке создания.
func (r *OutboxRepo) Events() []usecase.OutboxEvent {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]usecase.OutboxEvent, 0, len(r.s.outbox))
	for _, ev := range r.s.outbox {
		result = append(result, *ev)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result
}
