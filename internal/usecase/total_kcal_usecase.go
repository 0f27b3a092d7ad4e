package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/pkg/e"
)

// TotalKcalUseCase отдаёт суммы калорий пользователя по дням.
type TotalKcalUseCase struct {
	eatenRepo EatenProductRepository
}

func NewTotalKcalUC(eatenRepo EatenProductRepository) *TotalKcalUseCase {
	return &TotalKcalUseCase{eatenRepo: eatenRepo}
}

// List возвращает суммы за все дни, начиная с последнего.
func (t *TotalKcalUseCase) List(ctx context.Context, subject *access.Subject) ([]domain.DailyTotal, error) {
	const op = "TotalKcalUseCase.List"

	if err := t.check(subject); err != nil {
		return nil, e.Wrap(op, err)
	}

	totals, err := t.eatenRepo.DailyTotals(ctx, subject.UserID, nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return totals, nil
}

// Get возвращает сумму за один день. Если записей за день нет, это NotFound.
func (t *TotalKcalUseCase) Get(ctx context.Context, subject *access.Subject, date time.Time) (*domain.DailyTotal, error) {
	const op = "TotalKcalUseCase.Get"

	if err := t.check(subject); err != nil {
		return nil, e.Wrap(op, err)
	}

	day := domain.DateOf(date)
	totals, err := t.eatenRepo.DailyTotals(ctx, subject.UserID, &day)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(totals) == 0 {
		return nil, e.Wrap(op, fmt.Errorf("no entries for %s: %w", day.Format(time.DateOnly), e.ErrNotFound))
	}

	return &totals[0], nil
}

func (t *TotalKcalUseCase) check(subject *access.Subject) error {
	return access.Check(access.Request{Resource: access.DailyTotal, Action: access.Read, Subject: subject})
}
