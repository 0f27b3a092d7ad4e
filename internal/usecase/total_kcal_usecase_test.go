package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalKcalUseCase(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	p := env.mustProduct(t, "bread", 100, 100, domain.UnitGram, nil)

	d1 := domain.DateOf(today)
	d2 := d1.Add(24 * time.Hour)

	eat := func(weight int) {
		_, err := env.eaten.Create(ctx, env.author, &usecase.CreateEatenProductReq{ProductID: p.ID, Weight: weight})
		require.NoError(t, err)
	}

	eat(100)
	eat(50)
	env.eaten.WithClock(func() time.Time { return d2.Add(10 * time.Hour) })
	eat(30)

	// чужие записи не попадают в сумму
	_, err := env.eaten.Create(ctx, env.reader, &usecase.CreateEatenProductReq{ProductID: p.ID, Weight: 1000})
	require.NoError(t, err)

	totals, err := env.total.List(ctx, env.author)
	require.NoError(t, err)
	assert.Equal(t, []domain.DailyTotal{
		{Date: d2, TotalKcal: 30},
		{Date: d1, TotalKcal: 150},
	}, totals)

	day, err := env.total.Get(ctx, env.author, d1)
	require.NoError(t, err)
	assert.Equal(t, int64(150), day.TotalKcal)

	_, err = env.total.Get(ctx, env.author, d1.Add(-24*time.Hour))
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = env.total.List(ctx, nil)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestTotalKcalUseCase_Empty(t *testing.T) {
	env := newEnv(t)

	totals, err := env.total.List(context.Background(), env.author)
	require.NoError(t, err)
	assert.Empty(t, totals)
}
