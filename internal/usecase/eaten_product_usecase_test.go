package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/repository/memory"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEatenProductUseCase_Create(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	env.mustCategory(t, "Fruits", "fruits")
	apple := env.mustProduct(t, "apple", 100, 52, domain.UnitGram, ptr("fruits"))

	ep, err := env.eaten.Create(ctx, env.author, &usecase.CreateEatenProductReq{ProductID: apple.ID, Weight: 150})
	require.NoError(t, err)

	assert.Equal(t, 78, ep.Kcal)
	assert.Equal(t, domain.UnitGram, ep.UnitOfMeasurement)
	assert.Equal(t, apple.CategoryID, ep.CategoryID)
	assert.Equal(t, "fruits", *ep.CategorySlug)
	assert.Equal(t, "apple", ep.ProductName)
	assert.Equal(t, env.author.UserID, ep.UserID)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), ep.PublicationDate)

	events := env.store.Outbox().Events()
	require.Len(t, events, 1)
	assert.Equal(t, usecase.EventEatenProductCreated, events[0].EventType)
	assert.Equal(t, usecase.Pending, events[0].Status)
	assert.Equal(t, ep.ID, events[0].AggregateID)
	assert.Equal(t, env.author.UserID, events[0].UserID)

	var payload usecase.LedgerEvent
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, 78, payload.Kcal)
	assert.Equal(t, apple.ID, payload.ProductID)

	assert.Equal(t, 1, env.metrics.get(usecase.EventEatenProductCreated))
}

func TestEatenProductUseCase_CreateErrors(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	apple := env.mustProduct(t, "apple", 100, 52, domain.UnitGram, nil)

	_, err := env.eaten.Create(ctx, nil, &usecase.CreateEatenProductReq{ProductID: apple.ID, Weight: 10})
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	_, err = env.eaten.Create(ctx, env.author, &usecase.CreateEatenProductReq{ProductID: apple.ID + 100, Weight: 10})
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = env.eaten.Create(ctx, env.author, &usecase.CreateEatenProductReq{ProductID: apple.ID, Weight: 0})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	assert.Empty(t, env.store.Outbox().Events())
	assert.Empty(t, env.store.EatenProducts().Rows())
}

func TestEatenProductUseCase_SnapshotSurvivesProductChange(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	apple := env.mustProduct(t, "apple", 100, 52, domain.UnitGram, nil)

	ep, err := env.eaten.Create(ctx, env.author, &usecase.CreateEatenProductReq{ProductID: apple.ID, Weight: 200})
	require.NoError(t, err)

	_, err = env.product.Update(ctx, env.admin, &usecase.UpdateProductReq{ID: apple.ID, Kcal: ptr(1000), UnitOfMeasurement: ptr(domain.UnitPiece)})
	require.NoError(t, err)

	got, err := env.eaten.Get(ctx, env.author, ep.ID)
	require.NoError(t, err)
	assert.Equal(t, 104, got.Kcal)
	assert.Equal(t, domain.UnitGram, got.UnitOfMeasurement)
}

func TestEatenProductUseCase_OtherUsersRecordIsNotFound(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	apple := env.mustProduct(t, "apple", 100, 52, domain.UnitGram, nil)

	ep, err := env.eaten.Create(ctx, env.author, &usecase.CreateEatenProductReq{ProductID: apple.ID, Weight: 100})
	require.NoError(t, err)

	_, err = env.eaten.Get(ctx, env.reader, ep.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = env.eaten.Update(ctx, env.reader, &usecase.UpdateEatenProductReq{ID: ep.ID, Weight: ptr(500)})
	assert.ErrorIs(t, err, e.ErrNotFound)

	assert.ErrorIs(t, env.eaten.Delete(ctx, env.reader, ep.ID), e.ErrNotFound)

	// администратор не видит чужой журнал
	_, err = env.eaten.Get(ctx, env.admin, ep.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)

	rows := env.store.EatenProducts().Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, 100, rows[0].Weight)
	assert.Equal(t, 52, rows[0].Kcal)

	list, err := env.eaten.List(ctx, env.reader, usecase.EatenProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEatenProductUseCase_UpdateResnapshots(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	env.mustCategory(t, "Drinks", "drinks")
	apple := env.mustProduct(t, "apple", 100, 52, domain.UnitGram, nil)
	milk := env.mustProduct(t, "milk", 100, 60, domain.UnitMilliliter, ptr("drinks"))

	ep, err := env.eaten.Create(ctx, env.author, &usecase.CreateEatenProductReq{ProductID: apple.ID, Weight: 100})
	require.NoError(t, err)

	later := today.Add(48 * time.Hour)
	env.eaten.WithClock(func() time.Time { return later })

	updated, err := env.eaten.Update(ctx, env.author, &usecase.UpdateEatenProductReq{ID: ep.ID, ProductID: ptr(milk.ID), Weight: ptr(250)})
	require.NoError(t, err)
	assert.Equal(t, 150, updated.Kcal)
	assert.Equal(t, domain.UnitMilliliter, updated.UnitOfMeasurement)
	assert.Equal(t, "milk", updated.ProductName)
	assert.Equal(t, "drinks", *updated.CategorySlug)
	assert.Equal(t, ep.PublicationDate, updated.PublicationDate)

	_, err = env.eaten.Update(ctx, env.author, &usecase.UpdateEatenProductReq{ID: ep.ID, ProductID: ptr(int64(9999))})
	assert.ErrorIs(t, err, e.ErrNotFound)

	events := env.store.Outbox().Events()
	require.Len(t, events, 2)
	assert.Equal(t, usecase.EventEatenProductUpdated, events[1].EventType)
}

func TestEatenProductUseCase_Delete(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	apple := env.mustProduct(t, "apple", 100, 52, domain.UnitGram, nil)

	ep, err := env.eaten.Create(ctx, env.author, &usecase.CreateEatenProductReq{ProductID: apple.ID, Weight: 100})
	require.NoError(t, err)

	assert.ErrorIs(t, env.eaten.Delete(ctx, nil, ep.ID), e.ErrUnauthorized)
	require.NoError(t, env.eaten.Delete(ctx, env.author, ep.ID))
	assert.ErrorIs(t, env.eaten.Delete(ctx, env.author, ep.ID), e.ErrNotFound)

	events := env.store.Outbox().Events()
	require.Len(t, events, 2)
	assert.Equal(t, usecase.EventEatenProductDeleted, events[1].EventType)
}

func TestEatenProductUseCase_ListFilters(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	env.mustCategory(t, "Fruits", "fruits")
	apple := env.mustProduct(t, "apple", 100, 52, domain.UnitGram, ptr("fruits"))
	milk := env.mustProduct(t, "milk", 100, 60, domain.UnitMilliliter, nil)

	create := func(productID int64) *domain.EatenProduct {
		ep, err := env.eaten.Create(ctx, env.author, &usecase.CreateEatenProductReq{ProductID: productID, Weight: 100})
		require.NoError(t, err)
		return ep
	}

	first := create(apple.ID)
	env.eaten.WithClock(func() time.Time { return today.Add(24 * time.Hour) })
	second := create(milk.ID)
	third := create(apple.ID)

	all, err := env.eaten.List(ctx, env.author, usecase.EatenProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	byCategory, err := env.eaten.List(ctx, env.author, usecase.EatenProductFilter{CategorySlug: ptr("fruits")})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	day := domain.DateOf(today)
	byDate, err := env.eaten.List(ctx, env.author, usecase.EatenProductFilter{PublicationDate: &day})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, first.ID, byDate[0].ID)

	bySearch, err := env.eaten.List(ctx, env.author, usecase.EatenProductFilter{Search: "MIL"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, second.ID, bySearch[0].ID)
}

func TestEatenProductUseCase_DateUsesLocation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	apple := env.mustProduct(t, "apple", 100, 52, domain.UnitGram, nil)

	moscow := time.FixedZone("MSK", 3*60*60)

	// 22:30 UTC 19 октября, по Москве уже 20 октября
	late := time.Date(2026, 10, 19, 22, 30, 0, 0, time.UTC)
	env.eaten = usecase.NewEatenProductUC(
		env.store.EatenProducts(), env.store.Products(), env.store.Outbox(),
		jsonEncoder{}, memory.TxManager{}, env.metrics, logger.NewNop(), moscow,
	).WithClock(func() time.Time { return late })

	ep, err := env.eaten.Create(ctx, env.author, &usecase.CreateEatenProductReq{ProductID: apple.ID, Weight: 100})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), ep.PublicationDate)
}
