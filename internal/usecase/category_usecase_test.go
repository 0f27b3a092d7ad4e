package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryUseCase_Permissions(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	req := &usecase.CreateCategoryReq{Name: "Fruits", Slug: "fruits"}

	_, err := env.category.Create(ctx, nil, req)
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	_, err = env.category.Create(ctx, env.author, req)
	assert.ErrorIs(t, err, e.ErrForbidden)

	_, err = env.category.List(ctx, env.author)
	assert.ErrorIs(t, err, e.ErrForbidden)

	_, err = env.category.List(ctx, nil)
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	created, err := env.category.Create(ctx, env.admin, req)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	list, err := env.category.List(ctx, env.admin)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCategoryUseCase_Validation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.category.Create(ctx, env.admin, &usecase.CreateCategoryReq{Name: "", Slug: "bad slug"})
	require.ErrorIs(t, err, e.ErrInvalidInput)

	var verr *e.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "slug")
}

func TestCategoryUseCase_Unique(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	env.mustCategory(t, "Fruits", "fruits")

	_, err := env.category.Create(ctx, env.admin, &usecase.CreateCategoryReq{Name: "Fruits", Slug: "fruits-2"})
	assert.ErrorIs(t, err, e.ErrAlreadyExists)

	_, err = env.category.Create(ctx, env.admin, &usecase.CreateCategoryReq{Name: "Other", Slug: "fruits"})
	assert.ErrorIs(t, err, e.ErrAlreadyExists)
}

func TestCategoryUseCase_UpdatePartial(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	env.mustCategory(t, "Fruits", "fruits")

	updated, err := env.category.Update(ctx, env.admin, &usecase.UpdateCategoryReq{Slug: "fruits", NewSlug: ptr("fruit")})
	require.NoError(t, err)
	assert.Equal(t, "Fruits", updated.Name)
	assert.Equal(t, "fruit", updated.Slug)

	_, err = env.category.Get(ctx, env.admin, "fruits")
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = env.category.Update(ctx, env.author, &usecase.UpdateCategoryReq{Slug: "fruit", Name: ptr("X")})
	assert.ErrorIs(t, err, e.ErrForbidden)
}

func TestCategoryUseCase_DeleteNullsProductCategory(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	env.mustCategory(t, "Fruits", "fruits")
	apple := env.mustProduct(t, "apple", 100, 52, domain.UnitGram, ptr("fruits"))

	// прогреваем кэш
	require.NoError(t, env.cache.SetProducts(ctx, []domain.Product{*apple}))

	require.NoError(t, env.category.Delete(ctx, env.admin, "fruits"))

	got, err := env.store.Products().GetByID(ctx, apple.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.CategorySlug)
	assert.False(t, env.cache.Has(apple.ID))

	assert.ErrorIs(t, env.category.Delete(ctx, env.admin, "fruits"), e.ErrNotFound)
}
