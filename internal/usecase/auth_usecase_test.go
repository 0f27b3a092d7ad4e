package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/cfg"
	"github.com/DRSN-tech/calories-backend/internal/infrastructure/token"
	"github.com/DRSN-tech/calories-backend/internal/repository/memory"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*usecase.AuthUseCase, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	issuer := token.NewJWTIssuer(&cfg.AuthCfg{
		JWTSecret:       "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})

	return usecase.NewAuthUC(store.Users(), issuer, logger.NewNop()), store
}

func TestAuthUseCase_TokenRoundTrip(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, &usecase.RegisterReq{Username: "author", Email: "a@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.False(t, user.IsStaff)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	pair, err := auth.Login(ctx, &usecase.LoginReq{Username: "author", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, auth.Verify(ctx, pair.Access))
	require.NoError(t, auth.Verify(ctx, pair.Refresh))

	subject, err := auth.Authenticate(ctx, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject.UserID)
	assert.False(t, subject.Admin)

	access, err := auth.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, access)
	require.NoError(t, err)

	me, err := auth.Me(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, "author", me.Username)
}

func TestAuthUseCase_Rejects(t *testing.T) {
	auth, store := newAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &usecase.RegisterReq{Username: "author", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = auth.Register(ctx, &usecase.RegisterReq{Username: "author", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, e.ErrAlreadyExists)

	_, err = auth.Register(ctx, &usecase.RegisterReq{Username: "short", Password: "123"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = auth.Login(ctx, &usecase.LoginReq{Username: "author", Password: "wrong-pass"})
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	_, err = auth.Login(ctx, &usecase.LoginReq{Username: "ghost", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	pair, err := auth.Login(ctx, &usecase.LoginReq{Username: "author", Password: "s3cret-pass"})
	require.NoError(t, err)

	// refresh нельзя использовать как access и наоборот
	_, err = auth.Authenticate(ctx, pair.Refresh)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
	_, err = auth.Refresh(ctx, pair.Access)
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	assert.ErrorIs(t, auth.Verify(ctx, "garbage"), e.ErrUnauthorized)

	// токен удалённого пользователя недействителен
	subject, err := auth.Authenticate(ctx, pair.Access)
	require.NoError(t, err)
	require.NoError(t, store.Users().Delete(ctx, subject.UserID))

	_, err = auth.Authenticate(ctx, pair.Access)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
	_, err = auth.Me(ctx, subject)
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestAuthUseCase_CreateAdmin(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	admin, err := auth.CreateAdmin(ctx, &usecase.RegisterReq{Username: "root", Password: "adminpass"})
	require.NoError(t, err)
	assert.True(t, admin.IsStaff)

	pair, err := auth.Login(ctx, &usecase.LoginReq{Username: "root", Password: "adminpass"})
	require.NoError(t, err)

	subject, err := auth.Authenticate(ctx, pair.Access)
	require.NoError(t, err)
	assert.True(t, subject.Admin)
}
