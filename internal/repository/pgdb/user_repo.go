package pgdb

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const userColumns = `id, username, email, password_hash, is_staff, created_at`

type UserRepo struct {
	pool *pgxpool.Pool
	conv converter.UserConverter
}

func NewUserRepo(pool *pgxpool.Pool, conv converter.UserConverter) *UserRepo {
	return &UserRepo{pool: pool, conv: conv}
}

func (u *UserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	model := u.conv.ToModel(user)
	query := `
		INSERT INTO users (username, email, password_hash, is_staff)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	return u.one(ctx, "user "+user.Username, query, model.Username, model.Email, model.PasswordHash, model.IsStaff)
}

func (u *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return u.one(ctx, fmt.Sprintf("user %d", id), `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (u *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return u.one(ctx, "user "+username, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (u *UserRepo) one(ctx context.Context, what, query string, args ...any) (*domain.User, error) {
	rows, err := tr.Conn(ctx, u.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.UserModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(what, err))
	}

	return u.conv.ToEntity(&model), nil
}
