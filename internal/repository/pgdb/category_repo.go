package pgdb

import (
	"context"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		INSERT INTO categories (name, slug) VALUES ($1, $2)
		RETURNING id, name, slug;
	`

	var model converter.CategoryModel
	if err := tr.Conn(ctx, c.pool).QueryRow(ctx, query, category.Name, category.Slug).
		Scan(&model.ID, &model.Name, &model.Slug); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError("category "+category.Slug, err))
	}

	return c.conv.ToEntity(&model), nil
}

func (c *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `SELECT id, name, slug FROM categories WHERE slug = $1`

	var model converter.CategoryModel
	if err := tr.Conn(ctx, c.pool).QueryRow(ctx, query, slug).
		Scan(&model.ID, &model.Name, &model.Slug); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError("category "+slug, err))
	}

	return c.conv.ToEntity(&model), nil
}

func (c *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := tr.Conn(ctx, c.pool).Query(ctx, `SELECT id, name, slug FROM categories ORDER BY slug`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.CategoryModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]domain.Category, 0, len(models))
	for i := range models {
		result = append(result, *c.conv.ToEntity(&models[i]))
	}

	return result, nil
}

func (c *CategoryRepo) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		UPDATE categories SET name = $2, slug = $3
		WHERE id = $1
		RETURNING id, name, slug;
	`

	var model converter.CategoryModel
	if err := tr.Conn(ctx, c.pool).QueryRow(ctx, query, category.ID, category.Name, category.Slug).
		Scan(&model.ID, &model.Name, &model.Slug); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError("category "+category.Slug, err))
	}

	return c.conv.ToEntity(&model), nil
}

// Delete удаляет категорию. category_id у продуктов и записей журнала обнуляет внешний ключ.
func (c *CategoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Conn(ctx, c.pool).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), mapError("category", pgx.ErrNoRows))
	}

	return nil
}
