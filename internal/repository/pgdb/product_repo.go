package pgdb

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `
	pr.id, pr.name, pr.weight, pr.unit_of_measurement, pr.kcal,
	pr.category_id, cat.slug AS category_slug, pr.image_key
`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (name, weight, unit_of_measurement, kcal, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`

	if err := tr.Conn(ctx, p.pool).QueryRow(ctx, query,
		model.Name, model.Weight, model.UnitOfMeasurement, model.Kcal, model.CategoryID,
	).Scan(&model.ID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError("product "+product.Name, err))
	}

	return p.GetByID(ctx, model.ID)
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products pr
		LEFT JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = $1
	`

	rows, err := tr.Conn(ctx, p.pool).Query(ctx, query, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(fmt.Sprintf("product %d", id), err))
	}

	return p.conv.ToEntity(&model), nil
}

// GetProductsInfo возвращает продукты по их идентификаторам, включая slug категории.
// Отсутствующие id пропускаются.
func (p *ProductRepo) GetProductsInfo(ctx context.Context, ids []int64) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products pr
		LEFT JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = ANY($1)
	`

	return p.collect(ctx, query, ids)
}

// List возвращает продукты, отсортированные по имени. Поиск по подстроке без учёта регистра.
func (p *ProductRepo) List(ctx context.Context, filter usecase.ProductFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products pr
		LEFT JOIN categories cat ON pr.category_id = cat.id
		WHERE ($1::text IS NULL OR cat.slug = $1)
		  AND ($2 = '' OR strpos(lower(pr.name), lower($2)) > 0)
		ORDER BY pr.name, pr.id
	`

	return p.collect(ctx, query, filter.CategorySlug, filter.Search)
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		UPDATE products
		SET name = $2, weight = $3, unit_of_measurement = $4, kcal = $5, category_id = $6, updated_at = now()
		WHERE id = $1;
	`

	tag, err := tr.Conn(ctx, p.pool).Exec(ctx, query,
		model.ID, model.Name, model.Weight, model.UnitOfMeasurement, model.Kcal, model.CategoryID,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError("product "+product.Name, err))
	}

	if tag.RowsAffected() == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(fmt.Sprintf("product %d", product.ID), pgx.ErrNoRows))
	}

	return p.GetByID(ctx, model.ID)
}

// Delete удаляет продукт. Записи журнала на него удаляются каскадно.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Conn(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), mapError(fmt.Sprintf("product %d", id), pgx.ErrNoRows))
	}

	return nil
}

func (p *ProductRepo) SetImageKey(ctx context.Context, id int64, key string) (*string, error) {
	query := `
		UPDATE products pr
		SET image_key = $2, updated_at = now()
		FROM (SELECT id, image_key FROM products WHERE id = $1 FOR UPDATE) prev
		WHERE pr.id = prev.id
		RETURNING prev.image_key;
	`

	var prev *string
	if err := tr.Conn(ctx, p.pool).QueryRow(ctx, query, id, key).Scan(&prev); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(fmt.Sprintf("product %d", id), err))
	}

	return prev, nil
}

func (p *ProductRepo) IDsByCategory(ctx context.Context, categoryID int64) ([]int64, error) {
	rows, err := tr.Conn(ctx, p.pool).Query(ctx, `SELECT id FROM products WHERE category_id = $1 ORDER BY id`, categoryID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return ids, nil
}

func (p *ProductRepo) collect(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := tr.Conn(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}
