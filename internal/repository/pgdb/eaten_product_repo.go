package pgdb

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const eatenProductSelect = `
	SELECT ep.id, ep.publication_date, ep.product_id, pr.name AS product_name, ep.user_id,
	       ep.weight, ep.kcal, ep.unit_of_measurement, ep.category_id, cat.slug AS category_slug
	FROM eaten_products ep
	JOIN products pr ON ep.product_id = pr.id
	LEFT JOIN categories cat ON ep.category_id = cat.id
`

// EatenProductRepo хранит журнал питания в PostgreSQL.
type EatenProductRepo struct {
	pool *pgxpool.Pool
	conv converter.EatenProductConverter
}

func NewEatenProductRepo(pool *pgxpool.Pool, conv converter.EatenProductConverter) *EatenProductRepo {
	return &EatenProductRepo{pool: pool, conv: conv}
}

func (r *EatenProductRepo) Create(ctx context.Context, ep *domain.EatenProduct) (*domain.EatenProduct, error) {
	model := r.conv.ToModel(ep)
	query := `
		INSERT INTO eaten_products (publication_date, product_id, user_id, weight, kcal, unit_of_measurement, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`

	if err := tr.Conn(ctx, r.pool).QueryRow(ctx, query,
		model.PublicationDate, model.ProductID, model.UserID, model.Weight, model.Kcal,
		model.UnitOfMeasurement, model.CategoryID,
	).Scan(&model.ID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError("eaten product", err))
	}

	return r.GetByID(ctx, model.ID)
}

func (r *EatenProductRepo) GetByID(ctx context.Context, id int64) (*domain.EatenProduct, error) {
	rows, err := tr.Conn(ctx, r.pool).Query(ctx, eatenProductSelect+` WHERE ep.id = $1`, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.EatenProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(fmt.Sprintf("eaten product %d", id), err))
	}

	return r.conv.ToEntity(&model), nil
}

// List возвращает записи пользователя, новые сверху.
func (r *EatenProductRepo) List(ctx context.Context, userID int64, filter usecase.EatenProductFilter) ([]domain.EatenProduct, error) {
	var date *time.Time
	if filter.PublicationDate != nil {
		d := converter.ConvertDate(*filter.PublicationDate)
		date = &d
	}

	query := eatenProductSelect + `
		WHERE ep.user_id = $1
		  AND ($2::text IS NULL OR cat.slug = $2)
		  AND ($3::date IS NULL OR ep.publication_date = $3)
		  AND ($4 = '' OR strpos(lower(pr.name), lower($4)) > 0)
		ORDER BY ep.publication_date DESC, ep.id DESC
	`

	rows, err := tr.Conn(ctx, r.pool).Query(ctx, query, userID, filter.CategorySlug, date, filter.Search)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.EatenProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToArrEntity(models), nil
}

// Update перезаписывает снимок продукта. Дата записи и владелец не меняются.
func (r *EatenProductRepo) Update(ctx context.Context, ep *domain.EatenProduct) (*domain.EatenProduct, error) {
	model := r.conv.ToModel(ep)
	query := `
		UPDATE eaten_products
		SET product_id = $3, weight = $4, kcal = $5, unit_of_measurement = $6, category_id = $7
		WHERE id = $1 AND user_id = $2;
	`

	tag, err := tr.Conn(ctx, r.pool).Exec(ctx, query,
		model.ID, model.UserID, model.ProductID, model.Weight, model.Kcal, model.UnitOfMeasurement, model.CategoryID,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(fmt.Sprintf("eaten product %d", ep.ID), err))
	}

	if tag.RowsAffected() == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), mapError(fmt.Sprintf("eaten product %d", ep.ID), pgx.ErrNoRows))
	}

	return r.GetByID(ctx, model.ID)
}

func (r *EatenProductRepo) Delete(ctx context.Context, id, userID int64) error {
	tag, err := tr.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM eaten_products WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), mapError(fmt.Sprintf("eaten product %d", id), pgx.ErrNoRows))
	}

	return nil
}

// DailyTotals суммирует калории пользователя по дням, начиная с последнего.
// Если date задана, возвращается не больше одной строки.
func (r *EatenProductRepo) DailyTotals(ctx context.Context, userID int64, date *time.Time) ([]domain.DailyTotal, error) {
	if date != nil {
		d := converter.ConvertDate(*date)
		date = &d
	}

	query := `
		SELECT publication_date, SUM(kcal)::bigint AS total_kcal
		FROM eaten_products
		WHERE user_id = $1
		  AND ($2::date IS NULL OR publication_date = $2)
		GROUP BY publication_date
		ORDER BY publication_date DESC
	`

	rows, err := tr.Conn(ctx, r.pool).Query(ctx, query, userID, date)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.DailyTotalModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToArrDailyTotal(models), nil
}
