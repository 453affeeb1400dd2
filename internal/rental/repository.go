package rental

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *Rental) error
	GetByID(ctx context.Context, id string) (*Rental, error)
	List(ctx context.Context, filter Filter) ([]*Rental, int, error)
	Update(ctx context.Context, r *Rental) error
	Delete(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, id string, available bool) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, rental *Rental) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.rentals").
		Columns("name", "category", "details", "price_cents", "available", "image_path").
		Values(rental.Name, rental.Category, rental.Details, rental.PriceCents, rental.Available, rental.ImagePath).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create rental query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&rental.ID, &rental.CreatedAt, &rental.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Rental, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "category", "details",
		"price_cents", "available", "image_path", "created_at", "updated_at").
		From("public.rentals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get rental query failed: %w", err)
	}

	var rental Rental
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&rental.ID, &rental.Name, &rental.Category, &rental.Details,
		&rental.PriceCents, &rental.Available, &rental.ImagePath,
		&rental.CreatedAt, &rental.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rental failed: %w", err)
	}
	return &rental, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Rental, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "name", "category", "details",
		"price_cents", "available", "image_path", "created_at", "updated_at",
		"count(*) OVER() as total_count").
		From("public.rentals")

	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Available != nil {
		query = query.Where(squirrel.Eq{"available": *filter.Available})
	}
	if filter.Keyword != "" {
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": "%" + filter.Keyword + "%"},
			squirrel.ILike{"details": "%" + filter.Keyword + "%"},
		})
	}

	orderBy := "created_at"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list rentals query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rentals failed: %w", err)
	}
	defer rows.Close()

	var rentals []*Rental
	var total int

	for rows.Next() {
		var rental Rental
		if err := rows.Scan(
			&rental.ID, &rental.Name, &rental.Category, &rental.Details,
			&rental.PriceCents, &rental.Available, &rental.ImagePath,
			&rental.CreatedAt, &rental.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan rental failed: %w", err)
		}
		rentals = append(rentals, &rental)
	}

	return rentals, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, rental *Rental) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.rentals").
		Set("name", rental.Name).
		Set("category", rental.Category).
		Set("details", rental.Details).
		Set("price_cents", rental.PriceCents).
		Set("image_path", rental.ImagePath).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rental.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update rental query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update rental failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.rentals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete rental query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete rental failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.rentals").
		Set("available", available).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set availability query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set availability failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
