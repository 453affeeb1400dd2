package issue

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, i *Issue) error
	GetByID(ctx context.Context, id string) (*Issue, error)
	ListByUser(ctx context.Context, userID string) ([]*Issue, error)
	ListAll(ctx context.Context) ([]*Issue, error)
	Update(ctx context.Context, i *Issue) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const issueColumns = "id, user_id, rental_id, description, status, created_at, updated_at"

func (r *pgxRepository) Create(ctx context.Context, i *Issue) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.issues").
		Columns("user_id", "rental_id", "description", "status").
		Values(i.UserID, i.RentalID, i.Description, i.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create issue query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Issue, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(issueColumns).
		From("public.issues").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get issue query failed: %w", err)
	}

	var i Issue
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&i.ID, &i.UserID, &i.RentalID, &i.Description, &i.Status,
		&i.CreatedAt, &i.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get issue failed: %w", err)
	}
	return &i, nil
}

func (r *pgxRepository) ListByUser(ctx context.Context, userID string) ([]*Issue, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID})
}

func (r *pgxRepository) ListAll(ctx context.Context) ([]*Issue, error) {
	return r.list(ctx, nil)
}

func (r *pgxRepository) list(ctx context.Context, cond squirrel.Sqlizer) ([]*Issue, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(issueColumns).
		From("public.issues").
		OrderBy("created_at DESC")
	if cond != nil {
		query = query.Where(cond)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list issues query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list issues failed: %w", err)
	}
	defer rows.Close()

	var issues []*Issue
	for rows.Next() {
		var i Issue
		if err := rows.Scan(
			&i.ID, &i.UserID, &i.RentalID, &i.Description, &i.Status,
			&i.CreatedAt, &i.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan issue failed: %w", err)
		}
		issues = append(issues, &i)
	}
	return issues, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, i *Issue) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.issues").
		Set("description", i.Description).
		Set("status", i.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": i.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update issue query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update issue failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
