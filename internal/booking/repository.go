package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the durable store of Booking records.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	GetByTxRef(ctx context.Context, txRef string) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error

	// HasOverlap reports whether any booking for the rental claims a window
	// overlapping [start, end]. excludeID is used during date updates to
	// ignore the booking itself.
	HasOverlap(ctx context.Context, rentalID string, start, end time.Time, excludeID string) (bool, error)

	// ListActive returns the user's bookings with end_date >= today, ordered
	// by start_date ascending.
	ListActive(ctx context.Context, userID string, today time.Time) ([]*Booking, error)

	// ListHistory returns the user's bookings with end_date < today, ordered
	// by end_date descending.
	ListHistory(ctx context.Context, userID string, today time.Time) ([]*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("user_id", "rental_id", "start_date", "end_date",
			"total_price_cents", "payment_method", "payment_status", "tx_ref").
		Values(b.UserID, b.RentalID, b.StartDate, b.EndDate,
			b.TotalPriceCents, b.PaymentMethod, b.PaymentStatus, b.TxRef).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

const bookingColumns = "b.id, b.user_id, b.rental_id, r.name, b.start_date, b.end_date, " +
	"b.total_price_cents, b.payment_method, b.payment_status, b.tx_ref, b.created_at, b.updated_at"

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.UserID, &b.RentalID, &b.RentalName, &b.StartDate, &b.EndDate,
		&b.TotalPriceCents, &b.PaymentMethod, &b.PaymentStatus, &b.TxRef,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.rentals r ON b.rental_id = r.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) GetByTxRef(ctx context.Context, txRef string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.rentals r ON b.rental_id = r.id").
		Where(squirrel.Eq{"b.tx_ref": txRef}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking by tx_ref query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking by tx_ref failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("start_date", b.StartDate).
		Set("end_date", b.EndDate).
		Set("total_price_cents", b.TotalPriceCents).
		Set("payment_status", b.PaymentStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, rentalID string, start, end time.Time, excludeID string) (bool, error) {
	// Inclusive date windows overlap iff existing.start <= end AND
	// existing.end >= start. Every stored booking holds the rental: cancelled
	// bookings are deleted outright, so no status filter is needed.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"rental_id": rentalID}).
		Where(squirrel.LtOrEq{"start_date": end}).
		Where(squirrel.GtOrEq{"end_date": start})

	if excludeID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListActive(ctx context.Context, userID string, today time.Time) ([]*Booking, error) {
	return r.listByUser(ctx, userID,
		squirrel.GtOrEq{"b.end_date": today}, "b.start_date ASC")
}

func (r *pgxRepository) ListHistory(ctx context.Context, userID string, today time.Time) ([]*Booking, error) {
	return r.listByUser(ctx, userID,
		squirrel.Lt{"b.end_date": today}, "b.end_date DESC")
}

func (r *pgxRepository) listByUser(ctx context.Context, userID string, cond squirrel.Sqlizer, orderBy string) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.rentals r ON b.rental_id = r.id").
		Where(squirrel.Eq{"b.user_id": userID}).
		Where(cond).
		OrderBy(orderBy).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
