package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quickshow/booking-api/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create persists the booking and claims its seats in a single transaction.
// The conditional insert on show_seats only takes seats that are still free;
// if fewer rows land than were requested, another booking won the race for at
// least one seat and the whole transaction is rolled back. This is what makes
// a (show, seat) pair belong to at most one booking at a time.
func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bookings (reference, user_id, show_id, seats, amount, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			booking.Reference,
			booking.UserID,
			booking.ShowID,
			booking.Seats,
			booking.Amount,
			booking.Status,
		).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				return domain.ErrRecordNotFound
			}

			return err
		}

		query = `
			INSERT INTO show_seats (show_id, seat_label, user_id, booking_id)
			SELECT $1, unnest($2::text[]), $3, $4
			ON CONFLICT (show_id, seat_label) DO NOTHING
		`

		ct, err := tx.Exec(ctx, query, booking.ShowID, booking.Seats, booking.UserID, booking.ID)
		if err != nil {
			return err
		}

		if ct.RowsAffected() != int64(len(booking.Seats)) {
			return domain.ErrSeatsUnavailable
		}

		return nil
	})
}

func (p *PostgresBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	query := `
		SELECT id, reference, user_id, show_id, seats, amount, status, checkout_session_id, created_at, updated_at
		FROM bookings
		WHERE reference = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, reference).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.UserID,
		&booking.ShowID,
		&booking.Seats,
		&booking.Amount,
		&booking.Status,
		&booking.CheckoutSessionID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetByShowId(ctx context.Context, showID int) ([]domain.Booking, error) {
	query := `
		SELECT id, reference, user_id, show_id, seats, amount, status, checkout_session_id, created_at, updated_at
		FROM bookings
		WHERE show_id = $1
		ORDER BY created_at
	`

	rows, err := p.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking

		err = rows.Scan(
			&booking.ID,
			&booking.Reference,
			&booking.UserID,
			&booking.ShowID,
			&booking.Seats,
			&booking.Amount,
			&booking.Status,
			&booking.CheckoutSessionID,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID string,
	filters domain.ShowFilters) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.reference,
			m.title,
			m.poster_url,
			s.starts_at,
			b.seats,
			b.amount,
			b.status,
			b.created_at
		FROM bookings b
		JOIN shows s ON b.show_id = s.id
		JOIN movies m ON s.movie_id = m.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&summary.Reference,
			&summary.MovieTitle,
			&summary.MoviePosterUrl,
			&summary.ShowStartsAt,
			&summary.Seats,
			&summary.Amount,
			&summary.Status,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return summaries, metadata, nil
}

func (p *PostgresBookingRepository) SetCheckoutSession(ctx context.Context, reference, checkoutSessionID string) error {
	query := `
		UPDATE bookings
		SET checkout_session_id = $2, updated_at = NOW()
		WHERE reference = $1
	`

	ct, err := p.db.Exec(ctx, query, reference, checkoutSessionID)
	if err != nil {
		return err
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresBookingRepository) Confirm(ctx context.Context, reference string) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var status domain.BookingStatus

		query := `SELECT status FROM bookings WHERE reference = $1 FOR UPDATE`

		err := tx.QueryRow(ctx, query, reference).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		switch status {
		case domain.BookingStatusConfirmed:
			// Repeat confirmation events are no-ops.
			return nil
		case domain.BookingStatusCancelled:
			return domain.ErrBookingCancelled
		}

		query = `UPDATE bookings SET status = $2, updated_at = NOW() WHERE reference = $1`

		_, err = tx.Exec(ctx, query, reference, domain.BookingStatusConfirmed)

		return err
	})
}

func (p *PostgresBookingRepository) CancelAndRelease(ctx context.Context, reference string) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var bookingID int
		var status domain.BookingStatus

		query := `SELECT id, status FROM bookings WHERE reference = $1 FOR UPDATE`

		err := tx.QueryRow(ctx, query, reference).Scan(&bookingID, &status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		if status == domain.BookingStatusConfirmed {
			// A completed payment is never reversed from here.
			return nil
		}

		query = `DELETE FROM show_seats WHERE booking_id = $1`

		_, err = tx.Exec(ctx, query, bookingID)
		if err != nil {
			return err
		}

		query = `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

		_, err = tx.Exec(ctx, query, bookingID, domain.BookingStatusCancelled)

		return err
	})
}
