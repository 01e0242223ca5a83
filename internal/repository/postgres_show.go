package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quickshow/booking-api/internal/domain"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) GetAll(
	ctx context.Context,
	filters domain.ShowFilters) ([]*domain.ShowDetail, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			s.id,
			s.movie_id,
			s.starts_at,
			s.price,
			s.seat_rows,
			s.seats_per_row,
			s.created_at,
			m.title,
			m.poster_url,
			m.runtime
		FROM shows s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.starts_at > NOW()
		ORDER BY s.starts_at
		LIMIT $1 OFFSET $2
	`

	rows, err := p.db.Query(ctx, query, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	shows := make([]*domain.ShowDetail, 0)
	totalRecords := 0

	for rows.Next() {
		var show domain.ShowDetail

		err := rows.Scan(
			&totalRecords,
			&show.ID,
			&show.MovieID,
			&show.StartsAt,
			&show.Price,
			&show.SeatRows,
			&show.SeatsPerRow,
			&show.CreatedAt,
			&show.MovieTitle,
			&show.MoviePosterUrl,
			&show.MovieRuntime,
		)
		if err != nil {
			return nil, nil, err
		}

		shows = append(shows, &show)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return shows, metadata, nil
}

func (p *PostgresShowRepository) GetById(ctx context.Context, id int) (*domain.Show, error) {
	query := `
		SELECT id, movie_id, starts_at, price, seat_rows, seats_per_row, created_at
		FROM shows
		WHERE id = $1
	`

	var show domain.Show

	err := p.db.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.MovieID,
		&show.StartsAt,
		&show.Price,
		&show.SeatRows,
		&show.SeatsPerRow,
		&show.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &show, nil
}

func (p *PostgresShowRepository) GetByIdWithMovie(ctx context.Context, id int) (*domain.ShowDetail, error) {
	query := `
		SELECT
			s.id,
			s.movie_id,
			s.starts_at,
			s.price,
			s.seat_rows,
			s.seats_per_row,
			s.created_at,
			m.title,
			m.poster_url,
			m.runtime
		FROM shows s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.id = $1
	`

	var show domain.ShowDetail

	err := p.db.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.MovieID,
		&show.StartsAt,
		&show.Price,
		&show.SeatRows,
		&show.SeatsPerRow,
		&show.CreatedAt,
		&show.MovieTitle,
		&show.MoviePosterUrl,
		&show.MovieRuntime,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &show, nil
}

// GetOccupiedSeats returns every claimed seat of the show. A missing show is
// an explicit ErrRecordNotFound rather than an empty result, so callers can
// tell "sold nothing yet" apart from "no such show".
func (p *PostgresShowRepository) GetOccupiedSeats(ctx context.Context, showID int) ([]domain.OccupiedSeat, error) {
	var exists bool

	err := p.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM shows WHERE id = $1)`, showID).Scan(&exists)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, domain.ErrRecordNotFound
	}

	query := `
		SELECT seat_label, user_id, booking_id
		FROM show_seats
		WHERE show_id = $1
		ORDER BY seat_label
	`

	rows, err := p.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.OccupiedSeat, 0)

	for rows.Next() {
		var seat domain.OccupiedSeat

		err = rows.Scan(&seat.SeatLabel, &seat.UserID, &seat.BookingID)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
