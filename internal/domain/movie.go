package domain

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Movie struct {
	ID          int
	Title       string
	Description string
	Genres      []string
	ReleaseDate time.Time
	Runtime     int
	PosterUrl   string
	Rating      pgtype.Numeric
}

type MovieRepository interface {
	GetAll(ctx context.Context) ([]*Movie, error)
	GetById(ctx context.Context, id int) (*Movie, error)
}
