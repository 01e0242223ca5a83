package integration_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quickshow/booking-api/internal/app"
	"github.com/quickshow/booking-api/internal/domain"
	"github.com/quickshow/booking-api/internal/mailer"
	"github.com/quickshow/booking-api/internal/payment"
	"github.com/quickshow/booking-api/internal/reconciler"
	"github.com/quickshow/booking-api/internal/repository"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App             *app.Application
	DB              *pgxpool.Pool
	RedisClient     *redis.Client
	Mailer          *mailer.MockMailer
	PaymentProvider *payment.MockPaymentProvider
	Publisher       *RecordingPublisher
	Reconciler      *reconciler.Reconciler
	BookingRepo     domain.BookingRepository
}

// RecordingPublisher stands in for the AMQP publisher. Tests that care about
// the consumer side hand recorded events to the reconciler themselves.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []domain.PaymentOutcomeEvent
}

func (p *RecordingPublisher) Publish(ctx context.Context, event domain.PaymentOutcomeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return nil
}

func (p *RecordingPublisher) Events() []domain.PaymentOutcomeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	events := make([]domain.PaymentOutcomeEvent, len(p.events))
	copy(events, p.events)

	return events
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	showRepo := repository.NewPostgresShowRepository(db)
	movieRepo := repository.NewPostgresMovieRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)

	paymentProvider := payment.NewMockPaymentProvider()
	publisher := &RecordingPublisher{}

	application := app.NewApplication(app.Dependencies{
		Config:           cfg,
		Logger:           logger,
		DB:               db,
		Redis:            redisClient,
		Mailer:           mockMailer,
		ShowRepo:         showRepo,
		MovieRepo:        movieRepo,
		BookingRepo:      bookingRepo,
		PaymentProvider:  paymentProvider,
		OutcomePublisher: publisher,
	})

	rec := reconciler.New(bookingRepo, showRepo, movieRepo, redisClient, mockMailer, logger)

	return &TestApp{
		App:             application,
		DB:              db,
		RedisClient:     redisClient,
		Mailer:          mockMailer,
		PaymentProvider: paymentProvider,
		Publisher:       publisher,
		Reconciler:      rec,
		BookingRepo:     bookingRepo,
	}, nil
}
