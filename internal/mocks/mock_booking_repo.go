package mocks

import (
	"context"

	"github.com/quickshow/booking-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
	domain.BookingRepository
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepo) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByShowId(ctx context.Context, showID int) ([]domain.Booking, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetSummariesByUserId(
	ctx context.Context,
	userID string,
	filters domain.ShowFilters) ([]domain.BookingSummary, *domain.Metadata, error) {

	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.BookingSummary), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockBookingRepo) SetCheckoutSession(ctx context.Context, reference, checkoutSessionID string) error {
	args := m.Called(ctx, reference, checkoutSessionID)
	return args.Error(0)
}

func (m *MockBookingRepo) Confirm(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}

func (m *MockBookingRepo) CancelAndRelease(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}
