package mocks

import (
	"context"

	"github.com/quickshow/booking-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowRepo struct {
	mock.Mock
	domain.ShowRepository
}

func (m *MockShowRepo) GetAll(ctx context.Context, filters domain.ShowFilters) ([]*domain.ShowDetail, *domain.Metadata, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*domain.ShowDetail), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockShowRepo) GetById(ctx context.Context, id int) (*domain.Show, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Show), args.Error(1)
}

func (m *MockShowRepo) GetByIdWithMovie(ctx context.Context, id int) (*domain.ShowDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShowDetail), args.Error(1)
}

func (m *MockShowRepo) GetOccupiedSeats(ctx context.Context, showID int) ([]domain.OccupiedSeat, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OccupiedSeat), args.Error(1)
}
