package mocks

import (
	"context"

	"github.com/quickshow/booking-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockOutcomePublisher struct {
	mock.Mock
	domain.PaymentOutcomePublisher
}

func (m *MockOutcomePublisher) Publish(ctx context.Context, event domain.PaymentOutcomeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
