package mocks

import (
	"github.com/quickshow/booking-api/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	booking *domain.Booking,
	show *domain.Show,
	movie *domain.Movie) (*stripe.CheckoutSession, error) {

	args := m.Called(booking, show, movie)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}
