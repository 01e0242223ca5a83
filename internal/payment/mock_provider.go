package payment

import (
	"sync"

	"github.com/quickshow/booking-api/internal/domain"
	"github.com/stripe/stripe-go/v82"
)

// MockPaymentProvider records checkout sessions instead of calling Stripe.
type MockPaymentProvider struct {
	mu       sync.Mutex
	sessions []*stripe.CheckoutSession
	Err      error
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	booking *domain.Booking,
	show *domain.Show,
	movie *domain.Movie) (*stripe.CheckoutSession, error) {

	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session := &stripe.CheckoutSession{
		ID:                "cs_test_" + booking.Reference,
		URL:               "https://checkout.example.com/" + booking.Reference,
		ClientReferenceID: booking.Reference,
	}
	m.sessions = append(m.sessions, session)

	return session, nil
}

func (m *MockPaymentProvider) Sessions() []*stripe.CheckoutSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions := make([]*stripe.CheckoutSession, len(m.sessions))
	copy(sessions, m.sessions)

	return sessions
}
