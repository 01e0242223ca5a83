package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/quickshow/booking-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type StripePaymentProvider struct {
	failureUrl string
	successUrl string
}

func NewStripePaymentProvider(failureUrl, successUrl string) *StripePaymentProvider {
	return &StripePaymentProvider{
		failureUrl: failureUrl,
		successUrl: successUrl,
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	booking *domain.Booking,
	show *domain.Show,
	movie *domain.Movie) (*stripe.CheckoutSession, error) {

	priceCents := show.Price.Mul(decimal.NewFromInt(100)).IntPart()

	lineItem := &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(string(stripe.CurrencyUSD)),
			UnitAmount: stripe.Int64(priceCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(fmt.Sprintf("🎬 %s", movie.Title)),
				Description: stripe.String(fmt.Sprintf(
					"Showtime: %s • Seats: %s",
					show.StartsAt.Format("Jan 2, 2006 15:04"),
					strings.Join(booking.Seats, ", "),
				)),
			},
		},
		Quantity: stripe.Int64(int64(len(booking.Seats))),
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  []*stripe.CheckoutSessionLineItemParams{lineItem},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.failureUrl),
		Metadata: map[string]string{
			"booking_reference": booking.Reference,
			"user_id":           booking.UserID,
		},
		ClientReferenceID: stripe.String(booking.Reference),
		// An abandoned checkout expires after 30 minutes; Stripe then emits
		// checkout.session.expired and the reconciler releases the seats.
		ExpiresAt: stripe.Int64(time.Now().Add(30 * time.Minute).Unix()),
	}

	return session.New(params)
}
