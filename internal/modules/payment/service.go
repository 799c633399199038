// README: Payment service: validate card, record split, mark booking paid.
package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tuma/internal/modules/booking"
	"tuma/internal/modules/card"
	"tuma/internal/types"
)

// Bookings is what the service needs from the booking module.
type Bookings interface {
	Get(ctx context.Context, id types.ID) (*booking.Booking, error)
	MarkPaid(ctx context.Context, cmd booking.MarkPaidCommand) error
}

// Storage is what the service needs from persistence; *Store implements it.
type Storage interface {
	Create(ctx context.Context, p *Payment) error
	GetByBooking(ctx context.Context, bookingID types.ID) (*Payment, error)
}

type Service struct {
	store    Storage
	bookings Bookings
}

func NewService(store Storage, bookings Bookings) *Service {
	return &Service{store: store, bookings: bookings}
}

type PayCommand struct {
	BookingID types.ID
	Card      card.Data
}

// Pay validates the card, records the transporter/platform split from the
// booking's price snapshot and marks the booking paid. The split is exactly
// the quoted PaymentBreakdown: transporter gets the subtotal, the platform
// keeps the insurance fee.
//
// Pay is idempotent across partial failures: if an earlier attempt recorded
// the payment but died before the booking was marked paid, the retry reuses
// the pending row instead of tripping the one-payment-per-booking constraint.
func (s *Service) Pay(ctx context.Context, cmd PayCommand) (*Payment, error) {
	b, err := s.bookings.Get(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == booking.StatusPaid {
		return nil, ErrDuplicate
	}
	if b.Status != booking.StatusDelivered {
		return nil, ErrNotPayable
	}

	v := card.Validate(cmd.Card)
	if !v.Overall.Valid {
		return nil, ErrInvalidCard
	}

	p, err := s.store.GetByBooking(ctx, cmd.BookingID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if p == nil {
		p = &Payment{
			ID:                types.ID(uuid.NewString()),
			BookingID:         b.ID,
			CardNetwork:       v.Number.Network.Name,
			MaskedNumber:      card.MaskNumber(cmd.Card.Number, card.DefaultMaskVisible),
			TransporterAmount: b.Price.Payment.TransporterReceives,
			CompanyAmount:     b.Price.Payment.CompanyReceives,
			Total:             b.Price.Payment.Total,
			Currency:          types.DefaultCurrency,
			Status:            StatusPending,
			CreatedAt:         time.Now(),
		}
		if err := s.store.Create(ctx, p); err != nil {
			return nil, err
		}
	}
	if err := s.bookings.MarkPaid(ctx, booking.MarkPaidCommand{BookingID: b.ID}); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByBooking returns the recorded payment for a booking.
func (s *Service) GetByBooking(ctx context.Context, bookingID types.ID) (*Payment, error) {
	return s.store.GetByBooking(ctx, bookingID)
}
