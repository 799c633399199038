// README: Payment record: the two-party split for a delivered booking.
package payment

import (
	"errors"
	"time"

	"tuma/internal/types"
)

var (
	ErrNotFound    = errors.New("payment not found")
	ErrNotPayable  = errors.New("booking is not payable")
	ErrInvalidCard = errors.New("card failed validation")
	ErrDuplicate   = errors.New("booking already paid")
)

type Status string

const (
	// StatusPending means the split is recorded and handed to the external
	// processor; settlement confirmation arrives out of band.
	StatusPending Status = "pending"
	StatusSettled Status = "settled"
	StatusFailed  Status = "failed"
)

// Payment stores only the masked card number and detected network; the
// PAN and CVV never leave the validation call stack.
type Payment struct {
	ID                types.ID
	BookingID         types.ID
	CardNetwork       string
	MaskedNumber      string
	TransporterAmount int64
	CompanyAmount     int64
	Total             int64
	Currency          string
	Status            Status
	CreatedAt         time.Time
}
