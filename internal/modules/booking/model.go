// README: Booking aggregate and status definitions.
package booking

import (
	"time"

	"tuma/internal/modules/costing"
	"tuma/internal/types"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusRequested Status = "requested"
	StatusAssigned  Status = "assigned"
	StatusPickedUp  Status = "picked_up"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Booking is a priced shipment moving through the delivery flow. Price is
// the cost-engine snapshot taken at creation; the customer pays what they
// were quoted even if tariffs change mid-delivery.
type Booking struct {
	ID            types.ID
	CustomerID    types.ID
	TransporterID *types.ID
	Status        Status
	StatusVersion int
	Pickup        types.Point
	Dropoff       types.Point
	Cargo         costing.BookingData
	Price         costing.CostResult
	CreatedAt     time.Time
	AssignedAt    *time.Time
	PickedUpAt    *time.Time
	DepartedAt    *time.Time
	DeliveredAt   *time.Time
	PaidAt        *time.Time
	CancelledAt   *time.Time
	CancelReason  *string
}

type Event struct {
	ID         int64
	BookingID  types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the delivery state flow as code. Cargo can
// be cancelled until it is moving; once in transit the only way out is
// delivery.
var AllowedTransitions = map[Status][]Status{
	StatusRequested: {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusPickedUp, StatusCancelled},
	StatusPickedUp:  {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered},
	StatusDelivered: {StatusPaid},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
