// README: Booking service implements state transitions and persistence.
package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"tuma/internal/modules/costing"
	"tuma/internal/types"
)

var (
	ErrInvalidState  = errors.New("invalid state transition")
	ErrNotFound      = errors.New("booking not found")
	ErrConflict      = errors.New("booking state conflict")
	ErrActiveBooking = errors.New("customer has active booking")
	ErrBadRequest    = errors.New("bad request")
)

// Pricer prices cargo; production wiring is the costing engine.
type Pricer interface {
	Price(data costing.BookingData) costing.CostResult
}

// DistanceEstimator resolves a road distance between two points. Optional;
// when absent (or failing) the service falls back to great-circle distance.
type DistanceEstimator interface {
	EstimateKm(ctx context.Context, origin, dest types.Point) (float64, error)
}

// Storage is what the service needs from persistence; *Store implements it.
type Storage interface {
	Create(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id types.ID) (*Booking, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, transporterID *types.ID, cancelReason *string) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
	HasActiveByCustomer(ctx context.Context, customerID types.ID) (bool, error)
}

type Service struct {
	store    Storage
	pricer   Pricer
	distance DistanceEstimator
}

func NewService(store Storage, pricer Pricer, distance DistanceEstimator) *Service {
	return &Service{store: store, pricer: pricer, distance: distance}
}

type CreateCommand struct {
	CustomerID types.ID
	Pickup     types.Point
	Dropoff    types.Point
	Cargo      costing.BookingData
}

type AssignCommand struct {
	BookingID     types.ID
	TransporterID types.ID
}

type PickupCommand struct {
	BookingID types.ID
}

type DepartCommand struct {
	BookingID types.ID
}

type DeliverCommand struct {
	BookingID types.ID
}

type CancelCommand struct {
	BookingID types.ID
	ActorType string
	Reason    string
}

type MarkPaidCommand struct {
	BookingID types.ID
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.CustomerID == "" {
		return "", ErrBadRequest
	}
	active, err := s.store.HasActiveByCustomer(ctx, cmd.CustomerID)
	if err != nil {
		return "", err
	}
	if active {
		return "", ErrActiveBooking
	}

	cargo := cmd.Cargo
	if cargo.ActualDistanceKm == 0 {
		cargo.ActualDistanceKm = s.resolveDistanceKm(ctx, cmd.Pickup, cmd.Dropoff)
	}

	id := types.ID(uuid.NewString())
	now := time.Now()
	b := &Booking{
		ID:            id,
		CustomerID:    cmd.CustomerID,
		Status:        StatusRequested,
		StatusVersion: 0,
		Pickup:        cmd.Pickup,
		Dropoff:       cmd.Dropoff,
		Cargo:         cargo,
		Price:         s.pricer.Price(cargo),
		CreatedAt:     now,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return "", err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		BookingID:  id,
		FromStatus: StatusNone,
		ToStatus:   StatusRequested,
		ActorType:  "customer",
		ActorID:    &cmd.CustomerID,
		CreatedAt:  now,
	})
	return id, nil
}

// resolveDistanceKm asks the routing service for a road distance and falls
// back to the great-circle distance when routing is unavailable.
func (s *Service) resolveDistanceKm(ctx context.Context, pickup, dropoff types.Point) float64 {
	zero := types.Point{}
	if pickup == zero && dropoff == zero {
		return 0
	}
	if s.distance != nil {
		if km, err := s.distance.EstimateKm(ctx, pickup, dropoff); err == nil {
			return km
		} else {
			log.Printf("distance estimate failed, using haversine: %v", err)
		}
	}
	return haversineKm(pickup.Lat, pickup.Lng, dropoff.Lat, dropoff.Lng)
}

func (s *Service) Assign(ctx context.Context, cmd AssignCommand) error {
	return s.transition(ctx, cmd.BookingID, StatusAssigned, "transporter", &cmd.TransporterID)
}

func (s *Service) Pickup(ctx context.Context, cmd PickupCommand) error {
	return s.transition(ctx, cmd.BookingID, StatusPickedUp, "transporter", nil)
}

func (s *Service) Depart(ctx context.Context, cmd DepartCommand) error {
	return s.transition(ctx, cmd.BookingID, StatusInTransit, "transporter", nil)
}

func (s *Service) Deliver(ctx context.Context, cmd DeliverCommand) error {
	return s.transition(ctx, cmd.BookingID, StatusDelivered, "transporter", nil)
}

// MarkPaid is called by the payment module once the split is recorded.
func (s *Service) MarkPaid(ctx context.Context, cmd MarkPaidCommand) error {
	return s.transition(ctx, cmd.BookingID, StatusPaid, "system", nil)
}

func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return err
	}
	if !CanTransition(b.Status, StatusCancelled) {
		return ErrInvalidState
	}
	var reason *string
	if cmd.Reason != "" {
		reason = &cmd.Reason
	}
	ok, err := s.store.UpdateStatus(ctx, b.ID, b.Status, StatusCancelled, b.StatusVersion, b.TransporterID, reason)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	actorID := b.TransporterID
	if cmd.ActorType == "customer" {
		actorID = &b.CustomerID
	}
	_ = s.store.AppendEvent(ctx, &Event{
		BookingID:  b.ID,
		FromStatus: b.Status,
		ToStatus:   StatusCancelled,
		ActorType:  cmd.ActorType,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Booking, error) {
	return s.store.Get(ctx, id)
}

// transition performs the shared load/check/update/event sequence. The
// optimistic status-version check in UpdateStatus resolves races between
// concurrent transporters; the loser gets ErrConflict.
func (s *Service) transition(ctx context.Context, id types.ID, to Status, actorType string, transporterID *types.ID) error {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(b.Status, to) {
		return ErrInvalidState
	}
	actor := transporterID
	if actor == nil {
		actor = b.TransporterID
	}
	ok, err := s.store.UpdateStatus(ctx, b.ID, b.Status, to, b.StatusVersion, actor, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		BookingID:  b.ID,
		FromStatus: b.Status,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actor,
		CreatedAt:  time.Now(),
	})
	return nil
}
