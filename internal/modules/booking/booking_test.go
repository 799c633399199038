// README: Booking service tests (state machine, flow, pricing snapshot).
package booking

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"tuma/internal/modules/costing"
	"tuma/internal/types"
)

// TestCanTransition verifies the state machine transition table without a database.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusRequested, StatusAssigned, true},
		{StatusAssigned, StatusPickedUp, true},
		{StatusPickedUp, StatusInTransit, true},
		{StatusInTransit, StatusDelivered, true},
		{StatusDelivered, StatusPaid, true},
		// cancels allowed until the cargo is moving
		{StatusRequested, StatusCancelled, true},
		{StatusAssigned, StatusCancelled, true},
		{StatusPickedUp, StatusCancelled, true},
		{StatusInTransit, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},
		// invalid: terminal states have no outgoing transitions
		{StatusPaid, StatusRequested, false},
		{StatusCancelled, StatusRequested, false},
		// invalid: skipping states
		{StatusRequested, StatusPickedUp, false},
		{StatusRequested, StatusDelivered, false},
		{StatusAssigned, StatusInTransit, false},
		{StatusPickedUp, StatusDelivered, false},
		{StatusInTransit, StatusPaid, false},
	}
	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

// memStore is an in-memory Storage double with the same optimistic
// concurrency semantics as the Postgres store.
type memStore struct {
	mu       sync.Mutex
	bookings map[types.ID]*Booking
	events   []Event
}

func newMemStore() *memStore {
	return &memStore{bookings: map[types.ID]*Booking{}}
}

func (m *memStore) Create(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id types.ID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id types.ID, from, to Status, version int, transporterID *types.ID, cancelReason *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != from || b.StatusVersion != version {
		return false, nil
	}
	b.Status = to
	b.StatusVersion++
	if transporterID != nil {
		tid := *transporterID
		b.TransporterID = &tid
	}
	if to == StatusCancelled && cancelReason != nil {
		r := *cancelReason
		b.CancelReason = &r
	}
	return true, nil
}

func (m *memStore) AppendEvent(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *e)
	return nil
}

func (m *memStore) HasActiveByCustomer(_ context.Context, customerID types.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.CustomerID != customerID {
			continue
		}
		switch b.Status {
		case StatusDelivered, StatusPaid, StatusCancelled:
		default:
			return true, nil
		}
	}
	return false, nil
}

type stubDistance struct {
	km  float64
	err error
}

func (s stubDistance) EstimateKm(context.Context, types.Point, types.Point) (float64, error) {
	return s.km, s.err
}

func newTestService(store Storage, distance DistanceEstimator) *Service {
	return NewService(store, costing.Engine{}, distance)
}

func mustCreate(t *testing.T, svc *Service, customer types.ID, cmd CreateCommand) types.ID {
	t.Helper()
	cmd.CustomerID = customer
	id, err := svc.Create(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return id
}

func assertStatus(t *testing.T, svc *Service, id types.ID, want Status) {
	t.Helper()
	b, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.Status != want {
		t.Fatalf("status = %s, want %s", b.Status, want)
	}
}

func TestBookingFlowHappyPath(t *testing.T) {
	svc := newTestService(newMemStore(), nil)
	ctx := context.Background()

	id := mustCreate(t, svc, "c_happy", CreateCommand{
		Cargo: costing.BookingData{Vehicle: costing.VehicleTruck, ActualDistanceKm: 10, WeightKg: 500},
	})
	assertStatus(t, svc, id, StatusRequested)

	if err := svc.Assign(ctx, AssignCommand{BookingID: id, TransporterID: "t1"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	assertStatus(t, svc, id, StatusAssigned)

	if err := svc.Pickup(ctx, PickupCommand{BookingID: id}); err != nil {
		t.Fatalf("pickup: %v", err)
	}
	assertStatus(t, svc, id, StatusPickedUp)

	if err := svc.Depart(ctx, DepartCommand{BookingID: id}); err != nil {
		t.Fatalf("depart: %v", err)
	}
	assertStatus(t, svc, id, StatusInTransit)

	if err := svc.Deliver(ctx, DeliverCommand{BookingID: id}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	assertStatus(t, svc, id, StatusDelivered)

	if err := svc.MarkPaid(ctx, MarkPaidCommand{BookingID: id}); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	assertStatus(t, svc, id, StatusPaid)
}

func TestCreate_PricesCargoSnapshot(t *testing.T) {
	svc := newTestService(newMemStore(), nil)
	id := mustCreate(t, svc, "c_price", CreateCommand{
		Cargo: costing.BookingData{
			Vehicle: costing.VehicleTruck, ActualDistanceKm: 10, WeightKg: 500,
			Insured: true, DeclaredValue: 10000,
		},
	})
	b, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.Price.TransporterPayment != 6700 || b.Price.Cost != 6900 {
		t.Errorf("price snapshot = %d/%d, want 6700/6900", b.Price.TransporterPayment, b.Price.Cost)
	}
	if b.Price.Payment.CompanyReceives != 200 {
		t.Errorf("CompanyReceives = %d, want 200", b.Price.Payment.CompanyReceives)
	}
}

func TestCreate_RejectsSecondActiveBooking(t *testing.T) {
	svc := newTestService(newMemStore(), nil)
	mustCreate(t, svc, "c_active", CreateCommand{})
	_, err := svc.Create(context.Background(), CreateCommand{CustomerID: "c_active"})
	if !errors.Is(err, ErrActiveBooking) {
		t.Fatalf("err = %v, want ErrActiveBooking", err)
	}
}

func TestCreate_MissingCustomer(t *testing.T) {
	svc := newTestService(newMemStore(), nil)
	if _, err := svc.Create(context.Background(), CreateCommand{}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestCreate_DistanceFromEstimator(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, stubDistance{km: 12.5})
	id := mustCreate(t, svc, "c_dist", CreateCommand{
		Pickup:  types.Point{Lat: -1.2864, Lng: 36.8172},
		Dropoff: types.Point{Lat: -1.2673, Lng: 36.8111},
		Cargo:   costing.BookingData{Vehicle: costing.VehicleVan},
	})
	b, _ := svc.Get(context.Background(), id)
	if b.Cargo.ActualDistanceKm != 12.5 {
		t.Errorf("distance = %v, want 12.5 from estimator", b.Cargo.ActualDistanceKm)
	}
	if b.Price.Breakdown.DistanceCost != 1500 { // 12.5 km * 120
		t.Errorf("DistanceCost = %d, want 1500", b.Price.Breakdown.DistanceCost)
	}
}

func TestCreate_DistanceFallsBackToHaversine(t *testing.T) {
	svc := newTestService(newMemStore(), stubDistance{err: errors.New("maps down")})
	// Nairobi CBD to Westlands, a couple of kilometres apart.
	id := mustCreate(t, svc, "c_hav", CreateCommand{
		Pickup:  types.Point{Lat: -1.2864, Lng: 36.8172},
		Dropoff: types.Point{Lat: -1.2673, Lng: 36.8111},
	})
	b, _ := svc.Get(context.Background(), id)
	if b.Cargo.ActualDistanceKm <= 0 || b.Cargo.ActualDistanceKm > 10 {
		t.Errorf("haversine fallback distance = %v, want a few km", b.Cargo.ActualDistanceKm)
	}
}

func TestCreate_ExplicitDistanceWins(t *testing.T) {
	svc := newTestService(newMemStore(), stubDistance{km: 99})
	id := mustCreate(t, svc, "c_explicit", CreateCommand{
		Pickup:  types.Point{Lat: -1.2864, Lng: 36.8172},
		Dropoff: types.Point{Lat: -1.2673, Lng: 36.8111},
		Cargo:   costing.BookingData{ActualDistanceKm: 10},
	})
	b, _ := svc.Get(context.Background(), id)
	if b.Cargo.ActualDistanceKm != 10 {
		t.Errorf("distance = %v, want caller-provided 10", b.Cargo.ActualDistanceKm)
	}
}

func TestInvalidTransitions(t *testing.T) {
	svc := newTestService(newMemStore(), nil)
	ctx := context.Background()
	id := mustCreate(t, svc, "c_invalid", CreateCommand{})

	if err := svc.Deliver(ctx, DeliverCommand{BookingID: id}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("deliver from requested: err = %v, want ErrInvalidState", err)
	}
	if err := svc.Pickup(ctx, PickupCommand{BookingID: id}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("pickup from requested: err = %v, want ErrInvalidState", err)
	}
}

func TestCancel_BlockedOnceInTransit(t *testing.T) {
	svc := newTestService(newMemStore(), nil)
	ctx := context.Background()
	id := mustCreate(t, svc, "c_cancel", CreateCommand{})

	_ = svc.Assign(ctx, AssignCommand{BookingID: id, TransporterID: "t1"})
	_ = svc.Pickup(ctx, PickupCommand{BookingID: id})
	_ = svc.Depart(ctx, DepartCommand{BookingID: id})

	err := svc.Cancel(ctx, CancelCommand{BookingID: id, ActorType: "customer", Reason: "changed my mind"})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("cancel in transit: err = %v, want ErrInvalidState", err)
	}
}

func TestCancel_PersistsReason(t *testing.T) {
	svc := newTestService(newMemStore(), nil)
	ctx := context.Background()
	id := mustCreate(t, svc, "c_reason", CreateCommand{})

	err := svc.Cancel(ctx, CancelCommand{BookingID: id, ActorType: "customer", Reason: "found cheaper transport"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	b, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.Status != StatusCancelled {
		t.Fatalf("status = %s, want cancelled", b.Status)
	}
	if b.CancelReason == nil || *b.CancelReason != "found cheaper transport" {
		t.Errorf("CancelReason = %v, want the submitted reason", b.CancelReason)
	}
}

// TestAssignSameTime lets several transporters race for one booking;
// exactly one may win, the rest get a state or conflict error.
func TestAssignSameTime(t *testing.T) {
	svc := newTestService(newMemStore(), nil)
	ctx := context.Background()
	id := mustCreate(t, svc, "c_race", CreateCommand{})

	transporters := []types.ID{"t1", "t2", "t3"}
	errs := make(chan error, len(transporters))
	start := make(chan struct{})
	var wg sync.WaitGroup

	for _, tid := range transporters {
		wg.Add(1)
		go func(tid types.ID) {
			defer wg.Done()
			<-start
			errs <- svc.Assign(ctx, AssignCommand{BookingID: id, TransporterID: tid})
		}(tid)
	}
	close(start)
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, ErrConflict) && !errors.Is(err, ErrInvalidState) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
	assertStatus(t, svc, id, StatusAssigned)
}

func TestHaversineKm(t *testing.T) {
	// Nairobi CBD to Mombasa, roughly 440 km great-circle.
	got := haversineKm(-1.2864, 36.8172, -4.0435, 39.6682)
	if math.Abs(got-440) > 15 {
		t.Errorf("haversineKm = %f, want ~440", got)
	}
	if d := haversineKm(-1.3, 36.8, -1.3, 36.8); d > 0.001 {
		t.Errorf("same point distance = %f, want 0", d)
	}
	// symmetry
	d1 := haversineKm(-1.2, 36.8, -1.4, 36.9)
	d2 := haversineKm(-1.4, 36.9, -1.2, 36.8)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}
