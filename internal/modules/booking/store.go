// README: Booking store backed by PostgreSQL.
package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tuma/internal/modules/costing"
	"tuma/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, b *Booking) error {
	cargo, err := json.Marshal(b.Cargo)
	if err != nil {
		return fmt.Errorf("marshal cargo: %w", err)
	}
	breakdown, err := json.Marshal(b.Price.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, customer_id, transporter_id, status, status_version,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			cargo, breakdown, subtotal, insurance_fee, total, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15
		)`,
		string(b.ID),
		string(b.CustomerID),
		toStringPtr(b.TransporterID),
		string(b.Status),
		b.StatusVersion,
		b.Pickup.Lat, b.Pickup.Lng,
		b.Dropoff.Lat, b.Dropoff.Lng,
		cargo,
		breakdown,
		b.Price.Breakdown.Subtotal,
		b.Price.Breakdown.InsuranceFee,
		b.Price.Breakdown.Total,
		b.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, customer_id, transporter_id, status, status_version,
		       pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
		       cargo, breakdown, subtotal, insurance_fee, total,
		       created_at, assigned_at, picked_up_at, departed_at, delivered_at, paid_at, cancelled_at, cancellation_reason
		FROM bookings
		WHERE id = $1`, string(id),
	)

	var b Booking
	var transporterID sql.NullString
	var cargo, breakdown []byte
	var subtotal, insuranceFee, total int64
	var assignedAt, pickedUpAt, departedAt, deliveredAt, paidAt, cancelledAt sql.NullTime
	var cancelReason sql.NullString

	err := row.Scan(
		&b.ID, &b.CustomerID, &transporterID, &b.Status, &b.StatusVersion,
		&b.Pickup.Lat, &b.Pickup.Lng, &b.Dropoff.Lat, &b.Dropoff.Lng,
		&cargo, &breakdown, &subtotal, &insuranceFee, &total,
		&b.CreatedAt, &assignedAt, &pickedUpAt, &departedAt, &deliveredAt, &paidAt, &cancelledAt, &cancelReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if transporterID.Valid {
		t := types.ID(transporterID.String)
		b.TransporterID = &t
	}
	if err := json.Unmarshal(cargo, &b.Cargo); err != nil {
		return nil, fmt.Errorf("unmarshal cargo: %w", err)
	}
	if err := json.Unmarshal(breakdown, &b.Price.Breakdown); err != nil {
		return nil, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	b.Price.Cost = total
	b.Price.TransporterPayment = subtotal
	b.Price.Payment = costing.PaymentBreakdown{
		TransporterReceives: subtotal,
		CompanyReceives:     insuranceFee,
		Total:               total,
	}
	b.AssignedAt = toTimePtr(assignedAt)
	b.PickedUpAt = toTimePtr(pickedUpAt)
	b.DepartedAt = toTimePtr(departedAt)
	b.DeliveredAt = toTimePtr(deliveredAt)
	b.PaidAt = toTimePtr(paidAt)
	b.CancelledAt = toTimePtr(cancelledAt)
	if cancelReason.Valid {
		b.CancelReason = &cancelReason.String
	}
	return &b, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, transporterID *types.ID, cancelReason *string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = $1,
		    status_version = status_version + 1,
		    transporter_id = COALESCE($2, transporter_id),
		    assigned_at = CASE WHEN $1 = 'assigned' THEN NOW() ELSE assigned_at END,
		    picked_up_at = CASE WHEN $1 = 'picked_up' THEN NOW() ELSE picked_up_at END,
		    departed_at = CASE WHEN $1 = 'in_transit' THEN NOW() ELSE departed_at END,
		    delivered_at = CASE WHEN $1 = 'delivered' THEN NOW() ELSE delivered_at END,
		    paid_at = CASE WHEN $1 = 'paid' THEN NOW() ELSE paid_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END,
		    cancellation_reason = CASE WHEN $1 = 'cancelled' THEN $6 ELSE cancellation_reason END
		WHERE id = $3 AND status = $4 AND status_version = $5`,
		string(to),
		toStringPtr(transporterID),
		string(id),
		string(from),
		version,
		cancelReason,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO booking_events (booking_id, from_status, to_status, actor_type, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.BookingID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		toStringPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

func (s *Store) HasActiveByCustomer(ctx context.Context, customerID types.ID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE customer_id = $1
			  AND status NOT IN ('delivered', 'paid', 'cancelled')
		)`, string(customerID),
	).Scan(&exists)
	return exists, err
}

func toStringPtr(id *types.ID) *string {
	if id == nil {
		return nil
	}
	v := string(*id)
	return &v
}

func toTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
