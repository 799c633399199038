// README: Payment store backed by PostgreSQL.
package payment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tuma/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, p *Payment) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO payments (
			id, booking_id, card_network, masked_number,
			transporter_amount, company_amount, total, currency, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(p.ID),
		string(p.BookingID),
		p.CardNetwork,
		p.MaskedNumber,
		p.TransporterAmount,
		p.CompanyAmount,
		p.Total,
		p.Currency,
		string(p.Status),
		p.CreatedAt,
	)
	return err
}

func (s *Store) GetByBooking(ctx context.Context, bookingID types.ID) (*Payment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, booking_id, card_network, masked_number,
		       transporter_amount, company_amount, total, currency, status, created_at
		FROM payments
		WHERE booking_id = $1`, string(bookingID),
	)

	var p Payment
	err := row.Scan(
		&p.ID, &p.BookingID, &p.CardNetwork, &p.MaskedNumber,
		&p.TransporterAmount, &p.CompanyAmount, &p.Total, &p.Currency, &p.Status, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
