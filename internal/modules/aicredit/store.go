package aicredit

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles explain_credits persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// UseCredit atomically checks the monthly allowance and deducts one credit.
// The counter resets to MonthlyAllowance when last_reset_month is behind the
// current month. Returns ErrInsufficientCredits when 0 rows are updated
// (allowance exhausted or user absent).
func (s *Store) UseCredit(ctx context.Context, uid string) error {
	month := time.Now().Format("2006-01")

	tag, err := s.db.Exec(ctx, `
		UPDATE explain_credits SET
			credits_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE credits_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR credits_remaining > 0)
	`, month, MonthlyAllowance, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientCredits
	}
	return nil
}

// EnsureUser inserts an explain_credits row for uid with the full allowance.
// If the row already exists the insert is silently skipped.
func (s *Store) EnsureUser(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO explain_credits (uid, credits_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, MonthlyAllowance, time.Now().Format("2006-01"))
	return err
}

// Remaining returns the user's current credit balance, accounting for a
// month rollover that has not been materialised yet. Unknown users report
// the full allowance.
func (s *Store) Remaining(ctx context.Context, uid string) (int, error) {
	month := time.Now().Format("2006-01")

	var remaining int
	var lastReset string
	err := s.db.QueryRow(ctx, `
		SELECT credits_remaining, last_reset_month FROM explain_credits WHERE uid = $1
	`, uid).Scan(&remaining, &lastReset)
	if errors.Is(err, pgx.ErrNoRows) {
		return MonthlyAllowance, nil
	}
	if err != nil {
		return 0, err
	}
	if lastReset != month {
		return MonthlyAllowance, nil
	}
	return remaining, nil
}
