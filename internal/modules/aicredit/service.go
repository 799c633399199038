package aicredit

import "context"

// Service meters AI explanation usage per user.
type Service struct {
	store *Store
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// UseCredit deducts one explanation credit from the user's monthly allowance.
// First-time users are initialised lazily and the credit is immediately
// consumed. Returns ErrInsufficientCredits when the month's allowance is gone.
func (s *Service) UseCredit(ctx context.Context, uid string) error {
	err := s.store.UseCredit(ctx, uid)
	if err != ErrInsufficientCredits {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, uid); initErr != nil {
		return initErr
	}
	return s.store.UseCredit(ctx, uid)
}

// Remaining reports how many credits the user has left this month.
func (s *Service) Remaining(ctx context.Context, uid string) (int, error) {
	return s.store.Remaining(ctx, uid)
}
