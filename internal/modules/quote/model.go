// README: Quote aggregate: a priced booking request with a shareable ID.
package quote

import (
	"errors"
	"time"

	"tuma/internal/modules/costing"
	"tuma/internal/types"
)

var (
	ErrNotFound = errors.New("quote not found or expired")
	ErrNoAI     = errors.New("ai explanations not configured")
)

// Quote snapshots a computed price so the booking flow can reference the
// exact figures the customer was shown. Quotes live in Redis with a TTL;
// an expired quote simply has to be recomputed.
type Quote struct {
	ID        types.ID            `json:"id"`
	Request   costing.BookingData `json:"request"`
	Result    costing.CostResult  `json:"result"`
	CreatedAt time.Time           `json:"created_at"`
}
