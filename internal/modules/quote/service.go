// README: Quote service: price, cache, retrieve and explain quotes.
package quote

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"tuma/internal/ai"
	"tuma/internal/modules/costing"
	"tuma/internal/types"
)

// Cache stores quotes for later retrieval. Production uses the Redis Store.
type Cache interface {
	Save(ctx context.Context, q Quote) error
	Get(ctx context.Context, id types.ID) (Quote, error)
}

// Credits meters AI explanations per user.
type Credits interface {
	UseCredit(ctx context.Context, uid string) error
}

type Service struct {
	cache    Cache
	provider ai.LLMProvider // nil when no API key is configured
	credits  Credits
	now      func() time.Time
}

func NewService(cache Cache, provider ai.LLMProvider, credits Credits) *Service {
	return &Service{cache: cache, provider: provider, credits: credits, now: time.Now}
}

// Create prices the request and caches the result under a fresh ID.
// Pricing itself is pure and never fails; only the cache write can.
func (s *Service) Create(ctx context.Context, data costing.BookingData) (Quote, error) {
	q := Quote{
		ID:        types.ID(uuid.NewString()),
		Request:   data,
		Result:    costing.Compute(data),
		CreatedAt: s.now().UTC(),
	}
	if err := s.cache.Save(ctx, q); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (Quote, error) {
	return s.cache.Get(ctx, id)
}

// Explain turns a cached quote's breakdown into a short human-readable
// summary via the LLM provider. One explanation costs one credit; the
// credit is only burned after the quote lookup succeeds.
func (s *Service) Explain(ctx context.Context, id types.ID, uid string) (string, error) {
	if s.provider == nil {
		return "", ErrNoAI
	}
	q, err := s.cache.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if s.credits != nil {
		if err := s.credits.UseCredit(ctx, uid); err != nil {
			return "", err
		}
	}
	result, err := s.provider.ExplainBreakdown(ctx, quoteFacts(q))
	if err != nil {
		log.Printf("quote explain failed for %s: %v", q.ID, err)
		return "", err
	}
	return result.Summary, nil
}

// quoteFacts flattens the breakdown into pre-formatted fee lines for the
// prompt, skipping zero lines so the model never invents absent fees.
func quoteFacts(q Quote) ai.QuoteFacts {
	b := q.Result.Breakdown
	lines := []struct {
		label  string
		amount int64
	}{
		{"Base fare", b.BaseFare},
		{"Distance cost", b.DistanceCost},
		{"Weight cost", b.WeightCost},
		{"Urgency surcharge", b.UrgencySurcharge},
		{"Perishable surcharge", b.PerishableSurcharge},
		{"Refrigeration surcharge", b.RefrigerationCharge},
		{"Humidity control surcharge", b.HumiditySurcharge},
		{"Special cargo surcharge", b.SpecialCargoCharge},
		{"Bulkiness surcharge", b.BulkinessSurcharge},
		{"Priority fee", b.PriorityFee},
		{"Wait time fee", b.WaitTimeFee},
		{"Toll fee", b.TollFee},
		{"Night surcharge", b.NightSurcharge},
		{"Fuel surcharge", b.FuelSurcharge},
		{"Insurance fee (platform share)", b.InsuranceFee},
	}
	facts := ai.QuoteFacts{
		Vehicle:     string(q.Request.Vehicle),
		DistanceKm:  q.Request.ActualDistanceKm,
		Transporter: costing.FormatCurrency(q.Result.TransporterPayment),
		Total:       costing.FormatCurrency(q.Result.Cost),
	}
	for _, l := range lines {
		if l.amount != 0 {
			facts.Lines = append(facts.Lines, l.label+": "+costing.FormatCurrency(l.amount))
		}
	}
	return facts
}
