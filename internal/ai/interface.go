package ai

import (
	"context"
)

// LLMProvider defines the contract for interacting with AI models.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type LLMProvider interface {
	// ExplainBreakdown turns an itemised quote into a short plain-language
	// summary a customer can read in the app.
	ExplainBreakdown(ctx context.Context, facts QuoteFacts) (*ExplanationResult, error)
}
