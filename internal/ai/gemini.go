package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.3)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// ExplainBreakdown summarises a quote's fee lines in plain language.
func (p *GeminiProvider) ExplainBreakdown(ctx context.Context, facts QuoteFacts) (*ExplanationResult, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(buildExplainPrompt(facts)))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	// JSON mode should already return bare JSON; strip markdown fences anyway.
	cleanJSON := cleanJSONString(responseText.String())

	var result ExplanationResult
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	if strings.TrimSpace(result.Summary) == "" {
		return nil, fmt.Errorf("empty summary in model response")
	}

	return &result, nil
}

// buildExplainPrompt constructs the instructions for the AI.
func buildExplainPrompt(facts QuoteFacts) string {
	vehicle := facts.Vehicle
	if vehicle == "" {
		vehicle = "truck"
	}

	return fmt.Sprintf(`Role: You are the pricing assistant for "Tuma", a pickup-and-delivery app in Kenya.

A customer asked why their shipment quote costs what it does. Explain it
from the fee lines below. All amounts are in Kenyan shillings.

Shipment: %s, %.1f km.
Fee lines:
%s
Transporter receives: %s
Customer pays in total: %s

RULES:
1. Use ONLY the fee lines above. Never invent fees, totals, or discounts.
2. Do not do arithmetic; quote the amounts exactly as given.
3. Keep "summary" under 80 words, friendly and concrete.
4. Put at most three short per-fee remarks in "notes".
5. Respond with JSON: {"summary": string, "notes": [string]}.`,
		vehicle, facts.DistanceKm, "- "+strings.Join(facts.Lines, "\n- "),
		facts.Transporter, facts.Total)
}

// cleanJSONString removes markdown code fences the model occasionally adds.
func cleanJSONString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
