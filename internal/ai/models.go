package ai

// QuoteFacts is the fact sheet handed to the model. Amounts arrive
// pre-formatted so the model never does arithmetic or invents figures.
type QuoteFacts struct {
	// Vehicle is the booked vehicle type ("truck", "van", ...).
	Vehicle string

	// DistanceKm is the priced road distance.
	DistanceKm float64

	// Lines are the nonzero fee lines, already formatted ("Base fare: KES 500").
	Lines []string

	// Transporter is the formatted amount the transporter receives.
	Transporter string

	// Total is the formatted amount the customer pays.
	Total string
}

// ExplanationResult captures the structured output from the AI model.
type ExplanationResult struct {
	// Summary is a short paragraph explaining what drives the price.
	Summary string `json:"summary"`

	// Notes are optional per-fee remarks ("refrigeration adds 15%").
	Notes []string `json:"notes,omitempty"`
}
