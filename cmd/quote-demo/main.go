package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"tuma/internal/ai"
	"tuma/internal/modules/costing"
)

// Prices a sample shipment and, when GEMINI_API_KEY is set, asks the model
// to explain the breakdown the way the API's explain endpoint would.
func main() {
	data := costing.BookingData{
		ActualDistanceKm: 12.5,
		WeightKg:         350,
		Urgency:          costing.UrgencyHigh,
		Perishable:       true,
		Refrigeration:    true,
		Insured:          true,
		DeclaredValue:    150000,
		Vehicle:          costing.VehicleVan,
	}

	result := costing.Compute(data)

	fmt.Printf("Shipment: %s, %.1f km, %.0f kg\n", data.Vehicle, data.ActualDistanceKm, data.WeightKg)
	fmt.Printf("Customer pays:        %s\n", costing.FormatCurrency(result.Cost))
	fmt.Printf("Transporter receives: %s\n", costing.FormatCurrency(result.TransporterPayment))
	fmt.Printf("Insurance (platform): %s\n", costing.FormatCurrency(result.Breakdown.InsuranceFee))

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Println("\nGEMINI_API_KEY not set; skipping explanation.")
		return
	}

	ctx := context.Background()
	provider, err := ai.NewGeminiProvider(ctx, apiKey)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	b := result.Breakdown
	facts := ai.QuoteFacts{
		Vehicle:     string(data.Vehicle),
		DistanceKm:  data.ActualDistanceKm,
		Transporter: costing.FormatCurrency(result.TransporterPayment),
		Total:       costing.FormatCurrency(result.Cost),
		Lines: []string{
			"Base fare: " + costing.FormatCurrency(b.BaseFare),
			"Distance cost: " + costing.FormatCurrency(b.DistanceCost),
			"Weight cost: " + costing.FormatCurrency(b.WeightCost),
			"Urgency surcharge: " + costing.FormatCurrency(b.UrgencySurcharge),
			"Perishable surcharge: " + costing.FormatCurrency(b.PerishableSurcharge),
			"Refrigeration surcharge: " + costing.FormatCurrency(b.RefrigerationCharge),
			"Insurance fee (platform share): " + costing.FormatCurrency(b.InsuranceFee),
		},
	}

	explanation, err := provider.ExplainBreakdown(ctx, facts)
	if err != nil {
		log.Fatalf("Error explaining breakdown: %v", err)
	}

	fmt.Printf("\nSummary: %s\n", explanation.Summary)
	for _, note := range explanation.Notes {
		fmt.Printf("- %s\n", note)
	}
}
