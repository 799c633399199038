package costing

import (
	"reflect"
	"testing"
)

func TestCompute_BaselineTruck(t *testing.T) {
	// 500 base + 10km*120 + 500kg*10 = 6700, no surcharges.
	res := Compute(BookingData{
		Vehicle:          VehicleTruck,
		ActualDistanceKm: 10,
		WeightKg:         500,
	})

	b := res.Breakdown
	if b.BaseFare != 500 || b.DistanceCost != 1200 || b.WeightCost != 5000 {
		t.Errorf("lines = base %d, distance %d, weight %d; want 500, 1200, 5000",
			b.BaseFare, b.DistanceCost, b.WeightCost)
	}
	if b.Subtotal != 6700 || b.Total != 6700 {
		t.Errorf("subtotal/total = %d/%d, want 6700/6700", b.Subtotal, b.Total)
	}
	if res.Cost != 6700 || res.TransporterPayment != 6700 {
		t.Errorf("cost/transporter = %d/%d, want 6700/6700", res.Cost, res.TransporterPayment)
	}
}

func TestCompute_BaseFares(t *testing.T) {
	tests := []struct {
		vehicle  VehicleType
		wantBase int64
	}{
		{VehicleTruck, 500},
		{VehicleVan, 300},
		{VehiclePickup, 200},
		{VehicleMotorcycle, 100},
		{VehicleType("trailer"), 500}, // unknown falls back to default
		{VehicleType(""), 500},        // missing field
	}
	for _, tt := range tests {
		res := Compute(BookingData{Vehicle: tt.vehicle})
		if res.Breakdown.BaseFare != tt.wantBase {
			t.Errorf("Compute(vehicle=%q).BaseFare = %d, want %d",
				tt.vehicle, res.Breakdown.BaseFare, tt.wantBase)
		}
	}
}

// TestCompute_UrgencyPerishableCompounding pins the compounding order:
// the perishable surcharge is a percentage of the running cost after the
// urgency surcharge, not of the pre-urgency base.
func TestCompute_UrgencyPerishableCompounding(t *testing.T) {
	res := Compute(BookingData{
		Vehicle:          VehicleTruck,
		ActualDistanceKm: 10,
		WeightKg:         500,
		Urgency:          UrgencyHigh,
		Perishable:       true,
	})

	b := res.Breakdown
	if b.UrgencySurcharge != 2010 { // 30% of 6700
		t.Errorf("UrgencySurcharge = %d, want 2010", b.UrgencySurcharge)
	}
	if b.PerishableSurcharge != 871 { // 10% of 8710, not 10% of 6700
		t.Errorf("PerishableSurcharge = %d, want 871", b.PerishableSurcharge)
	}
	if b.Subtotal != 9581 {
		t.Errorf("Subtotal = %d, want 9581", b.Subtotal)
	}
}

func TestCompute_InsuranceSplit(t *testing.T) {
	res := Compute(BookingData{
		Vehicle:          VehicleTruck,
		ActualDistanceKm: 10,
		WeightKg:         500,
		Insured:          true,
		DeclaredValue:    10000,
	})

	b := res.Breakdown
	if b.InsuranceFee != 200 { // 2% of declared value
		t.Errorf("InsuranceFee = %d, want 200", b.InsuranceFee)
	}
	// Insurance never joins the transporter-facing subtotal.
	if b.Subtotal != 6700 || b.Total != 6900 {
		t.Errorf("subtotal/total = %d/%d, want 6700/6900", b.Subtotal, b.Total)
	}
	want := PaymentBreakdown{TransporterReceives: 6700, CompanyReceives: 200, Total: 6900}
	if res.Payment != want {
		t.Errorf("Payment = %+v, want %+v", res.Payment, want)
	}
}

func TestCompute_InsuranceRequiresFlagAndValue(t *testing.T) {
	tests := []struct {
		name    string
		insured bool
		value   float64
	}{
		{"flag without value", true, 0},
		{"value without flag", false, 10000},
		{"neither", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(BookingData{Vehicle: VehicleVan, Insured: tt.insured, DeclaredValue: tt.value})
			if res.Breakdown.InsuranceFee != 0 {
				t.Errorf("InsuranceFee = %d, want 0", res.Breakdown.InsuranceFee)
			}
			if res.Payment.CompanyReceives != 0 {
				t.Errorf("CompanyReceives = %d, want 0", res.Payment.CompanyReceives)
			}
		})
	}
}

func TestCompute_WeightTiers(t *testing.T) {
	tests := []struct {
		name     string
		weightKg float64
		wantCost int64
	}{
		{"small shipment 10/kg", 500, 5000},
		{"just under first boundary", 999, 9990},
		{"exact 1000 takes the 8/kg tier", 1000, 8000},
		{"mid tier 8/kg", 5000, 40000},
		{"just under second boundary", 9999, 79992},
		{"exact 10000 takes the 5/kg tier", 10000, 50000},
		{"heavy 5/kg", 20000, 100000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(BookingData{Vehicle: VehicleTruck, WeightKg: tt.weightKg})
			if res.Breakdown.WeightCost != tt.wantCost {
				t.Errorf("WeightCost(%v kg) = %d, want %d", tt.weightKg, res.Breakdown.WeightCost, tt.wantCost)
			}
		})
	}
}

func TestCompute_VolumetricWeight(t *testing.T) {
	// 100×100×100 cm / 5000 = 200 kg volumetric, beats 50 kg actual.
	res := Compute(BookingData{
		Vehicle: VehicleTruck, WeightKg: 50,
		LengthCm: 100, WidthCm: 100, HeightCm: 100,
	})
	if res.Breakdown.WeightCost != 2000 {
		t.Errorf("WeightCost = %d, want 2000 (200 kg volumetric * 10)", res.Breakdown.WeightCost)
	}

	// Actual weight wins when it exceeds volumetric.
	res = Compute(BookingData{
		Vehicle: VehicleTruck, WeightKg: 900,
		LengthCm: 100, WidthCm: 100, HeightCm: 100,
	})
	if res.Breakdown.WeightCost != 9000 {
		t.Errorf("WeightCost = %d, want 9000 (actual 900 kg * 10)", res.Breakdown.WeightCost)
	}

	// Dimensions are all-or-nothing: a missing side disables volumetric.
	res = Compute(BookingData{
		Vehicle: VehicleTruck, WeightKg: 50,
		LengthCm: 100, WidthCm: 100,
	})
	if res.Breakdown.WeightCost != 500 {
		t.Errorf("WeightCost = %d, want 500 (volumetric ignored)", res.Breakdown.WeightCost)
	}
}

// TestCompute_FullyLoaded exercises every fee line at once and pins the
// whole compounding chain end to end.
func TestCompute_FullyLoaded(t *testing.T) {
	res := Compute(BookingData{
		Vehicle:          VehicleTruck,
		ActualDistanceKm: 10,
		WeightKg:         500,
		Urgency:          UrgencyHigh,
		Perishable:       true,
		Refrigeration:    true,
		HumidityControl:  true,
		SpecialCargo:     []string{"livestock"},
		Bulky:            true,
		Insured:          true,
		DeclaredValue:    10000,
		Priority:         true,
		WaitMinutes:      10,
		NightDelivery:    true,
		Tolls:            250,
		FuelSurchargePct: 0.05,
	})

	// Running cost: 6700 ×1.3 ×1.1 ×1.15 ×1.05 ×1.2 ×1.25 = 17353.58625
	// +2000 priority +300 wait +300 night +250 tolls = 20203.58625
	// ×1.05 fuel = 21213.77 → subtotal 21214, +200 insurance → total 21414.
	b := res.Breakdown
	lines := map[string]struct{ got, want int64 }{
		"urgency":       {b.UrgencySurcharge, 2010},
		"perishable":    {b.PerishableSurcharge, 871},
		"refrigeration": {b.RefrigerationCharge, 1437},
		"humidity":      {b.HumiditySurcharge, 551},
		"special cargo": {b.SpecialCargoCharge, 2314},
		"bulkiness":     {b.BulkinessSurcharge, 3471},
		"insurance":     {b.InsuranceFee, 200},
		"priority":      {b.PriorityFee, 2000},
		"wait time":     {b.WaitTimeFee, 300},
		"night":         {b.NightSurcharge, 300},
		"toll":          {b.TollFee, 250},
		"fuel":          {b.FuelSurcharge, 1010},
	}
	for name, l := range lines {
		if l.got != l.want {
			t.Errorf("%s line = %d, want %d", name, l.got, l.want)
		}
	}
	if b.Subtotal != 21214 || b.Total != 21414 {
		t.Errorf("subtotal/total = %d/%d, want 21214/21414", b.Subtotal, b.Total)
	}
}

func TestCompute_EmptySpecialCargoNoSurcharge(t *testing.T) {
	res := Compute(BookingData{Vehicle: VehicleVan, SpecialCargo: []string{}})
	if res.Breakdown.SpecialCargoCharge != 0 {
		t.Errorf("SpecialCargoCharge = %d, want 0 for empty list", res.Breakdown.SpecialCargoCharge)
	}
}

// TestCompute_Invariants checks the subtotal/total and payment-split
// identities over a spread of inputs, including permissive negatives.
func TestCompute_Invariants(t *testing.T) {
	inputs := []BookingData{
		{},
		{Vehicle: VehicleMotorcycle, ActualDistanceKm: 3.7, WeightKg: 12.5},
		{Vehicle: VehicleTruck, ActualDistanceKm: 250, WeightKg: 15000, Urgency: UrgencyMedium, Bulky: true},
		{Vehicle: VehicleVan, Insured: true, DeclaredValue: 99999, FuelSurchargePct: 0.12},
		{Vehicle: VehiclePickup, WaitMinutes: 45, Tolls: 780.5, NightDelivery: true},
		{Vehicle: VehicleTruck, ActualDistanceKm: -10, WeightKg: 500}, // negatives pass through
	}
	for i, in := range inputs {
		res := Compute(in)
		if res.Breakdown.Subtotal+res.Breakdown.InsuranceFee != res.Breakdown.Total {
			t.Errorf("input %d: subtotal %d + insurance %d != total %d",
				i, res.Breakdown.Subtotal, res.Breakdown.InsuranceFee, res.Breakdown.Total)
		}
		p := res.Payment
		if p.TransporterReceives+p.CompanyReceives != p.Total {
			t.Errorf("input %d: payment split %d + %d != %d",
				i, p.TransporterReceives, p.CompanyReceives, p.Total)
		}
	}
}

// Negative numeric inputs are deliberately not rejected or clamped; the
// engine stays a total function and passes them through arithmetic.
func TestCompute_NegativeDistancePreserved(t *testing.T) {
	res := Compute(BookingData{Vehicle: VehicleTruck, ActualDistanceKm: -10, WeightKg: 500})
	if res.Breakdown.DistanceCost != -1200 {
		t.Errorf("DistanceCost = %d, want -1200", res.Breakdown.DistanceCost)
	}
	if res.Breakdown.Subtotal != 4300 {
		t.Errorf("Subtotal = %d, want 4300", res.Breakdown.Subtotal)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	in := BookingData{
		Vehicle: VehicleVan, ActualDistanceKm: 42.195, WeightKg: 1234.5,
		Urgency: UrgencyMedium, Perishable: true, SpecialCargo: []string{"glass"},
		Insured: true, DeclaredValue: 55000, FuelSurchargePct: 0.08,
	}
	a := Compute(in)
	b := Compute(in)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Compute is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "KES 0"},
		{6700, "KES 6,700"},
		{21414, "KES 21,414"},
		{1000000, "KES 1,000,000"},
		{-1200, "KES -1,200"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.amount); got != tt.want {
			t.Errorf("FormatCurrency(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
