// README: Shipment cost engine; ordered compounding accumulation of surcharges.
package costing

import "math"

// Tariff constants. Several surcharges are percentages of the running cost,
// not of a fixed base, so the application order below is part of the tariff.
const (
	baseFareTruck      = 500
	baseFareVan        = 300
	baseFarePickup     = 200
	baseFareMotorcycle = 100
	baseFareDefault    = 500

	ratePerKm = 120

	// Tiered per-kg rate. The tier rate applies to the entire effective
	// weight, not marginally per bracket.
	weightTier1MaxKg = 1000
	weightTier2MaxKg = 10000
	weightTier1Rate  = 10
	weightTier2Rate  = 8
	weightTier3Rate  = 5

	// Volumetric divisor: (L×W×H cm³) / 5000 = kg.
	volumetricDivisor = 5000

	urgencyMediumPct  = 0.15
	urgencyHighPct    = 0.30
	perishablePct     = 0.10
	refrigerationPct  = 0.15
	humidityPct       = 0.05
	specialCargoPct   = 0.20
	bulkinessPct      = 0.25
	insurancePct      = 0.02

	priorityFlatFee  = 2000
	waitFeePerMinute = 30
	nightFlatFee     = 300
)

var baseFares = map[VehicleType]float64{
	VehicleTruck:      baseFareTruck,
	VehicleVan:        baseFareVan,
	VehiclePickup:     baseFarePickup,
	VehicleMotorcycle: baseFareMotorcycle,
}

// Compute prices a shipment. Pure, total and deterministic: it never
// returns an error, and any missing field degrades to the zero-surcharge
// default. All intermediate math is float64; rounding happens only when a
// breakdown line is emitted, and Subtotal/Total are rounded once from the
// full-precision sums rather than by adding pre-rounded lines.
func Compute(data BookingData) CostResult {
	var b CostBreakdown

	baseFare, ok := baseFares[data.Vehicle]
	if !ok {
		baseFare = baseFareDefault
	}
	running := baseFare
	b.BaseFare = round(baseFare)

	distanceCost := data.ActualDistanceKm * ratePerKm
	running += distanceCost
	b.DistanceCost = round(distanceCost)

	weightCost := weightCharge(data)
	running += weightCost
	b.WeightCost = round(weightCost)

	// From here on every percentage surcharge compounds against the cost
	// as it stands after the previous step.
	urgency := running * urgencyPct(data.Urgency)
	running += urgency
	b.UrgencySurcharge = round(urgency)

	if data.Perishable {
		fee := running * perishablePct
		running += fee
		b.PerishableSurcharge = round(fee)
	}
	if data.Refrigeration {
		fee := running * refrigerationPct
		running += fee
		b.RefrigerationCharge = round(fee)
	}
	if data.HumidityControl {
		fee := running * humidityPct
		running += fee
		b.HumiditySurcharge = round(fee)
	}
	if len(data.SpecialCargo) > 0 {
		fee := running * specialCargoPct
		running += fee
		b.SpecialCargoCharge = round(fee)
	}
	if data.Bulky {
		fee := running * bulkinessPct
		running += fee
		b.BulkinessSurcharge = round(fee)
	}

	// The insurance fee never joins the transporter-facing running cost;
	// it is the platform's share and only contributes to Total.
	var insurance float64
	if data.Insured && data.DeclaredValue > 0 {
		insurance = data.DeclaredValue * insurancePct
	}
	b.InsuranceFee = round(insurance)

	if data.Priority {
		running += priorityFlatFee
		b.PriorityFee = priorityFlatFee
	}

	waitFee := data.WaitMinutes * waitFeePerMinute
	running += waitFee
	b.WaitTimeFee = round(waitFee)

	if data.NightDelivery {
		running += nightFlatFee
		b.NightSurcharge = nightFlatFee
	}

	running += data.Tolls
	b.TollFee = round(data.Tolls)

	// Fuel surcharge is applied last so it taxes the fully loaded cost.
	fuel := running * data.FuelSurchargePct
	running += fuel
	b.FuelSurcharge = round(fuel)

	b.Subtotal = round(running)
	b.Total = round(running + insurance)

	p := PaymentBreakdown{
		TransporterReceives: b.Subtotal,
		CompanyReceives:     b.InsuranceFee,
	}
	p.Total = p.TransporterReceives + p.CompanyReceives

	return CostResult{
		Cost:               b.Total,
		TransporterPayment: b.Subtotal,
		Breakdown:          b,
		Payment:            p,
	}
}

// weightCharge applies the tiered per-kg rate to the effective weight: the
// greater of actual and volumetric weight. Volumetric weight only counts
// when all three dimensions are present.
func weightCharge(data BookingData) float64 {
	var volumetric float64
	if data.LengthCm > 0 && data.WidthCm > 0 && data.HeightCm > 0 {
		volumetric = data.LengthCm * data.WidthCm * data.HeightCm / volumetricDivisor
	}
	effective := math.Max(data.WeightKg, volumetric)

	// Boundaries belong to the next tier up: exactly 1000 kg is charged
	// at the 8/kg rate, exactly 10000 kg at the 5/kg rate.
	switch {
	case effective < weightTier1MaxKg:
		return effective * weightTier1Rate
	case effective < weightTier2MaxKg:
		return effective * weightTier2Rate
	default:
		return effective * weightTier3Rate
	}
}

func urgencyPct(u Urgency) float64 {
	switch u {
	case UrgencyMedium:
		return urgencyMediumPct
	case UrgencyHigh:
		return urgencyHighPct
	default:
		return 0
	}
}

func round(v float64) int64 {
	return int64(math.Round(v))
}

// Engine adapts the pure Compute function to the Pricer interfaces other
// modules accept, so they can be tested against doubles.
type Engine struct{}

func (Engine) Price(data BookingData) CostResult {
	return Compute(data)
}
