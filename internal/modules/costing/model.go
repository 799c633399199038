// README: Cost engine input/output records.
package costing

// Urgency levels accepted on a booking. Anything else is treated as UrgencyLow.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// Vehicle types with a fixed base fare. Unknown types fall back to the
// default base fare (same as truck).
type VehicleType string

const (
	VehicleTruck      VehicleType = "truck"
	VehicleVan        VehicleType = "van"
	VehiclePickup     VehicleType = "pickup"
	VehicleMotorcycle VehicleType = "motorcycle"
)

// BookingData is the flat shipment record the engine prices. It is never
// mutated; Compute is a pure function of this value. Zero values are the
// "no surcharge" defaults, so a partially filled record is always safe.
type BookingData struct {
	ActualDistanceKm float64
	WeightKg         float64
	LengthCm         float64
	WidthCm          float64
	HeightCm         float64
	Urgency          Urgency
	Perishable       bool
	Refrigeration    bool
	HumidityControl  bool
	Bulky            bool
	Insured          bool
	Priority         bool
	NightDelivery    bool
	SpecialCargo     []string
	DeclaredValue    float64
	Tolls            float64
	FuelSurchargePct float64
	WaitMinutes      float64
	Vehicle          VehicleType
}

// CostBreakdown itemises every fee line in whole shillings. Line items are
// rounded independently for display; Subtotal and Total are rounded once
// from the full-precision running sums, so summing the rounded lines may
// differ from Subtotal by a shilling or two.
type CostBreakdown struct {
	BaseFare             int64 `json:"base_fare"`
	DistanceCost         int64 `json:"distance_cost"`
	WeightCost           int64 `json:"weight_cost"`
	UrgencySurcharge     int64 `json:"urgency_surcharge"`
	PerishableSurcharge  int64 `json:"perishable_surcharge"`
	RefrigerationCharge  int64 `json:"refrigeration_surcharge"`
	HumiditySurcharge    int64 `json:"humidity_surcharge"`
	SpecialCargoCharge   int64 `json:"special_cargo_surcharge"`
	BulkinessSurcharge   int64 `json:"bulkiness_surcharge"`
	InsuranceFee         int64 `json:"insurance_fee"`
	PriorityFee          int64 `json:"priority_fee"`
	WaitTimeFee          int64 `json:"wait_time_fee"`
	TollFee              int64 `json:"toll_fee"`
	NightSurcharge       int64 `json:"night_surcharge"`
	FuelSurcharge        int64 `json:"fuel_surcharge"`
	Subtotal             int64 `json:"subtotal"`
	Total                int64 `json:"total"`
}

// PaymentBreakdown is the two-party split derived from a CostBreakdown:
// the transporter is paid the subtotal, the platform keeps the insurance
// fee. CompanyReceives is nonzero only for insured shipments with a
// positive declared value.
type PaymentBreakdown struct {
	TransporterReceives int64 `json:"transporter_receives"`
	CompanyReceives     int64 `json:"company_receives"`
	Total               int64 `json:"total"`
}

// CostResult is the full pricing answer handed to callers. It is built
// fresh on every Compute call and owned entirely by the caller.
type CostResult struct {
	Cost               int64            `json:"cost"`
	TransporterPayment int64            `json:"transporter_payment"`
	Breakdown          CostBreakdown    `json:"cost_breakdown"`
	Payment            PaymentBreakdown `json:"payment_breakdown"`
}
