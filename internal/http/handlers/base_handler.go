// README: Base handler utilities (JSON helpers, error mapping, shared DTOs).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tuma/internal/modules/booking"
	"tuma/internal/modules/costing"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts UUIDs and Firebase UIDs: alphanumerics plus hyphens,
// at most 36 chars.
func isValidID(v string) bool {
	if v == "" || len(v) > 36 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeBookingError(c *gin.Context, err error) {
	switch err {
	case booking.ErrBadRequest:
		writeError(c, http.StatusBadRequest, err.Error())
	case booking.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case booking.ErrInvalidState, booking.ErrActiveBooking, booking.ErrConflict:
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// cargoReq is the wire form of a shipment; shared by quote and booking
// creation. Zero values mean "no surcharge", so clients send only what
// applies.
type cargoReq struct {
	DistanceKm       float64  `json:"distance_km"`
	WeightKg         float64  `json:"weight_kg"`
	LengthCm         float64  `json:"length_cm"`
	WidthCm          float64  `json:"width_cm"`
	HeightCm         float64  `json:"height_cm"`
	Urgency          string   `json:"urgency"`
	Perishable       bool     `json:"perishable"`
	Refrigeration    bool     `json:"refrigeration"`
	HumidityControl  bool     `json:"humidity_control"`
	Bulky            bool     `json:"bulky"`
	Insured          bool     `json:"insured"`
	Priority         bool     `json:"priority"`
	NightDelivery    bool     `json:"night_delivery"`
	SpecialCargo     []string `json:"special_cargo"`
	DeclaredValue    float64  `json:"declared_value"`
	Tolls            float64  `json:"tolls"`
	FuelSurchargePct float64  `json:"fuel_surcharge_pct"`
	WaitMinutes      float64  `json:"wait_minutes"`
	Vehicle          string   `json:"vehicle"`
}

func (r cargoReq) toBookingData() costing.BookingData {
	return costing.BookingData{
		ActualDistanceKm: r.DistanceKm,
		WeightKg:         r.WeightKg,
		LengthCm:         r.LengthCm,
		WidthCm:          r.WidthCm,
		HeightCm:         r.HeightCm,
		Urgency:          costing.Urgency(r.Urgency),
		Perishable:       r.Perishable,
		Refrigeration:    r.Refrigeration,
		HumidityControl:  r.HumidityControl,
		Bulky:            r.Bulky,
		Insured:          r.Insured,
		Priority:         r.Priority,
		NightDelivery:    r.NightDelivery,
		SpecialCargo:     r.SpecialCargo,
		DeclaredValue:    r.DeclaredValue,
		Tolls:            r.Tolls,
		FuelSurchargePct: r.FuelSurchargePct,
		WaitMinutes:      r.WaitMinutes,
		Vehicle:          costing.VehicleType(r.Vehicle),
	}
}

// priceResponse flattens a CostResult for API responses.
type priceResponse struct {
	Cost               int64                    `json:"cost"`
	CostDisplay        string                   `json:"cost_display"`
	TransporterPayment int64                    `json:"transporter_payment"`
	Breakdown          costing.CostBreakdown    `json:"cost_breakdown"`
	Payment            costing.PaymentBreakdown `json:"payment_breakdown"`
}

func toPriceResponse(r costing.CostResult) priceResponse {
	return priceResponse{
		Cost:               r.Cost,
		CostDisplay:        costing.FormatCurrency(r.Cost),
		TransporterPayment: r.TransporterPayment,
		Breakdown:          r.Breakdown,
		Payment:            r.Payment,
	}
}
