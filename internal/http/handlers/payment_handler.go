// README: Payment handler: pay for a delivered booking by card.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tuma/internal/http/middleware"
	"tuma/internal/modules/booking"
	"tuma/internal/modules/card"
	"tuma/internal/modules/payment"
	"tuma/internal/types"
)

type PaymentHandler struct {
	payments *payment.Service
	bookings *booking.Service
}

func NewPaymentHandler(payments *payment.Service, bookings *booking.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments, bookings: bookings}
}

type payReq struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	HolderName string `json:"holder_name"`
}

type payResponse struct {
	PaymentID         types.ID `json:"payment_id"`
	BookingID         types.ID `json:"booking_id"`
	CardNetwork       string   `json:"card_network"`
	MaskedNumber      string   `json:"masked_number"`
	TransporterAmount int64    `json:"transporter_amount"`
	CompanyAmount     int64    `json:"company_amount"`
	Total             int64    `json:"total"`
	Currency          string   `json:"currency"`
	Status            string   `json:"status"`
}

// Pay handles POST /api/bookings/:id/pay. Only the booking's customer may
// pay, and only once the cargo is delivered.
func (h *PaymentHandler) Pay(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req payReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	b, err := h.bookings.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if b.CustomerID != types.ID(middleware.CallerUID(c)) {
		writeError(c, http.StatusForbidden, "only the booking customer can pay")
		return
	}

	p, err := h.payments.Pay(c.Request.Context(), payment.PayCommand{
		BookingID: types.ID(id),
		Card: card.Data{
			Number:     req.Number,
			Expiry:     req.Expiry,
			CVV:        req.CVV,
			HolderName: req.HolderName,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidCard):
			writeError(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, payment.ErrNotPayable), errors.Is(err, payment.ErrDuplicate):
			writeError(c, http.StatusConflict, err.Error())
		case errors.Is(err, booking.ErrNotFound):
			writeError(c, http.StatusNotFound, err.Error())
		default:
			writeError(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(c, http.StatusCreated, payResponse{
		PaymentID:         p.ID,
		BookingID:         p.BookingID,
		CardNetwork:       p.CardNetwork,
		MaskedNumber:      p.MaskedNumber,
		TransporterAmount: p.TransporterAmount,
		CompanyAmount:     p.CompanyAmount,
		Total:             p.Total,
		Currency:          p.Currency,
		Status:            string(p.Status),
	})
}

// GetByBooking handles GET /api/bookings/:id/payment.
func (h *PaymentHandler) GetByBooking(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid booking id")
		return
	}
	p, err := h.payments.GetByBooking(c.Request.Context(), types.ID(id))
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			writeError(c, http.StatusNotFound, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, payResponse{
		PaymentID:         p.ID,
		BookingID:         p.BookingID,
		CardNetwork:       p.CardNetwork,
		MaskedNumber:      p.MaskedNumber,
		TransporterAmount: p.TransporterAmount,
		CompanyAmount:     p.CompanyAmount,
		Total:             p.Total,
		Currency:          p.Currency,
		Status:            string(p.Status),
	})
}
