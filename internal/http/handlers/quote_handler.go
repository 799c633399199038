// README: Quote handlers: create, get and explain price quotes.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tuma/internal/http/middleware"
	"tuma/internal/modules/aicredit"
	"tuma/internal/modules/quote"
	"tuma/internal/types"
)

type QuoteHandler struct {
	quotes *quote.Service
}

func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{quotes: svc}
}

type quoteResponse struct {
	QuoteID   types.ID      `json:"quote_id"`
	CreatedAt time.Time     `json:"created_at"`
	Price     priceResponse `json:"price"`
}

// Create handles POST /api/quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req cargoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	q, err := h.quotes.Create(c.Request.Context(), req.toBookingData())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusCreated, quoteResponse{
		QuoteID:   q.ID,
		CreatedAt: q.CreatedAt,
		Price:     toPriceResponse(q.Result),
	})
}

// Get handles GET /api/quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid quote id")
		return
	}
	q, err := h.quotes.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			writeError(c, http.StatusNotFound, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, quoteResponse{
		QuoteID:   q.ID,
		CreatedAt: q.CreatedAt,
		Price:     toPriceResponse(q.Result),
	})
}

// Explain handles POST /api/quotes/:id/explain. One call burns one of the
// caller's monthly explanation credits.
func (h *QuoteHandler) Explain(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid quote id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	summary, err := h.quotes.Explain(ctx, types.ID(id), middleware.CallerUID(c))
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrNotFound):
			writeError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, quote.ErrNoAI):
			writeError(c, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, aicredit.ErrInsufficientCredits):
			writeError(c, http.StatusTooManyRequests, err.Error())
		default:
			writeError(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"explanation": summary})
}
