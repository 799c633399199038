// README: Card validation handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tuma/internal/modules/card"
)

type CardHandler struct{}

func NewCardHandler() *CardHandler {
	return &CardHandler{}
}

// Validate handles POST /api/cards/validate. It always answers 200 for
// well-formed JSON: an invalid card is a verdict, not an error. The number
// is never echoed back; the response carries only the detected network,
// formatting hints and per-field verdicts.
func (h *CardHandler) Validate(c *gin.Context) {
	var req card.Data
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	v := card.Validate(req)
	resp := map[string]any{
		"validation":    v,
		"masked_number": card.MaskNumber(req.Number, card.DefaultMaskVisible),
	}
	if v.Number.Network != nil {
		resp["formatted_number"] = card.FormatNumber(req.Number, v.Number.Network)
	}
	writeJSON(c, http.StatusOK, resp)
}
