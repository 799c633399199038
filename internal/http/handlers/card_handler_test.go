// README: Tests for the public card validation endpoint.
package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"tuma/internal/http/handlers"
)

func buildCardRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewCardHandler()
	r.POST("/api/cards/validate", h.Validate)
	return r
}

func TestCardValidate_ValidVisa(t *testing.T) {
	r := buildCardRouter()
	w := doRequest(r, http.MethodPost, "/api/cards/validate", map[string]any{
		"number":      "4111111111111111",
		"expiry":      "12/99",
		"cvv":         "123",
		"holder_name": "Jane Doe",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Visa") {
		t.Errorf("expected network Visa in body, got %s", body)
	}
	if strings.Contains(body, "4111111111111111") {
		t.Errorf("raw number must not be echoed back: %s", body)
	}
	if !strings.Contains(body, "1111") {
		t.Errorf("expected masked tail 1111 in body, got %s", body)
	}
}

func TestCardValidate_InvalidCardStillOK(t *testing.T) {
	r := buildCardRouter()
	w := doRequest(r, http.MethodPost, "/api/cards/validate", map[string]any{
		"number":      "1234",
		"expiry":      "13/20",
		"cvv":         "12",
		"holder_name": "X",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for invalid card, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Please check your card details") {
		t.Errorf("expected overall failure message, got %s", w.Body.String())
	}
}

func TestCardValidate_BadJSON(t *testing.T) {
	r := buildCardRouter()
	w := doRequest(r, http.MethodPost, "/api/cards/validate", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty body, got %d", w.Code)
	}
}
