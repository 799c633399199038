// README: HTTP router registration.
package http

import (
	"github.com/gin-gonic/gin"

	"tuma/internal/http/handlers"
	"tuma/internal/http/middleware"
	"tuma/internal/infra"
	"tuma/internal/modules/booking"
	"tuma/internal/modules/payment"
	"tuma/internal/modules/quote"
)

type RouterDeps struct {
	Quotes   *quote.Service
	Bookings *booking.Service
	Payments *payment.Service
	Verifier infra.TokenVerifier
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Card validation is a form helper; it carries no account data and
	// stays public so checkout forms can validate before sign-in.
	cardHandler := handlers.NewCardHandler()
	r.POST("/api/cards/validate", cardHandler.Validate)

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.Verifier))

	quoteHandler := handlers.NewQuoteHandler(deps.Quotes)
	api.POST("/quotes", quoteHandler.Create)
	api.GET("/quotes/:id", quoteHandler.Get)
	api.POST("/quotes/:id/explain", quoteHandler.Explain)

	bookingHandler := handlers.NewBookingHandler(deps.Bookings)
	api.POST("/bookings", bookingHandler.Create)
	api.GET("/bookings/:id", bookingHandler.Get)
	api.POST("/bookings/:id/assign", bookingHandler.Assign)
	api.POST("/bookings/:id/pickup", bookingHandler.Pickup)
	api.POST("/bookings/:id/depart", bookingHandler.Depart)
	api.POST("/bookings/:id/deliver", bookingHandler.Deliver)
	api.POST("/bookings/:id/cancel", bookingHandler.Cancel)

	paymentHandler := handlers.NewPaymentHandler(deps.Payments, deps.Bookings)
	api.POST("/bookings/:id/pay", paymentHandler.Pay)
	api.GET("/bookings/:id/payment", paymentHandler.GetByBooking)

	return r
}
