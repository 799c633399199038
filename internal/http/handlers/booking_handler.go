// README: Booking handlers: create, get, lifecycle transitions.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tuma/internal/http/middleware"
	"tuma/internal/modules/booking"
	"tuma/internal/types"
)

type BookingHandler struct {
	bookings *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{bookings: svc}
}

type createBookingReq struct {
	CustomerID string   `json:"customer_id"`
	PickupLat  float64  `json:"pickup_lat"`
	PickupLng  float64  `json:"pickup_lng"`
	DropoffLat float64  `json:"dropoff_lat"`
	DropoffLng float64  `json:"dropoff_lng"`
	Cargo      cargoReq `json:"cargo"`
}

// Create handles POST /api/bookings. Customers may only book for themselves.
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CustomerID == "" {
		writeError(c, http.StatusBadRequest, "missing customer_id")
		return
	}
	if req.CustomerID != middleware.CallerUID(c) {
		writeError(c, http.StatusForbidden, "cannot book for another user")
		return
	}
	id, err := h.bookings.Create(c.Request.Context(), booking.CreateCommand{
		CustomerID: types.ID(req.CustomerID),
		Pickup:     types.Point{Lat: req.PickupLat, Lng: req.PickupLng},
		Dropoff:    types.Point{Lat: req.DropoffLat, Lng: req.DropoffLng},
		Cargo:      req.Cargo.toBookingData(),
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, map[string]any{"booking_id": id, "status": booking.StatusRequested})
}

type bookingResponse struct {
	BookingID     types.ID      `json:"booking_id"`
	Status        string        `json:"status"`
	CustomerID    types.ID      `json:"customer_id"`
	TransporterID *types.ID     `json:"transporter_id,omitempty"`
	Price         priceResponse `json:"price"`
}

// Get handles GET /api/bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid booking id")
		return
	}
	b, err := h.bookings.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, bookingResponse{
		BookingID:     b.ID,
		Status:        string(b.Status),
		CustomerID:    b.CustomerID,
		TransporterID: b.TransporterID,
		Price:         toPriceResponse(b.Price),
	})
}

type assignReq struct {
	TransporterID string `json:"transporter_id"`
}

// Assign handles POST /api/bookings/:id/assign. Transporters claim jobs for
// themselves; the optimistic version check in the service resolves races.
func (h *BookingHandler) Assign(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if middleware.CallerRole(c) != "transporter" {
		writeError(c, http.StatusForbidden, "transporter role required")
		return
	}
	if req.TransporterID != middleware.CallerUID(c) {
		writeError(c, http.StatusForbidden, "cannot assign on behalf of another transporter")
		return
	}
	err := h.bookings.Assign(c.Request.Context(), booking.AssignCommand{
		BookingID:     types.ID(id),
		TransporterID: types.ID(req.TransporterID),
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": booking.StatusAssigned})
}

// Pickup handles POST /api/bookings/:id/pickup.
func (h *BookingHandler) Pickup(c *gin.Context) {
	h.transporterTransition(c, booking.StatusPickedUp, func(id types.ID) error {
		return h.bookings.Pickup(c.Request.Context(), booking.PickupCommand{BookingID: id})
	})
}

// Depart handles POST /api/bookings/:id/depart.
func (h *BookingHandler) Depart(c *gin.Context) {
	h.transporterTransition(c, booking.StatusInTransit, func(id types.ID) error {
		return h.bookings.Depart(c.Request.Context(), booking.DepartCommand{BookingID: id})
	})
}

// Deliver handles POST /api/bookings/:id/deliver.
func (h *BookingHandler) Deliver(c *gin.Context) {
	h.transporterTransition(c, booking.StatusDelivered, func(id types.ID) error {
		return h.bookings.Deliver(c.Request.Context(), booking.DeliverCommand{BookingID: id})
	})
}

// Cancel handles POST /api/bookings/:id/cancel. Cancellation is open to the
// customer until the cargo is in transit.
func (h *BookingHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid booking id")
		return
	}
	err := h.bookings.Cancel(c.Request.Context(), booking.CancelCommand{
		BookingID: types.ID(id),
		ActorType: "customer",
		Reason:    "user_cancel",
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": booking.StatusCancelled})
}

func (h *BookingHandler) transporterTransition(c *gin.Context, to booking.Status, do func(types.ID) error) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid booking id")
		return
	}
	if middleware.CallerRole(c) != "transporter" {
		writeError(c, http.StatusForbidden, "transporter role required")
		return
	}
	if err := do(types.ID(id)); err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"status": to})
}
