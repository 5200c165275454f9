package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gatepass/visitor-management/internal/model"
	"github.com/gatepass/visitor-management/internal/queue"
	queue_publisher "github.com/gatepass/visitor-management/internal/service"
	"github.com/gatepass/visitor-management/internal/store"
	"github.com/gatepass/visitor-management/internal/visitornumber"
)

// PassSender abstracts the mailer so the sendpdf handler can be tested
// without an SMTP server.
type PassSender interface {
	SendPass(to string, pdf []byte, visitorNumber int) error
}

// VisitorHandler bundles the visitor store and delivery dependencies for the
// registration, lifecycle and pass endpoints.
type VisitorHandler struct {
	Visitors     store.VisitorStore
	Sender       PassSender
	StrictStatus bool // enforce the lifecycle transition table when true
	PublishEvent func(ctx context.Context, ev queue.VisitCompletedEvent) error
}

// NewVisitorHandler constructs a VisitorHandler wired to the RabbitMQ
// publisher. Tests swap PublishEvent for a recorder.
func NewVisitorHandler(visitors store.VisitorStore, sender PassSender, strict bool) *VisitorHandler {
	if visitors == nil || sender == nil {
		panic("nil dependency passed to NewVisitorHandler")
	}
	return &VisitorHandler{
		Visitors:     visitors,
		Sender:       sender,
		StrictStatus: strict,
		PublishEvent: queue_publisher.PublishVisitCompleted,
	}
}

// Register handles POST /api/visitors. It assigns the display number, sets
// the status to Pending and returns the new id.
func (h *VisitorHandler) Register(c echo.Context) error {
	var body struct {
		Username      string `json:"username"`
		IDType        string `json:"idType"`
		IDNumber      string `json:"idNumber"`
		VehicleType   string `json:"vehicleType"`
		VehicleNumber string `json:"vehicleNumber"`
		InTime        string `json:"inTime"`
		Duration      int    `json:"duration"`
		DateOfVisit   string `json:"dateOfVisit"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date, err := model.ParseDate(strings.TrimSpace(body.DateOfVisit))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dateOfVisit must be YYYY-MM-DD"})
	}

	v := model.Visitor{
		VisitorNumber: visitornumber.Next(),
		Username:      body.Username,
		IDType:        body.IDType,
		IDNumber:      body.IDNumber,
		VehicleType:   body.VehicleType,
		VehicleNumber: body.VehicleNumber,
		InTime:        body.InTime,
		Duration:      body.Duration,
		DateOfVisit:   date,
		Status:        model.StatusPending,
	}
	if err := h.Visitors.Create(c.Request().Context(), &v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error registering visitor"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":            v.ID,
		"visitorNumber": v.VisitorNumber,
		"message":       "Visitor registered successfully",
	})
}

// List handles GET /api/visitors and returns all records, most recent visit
// date first. No pagination; filtering happens client-side.
func (h *VisitorHandler) List(c echo.Context) error {
	items, err := h.Visitors.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error fetching visitors"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/visitors/:id.
func (h *VisitorHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Visitors.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrVisitorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Visitor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error fetching visitor"})
	}
	return c.JSON(http.StatusOK, v)
}

// UpdateStatus handles PUT /api/visitors/:id/status. The write is
// permissive: whatever status the caller supplies is stored. With strict
// mode enabled the lifecycle transition table is enforced instead.
// Completing a visit additionally publishes a visit.completed event; publish
// failures are logged by the publisher and never surfaced here.
func (h *VisitorHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	if h.StrictStatus {
		if !model.ValidStatus(body.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		current, err := h.Visitors.GetByID(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrVisitorNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"message": "Visitor not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error updating visitor status"})
		}
		if !model.CanTransition(current.Status, body.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "illegal status transition"})
		}
	}

	if err := h.Visitors.UpdateStatus(c.Request().Context(), id, body.Status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error updating visitor status"})
	}

	if body.Status == model.StatusComplete {
		h.publishCompleted(id)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Visitor status updated successfully"})
}

// publishCompleted fires the visit.completed event off the request path.
func (h *VisitorHandler) publishCompleted(id uint64) {
	publish := h.PublishEvent
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		v, err := h.Visitors.GetByID(ctx, id)
		if err != nil {
			return // record gone or store down; the event simply isn't emitted
		}
		_ = publish(ctx, queue.VisitCompletedEvent{
			VisitorID:     v.ID,
			VisitorNumber: v.VisitorNumber,
			Username:      v.Username,
			Email:         v.Email,
			DateOfVisit:   v.DateOfVisit.String(),
			CompletedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}()
}

// UpdateEmail handles PUT /api/visitors/:id/email and overwrites the email
// field unconditionally.
func (h *VisitorHandler) UpdateEmail(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Visitors.UpdateEmail(c.Request().Context(), id, strings.TrimSpace(body.Email)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "error saving email"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Delete handles DELETE /api/visitors/:id. Deleting an absent id still
// reports success; the store's zero-row delete is a silent no-op.
func (h *VisitorHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Visitors.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error deleting visitor"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Visitor deleted successfully"})
}

// OldVisitorLogin handles POST /api/oldvisitor/login. This is a knowledge
// based identity check, not an auth primitive: the supplied details must
// exactly match a stored aadhar-registered visit.
func (h *VisitorHandler) OldVisitorLogin(c echo.Context) error {
	var body struct {
		Name          string `json:"name"`
		Aadhar        string `json:"aadhar"`
		IDNumber      string `json:"idNumber"`
		VehicleNumber string `json:"vehicleNumber"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	idNumber := body.Aadhar
	if idNumber == "" {
		idNumber = body.IDNumber
	}

	v, err := h.Visitors.FindReturning(c.Request().Context(), body.Name, idNumber, body.VehicleNumber)
	if err != nil {
		if errors.Is(err, store.ErrVisitorNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error logging in"})
	}
	return c.JSON(http.StatusOK, echo.Map{"visitor": v})
}

func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
