package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gatepass/visitor-management/internal/model"
	"github.com/gatepass/visitor-management/internal/pass"
	"github.com/gatepass/visitor-management/internal/store"
)

// DownloadPass handles GET /api/visitors/:id/pdf. The pass exists only for
// completed visits; anything else is an invalid-state request.
func (h *VisitorHandler) DownloadPass(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Visitors.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrVisitorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Visitor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error generating PDF"})
	}
	if v.Status != model.StatusComplete {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "PDF can only be generated for completed visits"})
	}

	pdf, err := pass.Render(v)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error generating PDF"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", pass.Filename(v.VisitorNumber)))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// SendPassByEmail handles POST /api/visitors/:id/sendpdf. It renders the
// same document as the download endpoint and sends it in a single
// synchronous SMTP attempt; the response waits for the transport. The
// Complete gate applies here too, so a draft pass can never be mailed out.
func (h *VisitorHandler) SendPassByEmail(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil || body.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	v, err := h.Visitors.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrVisitorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Visitor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error sending PDF"})
	}
	if v.Status != model.StatusComplete {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "PDF can only be generated for completed visits"})
	}

	pdf, err := pass.Render(v)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error sending PDF"})
	}
	if err := h.Sender.SendPass(body.Email, pdf, v.VisitorNumber); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed, please try again"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
