package doctor

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/telemed/telemed/internal/platform/apperr"
	"github.com/telemed/telemed/internal/platform/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/doctors", h.List)

	admin := e.Group("", session.RequireAdmin())
	admin.POST("/admin/doctors", h.Create)
	admin.PUT("/doctors/update/:doctorId", h.Update)
	admin.DELETE("/doctors/delete/:doctorId", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var req UpsertRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("All fields are required")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := h.svc.Create(c.Request().Context(), &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Doctor and schedule added successfully"})
}

func (h *Handler) List(c echo.Context) error {
	entries, err := h.svc.Directory(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return apperr.Validation("invalid doctor id")
	}
	var req UpsertRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("All fields are required")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.svc.Update(c.Request().Context(), id, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Doctor profile and schedule updated successfully"})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return apperr.Validation("invalid doctor id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Doctor profile deleted successfully"})
}
