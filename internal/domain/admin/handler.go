package admin

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/telemed/telemed/internal/platform/apperr"
	"github.com/telemed/telemed/internal/platform/session"
	"github.com/telemed/telemed/pkg/pagination"
)

type Handler struct {
	svc      *Service
	sessions session.Store
}

func NewHandler(svc *Service, sessions session.Store) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/admin/register", h.Register)
	e.POST("/admin/login", h.Login)
	e.POST("/admin/logout", h.Logout)

	guarded := e.Group("", session.RequireAdmin())
	guarded.GET("/admin/patients", h.ListPatients)
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("All fields are required")
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Validation("All fields are required")
	}
	if _, err := h.svc.Register(c.Request().Context(), &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Admin registered successfully"})
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Username and password are required")
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Validation("Username and password are required")
	}
	a, err := h.svc.Login(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	if err := session.Issue(c, h.sessions, session.RoleAdmin, a.ID, a.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Admin logged in successfully"})
}

func (h *Handler) Logout(c echo.Context) error {
	if err := session.Clear(c, h.sessions); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Admin logged out successfully"})
}

func (h *Handler) ListPatients(c echo.Context) error {
	f := PatientFilter{
		Search: c.QueryParam("search"),
		Gender: c.QueryParam("gender"),
	}
	if v := c.QueryParam("minAge"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return apperr.Validation("minAge must be a non-negative integer")
		}
		f.MinAge = n
	}
	if v := c.QueryParam("maxAge"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return apperr.Validation("maxAge must be a non-negative integer")
		}
		f.MaxAge = n
	}

	pg := pagination.FromContext(c)
	records, total, err := h.svc.ListPatients(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, pg.Limit, pg.Offset))
}
