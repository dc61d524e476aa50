package patient

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/telemed/telemed/internal/platform/apperr"
	"github.com/telemed/telemed/internal/platform/session"
)

type Handler struct {
	svc      *Service
	sessions session.Store
}

func NewHandler(svc *Service, sessions session.Store) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/patients/register", h.Register)
	e.POST("/patients/login", h.Login)
	e.POST("/patients/logout", h.Logout)

	guarded := e.Group("", session.RequirePatient())
	guarded.GET("/patients/profile", h.GetProfile)
	guarded.PUT("/patients/profile", h.UpdateProfile)
	guarded.DELETE("/patients/delete", h.Delete)
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("All fields are required")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := h.svc.Register(c.Request().Context(), &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Patient registered successfully"})
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Email and password are required")
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Validation("Email and password are required")
	}
	p, err := h.svc.Login(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	if err := session.Issue(c, h.sessions, session.RolePatient, p.ID, ""); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged in successfully"})
}

func (h *Handler) Logout(c echo.Context) error {
	if err := session.Clear(c, h.sessions); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

func (h *Handler) GetProfile(c echo.Context) error {
	s, _ := session.FromContext(c.Request().Context())
	profile, err := h.svc.Profile(c.Request().Context(), s.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	s, _ := session.FromContext(c.Request().Context())
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("All fields are required")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.svc.UpdateProfile(c.Request().Context(), s.SubjectID, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully"})
}

// Delete removes the account row first, then tears down the session. A
// session-destroy failure after a successful delete surfaces as a 500 with
// the row already gone; there is no compensation.
func (h *Handler) Delete(c echo.Context) error {
	s, _ := session.FromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), s.SubjectID); err != nil {
		return err
	}
	if err := session.Clear(c, h.sessions); err != nil {
		return apperr.Storage("Error logging out after account deletion", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Account deleted successfully"})
}
