package appointment

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
	e.GET("/doctors/appointments/:doctorId", h.UpcomingForDoctor)

	guarded := e.Group("", session.RequirePatient())
	guarded.POST("/bookappointment", h.Book)
	guarded.GET("/appointments/history", h.History)
	guarded.GET("/patients/appointments", h.UpcomingForPatient)
	guarded.PUT("/patients/appointments/:appointmentId/reschedule", h.Reschedule)
	guarded.PUT("/patients/appointments/:appointmentId/cancel", h.Cancel)
}

func (h *Handler) Book(c echo.Context) error {
	s, _ := session.FromContext(c.Request().Context())
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("All fields are required: doctor_id, appointment_date, and appointment_time")
	}
	if _, err := h.svc.Book(c.Request().Context(), s.SubjectID, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Appointment booked successfully"})
}

func (h *Handler) History(c echo.Context) error {
	s, _ := session.FromContext(c.Request().Context())
	entries, err := h.svc.History(c.Request().Context(), s.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) UpcomingForPatient(c echo.Context) error {
	s, _ := session.FromContext(c.Request().Context())
	views, err := h.svc.UpcomingForPatient(c.Request().Context(), s.SubjectID)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "No upcoming appointments"})
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) UpcomingForDoctor(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return apperr.Validation("invalid doctor id")
	}
	views, err := h.svc.UpcomingForDoctor(c.Request().Context(), doctorID)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "No upcoming appointments"})
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) Reschedule(c echo.Context) error {
	s, _ := session.FromContext(c.Request().Context())
	id, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		return apperr.Validation("invalid appointment id")
	}
	var req RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("New date and time are required")
	}
	if err := h.svc.Reschedule(c.Request().Context(), id, s.SubjectID, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Appointment rescheduled successfully"})
}

func (h *Handler) Cancel(c echo.Context) error {
	s, _ := session.FromContext(c.Request().Context())
	id, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		return apperr.Validation("invalid appointment id")
	}
	if err := h.svc.Cancel(c.Request().Context(), id, s.SubjectID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Appointment canceled successfully"})
}
