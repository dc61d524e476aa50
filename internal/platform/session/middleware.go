package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/telemed/telemed/internal/platform/apperr"
)

// CookieName is the cookie that carries the opaque session token.
const CookieName = "telemed_session"

type contextKey string

const sessionKey contextKey = "session"

// Load returns middleware that resolves the session cookie against the store
// and, when it resolves, attaches the session to the request context. Requests
// without a live session pass through; the guards decide whether that matters.
func Load(store Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			s, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				// Unknown, expired, or store failure: continue unauthenticated.
				return next(c)
			}

			ctx := context.WithValue(c.Request().Context(), sessionKey, s)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// FromContext extracts the session attached by Load.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}

// RequireAdmin rejects requests whose session does not carry an admin identity.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := FromContext(c.Request().Context())
			if !ok || s.Role != RoleAdmin {
				return apperr.Auth("Unauthorized: Admin access only. Please log in as an admin.")
			}
			return next(c)
		}
	}
}

// RequirePatient rejects requests whose session does not carry a patient identity.
func RequirePatient() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := FromContext(c.Request().Context())
			if !ok || s.Role != RolePatient {
				return apperr.Auth("Unauthorized: Please log in to access this resource")
			}
			return next(c)
		}
	}
}

// Issue creates a session for the given role and identity and sets the cookie.
func Issue(c echo.Context, store Store, role string, subjectID uuid.UUID, adminRole string) error {
	s := &Session{Role: role, SubjectID: subjectID, AdminRole: adminRole}
	if err := store.Create(c.Request().Context(), s); err != nil {
		return apperr.Storage("error creating session", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear destroys the request's session, if any, and expires the cookie.
func Clear(c echo.Context, store Store) error {
	cookie, err := c.Cookie(CookieName)
	if err == nil && cookie.Value != "" {
		if err := store.Destroy(c.Request().Context(), cookie.Value); err != nil {
			return apperr.Storage("Error logging out", err)
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
