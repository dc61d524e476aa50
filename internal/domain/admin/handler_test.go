package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/telemed/telemed/internal/platform/apperr"
	"github.com/telemed/telemed/internal/platform/session"
	"github.com/telemed/telemed/internal/platform/validate"
)

func newTestHandler() (*Handler, *echo.Echo, *session.MemoryStore) {
	svc, _ := newTestService()
	store := session.NewMemoryStore(time.Hour)
	h := NewHandler(svc, store)
	e := echo.New()
	e.Validator = validate.New()
	return h, e, store
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Register(t *testing.T) {
	h, e, _ := newTestHandler()
	c, rec := postJSON(e, "/admin/register", `{"username":"root","password":"secret","role":"admin"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Admin registered successfully") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandler_Register_MissingFields(t *testing.T) {
	h, e, _ := newTestHandler()
	c, _ := postJSON(e, "/admin/register", `{"username":"root"}`)

	err := h.Register(c)
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ae.Message != "All fields are required" {
		t.Errorf("unexpected message: %q", ae.Message)
	}
}

func TestHandler_Login_SetsAdminSession(t *testing.T) {
	h, e, store := newTestHandler()
	c, _ := postJSON(e, "/admin/register", `{"username":"root","password":"secret","role":"moderator"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	c, rec := postJSON(e, "/admin/login", `{"username":"root","password":"secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var token string
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			token = ck.Value
		}
	}
	if token == "" {
		t.Fatal("no session cookie set")
	}
	s, err := store.Get(nil, token)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if s.Role != session.RoleAdmin || s.AdminRole != RoleModerator {
		t.Errorf("unexpected session: %+v", s)
	}
}

func TestHandler_ListPatients(t *testing.T) {
	h, e, store := newTestHandler()
	repo := h.svc.repo.(*mockRepo)
	repo.patients = []*PatientRecord{
		{FirstName: "Riya", LastName: "Das", Email: "riya@mail.com", Gender: "Female", DateOfBirth: "1994-05-20"},
		{FirstName: "Arjun", LastName: "Rao", Email: "arjun@mail.com", Gender: "Male", DateOfBirth: "1960-01-10"},
	}

	s := &session.Session{Role: session.RoleAdmin, SubjectID: uuid.New(), AdminRole: RoleAdmin}
	if err := store.Create(nil, s); err != nil {
		t.Fatalf("creating session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/patients?gender=Female", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: s.Token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	guarded := session.Load(store)(session.RequireAdmin()(h.ListPatients))
	if err := guarded(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data  []*PatientRecord `json:"data"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 || resp.Data[0].FirstName != "Riya" {
		t.Errorf("unexpected response: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("listing leaked credentials: %s", rec.Body.String())
	}
}

func TestHandler_ListPatients_NoSession(t *testing.T) {
	h, e, store := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/admin/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	guarded := session.Load(store)(session.RequireAdmin()(h.ListPatients))
	err := guarded(c)
	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindAuth {
		t.Fatalf("expected auth error, got %v", err)
	}
	if ae.Message != "Unauthorized: Admin access only. Please log in as an admin." {
		t.Errorf("unexpected message: %q", ae.Message)
	}
}

func TestHandler_ListPatients_BadAgeFilter(t *testing.T) {
	h, e, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/admin/patients?minAge=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListPatients(c)
	if ae, ok := apperr.As(err); !ok || ae.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
