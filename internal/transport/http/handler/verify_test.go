package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mymai1208/AntiBot/internal/application/verification"
	"github.com/mymai1208/AntiBot/internal/domain"
	"github.com/mymai1208/AntiBot/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- mock ---

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) Setup(ctx context.Context, communityID, grantRoleID domain.Snowflake) error {
	return m.Called(ctx, communityID, grantRoleID).Error(0)
}
func (m *mockVerificationSvc) Start(ctx context.Context, communityID, memberID domain.Snowflake) (string, error) {
	args := m.Called(ctx, communityID, memberID)
	return args.String(0), args.Error(1)
}
func (m *mockVerificationSvc) Complete(ctx context.Context, req verification.CompleteRequest) error {
	return m.Called(ctx, req).Error(0)
}

// --- helpers ---

func newRouter(svc verification.Service) http.Handler {
	h := NewVerifyHandler(svc, "site-key-123")
	r := chi.NewRouter()
	r.Use(middleware.ClientIP(nil))
	r.Get("/verify/{key}", h.Page)
	r.Post("/complete_verify", h.Complete)
	return r
}

func post(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/complete_verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:5555"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// --- Page ---

func TestPage_RendersKeyAndSiteKey(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(&mockVerificationSvc{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify/AbC123", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), `data-sitekey="site-key-123"`)
	assert.Contains(t, rr.Body.String(), `"AbC123"`)
}

func TestPage_EscapesKey(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(&mockVerificationSvc{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify/%3C%2Fscript%3E", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `"</script>"`)
}

func TestPage_RenderErrorIsServerError(t *testing.T) {
	rr := httptest.NewRecorder()
	renderError(nil, errors.New("template exploded")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/verify/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "failure", rr.Body.String())
}

// --- Complete ---

func TestComplete_Success(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Complete", mock.Anything, verification.CompleteRequest{Key: "AbC123", Token: "challenge", RemoteIP: "203.0.113.7"}).Return(nil)

	rr := post(t, newRouter(svc), `{"key":"AbC123","token":"challenge"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	svc.AssertExpectations(t)
}

func TestComplete_FlowErrorIsFailure(t *testing.T) {
	for _, err := range []error{domain.ErrChallengeFailed, domain.ErrNotFound, domain.ErrGrantFailed, domain.ErrConflict} {
		svc := &mockVerificationSvc{}
		svc.On("Complete", mock.Anything, mock.Anything).Return(err)

		rr := post(t, newRouter(svc), `{"key":"AbC123","token":"challenge"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "failure", rr.Body.String(), err.Error())
	}
}

func TestComplete_BadBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":      `key=abc`,
		"missing key":   `{"token":"challenge"}`,
		"missing token": `{"key":"AbC123"}`,
		"bad key chars": `{"key":"../etc","token":"challenge"}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := &mockVerificationSvc{}
			rr := post(t, newRouter(svc), body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "failure", rr.Body.String())
			svc.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		})
	}
}
