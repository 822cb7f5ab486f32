package handler

import (
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/mymai1208/AntiBot/internal/application/verification"
	"github.com/mymai1208/AntiBot/internal/pkg/validate"
	"github.com/mymai1208/AntiBot/internal/transport/http/middleware"
)

//go:embed templates/verify.html
var templateFS embed.FS

var verifyPage = template.Must(template.ParseFS(templateFS, "templates/verify.html"))

// maxCompleteBody caps the JSON submission; a key plus a challenge token is well under this.
const maxCompleteBody = 16 << 10

type verifyPageData struct {
	Key     string
	SiteKey string
}

// VerifyHandler serves the challenge page and accepts its submission.
type VerifyHandler struct {
	svc     verification.Service
	siteKey string
}

func NewVerifyHandler(svc verification.Service, siteKey string) *VerifyHandler {
	return &VerifyHandler{svc: svc, siteKey: siteKey}
}

// Page renders the challenge for the key in the URL. The key is not checked
// here; Complete decides whether it is live.
func (h *VerifyHandler) Page(w http.ResponseWriter, r *http.Request) {
	data := verifyPageData{Key: chi.URLParam(r, "key"), SiteKey: h.siteKey}
	templ.Handler(templ.FromGoHTML(verifyPage, data), templ.WithErrorHandler(renderError)).ServeHTTP(w, r)
}

func renderError(_ *http.Request, err error) http.Handler {
	slog.Error("render verify page", "err", err)
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusInternalServerError, resultFailure)
	})
}

// Complete answers "success" or "failure" in plain text. Every failure reason
// collapses to "failure"; the reason is only logged.
func (h *VerifyHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req verification.CompleteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCompleteBody)).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, resultFailure)
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeText(w, http.StatusBadRequest, resultFailure)
		return
	}
	req.RemoteIP, _ = middleware.ClientIPFromContext(r.Context())

	if err := h.svc.Complete(r.Context(), req); err != nil {
		slog.Info("verification not completed", "remote_ip", req.RemoteIP, "err", err)
		writeText(w, http.StatusOK, resultFailure)
		return
	}
	writeText(w, http.StatusOK, resultSuccess)
}
