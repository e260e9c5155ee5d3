package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"trainingpanel/internal/adapters/http/middleware"
	"trainingpanel/internal/adapters/storage"
	"trainingpanel/internal/application/orchestrators"
	"trainingpanel/internal/domain/activity"
	"trainingpanel/internal/domain/goal"
	"trainingpanel/internal/domain/logentry"
	"trainingpanel/internal/domain/planner"
	"trainingpanel/internal/domain/run"
)

//go:embed templates/*.html
var templateFS embed.FS

var loginTemplate = template.Must(template.ParseFS(templateFS, "templates/login.html"))

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// validationErrors are returned to the client verbatim with 400.
var validationErrors = []error{
	orchestrators.ErrZeroAmount,
	orchestrators.ErrNameTaken,
	logentry.ErrEmptyActivity,
	logentry.ErrInvalidDate,
	logentry.ErrInvalidAmount,
	run.ErrInvalidDate,
	run.ErrNegativeDistance,
	run.ErrNegativeTime,
	run.ErrNoteTooLong,
	run.ErrColumnNotAllowed,
	run.ErrInvalidColumnValue,
	goal.ErrEmptyActivity,
	goal.ErrNegativeValue,
	goal.ErrInvalidValue,
	activity.ErrEmptyName,
	activity.ErrEmptyCategory,
	activity.ErrNameTooLong,
	activity.ErrCategoryTooLong,
	activity.ErrSameName,
	planner.ErrMissingName,
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_error", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// internalError logs the real error and returns a generic message to the client.
// An unreachable storage endpoint is reported as 503 so the client can show a banner.
func internalError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrUnavailable) {
		slog.Error("storage_unavailable", "error", err.Error())
		writeError(w, http.StatusServiceUnavailable, "storage is unavailable, try again later")
		return
	}
	slog.Error("internal_error", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// fail maps an orchestrator error onto a response.
func fail(w http.ResponseWriter, err error) {
	if isValidation(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	internalError(w, err)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeOrReject decodes the body and writes a 400 on failure.
func decodeOrReject(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := strictDecode(w, r, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// handleHealthz reports liveness. It never touches a tenant endpoint.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginPage struct {
	CSRFField template.HTML
	Username  string
	Error     string
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, page loginPage) {
	page.CSRFField = csrf.TemplateField(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := loginTemplate.Execute(w, page); err != nil {
		slog.Error("template_error", "template", "login.html", "error", err)
	}
}

// handleLoginForm handles GET /login
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/api/dashboard", http.StatusSeeOther)
		return
	}
	s.renderLogin(w, r, http.StatusOK, loginPage{})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username string `json:"username"`
}

// handleLogin handles POST /login from the form or as JSON. The session is
// bound to the user's storage endpoint, which is opened (and migrated on
// first use) before the session is issued.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	isJSON := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")

	var req loginRequest
	if isJSON {
		if !decodeOrReject(w, r, &req) {
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		req = loginRequest{Username: r.FormValue("username"), Password: r.FormValue("password")}
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}, orchestrators.LoginDeps{Users: s.users})
	if err != nil {
		msg := "Unknown user"
		if errors.Is(err, orchestrators.ErrWrongPassword) {
			msg = "Incorrect password"
		}
		if isJSON {
			writeError(w, http.StatusUnauthorized, msg)
			return
		}
		s.renderLogin(w, r, http.StatusUnauthorized, loginPage{Username: req.Username, Error: msg})
		return
	}

	if _, err := s.registry.Get(r.Context(), result.Username, result.Endpoint); err != nil {
		if isJSON {
			internalError(w, err)
			return
		}
		slog.Error("storage_unavailable", "username", result.Username, "error", err)
		s.renderLogin(w, r, http.StatusServiceUnavailable, loginPage{Username: req.Username, Error: "Your database is unavailable, try again later"})
		return
	}

	token, err := s.sessions.Create(result.Username, result.Endpoint)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, s.opts.SecureCookies, s.opts.SessionTTL)

	if isJSON {
		writeJSON(w, http.StatusOK, loginResponse{Username: result.Username})
		return
	}
	http.Redirect(w, r, "/api/dashboard", http.StatusSeeOther)
}

// handleLogout handles POST /logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w, s.opts.SecureCookies)
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "username", sess.Username)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
