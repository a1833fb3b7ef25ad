// Package api exposes HTTP handlers for the training log service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/traininglog/internal/auth"
	"example.com/traininglog/internal/domain"
	"example.com/traininglog/internal/export"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/sessions", h.sessions)
	mux.HandleFunc("/v1/sessions/export", h.exportSessions)
	mux.HandleFunc("/v1/sessions/", h.sessionByKey)
	mux.HandleFunc("/v1/stats", h.stats)
	mux.HandleFunc("/v1/compare", h.compare)
	mux.HandleFunc("/v1/summary", h.summary)
	mux.HandleFunc("/v1/goals", h.goals)
	mux.HandleFunc("/v1/goals/", h.goalByKey)
	mux.HandleFunc("/v1/leaderboard", h.leaderboard)
	mux.HandleFunc("/v1/suggest", h.suggest)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) sessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.logSession(w, r)
	case http.MethodGet:
		h.listSessions(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// sessionByKey handles PATCH /v1/sessions/{activity}/{sequence}.
func (h *Handler) sessionByKey(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "expected /v1/sessions/{activity}/{sequence}")
		return
	}
	sequence, err := strconv.Atoi(parts[1])
	if err != nil || sequence < 1 {
		writeError(w, http.StatusBadRequest, "invalid_request", "sequence must be a positive integer")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		h.editSession(w, r, parts[0], sequence)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) logSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	var req LogSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	session, streakLength, err := h.service.LogSession(r.Context(), domain.LogSessionInput{
		OwnerID:     claims.Subject,
		GroupID:     req.GroupID,
		Activity:    req.Activity,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Platform:    req.Platform,
		Duration:    req.Duration,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, LogSessionResponse{
		Session:    toSessionView(*session),
		StreakDays: streakLength,
	})
}

func (h *Handler) editSession(w http.ResponseWriter, r *http.Request, activity string, sequence int) {
	claims, ok := requireScope(w, r, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	var req EditSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if strings.TrimSpace(req.GroupID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "group_id is required")
		return
	}

	session, err := h.service.EditSession(r.Context(), domain.EditSessionInput{
		OwnerID:     claims.Subject,
		GroupID:     req.GroupID,
		Activity:    activity,
		Sequence:    sequence,
		NewActivity: req.Activity,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Platform:    req.Platform,
		Duration:    req.Duration,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionView(*session))
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeTrainingRead, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	query := domain.ListQuery{
		OwnerID:  claims.Subject,
		GroupID:  r.URL.Query().Get("group"),
		Date:     r.URL.Query().Get("date"),
		Activity: r.URL.Query().Get("activity"),
		Platform: r.URL.Query().Get("platform"),
	}
	if raw := r.URL.Query().Get("tags"); raw != "" {
		query.Tags = domain.ParseTags(raw)
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			query.Limit = parsed
		}
	}

	sessions, err := h.service.ListSessions(r.Context(), query)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(sessions) == 0 {
		writeJSON(w, http.StatusOK, NoDataResponse{NoData: true, Detail: "no sessions found"})
		return
	}

	items := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, toSessionView(session))
	}
	writeJSON(w, http.StatusOK, ListSessionsResponse{Items: items})
}

func (h *Handler) exportSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeTrainingRead, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format != "json" && format != "csv" {
		writeError(w, http.StatusBadRequest, "validation_failed", "format must be json or csv")
		return
	}

	sessions, err := h.service.SessionsForOwner(r.Context(), claims.Subject, r.URL.Query().Get("group"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(sessions) == 0 {
		writeJSON(w, http.StatusOK, NoDataResponse{NoData: true, Detail: "no sessions to export"})
		return
	}

	filename := fmt.Sprintf("training_export_%s.%s", claims.Subject, format)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if format == "json" {
		payload, err := export.JSON(sessions)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.CSV(sessions))
}

func requireScope(w http.ResponseWriter, r *http.Request, scopes ...string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	for _, scope := range scopes {
		if claims.HasScope(scope) {
			return claims, true
		}
	}
	writeError(w, http.StatusForbidden, "forbidden", "scope "+strings.Join(scopes, " or ")+" required")
	return nil, false
}

func parseRange(r *http.Request) (domain.Period, error) {
	period := domain.Period(r.URL.Query().Get("range"))
	if period == "" {
		period = domain.PeriodAll
	}
	if !period.ValidRange() {
		return "", fmt.Errorf("unknown range %q", period)
	}
	return period, nil
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrSameActivity), errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{
		"type":   code,
		"detail": detail,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// LogSessionRequest is the payload for POST /v1/sessions.
type LogSessionRequest struct {
	GroupID     string   `json:"group_id"`
	Activity    string   `json:"activity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Platform    string   `json:"platform,omitempty"`
	Duration    string   `json:"duration,omitempty"`
}

// Validate ensures request correctness.
func (r LogSessionRequest) Validate() error {
	if strings.TrimSpace(r.GroupID) == "" {
		return errors.New("group_id is required")
	}
	if strings.TrimSpace(r.Activity) == "" {
		return errors.New("activity is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("description is required")
	}
	if len(r.Tags) > domain.MaxTags {
		return fmt.Errorf("at most %d tags", domain.MaxTags)
	}
	return nil
}

// EditSessionRequest is the payload for PATCH /v1/sessions/{activity}/{seq}.
// Omitted fields keep their stored value.
type EditSessionRequest struct {
	GroupID     string    `json:"group_id"`
	Activity    *string   `json:"activity,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Platform    *string   `json:"platform,omitempty"`
	Duration    *string   `json:"duration,omitempty"`
}

// SessionView exposes full details about a session.
type SessionView struct {
	SessionID       string    `json:"session_id"`
	GroupID         string    `json:"group_id"`
	Activity        string    `json:"activity"`
	Sequence        int       `json:"sequence"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Tags            []string  `json:"tags,omitempty"`
	Platform        string    `json:"platform"`
	Duration        string    `json:"duration"`
	DurationMinutes int       `json:"duration_minutes"`
	OccurredAt      time.Time `json:"occurred_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LogSessionResponse pairs the stored session with the post-update streak.
type LogSessionResponse struct {
	Session    SessionView `json:"session"`
	StreakDays int         `json:"streak_days"`
}

// ListSessionsResponse packages list results.
type ListSessionsResponse struct {
	Items []SessionView `json:"items"`
}

// NoDataResponse is the distinct empty-result outcome: a valid report with
// nothing in it, not an error.
type NoDataResponse struct {
	NoData bool   `json:"no_data"`
	Detail string `json:"detail"`
}

func toSessionView(session domain.Session) SessionView {
	return SessionView{
		SessionID:       session.ID,
		GroupID:         session.GroupID,
		Activity:        session.Activity,
		Sequence:        session.Sequence,
		Title:           session.Title,
		Description:     session.Description,
		Tags:            session.Tags,
		Platform:        session.Platform,
		Duration:        session.Duration.Raw,
		DurationMinutes: session.Duration.Minutes,
		OccurredAt:      session.OccurredAt,
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
	}
}
