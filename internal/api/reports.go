package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"example.com/traininglog/internal/auth"
	"example.com/traininglog/internal/domain"
	"example.com/traininglog/internal/report"
)

// StatsResponse is the single-activity or account-wide statistics snapshot.
type StatsResponse struct {
	Activity      string            `json:"activity,omitempty"`
	Range         domain.Period     `json:"range"`
	Sessions      int               `json:"sessions"`
	TotalMinutes  int               `json:"total_minutes"`
	TopTags       []report.Ranked   `json:"top_tags,omitempty"`
	TopPlatforms  []report.Ranked   `json:"top_platforms,omitempty"`
	TagChart      []report.ChartRow `json:"tag_chart,omitempty"`
	PlatformChart []report.ChartRow `json:"platform_chart,omitempty"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeTrainingRead, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	period, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	activity := r.URL.Query().Get("activity")
	charts := r.URL.Query().Get("charts") == "true"

	sessions, err := h.service.SessionsForOwner(r.Context(), claims.Subject, r.URL.Query().Get("group"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	sessions = filterActivity(sessions, activity)

	snap := report.Summarize(sessions, period, h.service.Now())
	if snap.Empty() {
		writeJSON(w, http.StatusOK, NoDataResponse{NoData: true, Detail: "no activity data found for that filter"})
		return
	}

	resp := StatsResponse{
		Activity:     activity,
		Range:        period,
		Sessions:     snap.Sessions,
		TotalMinutes: snap.TotalMinutes,
		TopTags:      report.TopN(snap.Tags, report.TopTags),
		TopPlatforms: report.TopN(snap.Platforms, report.TopPlatforms),
	}
	if charts {
		resp.TagChart = report.BuildChart(snap.Tags, report.TopTags)
		resp.PlatformChart = report.BuildChart(snap.Platforms, report.TopPlatforms)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeTrainingRead, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	activityA := r.URL.Query().Get("activity1")
	activityB := r.URL.Query().Get("activity2")
	if activityA == "" || activityB == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "activity1 and activity2 are required")
		return
	}
	if activityA == activityB {
		writeDomainError(w, domain.ErrSameActivity)
		return
	}

	period, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	sessions, err := h.service.SessionsForOwner(r.Context(), claims.Subject, r.URL.Query().Get("group"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	cmp := report.Compare(activityA, activityB,
		filterActivity(sessions, activityA),
		filterActivity(sessions, activityB),
		period, h.service.Now())
	if cmp.NoData {
		writeJSON(w, http.StatusOK, NoDataResponse{NoData: true, Detail: "no data found for either activity with that filter"})
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// SummaryResponse is the combined goals/stats/streaks report.
type SummaryResponse struct {
	Summary       report.Summary    `json:"summary"`
	TagChart      []report.ChartRow `json:"tag_chart,omitempty"`
	PlatformChart []report.ChartRow `json:"platform_chart,omitempty"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeTrainingRead, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	period, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	ctx := r.Context()
	sessions, err := h.service.SessionsForOwner(ctx, claims.Subject, r.URL.Query().Get("group"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	goals, err := h.service.GoalsForPeriod(ctx, claims.Subject, period)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	streaks, err := h.service.StreaksForOwner(ctx, claims.Subject)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	summary := report.ComposeSummary(sessions, goals, streaks, period, h.service.Now())

	resp := SummaryResponse{Summary: summary}
	if r.URL.Query().Get("charts") == "true" && !summary.Stats.Empty() {
		resp.TagChart = report.BuildChart(summary.Stats.Tags, report.TopTags)
		resp.PlatformChart = report.BuildChart(summary.Stats.Platforms, report.TopPlatforms)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GoalView is one goal with its current progress.
type GoalView struct {
	Activity string          `json:"activity"`
	Target   int             `json:"target"`
	Period   domain.Period   `json:"period"`
	Progress report.Progress `json:"progress"`
}

func (h *Handler) goals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.setGoal(w, r)
	case http.MethodGet:
		h.viewGoals(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// SetGoalRequest is the payload for PUT /v1/goals.
type SetGoalRequest struct {
	Activity       string        `json:"activity"`
	TargetSessions int           `json:"target_sessions"`
	Period         domain.Period `json:"period"`
}

func (h *Handler) setGoal(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	var req SetGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	err := h.service.SetGoal(r.Context(), domain.Goal{
		OwnerID:        claims.Subject,
		Activity:       req.Activity,
		TargetSessions: req.TargetSessions,
		Period:         req.Period,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GoalView{
		Activity: req.Activity,
		Target:   req.TargetSessions,
		Period:   req.Period,
	})
}

func (h *Handler) viewGoals(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeTrainingRead, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	period := domain.Period(r.URL.Query().Get("range"))
	if !period.ValidGoalPeriod() {
		writeError(w, http.StatusBadRequest, "validation_failed", "range must be week, month, 6months, or year")
		return
	}

	ctx := r.Context()
	goals, err := h.service.GoalsForPeriod(ctx, claims.Subject, period)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(goals) == 0 {
		writeJSON(w, http.StatusOK, NoDataResponse{NoData: true, Detail: "no goals set for range " + string(period)})
		return
	}

	// Goal progress counts sessions across all groups, like the summary.
	sessions, err := h.service.SessionsForOwner(ctx, claims.Subject, "")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	ranged := report.FilterRange(sessions, period, h.service.Now())

	views := make([]GoalView, 0, len(goals))
	for _, goal := range goals {
		current := len(filterActivity(ranged, goal.Activity))
		views = append(views, GoalView{
			Activity: goal.Activity,
			Target:   goal.TargetSessions,
			Period:   goal.Period,
			Progress: report.ComputeProgress(current, goal.TargetSessions),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// goalByKey handles DELETE /v1/goals/{activity}/{period}.
func (h *Handler) goalByKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/goals/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "expected /v1/goals/{activity}/{period}")
		return
	}
	period := domain.Period(parts[1])
	if !period.ValidGoalPeriod() {
		writeError(w, http.StatusBadRequest, "validation_failed", "period must be week, month, 6months, or year")
		return
	}

	if err := h.service.DeleteGoal(r.Context(), claims.Subject, parts[0], period); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LeaderboardEntry is one ranked streak.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	OwnerID    string `json:"owner_id"`
	Activity   string `json:"activity"`
	StreakDays int    `json:"streak_days"`
	LastDay    string `json:"last_day"`
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if _, ok := requireScope(w, r, auth.ScopeTrainingRead, auth.ScopeTrainingWrite); !ok {
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.service.Leaderboard(r.Context(), r.URL.Query().Get("activity"), r.URL.Query().Get("group"), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(entries) == 0 {
		writeJSON(w, http.StatusOK, NoDataResponse{NoData: true, Detail: "no streak data yet"})
		return
	}

	views := make([]LeaderboardEntry, 0, len(entries))
	for i, entry := range entries {
		views = append(views, LeaderboardEntry{
			Rank:       i + 1,
			OwnerID:    entry.OwnerID,
			Activity:   entry.Activity,
			StreakDays: entry.State.Length,
			LastDay:    entry.State.LastDay,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeTrainingRead, auth.ScopeTrainingWrite)
	if !ok {
		return
	}

	values, err := h.service.Suggest(r.Context(), claims.Subject, r.URL.Query().Get("group"),
		r.URL.Query().Get("field"), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"choices": values})
}

func filterActivity(sessions []domain.Session, activity string) []domain.Session {
	if activity == "" {
		return sessions
	}
	out := make([]domain.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.Activity == activity {
			out = append(out, session)
		}
	}
	return out
}
