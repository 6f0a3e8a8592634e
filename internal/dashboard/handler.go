package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/vilaca/commit-dashboard/internal/activity"
	"github.com/vilaca/commit-dashboard/internal/domain"
)

// ActivityService is the part of the activity service the handlers use
// (Dependency Inversion Principle).
type ActivityService interface {
	Commits(ctx context.Context, userID int64, projectID string, year int) ([]domain.Commit, error)
	WeekCommits(ctx context.Context, userID int64, projectID string) ([]domain.Commit, domain.DateRange, error)
	Heatmap(ctx context.Context, userID int64, projectID string, year int) (*domain.Heatmap, error)
	CurrentYear() int
	Project(ctx context.Context, projectID string) (*domain.Project, error)
	Projects(ctx context.Context) ([]domain.Project, error)
	PullRequests(ctx context.Context, projectID string, userID int64) ([]domain.PullRequestActivity, error)
	WeeklyOverview(ctx context.Context) (*domain.WeeklyOverview, error)
}

// Handler handles HTTP requests for the dashboard.
// Each handler method has a Single Responsibility (SRP).
type Handler struct {
	renderer Renderer
	logger   logrus.FieldLogger
	service  ActivityService
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Renderer Renderer
	Logger   logrus.FieldLogger
	Service  ActivityService
}

// NewHandler creates a new Handler with injected dependencies (Dependency Inversion Principle).
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		renderer: cfg.Renderer,
		logger:   cfg.Logger,
		service:  cfg.Service,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleWeeklyPage).Methods(http.MethodGet)
	r.HandleFunc("/api/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/commits/{userId}/{projectId}", h.handleCommits).Methods(http.MethodGet)
	r.HandleFunc("/api/commits-week/{userId}/{projectId}", h.handleWeekCommits).Methods(http.MethodGet)
	r.HandleFunc("/api/heatmap/{userId}/{projectId}", h.handleHeatmap).Methods(http.MethodGet)
	r.HandleFunc("/api/project/{id}", h.handleProject).Methods(http.MethodGet)
	r.HandleFunc("/api/projects", h.handleProjects).Methods(http.MethodGet)
	r.HandleFunc("/api/pull-requests/{projectId}", h.handlePullRequests).Methods(http.MethodGet)
	r.HandleFunc("/api/weekly", h.handleWeekly).Methods(http.MethodGet)
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		h.logger.Errorf("Failed to render health: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleCommits serves every commit of a user on a project, optionally limited to ?year=.
func (h *Handler) handleCommits(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.userAndProject(w, r)
	if !ok {
		return
	}

	year, err := parseYear(r.URL.Query().Get("year"), 0)
	if err != nil {
		h.writeBadRequest(w, "Invalid year")
		return
	}

	commits, err := h.service.Commits(r.Context(), userID, projectID, year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, commitResponse{CommitData: commits})
}

// handleWeekCommits serves the current week's commits of a user on a project.
func (h *Handler) handleWeekCommits(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.userAndProject(w, r)
	if !ok {
		return
	}

	commits, _, err := h.service.WeekCommits(r.Context(), userID, projectID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, commitResponse{CommitData: commits})
}

// handleHeatmap serves the per-day commit counts of ?year= (default: current year).
func (h *Handler) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.userAndProject(w, r)
	if !ok {
		return
	}

	year, err := parseYear(r.URL.Query().Get("year"), h.service.CurrentYear())
	if err != nil {
		h.writeBadRequest(w, "Invalid year")
		return
	}

	heatmap, err := h.service.Heatmap(r.Context(), userID, projectID, year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, heatmap)
}

// handleProject serves a project together with its members.
func (h *Handler) handleProject(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]

	project, err := h.service.Project(r.Context(), projectID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, project)
}

// handleProjects serves the configured roster.
func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.Projects(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, projectsResponse{Projects: projects})
}

// handlePullRequests serves a user's merge requests and review activity. Query param: ?userId=
func (h *Handler) handlePullRequests(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	rawUserID := r.URL.Query().Get("userId")
	if rawUserID == "" {
		h.writeBadRequest(w, "Missing userId parameter")
		return
	}
	userID, err := activity.ParseUserID(rawUserID)
	if err != nil {
		h.writeBadRequest(w, "Invalid userId")
		return
	}

	prs, err := h.service.PullRequests(r.Context(), projectID, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, pullRequestResponse{PRData: prs})
}

// handleWeekly serves the weekly overview as JSON.
func (h *Handler) handleWeekly(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.WeeklyOverview(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, overview)
}

// handleWeeklyPage serves the weekly overview as an HTML page.
func (h *Handler) handleWeeklyPage(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.WeeklyOverview(r.Context())
	if err != nil {
		status, message := classifyError(err)
		h.logger.Errorf("Failed to build weekly overview: %v", err)
		http.Error(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderWeekly(w, overview); err != nil {
		h.logger.Errorf("Failed to render weekly overview: %v", err)
	}
}

// userAndProject extracts the {userId} and {projectId} path variables.
// It writes a 400 response and returns false when the user id is not numeric.
func (h *Handler) userAndProject(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	vars := mux.Vars(r)

	userID, err := activity.ParseUserID(vars["userId"])
	if err != nil {
		h.writeBadRequest(w, "Invalid userId")
		return 0, "", false
	}

	return userID, vars["projectId"], true
}

func parseYear(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

type commitResponse struct {
	CommitData []domain.Commit `json:"commitData"`
}

type pullRequestResponse struct {
	PRData []domain.PullRequestActivity `json:"prData"`
}

type projectsResponse struct {
	Projects []domain.Project `json:"projects"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Errorf("Failed to encode response: %v", err)
	}
}
