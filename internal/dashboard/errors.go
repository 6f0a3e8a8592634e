package dashboard

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vilaca/commit-dashboard/internal/api"
)

// classifyError maps a service error to the status code and message sent to the client.
func classifyError(err error) (int, string) {
	var upstream *api.UpstreamError
	switch {
	case errors.As(err, &upstream):
		return upstream.StatusCode, fmt.Sprintf("GitLab API error: %d", upstream.StatusCode)
	case errors.Is(err, api.ErrTimeout):
		return http.StatusGatewayTimeout, "Request timed out. Please try again."
	case errors.Is(err, api.ErrUnreachable):
		return http.StatusServiceUnavailable, "No response received from GitLab API"
	default:
		return http.StatusInternalServerError, "An unexpected error occurred"
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classifyError(err)
	h.logger.WithField("path", r.URL.Path).Errorf("Request failed: %v", err)
	h.writeJSON(w, status, errorResponse{Error: message})
}

func (h *Handler) writeBadRequest(w http.ResponseWriter, message string) {
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}
