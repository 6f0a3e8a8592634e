package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vilaca/commit-dashboard/internal/api"
	"github.com/vilaca/commit-dashboard/internal/domain"
)

// Client implements api.Client for GitLab REST v4.
// Follows Single Responsibility Principle - only handles GitLab API communication.
type Client struct {
	*api.BaseClient
	pageSize int
}

// NewClient creates a new GitLab client.
// BaseURL may be given with or without the /api/v4 suffix.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/api/v4")

	return &Client{
		BaseClient: api.NewBaseClient(baseURL, config.Token, httpClient),
		pageSize:   api.DefaultPageSize,
	}
}

// GetProject retrieves a single project.
func (c *Client) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	var glProject gitlabProject
	if err := c.doRequest(ctx, projectPath(projectID, ""), nil, &glProject); err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", projectID, err)
	}

	return convertProject(glProject), nil
}

// GetMembers retrieves all members of a project.
func (c *Client) GetMembers(ctx context.Context, projectID string) ([]domain.Member, error) {
	glMembers, err := walkPages[gitlabMember](ctx, c, projectPath(projectID, "/members"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get members of project %s: %w", projectID, err)
	}

	members := make([]domain.Member, len(glMembers))
	for i, glm := range glMembers {
		members[i] = convertMember(glm)
	}
	return members, nil
}

// GetPushEvents retrieves every push event of a project, oldest page last as GitLab orders them.
func (c *Client) GetPushEvents(ctx context.Context, projectID string, query api.EventQuery) ([]domain.Event, error) {
	params := url.Values{}
	params.Set("action", "pushed")
	if query.After != "" {
		params.Set("after", query.After)
	}
	if query.Before != "" {
		params.Set("before", query.Before)
	}

	glEvents, err := walkPages[gitlabEvent](ctx, c, projectPath(projectID, "/events"), params)
	if err != nil {
		return nil, fmt.Errorf("failed to get events of project %s: %w", projectID, err)
	}

	events := make([]domain.Event, len(glEvents))
	for i, gle := range glEvents {
		events[i] = convertEvent(gle, projectID)
	}
	return events, nil
}

// GetMergeRequests retrieves all merge requests of a project opened by authorID, in any state.
func (c *Client) GetMergeRequests(ctx context.Context, projectID string, authorID int) ([]domain.MergeRequest, error) {
	params := url.Values{}
	params.Set("state", "all")
	params.Set("scope", "all")
	params.Set("author_id", strconv.Itoa(authorID))

	glMRs, err := walkPages[gitlabMergeRequest](ctx, c, projectPath(projectID, "/merge_requests"), params)
	if err != nil {
		return nil, fmt.Errorf("failed to get merge requests of project %s: %w", projectID, err)
	}

	mrs := make([]domain.MergeRequest, len(glMRs))
	for i, glmr := range glMRs {
		mrs[i] = domain.MergeRequest{
			IID:       glmr.IID,
			Title:     glmr.Title,
			State:     glmr.State,
			CreatedAt: glmr.CreatedAt,
			UpdatedAt: glmr.UpdatedAt,
		}
	}
	return mrs, nil
}

// GetNotes retrieves the notes of a merge request.
func (c *Client) GetNotes(ctx context.Context, projectID string, mrIID int) ([]domain.Note, error) {
	path := projectPath(projectID, fmt.Sprintf("/merge_requests/%d/notes", mrIID))

	glNotes, err := walkPages[gitlabNote](ctx, c, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes of merge request %d: %w", mrIID, err)
	}

	notes := make([]domain.Note, len(glNotes))
	for i, gln := range glNotes {
		notes[i] = domain.Note{
			AuthorID:  gln.Author.ID,
			Type:      gln.Type,
			System:    gln.System,
			CreatedAt: gln.CreatedAt,
		}
	}
	return notes, nil
}

// doRequest performs a GET against the GitLab API and decodes the JSON body into result.
// Transport failures are classified as api.ErrTimeout or api.ErrUnreachable,
// non-2xx responses as *api.UpstreamError. Cancellation by the caller is returned as is.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	endpoint := c.BaseURL + "/api/v4" + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("PRIVATE-TOKEN", c.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		if isTimeout(err) {
			return fmt.Errorf("%w: %v", api.ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", api.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &api.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func projectPath(projectID, suffix string) string {
	return "/projects/" + url.PathEscape(projectID) + suffix
}
