package api

import (
	"context"

	"github.com/vilaca/commit-dashboard/internal/domain"
)

// Client defines the GitLab operations the dashboard depends on.
// Consumers depend on this interface, not on the concrete GitLab client.
type Client interface {
	// GetProject returns project metadata without members.
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)

	// GetMembers returns every member of a project.
	GetMembers(ctx context.Context, projectID string) ([]domain.Member, error)

	// GetPushEvents returns every push event of a project matching the query.
	GetPushEvents(ctx context.Context, projectID string, query EventQuery) ([]domain.Event, error)

	// GetMergeRequests returns all merge requests of a project authored by authorID.
	GetMergeRequests(ctx context.Context, projectID string, authorID int) ([]domain.MergeRequest, error)

	// GetNotes returns the notes of a single merge request.
	GetNotes(ctx context.Context, projectID string, mrIID int) ([]domain.Note, error)
}

// EventQuery narrows an events listing on the GitLab side.
// After and Before are calendar days and are exclusive, as GitLab treats them.
type EventQuery struct {
	After  string
	Before string
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
	Token   string
}
