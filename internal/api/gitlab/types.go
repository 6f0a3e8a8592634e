package gitlab

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/vilaca/commit-dashboard/internal/domain"
)

// GitLab API response types

type gitlabProject struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	WebURL      string  `json:"web_url"`
}

type gitlabMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	State     string `json:"state"`
	AvatarURL string `json:"avatar_url"`
	WebURL    string `json:"web_url"`
}

type gitlabEvent struct {
	AuthorID  authorID        `json:"author_id"`
	CreatedAt string          `json:"created_at"`
	PushData  *gitlabPushData `json:"push_data"`
	Author    *gitlabUser     `json:"author"`
}

type gitlabPushData struct {
	Ref         string `json:"ref"`
	CommitTitle string `json:"commit_title"`
	CommitTo    string `json:"commit_to"`
}

type gitlabUser struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type gitlabMergeRequest struct {
	IID       int    `json:"iid"`
	Title     string `json:"title"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type gitlabNote struct {
	Type      string     `json:"type"`
	System    bool       `json:"system"`
	CreatedAt string     `json:"created_at"`
	Author    gitlabUser `json:"author"`
}

// authorID keeps the textual form of an id GitLab may send as a number or a string.
type authorID string

func (a *authorID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = authorID(strings.TrimSpace(s))
		return nil
	}
	*a = authorID(data)
	return nil
}

func convertProject(glp gitlabProject) *domain.Project {
	return &domain.Project{
		ID:          glp.ID,
		Name:        glp.Name,
		Description: glp.Description,
		WebURL:      glp.WebURL,
		Members:     []domain.Member{},
	}
}

func convertMember(glm gitlabMember) domain.Member {
	return domain.Member{
		ID:        glm.ID,
		Name:      glm.Name,
		Username:  glm.Username,
		State:     glm.State,
		AvatarURL: glm.AvatarURL,
		WebURL:    glm.WebURL,
	}
}

func convertEvent(gle gitlabEvent, projectID string) domain.Event {
	event := domain.Event{
		ProjectID: projectID,
		AuthorID:  string(gle.AuthorID),
		CreatedAt: gle.CreatedAt,
	}
	if gle.Author != nil {
		event.AuthorName = gle.Author.Name
	}
	if gle.PushData != nil {
		event.Push = &domain.PushData{
			Ref:         gle.PushData.Ref,
			CommitTitle: gle.PushData.CommitTitle,
			CommitTo:    gle.PushData.CommitTo,
		}
	}
	return event
}
