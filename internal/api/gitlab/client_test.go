package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/commit-dashboard/internal/api"
)

// mockHTTPClient is a test double for api.HTTPClient.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func newTestClient(doFunc func(req *http.Request) (*http.Response, error)) *Client {
	return NewClient(api.ClientConfig{
		BaseURL: "https://gitlab.example.com",
		Token:   "test-token",
	}, &mockHTTPClient{doFunc: doFunc})
}

// eventsPage builds n push events authored by authorID.
func eventsPage(n int, authorID int) string {
	events := make([]map[string]interface{}, n)
	for i := range events {
		events[i] = map[string]interface{}{
			"author_id":  authorID,
			"created_at": "2024-06-05T10:00:00.000Z",
			"push_data": map[string]string{
				"ref":          "refs/heads/main",
				"commit_title": fmt.Sprintf("commit %d", i),
				"commit_to":    fmt.Sprintf("sha%d", i),
			},
		}
	}
	data, _ := json.Marshal(events)
	return string(data)
}

func TestGetProject(t *testing.T) {
	// Arrange
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "test-token", req.Header.Get("PRIVATE-TOKEN"))
		assert.Equal(t, "/api/v4/projects/221", req.URL.Path)
		return jsonResponse(http.StatusOK, `{"id": 221, "name": "portal", "description": null, "web_url": "https://gitlab.example.com/g/portal"}`), nil
	})

	// Act
	project, err := client.GetProject(context.Background(), "221")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 221, project.ID)
	assert.Equal(t, "portal", project.Name)
	assert.Nil(t, project.Description)
	assert.NotNil(t, project.Members)
}

func TestNewClient_AcceptsAPISuffix(t *testing.T) {
	// Arrange
	var gotPath string
	client := NewClient(api.ClientConfig{BaseURL: "https://gitlab.com/api/v4/"}, &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			gotPath = req.URL.Path
			return jsonResponse(http.StatusOK, `{"id": 1}`), nil
		},
	})

	// Act
	_, err := client.GetProject(context.Background(), "1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/api/v4/projects/1", gotPath)
}

func TestGetPushEvents_WalksUntilEmptyPage(t *testing.T) {
	// Arrange
	calls := 0
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		q := req.URL.Query()
		assert.Equal(t, "/api/v4/projects/100/events", req.URL.Path)
		assert.Equal(t, "pushed", q.Get("action"))
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, fmt.Sprint(calls), q.Get("page"))

		if calls <= 2 {
			return jsonResponse(http.StatusOK, eventsPage(100, 42)), nil
		}
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	// Act
	events, err := client.GetPushEvents(context.Background(), "100", api.EventQuery{})

	// Assert
	require.NoError(t, err)
	assert.Len(t, events, 200)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "100", events[0].ProjectID)
	assert.Equal(t, "main", strings.TrimPrefix(events[0].Push.Ref, "refs/heads/"))
}

func TestGetPushEvents_PassesDateBounds(t *testing.T) {
	// Arrange
	var query url.Values
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		query = req.URL.Query()
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	// Act
	_, err := client.GetPushEvents(context.Background(), "100", api.EventQuery{After: "2024-06-02", Before: "2024-06-10"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "2024-06-02", query.Get("after"))
	assert.Equal(t, "2024-06-10", query.Get("before"))
}

func TestGetPushEvents_StopsOnNonListPage(t *testing.T) {
	// Arrange
	calls := 0
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return jsonResponse(http.StatusOK, eventsPage(3, 42)), nil
		}
		return jsonResponse(http.StatusOK, `{"message": "no more"}`), nil
	})

	// Act
	events, err := client.GetPushEvents(context.Background(), "100", api.EventQuery{})

	// Assert
	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Equal(t, 2, calls)
}

func TestGetPushEvents_KeepsAuthorIDText(t *testing.T) {
	// Arrange
	body := `[
		{"author_id": 42, "created_at": "2024-06-05T10:00:00Z"},
		{"author_id": "42", "created_at": "2024-06-05T11:00:00Z", "author": {"name": "Ana"}},
		{"created_at": "2024-06-05T12:00:00Z"}
	]`
	calls := 0
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return jsonResponse(http.StatusOK, body), nil
		}
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	// Act
	events, err := client.GetPushEvents(context.Background(), "100", api.EventQuery{})

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "42", events[0].AuthorID)
	assert.Equal(t, "42", events[1].AuthorID)
	assert.Equal(t, "Ana", events[1].AuthorName)
	assert.Equal(t, "", events[2].AuthorID)
	assert.Nil(t, events[2].Push)
}

func TestGetPushEvents_ErrorDiscardsPartialResult(t *testing.T) {
	// Arrange
	calls := 0
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return jsonResponse(http.StatusOK, eventsPage(100, 42)), nil
		}
		return jsonResponse(http.StatusBadGateway, `bad gateway`), nil
	})

	// Act
	events, err := client.GetPushEvents(context.Background(), "100", api.EventQuery{})

	// Assert
	require.Error(t, err)
	assert.Nil(t, events)
	var upstream *api.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
}

func TestDoRequest_ClassifiesTransportErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"timeout", &url.Error{Op: "Get", URL: "https://gitlab.example.com", Err: context.DeadlineExceeded}, api.ErrTimeout},
		{"connection refused", &url.Error{Op: "Get", URL: "https://gitlab.example.com", Err: errors.New("connection refused")}, api.ErrUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			client := newTestClient(func(req *http.Request) (*http.Response, error) {
				return nil, tt.err
			})

			// Act
			_, err := client.GetProject(context.Background(), "221")

			// Assert
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestDoRequest_CallerCancellationIsNotUnreachable(t *testing.T) {
	// Arrange
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, &url.Error{Op: "Get", URL: "https://gitlab.example.com", Err: context.Canceled}
	})

	// Act
	_, err := client.GetProject(context.Background(), "221")

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, api.ErrUnreachable)
	assert.NotErrorIs(t, err, api.ErrTimeout)
}

func TestGetMergeRequests(t *testing.T) {
	// Arrange
	calls := 0
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		q := req.URL.Query()
		assert.Equal(t, "all", q.Get("state"))
		assert.Equal(t, "all", q.Get("scope"))
		assert.Equal(t, "42", q.Get("author_id"))
		if calls == 1 {
			return jsonResponse(http.StatusOK, `[{"iid": 7, "title": "Add login", "state": "merged", "created_at": "2024-06-03T09:00:00.000Z", "updated_at": "2024-06-04T09:00:00.120+01:00"}]`), nil
		}
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	// Act
	mrs, err := client.GetMergeRequests(context.Background(), "100", 42)

	// Assert
	require.NoError(t, err)
	require.Len(t, mrs, 1)
	assert.Equal(t, 7, mrs[0].IID)
	assert.Equal(t, "merged", mrs[0].State)
	assert.Equal(t, "2024-06-03T09:00:00.000Z", mrs[0].CreatedAt)
	assert.Equal(t, "2024-06-04T09:00:00.120+01:00", mrs[0].UpdatedAt)
}

func TestGetNotes(t *testing.T) {
	// Arrange
	calls := 0
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		assert.Equal(t, "/api/v4/projects/100/merge_requests/7/notes", req.URL.Path)
		if calls == 1 {
			return jsonResponse(http.StatusOK, `[{"type": "DiffNote", "system": false, "created_at": "2024-06-04T10:00:00Z", "author": {"id": 42}}]`), nil
		}
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	// Act
	notes, err := client.GetNotes(context.Background(), "100", 7)

	// Assert
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, 42, notes[0].AuthorID)
	assert.Equal(t, "DiffNote", notes[0].Type)
}
