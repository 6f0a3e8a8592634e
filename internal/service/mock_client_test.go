package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/vilaca/commit-dashboard/internal/api"
	"github.com/vilaca/commit-dashboard/internal/domain"
)

// mockClient is a test double for api.Client.
type mockClient struct {
	mu    sync.Mutex
	calls map[string]int

	getProjectFunc       func(ctx context.Context, projectID string) (*domain.Project, error)
	getMembersFunc       func(ctx context.Context, projectID string) ([]domain.Member, error)
	getPushEventsFunc    func(ctx context.Context, projectID string, query api.EventQuery) ([]domain.Event, error)
	getMergeRequestsFunc func(ctx context.Context, projectID string, authorID int) ([]domain.MergeRequest, error)
	getNotesFunc         func(ctx context.Context, projectID string, mrIID int) ([]domain.Note, error)
}

func (m *mockClient) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

func (m *mockClient) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockClient) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	m.record("GetProject")
	if m.getProjectFunc != nil {
		return m.getProjectFunc(ctx, projectID)
	}
	return &domain.Project{}, nil
}

func (m *mockClient) GetMembers(ctx context.Context, projectID string) ([]domain.Member, error) {
	m.record("GetMembers")
	if m.getMembersFunc != nil {
		return m.getMembersFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *mockClient) GetPushEvents(ctx context.Context, projectID string, query api.EventQuery) ([]domain.Event, error) {
	m.record("GetPushEvents")
	if m.getPushEventsFunc != nil {
		return m.getPushEventsFunc(ctx, projectID, query)
	}
	return nil, nil
}

func (m *mockClient) GetMergeRequests(ctx context.Context, projectID string, authorID int) ([]domain.MergeRequest, error) {
	m.record("GetMergeRequests")
	if m.getMergeRequestsFunc != nil {
		return m.getMergeRequestsFunc(ctx, projectID, authorID)
	}
	return nil, nil
}

func (m *mockClient) GetNotes(ctx context.Context, projectID string, mrIID int) ([]domain.Note, error) {
	m.record("GetNotes")
	if m.getNotesFunc != nil {
		return m.getNotesFunc(ctx, projectID, mrIID)
	}
	return nil, nil
}

// fakeClock is a settable clock shared by the service and its cache.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// wednesday is 2024-06-05 15:00 UTC, in the week of 2024-06-03..2024-06-09.
var wednesday = time.Date(2024, 6, 5, 15, 0, 0, 0, time.UTC)

func newTestService(client api.Client, clock *fakeClock, roster []string, hidden []string) *ActivityService {
	logger, _ := test.NewNullLogger()
	return NewActivityService(Config{
		Client:        client,
		Cache:         NewCommitCache(DefaultCommitCacheTTL, clock.Now),
		Clock:         clock.Now,
		Location:      time.UTC,
		Roster:        roster,
		HiddenMembers: hidden,
		Logger:        logger,
	})
}

func pushEvent(authorID, createdAt, title string) domain.Event {
	return domain.Event{
		AuthorID:   authorID,
		AuthorName: "Author " + authorID,
		CreatedAt:  createdAt,
		Push: &domain.PushData{
			Ref:         "refs/heads/main",
			CommitTitle: title,
			CommitTo:    "sha-" + title,
		},
	}
}
