package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/commit-dashboard/internal/api"
	"github.com/vilaca/commit-dashboard/internal/domain"
)

func TestPullRequests_CollectsUserActivity(t *testing.T) {
	// Arrange
	created := "2024-06-03T09:00:00.000Z"
	client := &mockClient{
		getMergeRequestsFunc: func(ctx context.Context, projectID string, authorID int) ([]domain.MergeRequest, error) {
			assert.Equal(t, 42, authorID)
			return []domain.MergeRequest{
				{IID: 1, Title: "Add login", State: "merged", CreatedAt: created, UpdatedAt: created},
				{IID: 2, Title: "Fix typo", State: "opened", CreatedAt: created, UpdatedAt: created},
			}, nil
		},
		getNotesFunc: func(ctx context.Context, projectID string, mrIID int) ([]domain.Note, error) {
			if mrIID == 1 {
				return []domain.Note{
					{AuthorID: 42, Type: "DiffNote", CreatedAt: "2024-06-04T10:00:00Z"},
					{AuthorID: 42, Type: "", CreatedAt: "2024-06-05T10:00:00Z"},
					{AuthorID: 42, System: true, CreatedAt: "2024-06-05T11:00:00Z"},
					{AuthorID: 7, Type: "DiffNote", CreatedAt: "2024-06-05T12:00:00Z"},
				}, nil
			}
			return nil, nil
		},
	}
	service := newTestService(client, &fakeClock{now: wednesday}, nil, nil)

	// Act
	prs, err := service.PullRequests(context.Background(), "100", 42)

	// Assert
	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, 1, prs[0].IID)
	assert.Equal(t, "2024-06-03T09:00:00.000Z", prs[0].CreatedAt)
	assert.Equal(t, []domain.NoteActivity{
		{Date: "2024-06-04", Type: domain.ActivityReview},
		{Date: "2024-06-05", Type: domain.ActivityComment},
	}, prs[0].Activity)
	assert.Equal(t, 2, prs[1].IID)
	assert.NotNil(t, prs[1].Activity)
	assert.Empty(t, prs[1].Activity)
}

func TestPullRequests_DropsMergeRequestWhenNotesFail(t *testing.T) {
	// Arrange
	client := &mockClient{
		getMergeRequestsFunc: func(ctx context.Context, projectID string, authorID int) ([]domain.MergeRequest, error) {
			return []domain.MergeRequest{{IID: 1}, {IID: 2}, {IID: 3}}, nil
		},
		getNotesFunc: func(ctx context.Context, projectID string, mrIID int) ([]domain.Note, error) {
			if mrIID == 2 {
				return nil, api.ErrTimeout
			}
			return nil, nil
		},
	}
	service := newTestService(client, &fakeClock{now: wednesday}, nil, nil)

	// Act
	prs, err := service.PullRequests(context.Background(), "100", 42)

	// Assert
	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, 1, prs[0].IID)
	assert.Equal(t, 3, prs[1].IID)
}

func TestPullRequests_MergeRequestFailureFailsCall(t *testing.T) {
	// Arrange
	client := &mockClient{
		getMergeRequestsFunc: func(ctx context.Context, projectID string, authorID int) ([]domain.MergeRequest, error) {
			return nil, &api.UpstreamError{StatusCode: 403, Body: "forbidden"}
		},
	}
	service := newTestService(client, &fakeClock{now: wednesday}, nil, nil)

	// Act
	prs, err := service.PullRequests(context.Background(), "100", 42)

	// Assert
	assert.Nil(t, prs)
	assert.Error(t, err)
	assert.Equal(t, 0, client.callCount("GetNotes"))
}
