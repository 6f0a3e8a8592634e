package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vilaca/commit-dashboard/internal/api"
	"github.com/vilaca/commit-dashboard/internal/domain"
)

// PullRequests returns the merge requests userID opened on projectID together with
// the reviews and comments userID left on each of them.
// Merge requests whose notes cannot be fetched are left out.
func (s *ActivityService) PullRequests(ctx context.Context, projectID string, userID int64) ([]domain.PullRequestActivity, error) {
	mrs, err := s.client.GetMergeRequests(ctx, projectID, int(userID))
	if err != nil {
		return nil, err
	}

	results := make([]*domain.PullRequestActivity, len(mrs))

	var g errgroup.Group
	g.SetLimit(api.MaxConcurrentRequests)
	for i, mr := range mrs {
		g.Go(func() error {
			notes, err := s.client.GetNotes(ctx, projectID, mr.IID)
			if err != nil {
				s.logger.Warnf("Failed to fetch notes for MR %d of project %s: %v", mr.IID, projectID, err)
				return nil
			}

			results[i] = &domain.PullRequestActivity{
				IID:       mr.IID,
				Title:     mr.Title,
				State:     mr.State,
				CreatedAt: mr.CreatedAt,
				UpdatedAt: mr.UpdatedAt,
				Activity:  noteActivity(notes, userID),
			}
			return nil
		})
	}
	_ = g.Wait()

	prs := make([]domain.PullRequestActivity, 0, len(mrs))
	for _, pr := range results {
		if pr != nil {
			prs = append(prs, *pr)
		}
	}
	return prs, nil
}

// noteActivity keeps userID's human notes: diff notes count as reviews, the rest as comments.
func noteActivity(notes []domain.Note, userID int64) []domain.NoteActivity {
	activity := []domain.NoteActivity{}
	for _, note := range notes {
		if note.System || int64(note.AuthorID) != userID {
			continue
		}

		kind := domain.ActivityComment
		if note.Type == "DiffNote" {
			kind = domain.ActivityReview
		}

		date, _, _ := strings.Cut(note.CreatedAt, "T")
		activity = append(activity, domain.NoteActivity{Date: date, Type: kind})
	}
	return activity
}
