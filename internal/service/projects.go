package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vilaca/commit-dashboard/internal/api"
	"github.com/vilaca/commit-dashboard/internal/domain"
)

// Project returns a project with its members. Both are fetched concurrently and
// either failure fails the whole lookup.
func (s *ActivityService) Project(ctx context.Context, projectID string) (*domain.Project, error) {
	var (
		project *domain.Project
		members []domain.Member
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.client.GetProject(gctx, projectID)
		project = p
		return err
	})
	g.Go(func() error {
		m, err := s.client.GetMembers(gctx, projectID)
		members = m
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if members == nil {
		members = []domain.Member{}
	}
	project.Members = members

	return project, nil
}

// Projects returns every roster project with its members, in roster order.
// Projects GitLab no longer knows are skipped; any other failure fails the call.
func (s *ActivityService) Projects(ctx context.Context) ([]domain.Project, error) {
	found := make([]*domain.Project, len(s.roster))

	g, gctx := errgroup.WithContext(ctx)
	for i, projectID := range s.roster {
		g.Go(func() error {
			project, err := s.Project(gctx, projectID)
			if api.IsNotFound(err) {
				s.logger.Warnf("Roster project %s not found, skipping", projectID)
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = project
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(found))
	for _, project := range found {
		if project != nil {
			projects = append(projects, *project)
		}
	}
	return projects, nil
}
