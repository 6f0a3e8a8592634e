package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vilaca/commit-dashboard/internal/activity"
	"github.com/vilaca/commit-dashboard/internal/api"
	"github.com/vilaca/commit-dashboard/internal/domain"
)

// WeeklyOverview returns the current work week of every visible roster member,
// across all roster projects.
func (s *ActivityService) WeeklyOverview(ctx context.Context) (*domain.WeeklyOverview, error) {
	projects, err := s.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	week := s.currentWeek()
	dates := activity.WorkWeekDates(week)
	members := s.visibleMembers(projects)
	rows := make([]domain.MemberWeek, len(members))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(api.MaxConcurrentRequests)
	for i, member := range members {
		g.Go(func() error {
			var commits []domain.Commit
			for _, project := range projects {
				projectCommits, _, err := s.WeekCommits(gctx, int64(member.ID), strconv.Itoa(project.ID))
				if err != nil {
					return fmt.Errorf("commits of %s on %s: %w", member.Username, project.Name, err)
				}
				commits = append(commits, projectCommits...)
			}
			rows[i] = domain.MemberWeek{Member: member, Days: groupByDay(dates, commits)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(projects))
	for _, project := range projects {
		names[strconv.Itoa(project.ID)] = project.Name
	}

	return &domain.WeeklyOverview{
		Week:     week,
		Dates:    dates,
		Projects: names,
		Members:  rows,
	}, nil
}

// WarmWeek recomputes and caches the current week for every visible member and
// roster project, ignoring cached entries. It returns the number of entries stored.
func (s *ActivityService) WarmWeek(ctx context.Context) (int, error) {
	projects, err := s.Projects(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load roster: %w", err)
	}

	members := s.visibleMembers(projects)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(api.MaxConcurrentRequests)
	for _, member := range members {
		for _, project := range projects {
			g.Go(func() error {
				_, _, err := s.weekCommits(gctx, int64(member.ID), strconv.Itoa(project.ID), true)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return len(members) * len(projects), nil
}

// visibleMembers de-duplicates members across projects by id, drops hidden names and
// sorts the rest by name the way Portuguese speakers expect.
func (s *ActivityService) visibleMembers(projects []domain.Project) []domain.Member {
	seen := make(map[int]bool)
	var members []domain.Member
	for _, project := range projects {
		for _, member := range project.Members {
			if seen[member.ID] || s.hiddenMembers[member.Name] {
				continue
			}
			seen[member.ID] = true
			members = append(members, member)
		}
	}

	collator := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(members, func(i, j int) bool {
		return collator.CompareString(members[i].Name, members[j].Name) < 0
	})
	return members
}

// groupByDay files commits under the given dates. Commits on other days are dropped.
func groupByDay(dates []string, commits []domain.Commit) []domain.DayWork {
	days := make([]domain.DayWork, len(dates))
	index := make(map[string]int, len(dates))
	for i, date := range dates {
		days[i] = domain.DayWork{Date: date, Commits: []domain.Commit{}}
		index[date] = i
	}

	for _, commit := range commits {
		if i, ok := index[commit.Date]; ok {
			days[i].Commits = append(days[i].Commits, commit)
		}
	}
	return days
}
