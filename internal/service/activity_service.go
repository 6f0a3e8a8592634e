package service

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/vilaca/commit-dashboard/internal/activity"
	"github.com/vilaca/commit-dashboard/internal/api"
	"github.com/vilaca/commit-dashboard/internal/domain"
)

// ActivityService aggregates GitLab activity for the dashboard.
// Follows Single Responsibility Principle - orchestrates fetch, filter, shape and cache.
type ActivityService struct {
	client        api.Client
	cache         *CommitCache
	now           Clock
	location      *time.Location
	roster        []string
	hiddenMembers map[string]bool
	logger        logrus.FieldLogger
}

// Config holds the dependencies of an ActivityService.
type Config struct {
	Client   api.Client
	Cache    *CommitCache
	Clock    Clock
	Location *time.Location // Location the current week and year are picked in
	// Roster lists the project ids shown on the dashboard.
	Roster []string
	// HiddenMembers lists member names left out of the weekly overview.
	HiddenMembers []string
	Logger        logrus.FieldLogger
}

// NewActivityService creates a new activity service.
func NewActivityService(cfg Config) *ActivityService {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewCommitCache(DefaultCommitCacheTTL, clock)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	hidden := make(map[string]bool, len(cfg.HiddenMembers))
	for _, name := range cfg.HiddenMembers {
		hidden[name] = true
	}

	return &ActivityService{
		client:        cfg.Client,
		cache:         cache,
		now:           clock,
		location:      location,
		roster:        cfg.Roster,
		hiddenMembers: hidden,
		logger:        logger,
	}
}

// Commits returns userID's commits on projectID in upstream order.
// A zero year returns every push GitLab still reports; otherwise only that calendar year.
func (s *ActivityService) Commits(ctx context.Context, userID int64, projectID string, year int) ([]domain.Commit, error) {
	if year == 0 {
		return s.collect(ctx, userID, projectID, nil)
	}

	bounds := activity.YearRange(year, time.UTC)
	return s.collect(ctx, userID, projectID, &bounds)
}

// WeekCommits returns userID's commits on projectID during the current week.
// Results are served from the cache while fresh.
func (s *ActivityService) WeekCommits(ctx context.Context, userID int64, projectID string) ([]domain.Commit, domain.DateRange, error) {
	return s.weekCommits(ctx, userID, projectID, false)
}

// Heatmap returns the per-day commit counts of userID on projectID for year.
func (s *ActivityService) Heatmap(ctx context.Context, userID int64, projectID string, year int) (*domain.Heatmap, error) {
	commits, err := s.Commits(ctx, userID, projectID, year)
	if err != nil {
		return nil, err
	}

	heatmap := activity.BuildHeatmap(year, time.UTC, commits)
	return &heatmap, nil
}

// CurrentYear returns the year of the current time in the service's location.
func (s *ActivityService) CurrentYear() int {
	return s.now().In(s.location).Year()
}

// currentWeek picks the week from the local date and returns its days in GitLab's
// reporting zone.
func (s *ActivityService) currentWeek() domain.DateRange {
	return activity.ReportingDays(activity.WeekRange(s.now().In(s.location)))
}

func (s *ActivityService) weekCommits(ctx context.Context, userID int64, projectID string, refresh bool) ([]domain.Commit, domain.DateRange, error) {
	week := s.currentWeek()
	key := CacheKey{UserID: userID, ProjectID: projectID, WeekStart: week.StartDay()}
	log := s.logger.WithFields(logrus.Fields{"user": userID, "project": projectID, "week": key.WeekStart})

	if !refresh {
		if entry, found := s.cache.Get(key); found {
			log.Debugf("Cache hit: %d commits stored %s", len(entry.Data), humanize.RelTime(entry.Timestamp, s.now(), "ago", "from now"))
			return entry.Data, week, nil
		}
	}

	commits, err := s.collect(ctx, userID, projectID, &week)
	if err != nil {
		return nil, week, err
	}

	s.cache.Put(key, commits)
	log.Debugf("Cached: %d commits", len(commits))

	return commits, week, nil
}

// collect runs the commit pipeline: drain push events, keep the user's events inside
// bounds (when given) and shape them into commits.
func (s *ActivityService) collect(ctx context.Context, userID int64, projectID string, bounds *domain.DateRange) ([]domain.Commit, error) {
	var query api.EventQuery
	if bounds != nil {
		// GitLab's after/before are exclusive whole UTC days; widen by a day past each
		// bound and trim precisely below.
		query.After = bounds.Start.AddDate(0, 0, -2).Format(domain.DayLayout)
		query.Before = bounds.End.AddDate(0, 0, 2).Format(domain.DayLayout)
	}

	events, err := s.client.GetPushEvents(ctx, projectID, query)
	if err != nil {
		return nil, err
	}

	userEvents := activity.FilterByAuthor(events, userID)
	if bounds != nil {
		userEvents = activity.FilterByWindow(userEvents, activity.DayWindow(*bounds))
	}

	s.logger.WithFields(logrus.Fields{"user": userID, "project": projectID}).
		Debugf("Kept %d of %d push events", len(userEvents), len(events))

	return activity.ShapeCommits(userEvents, projectID), nil
}
