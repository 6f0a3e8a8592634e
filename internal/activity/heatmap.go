package activity

import (
	"time"

	"github.com/vilaca/commit-dashboard/internal/domain"
)

// BuildHeatmap counts commits per calendar day of year.
// Commits dated outside the year are ignored.
func BuildHeatmap(year int, loc *time.Location, commits []domain.Commit) domain.Heatmap {
	r := YearRange(year, loc)

	counts := make(map[string]int, len(commits))
	for _, commit := range commits {
		counts[commit.Date]++
	}

	days := r.Days()
	cells := make([]domain.HeatmapDay, len(days))
	for i, day := range days {
		date := day.Format(domain.DayLayout)
		cells[i] = domain.HeatmapDay{Date: date, Count: counts[date]}
	}

	return domain.Heatmap{
		Year:          year,
		Range:         r,
		LeadingBlanks: daysSinceMonday(r.Start.Weekday()),
		Days:          cells,
	}
}
