package activity

import (
	"time"

	"github.com/vilaca/commit-dashboard/internal/domain"
)

// WorkDays is the number of weekdays shown in the weekly grid.
const WorkDays = 5

// WeekRange returns Monday through Sunday of the week containing now, in now's location.
func WeekRange(now time.Time) domain.DateRange {
	monday := midnight(now).AddDate(0, 0, -daysSinceMonday(now.Weekday()))
	return domain.DateRange{
		Start: monday,
		End:   monday.AddDate(0, 0, 6),
	}
}

// YearRange returns January 1 through December 31 of year in loc.
func YearRange(year int, loc *time.Location) domain.DateRange {
	return domain.DateRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, loc),
	}
}

// ReportingDays re-reads the calendar days of r in UTC, the zone GitLab reports
// created_at in. Commit dates come from that text, so windows built from the result
// agree with them.
func ReportingDays(r domain.DateRange) domain.DateRange {
	return domain.DateRange{Start: utcDay(r.Start), End: utcDay(r.End)}
}

// WorkWeekDates returns Monday through Friday of week as calendar days.
func WorkWeekDates(week domain.DateRange) []string {
	dates := make([]string, WorkDays)
	for i := range dates {
		dates[i] = week.Start.AddDate(0, 0, i).Format(domain.DayLayout)
	}
	return dates
}

// daysSinceMonday maps Sunday to 6 and every other day to weekday-1.
func daysSinceMonday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
