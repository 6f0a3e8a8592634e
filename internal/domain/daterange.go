package domain

import (
	"encoding/json"
	"time"
)

// DateRange is an inclusive span of calendar days.
// Start and End are midnights in the location the range was computed in.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns every calendar day from Start to End inclusive.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// StartDay returns Start formatted as a calendar day.
func (r DateRange) StartDay() string {
	return r.Start.Format(DayLayout)
}

// EndDay returns End formatted as a calendar day.
func (r DateRange) EndDay() string {
	return r.End.Format(DayLayout)
}

// MarshalJSON renders the range as calendar-day strings.
func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{r.StartDay(), r.EndDay()})
}
