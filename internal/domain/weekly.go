package domain

// WeeklyOverview groups the current week's commits of every visible roster member.
type WeeklyOverview struct {
	Week     DateRange         `json:"week"`
	Dates    []string          `json:"dates"`    // Monday through Friday
	Projects map[string]string `json:"projects"` // project id -> name
	Members  []MemberWeek      `json:"members"`
}

// MemberWeek is one row of the weekly grid.
type MemberWeek struct {
	Member Member    `json:"member"`
	Days   []DayWork `json:"days"`
}

// DayWork lists the commits a member pushed on one day.
type DayWork struct {
	Date    string   `json:"date"`
	Commits []Commit `json:"commits"`
}

// HasCommits reports whether anything was pushed that day.
func (d DayWork) HasCommits() bool {
	return len(d.Commits) > 0
}
