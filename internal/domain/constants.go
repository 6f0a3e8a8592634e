package domain

// DayLayout is the calendar-day format used for commit dates and range bounds.
const DayLayout = "2006-01-02"

// Note types reported in merge request activity.
const (
	// ActivityReview marks a note left on a diff line.
	ActivityReview = "review"
	// ActivityComment marks any other non-system note.
	ActivityComment = "comment"
)
