package domain

// Heatmap is one year of daily commit counts laid out for a calendar grid.
type Heatmap struct {
	Year  int       `json:"year"`
	Range DateRange `json:"range"`
	// LeadingBlanks is the number of empty cells before Jan 1 in a Monday-first week column.
	LeadingBlanks int          `json:"leading_blanks"`
	Days          []HeatmapDay `json:"days"`
}

// HeatmapDay is a single grid cell.
type HeatmapDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
