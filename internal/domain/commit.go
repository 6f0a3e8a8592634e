package domain

// Commit is the normalized record derived from a push event.
// It is what the heatmap and weekly views consume.
type Commit struct {
	Date       string `json:"date"`
	Branch     string `json:"branch"`
	Message    string `json:"message"`
	Project    string `json:"project"`
	SHA        string `json:"sha"`
	AuthorName string `json:"author_name"`
}
