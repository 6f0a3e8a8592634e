package domain

// MergeRequest represents a GitLab merge request.
type MergeRequest struct {
	IID       int
	Title     string
	State     string // "opened", "closed", "merged", "locked"
	CreatedAt string
	UpdatedAt string
}

// Note represents a comment attached to a merge request.
type Note struct {
	AuthorID  int
	Type      string // "DiffNote", "DiscussionNote" or empty
	System    bool   // true for notes generated by GitLab itself
	CreatedAt string
}

// PullRequestActivity is a merge request together with one user's notes on it.
type PullRequestActivity struct {
	IID       int            `json:"iid"`
	Title     string         `json:"title"`
	State     string         `json:"state"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Activity  []NoteActivity `json:"activity"`
}

// NoteActivity is a single review or comment left by a user.
type NoteActivity struct {
	Date string `json:"date"`
	Type string `json:"type"`
}
