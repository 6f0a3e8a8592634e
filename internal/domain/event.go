package domain

// Event represents a push event reported by GitLab for a project.
// Only the fields the commit pipeline reads are kept.
type Event struct {
	ProjectID  string    // Project the event was listed for
	AuthorID   string    // Author id as reported, number or quoted string
	AuthorName string    // Empty when GitLab omitted the author block
	CreatedAt  string    // ISO-8601 timestamp as reported
	Push       *PushData // nil when the event carried no push_data
}

// PushData holds the push-specific part of an event.
type PushData struct {
	Ref         string // e.g. "refs/heads/main" or "main"
	CommitTitle string
	CommitTo    string // SHA of the head commit after the push
}
