package activity

import (
	"strings"

	"github.com/vilaca/commit-dashboard/internal/domain"
)

// Field names a commit field that has a fallback value.
type Field string

const (
	FieldDate       Field = "date"
	FieldBranch     Field = "branch"
	FieldMessage    Field = "message"
	FieldSHA        Field = "sha"
	FieldAuthorName Field = "author_name"
)

// Defaults holds the sentinel used for every field GitLab left empty.
var Defaults = map[Field]string{
	FieldDate:       "unknown",
	FieldBranch:     "unknown",
	FieldMessage:    "Nenhuma mensagem",
	FieldSHA:        "unknown",
	FieldAuthorName: "Desconhecido",
}

const branchRefPrefix = "refs/heads/"

// ShapeCommit maps a push event to a commit record for projectID.
// It never fails: missing fields take their sentinel from Defaults.
func ShapeCommit(event domain.Event, projectID string) domain.Commit {
	date, _, _ := strings.Cut(event.CreatedAt, "T")

	var ref, title, sha string
	if event.Push != nil {
		ref = strings.TrimPrefix(event.Push.Ref, branchRefPrefix)
		title = event.Push.CommitTitle
		sha = event.Push.CommitTo
	}

	return domain.Commit{
		Date:       withDefault(FieldDate, date),
		Branch:     withDefault(FieldBranch, ref),
		Message:    withDefault(FieldMessage, title),
		Project:    projectID,
		SHA:        withDefault(FieldSHA, sha),
		AuthorName: withDefault(FieldAuthorName, event.AuthorName),
	}
}

// ShapeCommits maps events in order. The result is never nil.
func ShapeCommits(events []domain.Event, projectID string) []domain.Commit {
	commits := make([]domain.Commit, len(events))
	for i, event := range events {
		commits[i] = ShapeCommit(event, projectID)
	}
	return commits
}

func withDefault(field Field, value string) string {
	if strings.TrimSpace(value) == "" {
		return Defaults[field]
	}
	return value
}
