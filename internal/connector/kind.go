package connector

// Kind selects which Taiga work item a connector files.
type Kind string

const (
	KindIssue     Kind = "issue"
	KindUserStory Kind = "userstory"
)

// noun is the human-readable item name used in error messages.
func (k Kind) noun() string {
	if k == KindUserStory {
		return "user story"
	}
	return "issue"
}

// urlSegment is the path segment Taiga's web UI uses for the kind.
func (k Kind) urlSegment() string {
	if k == KindUserStory {
		return "us"
	}
	return "issue"
}

func (k Kind) Valid() bool {
	return k == KindIssue || k == KindUserStory
}
