package taiga

import "fmt"

// Project is the subset of a Taiga project the connector reads. The default
// ids are nil when the project has no default configured.
type Project struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Slug               string `json:"slug"`
	DefaultIssueStatus *int64 `json:"default_issue_status"`
	DefaultUSStatus    *int64 `json:"default_us_status"`
	DefaultPriority    *int64 `json:"default_priority"`
	DefaultIssueType   *int64 `json:"default_issue_type"`
	DefaultSeverity    *int64 `json:"default_severity"`
}

// NewIssue is the POST /issues payload. Tags is always encoded, so an empty
// tag set goes out as [].
type NewIssue struct {
	Project     int64    `json:"project"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Status      int64    `json:"status"`
	Priority    *int64   `json:"priority"`
	Type        *int64   `json:"type"`
	Severity    *int64   `json:"severity"`
	Tags        []string `json:"tags"`
}

// NewUserStory is the POST /userstories payload. Tags is omitted when nil.
type NewUserStory struct {
	Project     int64    `json:"project"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Status      int64    `json:"status"`
	Tags        []string `json:"tags,omitempty"`
}

// Item is a created issue or user story.
type Item struct {
	ID      int64  `json:"id"`
	Ref     int64  `json:"ref"`
	Subject string `json:"subject"`
}

type authRequest struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	AuthToken string `json:"auth_token"`
}

// APIError is returned for any non-2xx Taiga response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("taiga api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("taiga api returned status %d: %s", e.StatusCode, e.Message)
}
