package domain

import "time"

type SubmissionKind string

const (
	SubmissionNewsletter SubmissionKind = "newsletter"
	SubmissionContact    SubmissionKind = "contact"
)

type Submission struct {
	ID        string
	Kind      SubmissionKind
	SessionID string
	Email     string
	Fields    map[string]string
	CreatedAt time.Time
}
