package exam

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("exam not found")

	// issue kinds
	ErrMalformedResult = errors.New("malformed result")
	ErrMissingSchedule = errors.New("result for unscheduled subject")
)

// Issue is a data problem found while aggregating results.
type Issue struct {
	Kind      error
	StudentID int
	SubjectID int
	Detail    string
}

func (i Issue) Error() string {
	msg := fmt.Sprintf("%v: student %d, subject %d", i.Kind, i.StudentID, i.SubjectID)
	if i.Detail != "" {
		msg += ": " + i.Detail
	}
	return msg
}

func (i Issue) Unwrap() error { return i.Kind }
func (i Issue) Cause() error  { return i.Kind }

func (i Issue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      string `json:"kind"`
		StudentID int    `json:"student_id"`
		SubjectID int    `json:"subject_id"`
		Detail    string `json:"detail,omitempty"`
	}{
		Kind:      issueKindName(i.Kind),
		StudentID: i.StudentID,
		SubjectID: i.SubjectID,
		Detail:    i.Detail,
	})
}

func issueKindName(kind error) string {
	switch kind {
	case ErrMalformedResult:
		return "malformed_result"
	case ErrMissingSchedule:
		return "missing_schedule"
	default:
		return "unknown"
	}
}

// IssuesError reports aggregation issues as a single error.
type IssuesError struct {
	Issues []Issue
}

func (e *IssuesError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		parts = append(parts, i.Error())
	}
	return fmt.Sprintf("%d result issue(s): %s", len(e.Issues), strings.Join(parts, "; "))
}
