package exam

import (
	"fmt"
	"strings"
)

// Student statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Exam struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	AcademicYear string `json:"academic_year"`
	ClassID      int    `json:"class_id"`
}

type Student struct {
	ID              int    `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	RollNumber      *int   `json:"roll_number"`
	AdmissionNumber string `json:"admission_number"`
	ClassID         int    `json:"class_id"`
	Status          string `json:"status"`
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// SubjectSchedule is one examined subject of an exam.
type SubjectSchedule struct {
	ExamID       int    `json:"exam_id"`
	SubjectID    int    `json:"subject_id"`
	SubjectName  string `json:"subject_name"`
	MaxMarks     Number `json:"max_marks"`
	PassingMarks Number `json:"passing_marks"`
	ExamDate     string `json:"exam_date"`  // YYYY-MM-DD
	StartTime    string `json:"start_time"` // HH:MM[:SS]
}

// ResultRecord is one student's score for one subject.
// Marks are kept as received: they may be null (ungraded) or malformed.
type ResultRecord struct {
	StudentID     int    `json:"student_id"`
	SubjectID     int    `json:"subject_id"`
	MarksObtained Mark   `json:"marks_obtained"`
	MaxMarks      Mark   `json:"max_marks"`
	Grade         string `json:"grade"`
}

// StudentFilter scopes a roster query.
type StudentFilter struct {
	ClassID int
	Status  string
}

// Dataset holds the four collections a broadsheet is built from.
type Dataset struct {
	Exam      Exam
	Schedules []SubjectSchedule
	Students  []Student
	Results   []ResultRecord
}

// Options holds the aggregation policies.
type Options struct {
	// StrictMissing counts a scheduled subject without result as failed,
	// scored 0 out of the schedule's max marks.
	StrictMissing bool
}

// SubjectMark is the stored result of one (student, subject) pair.
type SubjectMark struct {
	Marks    float64 `json:"marks"`
	MaxMarks float64 `json:"max_marks"`
	Grade    string  `json:"grade"`
}

// AggregateRow is the derived broadsheet line of one student.
type AggregateRow struct {
	StudentID      int                 `json:"student_id"`
	Subjects       map[int]SubjectMark `json:"subjects"`
	TotalObtained  float64             `json:"total_obtained"`
	TotalMax       float64             `json:"total_max"`
	SubjectCount   int                 `json:"subject_count"`
	FailedSubjects int                 `json:"failed_subjects"`
	Percentage     float64             `json:"percentage"`
}

func (r AggregateRow) Passed() bool {
	return r.FailedSubjects == 0
}

// Status renders the overall result: "PASS" or "FAIL (<failed subjects>)".
func (r AggregateRow) Status() string {
	if r.Passed() {
		return "PASS"
	}
	return fmt.Sprintf("FAIL (%d)", r.FailedSubjects)
}
