package exam

import (
	"math"
	"sort"
)

// Aggregate builds one AggregateRow per student from the results of the scheduled subjects.
//
// Results are stored per (student, subject), the last record of a pair winning.
// Results of unknown students are ignored. Totals only cover scheduled subjects;
// results of unscheduled subjects stay visible in Subjects and are reported as
// ErrMissingSchedule issues. Records with null marks are ungraded: they clear the
// pair. Malformed records clear it too and are reported as ErrMalformedResult issues.
func Aggregate(students []Student, schedules []SubjectSchedule, results []ResultRecord, opts Options) (map[int]AggregateRow, []Issue) {
	var issues []Issue

	scheduled := make(map[int]SubjectSchedule, len(schedules))
	for _, sch := range schedules {
		scheduled[sch.SubjectID] = sch
	}

	rows := make(map[int]AggregateRow, len(students))
	for _, st := range students {
		rows[st.ID] = AggregateRow{StudentID: st.ID, Subjects: make(map[int]SubjectMark)}
	}

	for _, res := range results {
		row, ok := rows[res.StudentID]
		if !ok {
			continue
		}
		if res.MarksObtained.Malformed() || res.MaxMarks.Malformed() {
			issues = append(issues, Issue{
				Kind:      ErrMalformedResult,
				StudentID: res.StudentID,
				SubjectID: res.SubjectID,
				Detail:    "marks_obtained=" + quoteMark(res.MarksObtained) + " max_marks=" + quoteMark(res.MaxMarks),
			})
			delete(row.Subjects, res.SubjectID)
			continue
		}
		if res.MarksObtained.IsNull() {
			delete(row.Subjects, res.SubjectID)
			continue
		}

		mark := SubjectMark{Marks: res.MarksObtained.Value, MaxMarks: res.MaxMarks.Value, Grade: res.Grade}
		if res.MaxMarks.IsNull() {
			if sch, ok := scheduled[res.SubjectID]; ok {
				mark.MaxMarks = sch.MaxMarks.Float64()
			}
		}
		row.Subjects[res.SubjectID] = mark
	}

	done := make(map[int]bool, len(rows))
	for _, st := range students {
		if done[st.ID] {
			continue
		}
		done[st.ID] = true

		row := rows[st.ID]
		issues = append(issues, unscheduledIssues(row, scheduled)...)

		for _, sch := range schedules {
			mark, ok := row.Subjects[sch.SubjectID]
			if !ok {
				if opts.StrictMissing {
					row.TotalMax += sch.MaxMarks.Float64()
					row.FailedSubjects++
				}
				continue
			}
			row.TotalObtained += mark.Marks
			row.TotalMax += mark.MaxMarks
			row.SubjectCount++
			if mark.Marks < sch.PassingMarks.Float64() {
				row.FailedSubjects++
			}
		}
		row.Percentage = percentage(row.TotalObtained, row.TotalMax)
		rows[st.ID] = row
	}
	return rows, issues
}

// unscheduledIssues reports the stored subjects of row missing from scheduled, by subject ID.
func unscheduledIssues(row AggregateRow, scheduled map[int]SubjectSchedule) []Issue {
	var issues []Issue
	for _, subjectID := range sortedSubjectIDs(row.Subjects) {
		if _, ok := scheduled[subjectID]; !ok {
			issues = append(issues, Issue{Kind: ErrMissingSchedule, StudentID: row.StudentID, SubjectID: subjectID})
		}
	}
	return issues
}

func sortedSubjectIDs(subjects map[int]SubjectMark) []int {
	ids := make([]int, 0, len(subjects))
	for id := range subjects {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// percentage returns obtained/max as a percentage rounded to 2 decimals, 0 when max is 0.
func percentage(obtained, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return round2(obtained / max * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func quoteMark(m Mark) string {
	if m.IsNull() {
		return "null"
	}
	return `"` + m.String() + `"`
}
