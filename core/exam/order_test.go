package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortSchedules(t *testing.T) {
	tests := []struct {
		name      string
		schedules []SubjectSchedule
		want      []int // subject IDs
	}{
		{
			name: "by date",
			schedules: []SubjectSchedule{
				{SubjectID: 1, ExamDate: "2025-01-02"},
				{SubjectID: 2, ExamDate: "2025-01-01"},
			},
			want: []int{2, 1},
		},
		{
			name: "same date by start time",
			schedules: []SubjectSchedule{
				{SubjectID: 1, ExamDate: "2025-01-01", StartTime: "14:00"},
				{SubjectID: 2, ExamDate: "2025-01-01", StartTime: "09:30"},
			},
			want: []int{2, 1},
		},
		{
			name: "timestamps compare by date",
			schedules: []SubjectSchedule{
				{SubjectID: 1, ExamDate: "2025-01-02T00:00:00Z"},
				{SubjectID: 2, ExamDate: "2025-01-01T18:15:00.000Z", StartTime: "10:00"},
				{SubjectID: 3, ExamDate: "2025-01-01", StartTime: "09:00"},
			},
			want: []int{3, 2, 1},
		},
		{
			name: "stable",
			schedules: []SubjectSchedule{
				{SubjectID: 3, ExamDate: "2025-01-01"},
				{SubjectID: 1, ExamDate: "2025-01-01"},
				{SubjectID: 2, ExamDate: "2025-01-01"},
			},
			want: []int{3, 1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := SortSchedules(tt.schedules)
			got := make([]int, 0, len(sorted))
			for _, sch := range sorted {
				got = append(got, sch.SubjectID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortSchedules_doesNotMutate(t *testing.T) {
	schedules := []SubjectSchedule{{SubjectID: 1, ExamDate: "2025-01-02"}, {SubjectID: 2, ExamDate: "2025-01-01"}}
	SortSchedules(schedules)
	assert.Equal(t, 1, schedules[0].SubjectID)
}

func TestSortStudents(t *testing.T) {
	students := []Student{
		{ID: 1, RollNumber: nil},
		{ID: 2, RollNumber: intPtr(12)},
		{ID: 3, RollNumber: intPtr(3)},
		{ID: 4, RollNumber: nil},
		{ID: 5, RollNumber: intPtr(3)},
	}
	sorted := SortStudents(students)

	got := make([]int, 0, len(sorted))
	for _, st := range sorted {
		got = append(got, st.ID)
	}
	assert.Equal(t, []int{3, 5, 2, 1, 4}, got)
	assert.Equal(t, 1, students[0].ID)
}
