package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazekiller/gyan/core/exam"
)

func seed(t *testing.T) *examRepository {
	roll := 1
	db := Open()
	db.Load(exam.Dataset{
		Exam:      exam.Exam{ID: 1, Name: "Unit Test", ClassID: 5},
		Schedules: []exam.SubjectSchedule{{SubjectID: 10, SubjectName: "Maths", MaxMarks: 100, PassingMarks: 35}},
		Students: []exam.Student{
			{ID: 1, FirstName: "Ashish", RollNumber: &roll, ClassID: 5, Status: exam.StatusActive},
			{ID: 2, FirstName: "Rahul", ClassID: 5, Status: exam.StatusInactive},
			{ID: 3, FirstName: "Sita", ClassID: 6, Status: exam.StatusActive},
		},
		Results: []exam.ResultRecord{
			{StudentID: 1, SubjectID: 10, MarksObtained: exam.NewMark(40), MaxMarks: exam.NewMark(100)},
		},
	})
	return NewExamRepository(db)
}

func TestExamRepository_Source(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	ex, err := repo.GetExam(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Unit Test", ex.Name)

	_, err = repo.GetExam(ctx, 2)
	assert.Equal(t, exam.ErrNotFound, err)

	schedules, err := repo.QuerySchedules(ctx, 1)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, 1, schedules[0].ExamID)

	students, err := repo.QueryStudents(ctx, exam.StudentFilter{ClassID: 5, Status: exam.StatusActive})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ashish", students[0].FirstName)

	results, err := repo.QueryResults(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repo.QueryResults(cancelled, 1)
	assert.Equal(t, context.Canceled, err)
}

func TestExamRepository_ImportResults(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	n, err := repo.ImportResults(ctx, 1, []exam.ResultRecord{
		{StudentID: 1, SubjectID: 10, MarksObtained: exam.NewMark(55), MaxMarks: exam.NewMark(100)},
		{StudentID: 1, SubjectID: 11, MarksObtained: exam.NewMark(20), MaxMarks: exam.NewMark(50)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := repo.QueryResults(ctx, 1)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 55.0, results[0].MarksObtained.Value)
	assert.Equal(t, 11, results[1].SubjectID)

	_, err = repo.ImportResults(ctx, 9, nil)
	assert.Equal(t, exam.ErrNotFound, err)
}
