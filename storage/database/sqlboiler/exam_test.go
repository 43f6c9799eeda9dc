package boiledrepos

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/hazekiller/gyan/core/exam"
	testutil "github.com/hazekiller/gyan/tests"
)

func Test_unboilMark(t *testing.T) {
	assert.Equal(t, exam.NewMark(41.5), unboilMark(null.Float64From(41.5)))
	assert.Equal(t, exam.NewMark(0), unboilMark(null.Float64From(0)))

	m := unboilMark(null.Float64{})
	assert.True(t, m.IsNull())
	assert.False(t, m.Malformed())
}

func Test_scheduleRow_unboil(t *testing.T) {
	row := scheduleRow{
		ExamID: 1, SubjectID: 10, SubjectName: "Maths", MaxMarks: 100, PassingMarks: 32.5,
		ExamDate:  null.TimeFrom(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)),
		StartTime: null.StringFrom("10:00:00"),
	}
	assert.Equal(t, exam.SubjectSchedule{
		ExamID: 1, SubjectID: 10, SubjectName: "Maths", MaxMarks: 100, PassingMarks: 32.5,
		ExamDate: "2025-01-02", StartTime: "10:00:00",
	}, row.unboil())

	undated := scheduleRow{SubjectID: 11}.unboil()
	assert.Empty(t, undated.ExamDate)
	assert.Empty(t, undated.StartTime)
}

func Test_studentRow_unboil(t *testing.T) {
	st := studentRow{ID: 1, FirstName: "Ashish", RollNumber: null.IntFrom(2), ClassID: 5, Status: exam.StatusActive}.unboil()
	require.NotNil(t, st.RollNumber)
	assert.Equal(t, 2, *st.RollNumber)
	assert.Equal(t, "Ashish", st.FirstName)

	st = studentRow{ID: 3, FirstName: "Sita"}.unboil()
	assert.Nil(t, st.RollNumber)
}

func Test_resultRow_unboil(t *testing.T) {
	rec := resultRow{StudentID: 1, SubjectID: 10, MarksObtained: null.Float64From(78), Grade: "A"}.unboil()
	assert.Equal(t, exam.NewMark(78), rec.MarksObtained)
	assert.True(t, rec.MaxMarks.IsNull())
	assert.Equal(t, "A", rec.Grade)
}

func Test_studentsQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   exam.StudentFilter
		wantSQL  []string
		wantArgs []interface{}
	}{
		{name: "no filter", filter: exam.StudentFilter{}},
		{
			name:     "class",
			filter:   exam.StudentFilter{ClassID: 5},
			wantSQL:  []string{"class_id = $1"},
			wantArgs: []interface{}{5},
		},
		{
			name:     "class and status",
			filter:   exam.StudentFilter{ClassID: 5, Status: exam.StatusActive},
			wantSQL:  []string{"class_id = $1", "status = $2"},
			wantArgs: []interface{}{5, exam.StatusActive},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := queries.BuildQuery(studentsQuery(tt.filter))
			assert.Regexp(t, `FROM "?student"?`, query)
			assert.Contains(t, query, "ORDER BY id")
			if len(tt.wantSQL) == 0 {
				assert.NotContains(t, query, "WHERE")
			}
			for _, part := range tt.wantSQL {
				assert.Contains(t, query, part)
			}
			if len(tt.wantArgs) == 0 {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func seedExamTables(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	stmts := []string{
		`TRUNCATE exam, student, exam_schedule, result RESTART IDENTITY CASCADE`,
		`INSERT INTO exam (id, name, academic_year, class_id) VALUES (1, 'First Terminal', '2081', 5)`,
		`INSERT INTO student (id, first_name, last_name, roll_number, admission_number, class_id, status) VALUES
			(1, 'Ashish', 'Thapa', 2, 'ADM-001', 5, 'active'),
			(2, 'Rahul', 'Sharma', NULL, 'ADM-002', 5, 'active'),
			(3, 'Hari', 'Karki', 3, 'ADM-003', 5, 'inactive')`,
		`INSERT INTO exam_schedule (exam_id, subject_id, subject_name, max_marks, passing_marks, exam_date, start_time) VALUES
			(1, 10, 'Maths', 100, 35, '2025-01-02', '10:00'),
			(1, 11, 'Science', 50, 17.5, NULL, NULL)`,
		`INSERT INTO result (exam_id, student_id, subject_id, marks_obtained, max_marks, grade) VALUES
			(1, 1, 10, 78.5, 100, 'A'),
			(1, 2, 10, NULL, NULL, '')`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seeding exam tables: %v", err)
		}
	}
}

func TestExamSource(t *testing.T) {
	db := testutil.PrepareDB(t)
	seedExamTables(t, db)
	src := NewExamSource(db)
	ctx := context.Background()

	ex, err := src.GetExam(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, exam.Exam{ID: 1, Name: "First Terminal", AcademicYear: "2081", ClassID: 5}, ex)

	_, err = src.GetExam(ctx, 9)
	assert.Equal(t, exam.ErrNotFound, err)

	schedules, err := src.QuerySchedules(ctx, 1)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, "2025-01-02", schedules[0].ExamDate)
	assert.Equal(t, "10:00:00", schedules[0].StartTime)
	assert.Equal(t, exam.Number(17.5), schedules[1].PassingMarks)
	assert.Empty(t, schedules[1].ExamDate)

	students, err := src.QueryStudents(ctx, exam.StudentFilter{ClassID: 5, Status: exam.StatusActive})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, 2, *students[0].RollNumber)
	assert.Nil(t, students[1].RollNumber)

	results, err := src.QueryResults(ctx, 1)
	require.NoError(t, err)
	require.Len(t, results, 2)
	byStudent := map[int]exam.ResultRecord{results[0].StudentID: results[0], results[1].StudentID: results[1]}
	assert.Equal(t, exam.NewMark(78.5), byStudent[1].MarksObtained)
	assert.True(t, byStudent[2].MarksObtained.IsNull())
	assert.True(t, byStudent[2].MaxMarks.IsNull())
}
