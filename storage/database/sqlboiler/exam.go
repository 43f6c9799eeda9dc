package boiledrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/hazekiller/gyan/core"
	"github.com/hazekiller/gyan/core/exam"
)

const dateLayout = "2006-01-02"

type (
	examRow struct {
		ID           int    `boil:"id"`
		Name         string `boil:"name"`
		AcademicYear string `boil:"academic_year"`
		ClassID      int    `boil:"class_id"`
	}

	scheduleRow struct {
		ExamID       int         `boil:"exam_id"`
		SubjectID    int         `boil:"subject_id"`
		SubjectName  string      `boil:"subject_name"`
		MaxMarks     float64     `boil:"max_marks"`
		PassingMarks float64     `boil:"passing_marks"`
		ExamDate     null.Time   `boil:"exam_date"`
		StartTime    null.String `boil:"start_time"`
	}

	studentRow struct {
		ID              int      `boil:"id"`
		FirstName       string   `boil:"first_name"`
		LastName        string   `boil:"last_name"`
		RollNumber      null.Int `boil:"roll_number"`
		AdmissionNumber string   `boil:"admission_number"`
		ClassID         int      `boil:"class_id"`
		Status          string   `boil:"status"`
	}

	resultRow struct {
		StudentID     int          `boil:"student_id"`
		SubjectID     int          `boil:"subject_id"`
		MarksObtained null.Float64 `boil:"marks_obtained"`
		MaxMarks      null.Float64 `boil:"max_marks"`
		Grade         string       `boil:"grade"`
	}
)

func (r examRow) unboil() exam.Exam {
	return exam.Exam{ID: r.ID, Name: r.Name, AcademicYear: r.AcademicYear, ClassID: r.ClassID}
}

func (r scheduleRow) unboil() exam.SubjectSchedule {
	sch := exam.SubjectSchedule{
		ExamID:       r.ExamID,
		SubjectID:    r.SubjectID,
		SubjectName:  r.SubjectName,
		MaxMarks:     exam.Number(r.MaxMarks),
		PassingMarks: exam.Number(r.PassingMarks),
		StartTime:    r.StartTime.String,
	}
	if r.ExamDate.Valid {
		sch.ExamDate = r.ExamDate.Time.Format(dateLayout)
	}
	return sch
}

func (r studentRow) unboil() exam.Student {
	st := exam.Student{
		ID:              r.ID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		AdmissionNumber: r.AdmissionNumber,
		ClassID:         r.ClassID,
		Status:          r.Status,
	}
	if r.RollNumber.Valid {
		roll := r.RollNumber.Int
		st.RollNumber = &roll
	}
	return st
}

func (r resultRow) unboil() exam.ResultRecord {
	return exam.ResultRecord{
		StudentID:     r.StudentID,
		SubjectID:     r.SubjectID,
		MarksObtained: unboilMark(r.MarksObtained),
		MaxMarks:      unboilMark(r.MaxMarks),
		Grade:         r.Grade,
	}
}

type examSource struct {
	exec core.DBExecutor
}

var _ exam.Source = (*examSource)(nil) // interface compliance check

func NewExamSource(exec core.DBExecutor) *examSource {
	return &examSource{exec: exec}
}

func (src examSource) GetExam(ctx context.Context, examID int) (exam.Exam, error) {
	var row examRow
	q := newQuery(
		qm.Select("id", "name", "academic_year", "class_id"),
		qm.From("exam"),
		qm.Where("id = ?", examID),
		qm.Limit(1),
	)
	if err := q.Bind(ctx, src.exec, &row); err != nil {
		return exam.Exam{}, trapNoRowsErr(err, exam.ErrNotFound, "selecting exam")
	}
	return row.unboil(), nil
}

func (src examSource) QuerySchedules(ctx context.Context, examID int) ([]exam.SubjectSchedule, error) {
	var rows []*scheduleRow
	q := newQuery(
		qm.Select("exam_id", "subject_id", "subject_name", "max_marks", "passing_marks", "exam_date", "start_time"),
		qm.From("exam_schedule"),
		qm.Where("exam_id = ?", examID),
		qm.OrderBy("exam_date, start_time, subject_id"),
	)
	if err := q.Bind(ctx, src.exec, &rows); err != nil {
		return nil, errors.Wrap(err, "selecting schedules")
	}

	schedules := make([]exam.SubjectSchedule, 0, len(rows))
	for _, r := range rows {
		schedules = append(schedules, r.unboil())
	}
	return schedules, nil
}

func (src examSource) QueryStudents(ctx context.Context, filter exam.StudentFilter) ([]exam.Student, error) {
	var rows []*studentRow
	if err := studentsQuery(filter).Bind(ctx, src.exec, &rows); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}

	students := make([]exam.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.unboil())
	}
	return students, nil
}

func (src examSource) QueryResults(ctx context.Context, examID int) ([]exam.ResultRecord, error) {
	var rows []*resultRow
	q := newQuery(
		qm.Select("student_id", "subject_id", "marks_obtained", "max_marks", "grade"),
		qm.From("result"),
		qm.Where("exam_id = ?", examID),
		qm.OrderBy("updated_at, student_id, subject_id"),
	)
	if err := q.Bind(ctx, src.exec, &rows); err != nil {
		return nil, errors.Wrap(err, "selecting results")
	}

	results := make([]exam.ResultRecord, 0, len(rows))
	for _, r := range rows {
		results = append(results, r.unboil())
	}
	return results, nil
}

// studentsQuery selects the students matching filter; zero fields do not filter.
func studentsQuery(filter exam.StudentFilter) *queries.Query {
	mods := []qm.QueryMod{
		qm.Select("id", "first_name", "last_name", "roll_number", "admission_number", "class_id", "status"),
		qm.From("student"),
	}
	if filter.ClassID != 0 {
		mods = append(mods, qm.Where("class_id = ?", filter.ClassID))
	}
	if filter.Status != "" {
		mods = append(mods, qm.Where("status = ?", filter.Status))
	}
	mods = append(mods, qm.OrderBy("id"))
	return newQuery(mods...)
}

func unboilMark(f null.Float64) exam.Mark {
	if !f.Valid {
		return exam.Mark{}
	}
	return exam.NewMark(f.Float64)
}
