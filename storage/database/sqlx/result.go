// Package sqlxrepos implements the write side of the exam results over postgres with sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/hazekiller/gyan/core/exam"
)

const upsertResultQuery = `
INSERT INTO result (exam_id, student_id, subject_id, marks_obtained, max_marks, grade, updated_at)
VALUES (:exam_id, :student_id, :subject_id, :marks_obtained, :max_marks, :grade, NOW())
ON CONFLICT (exam_id, student_id, subject_id) DO UPDATE SET
	marks_obtained = EXCLUDED.marks_obtained,
	max_marks = EXCLUDED.max_marks,
	grade = EXCLUDED.grade,
	updated_at = EXCLUDED.updated_at`

type resultRow struct {
	ExamID        int             `db:"exam_id"`
	StudentID     int             `db:"student_id"`
	SubjectID     int             `db:"subject_id"`
	MarksObtained sql.NullFloat64 `db:"marks_obtained"`
	MaxMarks      sql.NullFloat64 `db:"max_marks"`
	Grade         string          `db:"grade"`
}

type resultImporter struct {
	db *sqlx.DB
}

var _ exam.Importer = (*resultImporter)(nil) // interface compliance check

func NewResultImporter(db *sql.DB) *resultImporter {
	return &resultImporter{db: sqlx.NewDb(db, "postgres")}
}

// ImportResults upserts records in a single transaction; later records of a pair overwrite earlier ones.
func (imp resultImporter) ImportResults(ctx context.Context, examID int, records []exam.ResultRecord) (int, error) {
	tx, err := imp.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareNamedContext(ctx, upsertResultQuery)
	if err != nil {
		return 0, errors.Wrap(err, "preparing upsert")
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		row := resultRow{
			ExamID:        examID,
			StudentID:     rec.StudentID,
			SubjectID:     rec.SubjectID,
			MarksObtained: nullMark(rec.MarksObtained),
			MaxMarks:      nullMark(rec.MaxMarks),
			Grade:         rec.Grade,
		}
		if _, err = stmt.ExecContext(ctx, row); err != nil {
			return 0, errors.Wrapf(err, "upserting result (student %d, subject %d)", rec.StudentID, rec.SubjectID)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing results")
	}
	return len(records), nil
}

func nullMark(m exam.Mark) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Valid}
}
