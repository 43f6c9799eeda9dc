package inmemdb

import (
	"context"

	"github.com/hazekiller/gyan/core/exam"
)

type examRepository struct {
	db *examTables
}

var (
	_ exam.Source   = (*examRepository)(nil)
	_ exam.Importer = (*examRepository)(nil)
)

func NewExamRepository(db *DB) *examRepository {
	return &examRepository{db: db.exam}
}

func (repo *examRepository) GetExam(_ context.Context, examID int) (exam.Exam, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ex, ok := repo.db.exams[examID]
	if !ok {
		return exam.Exam{}, exam.ErrNotFound
	}
	return ex, nil
}

func (repo *examRepository) QuerySchedules(ctx context.Context, examID int) ([]exam.SubjectSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	schedules := make([]exam.SubjectSchedule, len(repo.db.schedules[examID]))
	copy(schedules, repo.db.schedules[examID])
	return schedules, nil
}

func (repo *examRepository) QueryStudents(ctx context.Context, filter exam.StudentFilter) ([]exam.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]exam.Student, 0, len(repo.db.students))
	for _, st := range repo.db.students {
		if filter.ClassID != 0 && st.ClassID != filter.ClassID {
			continue
		}
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		students = append(students, st)
	}
	return students, nil
}

func (repo *examRepository) QueryResults(ctx context.Context, examID int) ([]exam.ResultRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	var results []exam.ResultRecord
	for _, key := range repo.db.order {
		if key.examID == examID {
			results = append(results, repo.db.results[key])
		}
	}
	return results, nil
}

func (repo *examRepository) ImportResults(ctx context.Context, examID int, records []exam.ResultRecord) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.exams[examID]; !ok {
		return 0, exam.ErrNotFound
	}
	for _, rec := range records {
		repo.db.putResult(examID, rec)
	}
	return len(records), nil
}
