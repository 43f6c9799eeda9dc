// Package inmemdb implements the repositories in memory.
package inmemdb

import (
	"sync"

	"github.com/hazekiller/gyan/core/exam"
	"github.com/hazekiller/gyan/core/user"
)

type (
	DB struct {
		user *userTable
		exam *examTables
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	resultKey struct {
		examID, studentID, subjectID int
	}

	examTables struct {
		sync.RWMutex
		exams     map[int]exam.Exam
		schedules map[int][]exam.SubjectSchedule // by exam ID
		students  []exam.Student
		results   map[resultKey]exam.ResultRecord
		order     []resultKey // insertion order of results
	}
)

func Open() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
		exam: &examTables{
			exams:     make(map[int]exam.Exam),
			schedules: make(map[int][]exam.SubjectSchedule),
			results:   make(map[resultKey]exam.ResultRecord),
		},
	}
}

// Load seeds the exam tables with ds, replacing the previous data of ds.Exam.
func (db *DB) Load(ds exam.Dataset) {
	t := db.exam
	t.Lock()
	defer t.Unlock()

	t.exams[ds.Exam.ID] = ds.Exam
	schedules := make([]exam.SubjectSchedule, 0, len(ds.Schedules))
	for _, sch := range ds.Schedules {
		sch.ExamID = ds.Exam.ID
		schedules = append(schedules, sch)
	}
	t.schedules[ds.Exam.ID] = schedules

	known := make(map[int]bool, len(t.students))
	for _, st := range t.students {
		known[st.ID] = true
	}
	for _, st := range ds.Students {
		if !known[st.ID] {
			known[st.ID] = true
			t.students = append(t.students, st)
		}
	}

	t.dropResults(ds.Exam.ID)
	for _, res := range ds.Results {
		t.putResult(ds.Exam.ID, res)
	}
}

func (t *examTables) putResult(examID int, res exam.ResultRecord) {
	key := resultKey{examID: examID, studentID: res.StudentID, subjectID: res.SubjectID}
	if _, ok := t.results[key]; !ok {
		t.order = append(t.order, key)
	}
	t.results[key] = res
}

func (t *examTables) dropResults(examID int) {
	order := t.order[:0]
	for _, key := range t.order {
		if key.examID == examID {
			delete(t.results, key)
			continue
		}
		order = append(order, key)
	}
	t.order = order
}
