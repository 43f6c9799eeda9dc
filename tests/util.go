// Package testutil holds the fixtures shared by the package tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/hazekiller/gyan/core"
	"github.com/hazekiller/gyan/core/exam"
	"github.com/hazekiller/gyan/core/user"
	"github.com/hazekiller/gyan/storage/database"
)

// NewConfig returns a TEST configuration that does not depend on the environment.
func NewConfig() *core.Config {
	return &core.Config{
		Env:                       "TEST",
		TestMode:                  true,
		AppName:                   "Gyan",
		SecretKey:                 "test-secret-key",
		DefaultFromEmail:          "noreply@school.test",
		JWTExpirationDelta:        time.Hour,
		JWTRefreshExpirationDelta: 4 * time.Hour,
		Server:                    core.ServerConfig{Address: ":0", Host: "localhost"},
		Report: core.ReportConfig{
			Source:        core.SourceMemory,
			SurfaceIssues: true,
			FetchTimeout:  5 * time.Second,
		},
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func intPtr(i int) *int { return &i }

// SampleDataset is a class of 3 active students examined in 2 subjects:
//	- Ashish (roll 2) passes both subjects,
//	- Rahul (roll 1) fails Science,
//	- Sita (no roll number) has no Science result.
func SampleDataset() exam.Dataset {
	return exam.Dataset{
		Exam: exam.Exam{ID: 1, Name: "First Terminal", AcademicYear: "2081", ClassID: 5},
		Schedules: []exam.SubjectSchedule{
			{ExamID: 1, SubjectID: 11, SubjectName: "Science", MaxMarks: 50, PassingMarks: 20, ExamDate: "2025-01-03", StartTime: "10:00"},
			{ExamID: 1, SubjectID: 10, SubjectName: "Maths", MaxMarks: 100, PassingMarks: 35, ExamDate: "2025-01-02", StartTime: "10:00"},
		},
		Students: []exam.Student{
			{ID: 1, FirstName: "Ashish", LastName: "Thapa", RollNumber: intPtr(2), AdmissionNumber: "ADM-001", ClassID: 5, Status: exam.StatusActive},
			{ID: 2, FirstName: "Rahul", LastName: "Sharma", RollNumber: intPtr(1), AdmissionNumber: "ADM-002", ClassID: 5, Status: exam.StatusActive},
			{ID: 3, FirstName: "Sita", LastName: "Rai", AdmissionNumber: "ADM-003", ClassID: 5, Status: exam.StatusActive},
			{ID: 4, FirstName: "Hari", LastName: "Karki", RollNumber: intPtr(3), AdmissionNumber: "ADM-004", ClassID: 5, Status: exam.StatusInactive},
		},
		Results: []exam.ResultRecord{
			{StudentID: 1, SubjectID: 10, MarksObtained: exam.NewMark(78), MaxMarks: exam.NewMark(100), Grade: "A"},
			{StudentID: 1, SubjectID: 11, MarksObtained: exam.NewMark(41), MaxMarks: exam.NewMark(50), Grade: "A"},
			{StudentID: 2, SubjectID: 10, MarksObtained: exam.NewMark(52), MaxMarks: exam.NewMark(100), Grade: "C"},
			{StudentID: 2, SubjectID: 11, MarksObtained: exam.NewMark(12), MaxMarks: exam.NewMark(50), Grade: "E"},
			{StudentID: 3, SubjectID: 10, MarksObtained: exam.NewMark(35), MaxMarks: exam.NewMark(100), Grade: "D"},
		},
	}
}

// PrepareDB opens and migrates the TEST_DATABASE_* postgres database.
// The test is skipped when TEST_DATABASE_HOST is not set.
func PrepareDB(t *testing.T) *sql.DB {
	t.Helper()

	if os.Getenv("TEST_DATABASE_HOST") == "" {
		t.Skip("TEST_DATABASE_HOST not set")
	}
	if err := os.Setenv("ENV", "TEST"); err != nil {
		t.Fatalf("os.Setenv(): %v", err)
	}
	conf := core.NewConfig()
	if err := database.CreateIfNotExist(conf); err != nil {
		t.Fatalf("database.CreateIfNotExist(): %v", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("database.Open(): %v", err)
	}
	if err = database.Migrate(db); err != nil {
		t.Fatalf("database.Migrate(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
