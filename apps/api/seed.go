package main

import (
	"context"
	"os"
	"time"

	"github.com/hazekiller/gyan/core"
	"github.com/hazekiller/gyan/core/exam"
	"github.com/hazekiller/gyan/core/user"
)

// seedAdmin creates the admin of the in-memory database.
// Its password is read from SEED_ADMIN_PASSWORD and defaults to "admin".
func seedAdmin(repo user.Repository, logger core.Logger) {
	pwd := os.Getenv("SEED_ADMIN_PASSWORD")
	if pwd == "" {
		pwd = "admin"
	}
	now := time.Now().UTC()
	usr := user.User{
		Name:      "Admin",
		Username:  "admin",
		Roles:     []string{user.RoleAdminOwner},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		logger.Fatal("seeding admin: "+err.Error(), err)
	}
	if _, err := repo.CreateUser(context.Background(), usr); err != nil {
		logger.Fatal("seeding admin: "+err.Error(), err)
	}
	logger.Info(`in-memory database seeded; log in as "admin"`)
}

func rollNumber(n int) *int { return &n }

// sampleDataset is the exam served by the in-memory database.
func sampleDataset() exam.Dataset {
	return exam.Dataset{
		Exam: exam.Exam{ID: 1, Name: "First Terminal", AcademicYear: "2081", ClassID: 5},
		Schedules: []exam.SubjectSchedule{
			{SubjectID: 10, SubjectName: "Mathematics", MaxMarks: 100, PassingMarks: 35, ExamDate: "2025-01-02", StartTime: "10:00"},
			{SubjectID: 11, SubjectName: "Science", MaxMarks: 75, PassingMarks: 27, ExamDate: "2025-01-03", StartTime: "10:00"},
			{SubjectID: 12, SubjectName: "English", MaxMarks: 100, PassingMarks: 35, ExamDate: "2025-01-03", StartTime: "13:30"},
			{SubjectID: 13, SubjectName: "Nepali", MaxMarks: 50, PassingMarks: 18, ExamDate: "2025-01-05", StartTime: "10:00"},
		},
		Students: []exam.Student{
			{ID: 1, FirstName: "Ashish", LastName: "Thapa", RollNumber: rollNumber(1), AdmissionNumber: "ADM-001", ClassID: 5, Status: exam.StatusActive},
			{ID: 2, FirstName: "Rahul", LastName: "Sharma", RollNumber: rollNumber(2), AdmissionNumber: "ADM-002", ClassID: 5, Status: exam.StatusActive},
			{ID: 3, FirstName: "Sita", LastName: "Rai", RollNumber: rollNumber(3), AdmissionNumber: "ADM-003", ClassID: 5, Status: exam.StatusActive},
			{ID: 4, FirstName: "Gita", LastName: "Gurung", AdmissionNumber: "ADM-004", ClassID: 5, Status: exam.StatusActive},
			{ID: 5, FirstName: "Hari", LastName: "Karki", RollNumber: rollNumber(4), AdmissionNumber: "ADM-005", ClassID: 5, Status: exam.StatusInactive},
		},
		Results: []exam.ResultRecord{
			{StudentID: 1, SubjectID: 10, MarksObtained: exam.NewMark(88), MaxMarks: exam.NewMark(100), Grade: "A"},
			{StudentID: 1, SubjectID: 11, MarksObtained: exam.NewMark(61), MaxMarks: exam.NewMark(75), Grade: "A"},
			{StudentID: 1, SubjectID: 12, MarksObtained: exam.NewMark(72), MaxMarks: exam.NewMark(100), Grade: "B+"},
			{StudentID: 1, SubjectID: 13, MarksObtained: exam.NewMark(40), MaxMarks: exam.NewMark(50), Grade: "A"},
			{StudentID: 2, SubjectID: 10, MarksObtained: exam.NewMark(30), MaxMarks: exam.NewMark(100), Grade: "E"},
			{StudentID: 2, SubjectID: 11, MarksObtained: exam.NewMark(45), MaxMarks: exam.NewMark(75), Grade: "C"},
			{StudentID: 2, SubjectID: 12, MarksObtained: exam.NewMark(51), MaxMarks: exam.NewMark(100), Grade: "C"},
			{StudentID: 2, SubjectID: 13, MarksObtained: exam.NewMark(15), MaxMarks: exam.NewMark(50), Grade: "E"},
			{StudentID: 3, SubjectID: 10, MarksObtained: exam.NewMark(64), MaxMarks: exam.NewMark(100), Grade: "B"},
			{StudentID: 3, SubjectID: 11, MarksObtained: exam.NewMark(50), MaxMarks: exam.NewMark(75), Grade: "B"},
			{StudentID: 3, SubjectID: 12, MarksObtained: exam.NewMark(80), MaxMarks: exam.NewMark(100), Grade: "A"},
			{StudentID: 4, SubjectID: 10, MarksObtained: exam.NewMark(55), MaxMarks: exam.NewMark(100), Grade: "C+"},
			{StudentID: 4, SubjectID: 12, MarksObtained: exam.NewMark(47), MaxMarks: exam.NewMark(100), Grade: "C"},
		},
	}
}
