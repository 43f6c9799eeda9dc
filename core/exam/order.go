package exam

import "sort"

// missingRollNumber sorts students without roll number last.
const missingRollNumber = 9999

// SortSchedules returns a copy of schedules ordered by exam date, then start time.
// Equal schedules keep their input order.
func SortSchedules(schedules []SubjectSchedule) []SubjectSchedule {
	sorted := make([]SubjectSchedule, len(schedules))
	copy(sorted, schedules)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := dateKey(sorted[i].ExamDate), dateKey(sorted[j].ExamDate)
		if di != dj {
			return di < dj
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})
	return sorted
}

// SortStudents returns a copy of students ordered by roll number,
// students without roll number last. Equal students keep their input order.
func SortStudents(students []Student) []Student {
	sorted := make([]Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rollKey(sorted[i]) < rollKey(sorted[j])
	})
	return sorted
}

func rollKey(s Student) int {
	if s.RollNumber == nil {
		return missingRollNumber
	}
	return *s.RollNumber
}

// dateKey drops the time part of ISO-8601 timestamps ("2025-01-02T00:00:00Z" -> "2025-01-02").
func dateKey(date string) string {
	if len(date) > 10 && date[4] == '-' && date[7] == '-' && (date[10] == 'T' || date[10] == ' ') {
		return date[:10]
	}
	return date
}
