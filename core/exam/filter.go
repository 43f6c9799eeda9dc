package exam

import (
	"strconv"
	"strings"
)

// FilterStudents keeps the students whose first name, last name, roll number
// or admission number contains term, ignoring case. An empty term keeps everyone.
func FilterStudents(students []Student, term string) []Student {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return students
	}

	filtered := make([]Student, 0, len(students))
	for _, st := range students {
		if matchesStudent(st, term) {
			filtered = append(filtered, st)
		}
	}
	return filtered
}

func matchesStudent(st Student, term string) bool {
	fields := []string{st.FirstName, st.LastName, st.AdmissionNumber}
	if st.RollNumber != nil {
		fields = append(fields, strconv.Itoa(*st.RollNumber))
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
