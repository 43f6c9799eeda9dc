package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterStudents(t *testing.T) {
	students := []Student{
		{ID: 1, FirstName: "Ashish", LastName: "Thapa", AdmissionNumber: "ADM-001", RollNumber: intPtr(7)},
		{ID: 2, FirstName: "Rahul", LastName: "Sharma", AdmissionNumber: "ADM-002", RollNumber: intPtr(17)},
		{ID: 3, FirstName: "Sita", LastName: "Rai", AdmissionNumber: "ADM-103"},
	}

	tests := []struct {
		name string
		term string
		want []int
	}{
		{name: "empty keeps everyone", term: "", want: []int{1, 2, 3}},
		{name: "blank keeps everyone", term: "   ", want: []int{1, 2, 3}},
		{name: "first name substring", term: "shi", want: []int{1}},
		{name: "surrounding spaces ignored", term: " shi ", want: []int{1}},
		{name: "case insensitive", term: "RAHUL", want: []int{2}},
		{name: "last name", term: "rai", want: []int{3}},
		{name: "admission number", term: "adm-1", want: []int{3}},
		{name: "roll number", term: "7", want: []int{1, 2}},
		{name: "no match", term: "zzz", want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]int, 0)
			for _, st := range FilterStudents(students, tt.term) {
				got = append(got, st.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
