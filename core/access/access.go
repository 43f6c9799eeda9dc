// Package access maps user roles to the set of views they may open.
package access

import (
	"sort"

	"github.com/hazekiller/gyan/core/user"
)

// View identifies a screen (or API surface) of the admin console and the mobile app.
type View string

const (
	ViewDashboard      View = "dashboard"
	ViewStudents       View = "students"
	ViewAdmissions     View = "admissions"
	ViewExams          View = "exams"
	ViewExamReport     View = "exam_report"
	ViewResults        View = "results"
	ViewSubjects       View = "subjects"
	ViewSections       View = "sections"
	ViewPayroll        View = "payroll"
	ViewDiscipline     View = "discipline"
	ViewTransportation View = "transportation"
	ViewFileManager    View = "file_manager"
	ViewMessaging      View = "messaging"
	ViewUsers          View = "users"
)

// Set is a set of views.
type Set map[View]struct{}

func NewSet(views ...View) Set {
	s := make(Set, len(views))
	for _, v := range views {
		s[v] = struct{}{}
	}
	return s
}

func (s Set) Has(v View) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the views of the set in lexical order.
func (s Set) Sorted() []View {
	views := make([]View, 0, len(s))
	for v := range s {
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i] < views[j] })
	return views
}

// Policy holds the capability set of each role.
type Policy map[string]Set

// DefaultPolicy is the school-wide role -> views mapping.
var DefaultPolicy = Policy{
	user.RoleAdminOwner: NewSet(
		ViewDashboard, ViewStudents, ViewAdmissions, ViewExams, ViewExamReport, ViewResults,
		ViewSubjects, ViewSections, ViewPayroll, ViewDiscipline, ViewTransportation,
		ViewFileManager, ViewMessaging, ViewUsers,
	),
	user.RoleAdminPrincipal: NewSet(
		ViewDashboard, ViewStudents, ViewAdmissions, ViewExams, ViewExamReport, ViewResults,
		ViewSubjects, ViewSections, ViewDiscipline, ViewTransportation, ViewFileManager,
		ViewMessaging, ViewUsers,
	),
	user.RoleAdmin: NewSet(
		ViewDashboard, ViewStudents, ViewAdmissions, ViewExams, ViewExamReport, ViewResults,
		ViewSubjects, ViewSections, ViewTransportation, ViewFileManager, ViewMessaging,
	),
	user.RoleAccountant: NewSet(ViewDashboard, ViewPayroll, ViewStudents),
	user.RoleTeacher: NewSet(
		ViewDashboard, ViewStudents, ViewExams, ViewExamReport, ViewResults, ViewSubjects,
		ViewDiscipline, ViewMessaging,
	),
	user.RoleStudent: NewSet(ViewDashboard, ViewResults, ViewMessaging),
}

// Views returns the union of the capability sets of roles.
// Unknown roles grant nothing.
func (p Policy) Views(roles []string) Set {
	views := make(Set)
	for _, role := range roles {
		for v := range p[role] {
			views[v] = struct{}{}
		}
	}
	return views
}

// Can reports whether any of roles grants view.
func (p Policy) Can(roles []string, view View) bool {
	for _, role := range roles {
		if p[role].Has(view) {
			return true
		}
	}
	return false
}
