package exam

// Column is one examined subject of the broadsheet.
type Column struct {
	SubjectID    int     `json:"subject_id"`
	SubjectName  string  `json:"subject_name"`
	MaxMarks     float64 `json:"max_marks"`
	PassingMarks float64 `json:"passing_marks"`
	ExamDate     string  `json:"exam_date"`
	StartTime    string  `json:"start_time"`
}

// Cell is the result of a student for one subject. Marks is nil when no result was recorded.
type Cell struct {
	SubjectID int      `json:"subject_id"`
	Marks     *float64 `json:"marks"`
	MaxMarks  float64  `json:"max_marks"`
	Grade     string   `json:"grade,omitempty"`
	Failed    bool     `json:"failed"`
}

type Row struct {
	Student        Student `json:"student"`
	Cells          []Cell  `json:"cells"`                 // in Columns order
	Unscheduled    []Cell  `json:"unscheduled,omitempty"` // results of subjects outside the schedule
	TotalObtained  float64 `json:"total_obtained"`
	TotalMax       float64 `json:"total_max"`
	SubjectCount   int     `json:"subject_count"`
	FailedSubjects int     `json:"failed_subjects"`
	Percentage     float64 `json:"percentage"`
	Passed         bool    `json:"passed"`
	Status         string  `json:"status"`
}

type Summary struct {
	Students int `json:"students"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
}

// Broadsheet is the exam report: subjects as columns, students as rows.
type Broadsheet struct {
	Exam    Exam     `json:"exam"`
	Search  string   `json:"search,omitempty"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
	Summary Summary  `json:"summary"` // whole class, regardless of Search
	Issues  []Issue  `json:"issues,omitempty"`
}

// BuildBroadsheet aggregates ds and lays it out for display:
// columns by exam date and start time, rows by roll number, rows narrowed to search.
func BuildBroadsheet(ds Dataset, search string, opts Options) Broadsheet {
	schedules := SortSchedules(ds.Schedules)
	students := uniqueStudents(ds.Students)
	aggregates, issues := Aggregate(students, schedules, ds.Results, opts)

	bs := Broadsheet{
		Exam:    ds.Exam,
		Search:  search,
		Columns: make([]Column, 0, len(schedules)),
		Issues:  issues,
	}
	scheduled := make(map[int]bool, len(schedules))
	for _, sch := range schedules {
		scheduled[sch.SubjectID] = true
		bs.Columns = append(bs.Columns, Column{
			SubjectID:    sch.SubjectID,
			SubjectName:  sch.SubjectName,
			MaxMarks:     sch.MaxMarks.Float64(),
			PassingMarks: sch.PassingMarks.Float64(),
			ExamDate:     sch.ExamDate,
			StartTime:    sch.StartTime,
		})
	}

	for _, st := range students {
		bs.Summary.Students++
		if aggregates[st.ID].Passed() {
			bs.Summary.Passed++
		} else {
			bs.Summary.Failed++
		}
	}

	shown := SortStudents(FilterStudents(students, search))
	bs.Rows = make([]Row, 0, len(shown))
	for _, st := range shown {
		bs.Rows = append(bs.Rows, newRow(st, aggregates[st.ID], bs.Columns, scheduled))
	}
	return bs
}

func newRow(st Student, agg AggregateRow, columns []Column, scheduled map[int]bool) Row {
	row := Row{
		Student:        st,
		Cells:          make([]Cell, 0, len(columns)),
		TotalObtained:  agg.TotalObtained,
		TotalMax:       agg.TotalMax,
		SubjectCount:   agg.SubjectCount,
		FailedSubjects: agg.FailedSubjects,
		Percentage:     agg.Percentage,
		Passed:         agg.Passed(),
		Status:         agg.Status(),
	}
	for _, col := range columns {
		cell := Cell{SubjectID: col.SubjectID, MaxMarks: col.MaxMarks}
		if mark, ok := agg.Subjects[col.SubjectID]; ok {
			marks := mark.Marks
			cell.Marks = &marks
			cell.MaxMarks = mark.MaxMarks
			cell.Grade = mark.Grade
			cell.Failed = mark.Marks < col.PassingMarks
		}
		row.Cells = append(row.Cells, cell)
	}
	for _, subjectID := range sortedSubjectIDs(agg.Subjects) {
		if scheduled[subjectID] {
			continue
		}
		mark := agg.Subjects[subjectID]
		marks := mark.Marks
		row.Unscheduled = append(row.Unscheduled, Cell{
			SubjectID: subjectID,
			Marks:     &marks,
			MaxMarks:  mark.MaxMarks,
			Grade:     mark.Grade,
		})
	}
	return row
}

// uniqueStudents drops repeated student IDs, keeping the first occurrence.
func uniqueStudents(students []Student) []Student {
	seen := make(map[int]bool, len(students))
	unique := make([]Student, 0, len(students))
	for _, st := range students {
		if seen[st.ID] {
			continue
		}
		seen[st.ID] = true
		unique = append(unique, st)
	}
	return unique
}
