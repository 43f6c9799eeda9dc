package exam

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const absentCell = "-"

var resultsHeader = []string{"student_id", "subject_id", "marks_obtained", "max_marks", "grade"}

// WriteCSV writes the broadsheet rows as CSV, one column per subject.
func WriteCSV(w io.Writer, bs Broadsheet) error {
	cw := csv.NewWriter(w)

	header := []string{"Roll No", "Admission No", "Student"}
	for _, col := range bs.Columns {
		header = append(header, col.SubjectName)
	}
	header = append(header, "Total", "Max", "Percentage", "Result")
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "cw.Write")
	}

	for _, row := range bs.Rows {
		roll := absentCell
		if row.Student.RollNumber != nil {
			roll = strconv.Itoa(*row.Student.RollNumber)
		}
		record := []string{roll, row.Student.AdmissionNumber, row.Student.FullName()}
		for _, cell := range row.Cells {
			if cell.Marks == nil {
				record = append(record, absentCell)
				continue
			}
			record = append(record, formatMarks(*cell.Marks))
		}
		record = append(record,
			formatMarks(row.TotalObtained),
			formatMarks(row.TotalMax),
			strconv.FormatFloat(row.Percentage, 'f', 2, 64),
			row.Status,
		)
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "cw.Write")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "cw.Flush")
}

func formatMarks(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadResultsCSV parses result records from CSV with the header
// student_id,subject_id,marks_obtained,max_marks,grade (grade optional).
// Marks are kept as read: empty cells are null, unparseable cells are malformed.
func ReadResultsCSV(r io.Reader) ([]ResultRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty results file")
	}
	if err != nil {
		return nil, errors.Wrap(err, "cr.Read")
	}
	idx, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var records []ResultRecord
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "cr.Read")
		}

		get := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		studentID, err := strconv.Atoi(get("student_id"))
		if err != nil {
			return nil, errors.Errorf("line %d: invalid student_id %q", line, get("student_id"))
		}
		subjectID, err := strconv.Atoi(get("subject_id"))
		if err != nil {
			return nil, errors.Errorf("line %d: invalid subject_id %q", line, get("subject_id"))
		}
		records = append(records, ResultRecord{
			StudentID:     studentID,
			SubjectID:     subjectID,
			MarksObtained: ParseMark(get("marks_obtained")),
			MaxMarks:      ParseMark(get("max_marks")),
			Grade:         get("grade"),
		})
	}
	return records, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range resultsHeader[:4] {
		if _, ok := idx[name]; !ok {
			return nil, errors.Errorf("missing column %q", name)
		}
	}
	return idx, nil
}
