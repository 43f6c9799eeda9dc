package echoapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazekiller/gyan/core/exam"
	"github.com/hazekiller/gyan/core/user"
	testutil "github.com/hazekiller/gyan/tests"
)

func reportTokens(t *testing.T) (teacher, student string) {
	tch := testutil.CreateUser(t, usrRepo, "Report Teacher", "", "", "", []string{user.RoleTeacher}, true)
	std := testutil.CreateUser(t, usrRepo, "Report Student", "", "", "", []string{user.RoleStudent}, true)
	return getToken(t, tch), getToken(t, std)
}

func Test_reportApi_access(t *testing.T) {
	teacher, student := reportTokens(t)

	tests := []httpTest{
		{name: "auth required", path: "/v1/exams/1/report", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "bad token", path: "/v1/exams/1/report", token: "not-a-jwt", wantCode: http.StatusUnauthorized},
		{
			name: "student forbidden", path: "/v1/exams/1/report", token: student, wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "student forbidden (csv)", path: "/v1/exams/1/report.csv", token: student, wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "unknown exam", path: "/v1/exams/99/report", token: teacher, wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: "exam not found"}),
		},
		{
			name: "invalid exam id", path: "/v1/exams/abc/report", token: teacher, wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, serve(tt))
		})
	}
}

func Test_reportApi_report(t *testing.T) {
	teacher, _ := reportTokens(t)

	rec := serve(httpTest{path: "/v1/exams/1/report", token: teacher})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var bs exam.Broadsheet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bs))

	require.Len(t, bs.Columns, 2)
	assert.Equal(t, "Maths", bs.Columns[0].SubjectName, "earliest exam date first")
	assert.Equal(t, "Science", bs.Columns[1].SubjectName)

	require.Len(t, bs.Rows, 3, "inactive students are excluded")
	var names []string
	for _, row := range bs.Rows {
		names = append(names, row.Student.FirstName)
	}
	assert.Equal(t, []string{"Rahul", "Ashish", "Sita"}, names)

	rahul, ashish, sita := bs.Rows[0], bs.Rows[1], bs.Rows[2]
	assert.Equal(t, 64.0, rahul.TotalObtained)
	assert.Equal(t, 42.67, rahul.Percentage)
	assert.Equal(t, "FAIL (1)", rahul.Status)
	assert.True(t, rahul.Cells[1].Failed)

	assert.Equal(t, 119.0, ashish.TotalObtained)
	assert.Equal(t, 150.0, ashish.TotalMax)
	assert.Equal(t, 79.33, ashish.Percentage)
	assert.Equal(t, "PASS", ashish.Status)

	assert.Equal(t, 35.0, sita.Percentage)
	assert.Equal(t, "PASS", sita.Status)
	assert.Nil(t, sita.Cells[1].Marks)

	assert.Equal(t, exam.Summary{Students: 3, Passed: 2, Failed: 1}, bs.Summary)
	assert.Empty(t, bs.Issues)
}

func Test_reportApi_report_search(t *testing.T) {
	teacher, _ := reportTokens(t)

	tests := []struct {
		name   string
		search string
		want   []int
	}{
		{name: "first name", search: "RAH", want: []int{2}},
		{name: "last name", search: "thapa", want: []int{1}},
		{name: "roll or admission number", search: "2", want: []int{2, 1}},
		{name: "admission number", search: "adm-003", want: []int{3}},
		{name: "no match", search: "zzz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(httpTest{path: "/v1/exams/1/report?search=" + tt.search, token: teacher})
			require.Equal(t, http.StatusOK, rec.Code)

			var bs exam.Broadsheet
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bs))
			var ids []int
			for _, row := range bs.Rows {
				ids = append(ids, row.Student.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, 3, bs.Summary.Students, "summary ignores the search")
		})
	}
}

func Test_reportApi_report_issues(t *testing.T) {
	teacher, _ := reportTokens(t)

	rec := serve(httpTest{path: "/v1/exams/2/report", token: teacher})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var res struct {
		Error  string `json:"error"`
		Issues []struct {
			Kind      string `json:"kind"`
			StudentID int    `json:"student_id"`
			SubjectID int    `json:"subject_id"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "inconsistent exam results", res.Error)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "malformed_result", res.Issues[0].Kind)
	assert.Equal(t, 1, res.Issues[0].StudentID)
	assert.Equal(t, 10, res.Issues[0].SubjectID)
}

func Test_reportApi_reportCSV(t *testing.T) {
	teacher, _ := reportTokens(t)

	rec := serve(httpTest{path: "/v1/exams/1/report.csv", token: teacher})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="first-terminal-broadsheet.csv"`, rec.Header().Get("Content-Disposition"))

	want := strings.Join([]string{
		"Roll No,Admission No,Student,Maths,Science,Total,Max,Percentage,Result",
		"1,ADM-002,Rahul Sharma,52,12,64,150,42.67,FAIL (1)",
		"2,ADM-001,Ashish Thapa,78,41,119,150,79.33,PASS",
		"-,ADM-003,Sita Rai,35,-,35,100,35.00,PASS",
		"",
	}, "\n")
	assert.Equal(t, want, rec.Body.String())

	rec = serve(httpTest{path: "/v1/exams/1/report.csv?search=sita", token: teacher})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "\n"))
}

func Test_reportApi_reportHTML(t *testing.T) {
	teacher, _ := reportTokens(t)

	rec := serve(httpTest{path: "/v1/exams/1/report.html", token: teacher})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "<title>First Terminal - Broadsheet</title>")
	assert.Contains(t, body, "Students: 3 &middot; Passed: 2 &middot; Failed: 1")
	assert.Contains(t, body, "Ashish Thapa")
	assert.Contains(t, body, `<td class="fail">FAIL (1)</td>`)
	assert.Less(t, strings.Index(body, "Rahul Sharma"), strings.Index(body, "Ashish Thapa"))

	rec = serve(httpTest{path: "/v1/exams/1/report.html?search=zzz", token: teacher})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<td colspan="7">No students</td>`)
}

func Test_reportApi_emailReport(t *testing.T) {
	teacher, _ := reportTokens(t)

	tests := []httpTest{
		{
			name: "missing recipients", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"to": "this field is required"}`),
		},
		{name: "invalid recipient", body: []byte(`{"to": ["principal"]}`), wantCode: http.StatusBadRequest},
		{
			name: "sent", body: []byte(`{"to": [" Principal@School.test "], "search": "rahul"}`), wantCode: http.StatusAccepted,
			wantData: []byte(`{"success": "the broadsheet will be sent shortly"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = "/v1/exams/1/report/email"
			tt.token = teacher
			checkCodeAndData(t, tt, serve(tt))
		})
	}

	sent := mailSvc.Sent()
	require.NotEmpty(t, sent)
	last := sent[len(sent)-1]
	require.Len(t, last.To, 1)
	assert.Equal(t, "principal@school.test", last.To[0].Address)
	assert.Equal(t, "First Terminal broadsheet", last.Subject)
	assert.Contains(t, last.TextContent, "First Terminal")
	assert.Contains(t, last.TextContent, "-- \nGyan", "signature partial")
	assert.Contains(t, last.HTMLContent, "First Terminal")

	require.Len(t, last.Attachments, 1)
	at := last.Attachments[0]
	assert.Equal(t, "first-terminal-broadsheet.csv", at.Filename)
	assert.Equal(t, "text/csv", at.ContentType)
	assert.Contains(t, string(at.Content), "Rahul Sharma")
	assert.NotContains(t, string(at.Content), "Ashish Thapa")
}
