package core_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazekiller/gyan/core"
	appfs "github.com/hazekiller/gyan/fs"
)

type testLogger struct {
	errors []string
}

func (l *testLogger) Debug(string, ...interface{}) {}
func (l *testLogger) Info(string, ...interface{}) {}
func (l *testLogger) Warn(string, ...interface{}) {}
func (l *testLogger) Error(msg string, _ ...interface{}) { l.errors = append(l.errors, msg) }
func (l *testLogger) Fatal(string, ...interface{}) {}

func TestEmailMessage_Render(t *testing.T) {
	logger := &testLogger{}
	core.ParseEmailTemplates(appfs.FS, "templates/email", true, logger)
	require.Empty(t, logger.errors)

	msg := &core.EmailMessage{
		TemplateName: "exam_report",
		TemplateData: map[string]interface{}{
			"AppName": "Gyan",
			"Exam":    struct{ Name, AcademicYear string }{"First Terminal", "2081"},
			"Summary": struct{ Students, Passed, Failed int }{3, 2, 1},
		},
	}
	require.NoError(t, msg.Render())

	assert.Contains(t, msg.TextContent, "broadsheet of First Terminal (2081)")
	assert.Contains(t, msg.TextContent, "Failed:   1")
	assert.Contains(t, msg.TextContent, "-- \nGyan")
	assert.Contains(t, msg.HTMLContent, "<strong>First Terminal</strong>")
}

func TestEmailMessage_Render_bodyStr(t *testing.T) {
	msg := &core.EmailMessage{BodyStr: "plain", TemplateName: "unknown"}
	require.NoError(t, msg.Render())
	assert.Equal(t, "plain", msg.TextContent)
	assert.Empty(t, msg.HTMLContent)
}

func TestEmailMessage_Attach(t *testing.T) {
	msg := &core.EmailMessage{}
	require.NoError(t, msg.Attach(bytes.NewBufferString("a,b\n1,2\n"), "r.csv", "text/csv"))
	require.NoError(t, msg.Attach(bytes.NewBufferString("hello"), "hello.txt"))

	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "text/csv", msg.Attachments[0].ContentType)
	assert.Equal(t, "text/plain; charset=utf-8", msg.Attachments[1].ContentType)
	assert.True(t, msg.HasAttachments())
	assert.False(t, msg.HasRecipients())
}
