package emailsvc

import (
	"bytes"
	"encoding/base64"
	"net/mail"
	"strings"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazekiller/gyan/core"
)

type testLogger struct{ errors []string }

func (l *testLogger) Debug(string, ...interface{}) {}
func (l *testLogger) Info(string, ...interface{}) {}
func (l *testLogger) Warn(string, ...interface{}) {}
func (l *testLogger) Error(msg string, _ ...interface{}) { l.errors = append(l.errors, msg) }
func (l *testLogger) Fatal(string, ...interface{}) {}

var testConf = &core.Config{AppName: "Gyan", DefaultFromEmail: "noreply@school.test"}

func reportMessage() *core.EmailMessage {
	msg := &core.EmailMessage{
		To:      []mail.Address{{Address: "principal@school.test"}},
		Subject: "Broadsheet",
		BodyStr: "Please find the broadsheet attached.",
	}
	_ = msg.Attach(strings.NewReader("Roll No,Student\n1,Ashish\n"), "broadsheet.csv", "text/csv")
	return msg
}

func TestConsoleService_compose(t *testing.T) {
	var out bytes.Buffer
	svc := NewConsoleService(testConf, &out, &testLogger{})

	require.True(t, svc.sendMessage(reportMessage()))
	body := out.String()
	assert.Contains(t, body, "From: \"Gyan\" <noreply@school.test>\r\n")
	assert.Contains(t, body, "Subject: [Gyan] Broadsheet\r\n")
	assert.Contains(t, body, "To: <principal@school.test>\r\n")
	assert.Contains(t, body, "Please find the broadsheet attached.")
	assert.Contains(t, body, `Content-Disposition: attachment; filename="broadsheet.csv"`)
	assert.Contains(t, body, base64.StdEncoding.EncodeToString([]byte("Roll No,Student\n1,Ashish\n")))
}

func TestConsoleServiceMock(t *testing.T) {
	svc := NewConsoleServiceMock(testConf, &testLogger{})

	noRecipient := reportMessage()
	noRecipient.To = nil
	svc.SendMessages(reportMessage(), noRecipient, &core.EmailMessage{To: noRecipient.Cc})

	sent := svc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Please find the broadsheet attached.", sent[0].TextContent)
	assert.True(t, sent[0].HasAttachments())
}

func TestSendgridService(t *testing.T) {
	logger := &testLogger{}
	svc := NewSendgridService(testConf, logger)

	msg := reportMessage()
	require.NoError(t, msg.Render())
	m := svc.prepare(*msg)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[Gyan] Broadsheet", m.Personalizations[0].Subject)
	require.Len(t, m.Attachments, 1)
	assert.Equal(t, "text/csv", m.Attachments[0].Type)
	require.Len(t, m.Content, 1)

	origAPI := sendAPI
	defer func() { sendAPI = origAPI }()

	var got rest.Request
	sendAPI = func(req rest.Request) (*rest.Response, error) {
		got = req
		return &rest.Response{StatusCode: 400, Body: "bad request"}, nil
	}
	svc.send(*msg)
	assert.Equal(t, "https://api.sendgrid.com/v3/mail/send", got.BaseURL)
	assert.Len(t, logger.errors, 1)
}
