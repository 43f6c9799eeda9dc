// Package upstream reads the exam data from the school management REST backend.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/hazekiller/gyan/core"
	"github.com/hazekiller/gyan/core/exam"
)

// ErrUnauthorized is returned when the backend rejects the token. The token is then dropped.
var ErrUnauthorized = errors.New("upstream: unauthorized")

type Client struct {
	baseURL string
	http    *http.Client
	logger  core.Logger

	mu    sync.RWMutex
	token string
}

var _ exam.Source = (*Client)(nil) // interface compliance check

func NewClient(conf core.UpstreamConfig, httpClient *http.Client, logger core.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: conf.BaseURL, http: httpClient, logger: logger, token: conf.Token}
}

// SetToken replaces the bearer token sent to the backend.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) GetExam(ctx context.Context, examID int) (exam.Exam, error) {
	var ex exam.Exam
	if err := c.get(ctx, "/exams/"+strconv.Itoa(examID), nil, &ex); err != nil {
		return exam.Exam{}, err
	}
	return ex, nil
}

func (c *Client) QuerySchedules(ctx context.Context, examID int) ([]exam.SubjectSchedule, error) {
	var schedules []exam.SubjectSchedule
	if err := c.get(ctx, "/exam-schedules/"+strconv.Itoa(examID), nil, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (c *Client) QueryStudents(ctx context.Context, filter exam.StudentFilter) ([]exam.Student, error) {
	q := make(url.Values)
	if filter.ClassID != 0 {
		q.Set("class_id", strconv.Itoa(filter.ClassID))
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	var students []exam.Student
	if err := c.get(ctx, "/students", q, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (c *Client) QueryResults(ctx context.Context, examID int) ([]exam.ResultRecord, error) {
	var results []exam.ResultRecord
	if err := c.get(ctx, "/exams/"+strconv.Itoa(examID)+"/results", nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "GET "+path)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, 10<<20))
	if err != nil {
		return errors.Wrap(err, "reading "+path)
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		c.SetToken("")
		c.logger.Warn("upstream: token rejected, dropped", map[string]interface{}{"path": path})
		return ErrUnauthorized
	case res.StatusCode == http.StatusNotFound && path != "/students":
		return exam.ErrNotFound
	case res.StatusCode >= http.StatusBadRequest:
		return errors.Errorf("GET %s: status %d: %s", path, res.StatusCode, bytes.TrimSpace(body))
	}

	if err = json.Unmarshal(unwrapData(body), dst); err != nil {
		return errors.Wrap(err, fmt.Sprintf("decoding %s", path))
	}
	return nil
}

// unwrapData returns the "data" member of enveloped payloads ({"data": ...}).
func unwrapData(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return trimmed
	}
	if data, ok := envelope["data"]; ok {
		return data
	}
	return trimmed
}
