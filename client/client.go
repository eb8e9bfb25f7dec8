// Package client provides a typed HTTP client for the schedule API and a
// small state controller that mirrors server data for UI consumers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rainboowbee/next-shedule/internal/model"
)

// APIError carries a decoded error response from the server.
type APIError struct {
	Status   int
	Code     string
	Required []string
}

func (e *APIError) Error() string {
	if len(e.Required) > 0 {
		return fmt.Sprintf("api error %d: %s (required: %v)", e.Status, e.Code, e.Required)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Code)
}

// LessonInput is the payload for creating or replacing a lesson. Times are
// sent as-is; the server accepts RFC 3339 or local wall-clock values.
type LessonInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	StudentID   string `json:"studentId"`
}

// Client talks to a schedule API server.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) ListLessons(ctx context.Context) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := c.do(ctx, http.MethodGet, "/lessons", nil, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (c *Client) GetLesson(ctx context.Context, id string) (model.Lesson, error) {
	var lesson model.Lesson
	if err := c.do(ctx, http.MethodGet, "/lessons/"+id, nil, &lesson); err != nil {
		return model.Lesson{}, err
	}
	return lesson, nil
}

func (c *Client) CreateLesson(ctx context.Context, in LessonInput) (model.Lesson, error) {
	var lesson model.Lesson
	if err := c.do(ctx, http.MethodPost, "/lessons", in, &lesson); err != nil {
		return model.Lesson{}, err
	}
	return lesson, nil
}

func (c *Client) UpdateLesson(ctx context.Context, id string, in LessonInput) (model.Lesson, error) {
	var lesson model.Lesson
	if err := c.do(ctx, http.MethodPut, "/lessons/"+id, in, &lesson); err != nil {
		return model.Lesson{}, err
	}
	return lesson, nil
}

func (c *Client) DeleteLesson(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/lessons/"+id, nil, nil)
}

func (c *Client) ListStudents(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := c.do(ctx, http.MethodGet, "/students", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Code: "server_error"}
		var decoded struct {
			Error    string   `json:"error"`
			Required []string `json:"required"`
		}
		if json.Unmarshal(data, &decoded) == nil && decoded.Error != "" {
			apiErr.Code = decoded.Error
			apiErr.Required = decoded.Required
		}
		return apiErr
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
