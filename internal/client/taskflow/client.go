package taskflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TWRT/taskflow/internal/models"
)

type Client struct {
	baseUrl    string
	httpClient *http.Client
}

// NewClient talks to a taskflow server at baseUrl. A nil httpClient gets a
// default with a 10s timeout.
func NewClient(baseUrl string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: httpClient,
	}
}

// ListTasks returns every task. The server's 404 "no records" answer is
// reported as an empty list; any other 404 is an error.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var env listEnvelope
	err := c.do(ctx, http.MethodGet, "/api/fetchdata", nil, nil, &env, "Failed to fetch tasks")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound && apiErr.noRecords {
			return []models.Task{}, nil
		}
		return nil, err
	}
	if env.Data == nil {
		env.Data = []models.Task{}
	}
	return env.Data, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (models.Task, error) {
	var env taskEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/task", idQuery(id), nil, &env, "Failed to fetch task"); err != nil {
		return models.Task{}, err
	}
	return env.Data, nil
}

// CreateTask returns the persisted row, which the server sends unwrapped.
func (c *Client) CreateTask(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/createtasks", nil, in, &task, "Failed to create task"); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	var env taskEnvelope
	if err := c.do(ctx, http.MethodPatch, "/api/update", idQuery(id), patch, &env, "Failed to update task"); err != nil {
		return models.Task{}, err
	}
	return env.Data, nil
}

// DeleteTask returns the row as it was before deletion.
func (c *Client) DeleteTask(ctx context.Context, id int64) (models.Task, error) {
	var env taskEnvelope
	if err := c.do(ctx, http.MethodDelete, "/api/delete", idQuery(id), nil, &env, "Failed to delete task"); err != nil {
		return models.Task{}, err
	}
	return env.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, fallback string) error {
	endpoint := c.baseUrl + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fallback, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &APIError{Message: fallback, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fallback, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data, fallback)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: fallback, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

func idQuery(id int64) url.Values {
	return url.Values{"id": []string{strconv.FormatInt(id, 10)}}
}
