package clients

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/owlCoder/task-management-system-software-sub000/apperr"
)

// Task is the projection of the task record the Task service returns
// after instantiation.
type Task struct {
	ID            uint    `json:"id"`
	SprintID      uint    `json:"sprint_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	EstimatedCost float64 `json:"estimated_cost"`
	Status        string  `json:"status"`
	CreatedByID   uint    `json:"created_by_id"`
}

// CreateTaskInput is the payload derived from a template.
type CreateTaskInput struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	EstimatedCost float64 `json:"estimated_cost"`
}

type TaskClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewTaskClient(baseURL string, timeout time.Duration) *TaskClient {
	return &TaskClient{BaseURL: baseURL, HTTP: newHTTPClient(timeout)}
}

// CreateTask creates a task inside a sprint, acting as the given
// user. The Task service owns the record; this engine only keeps the
// returned projection.
func (tc *TaskClient) CreateTask(ctx context.Context, sprintID uint, input CreateTaskInput, actingUserID uint) (*Task, error) {
	var task Task
	url := fmt.Sprintf("%s/sprints/%d/tasks", tc.BaseURL, sprintID)
	headers := map[string]string{"X-User-Id": strconv.FormatUint(uint64(actingUserID), 10)}
	resp, err := postJSON(ctx, tc.HTTP, url, headers, input, &task)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, apperr.Internal("task service unreachable: " + err.Error())
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.NotFound("task service: " + upstreamMessage(resp))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, apperr.Internal("task service error: " + upstreamMessage(resp))
	}
	return &task, nil
}
