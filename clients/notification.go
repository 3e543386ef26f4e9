package clients

import (
	"context"
	"net/http"
	"time"

	"github.com/owlCoder/task-management-system-software-sub000/apperr"
)

const NotificationTypeTaskAssigned = "task_assigned"

type NotifyRequest struct {
	UserIDs []uint `json:"user_ids"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Type    string `json:"type"`
}

type NotificationClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewNotificationClient(baseURL string, timeout time.Duration) *NotificationClient {
	return &NotificationClient{BaseURL: baseURL, HTTP: newHTTPClient(timeout)}
}

// Notify hands a delivery request to the Notification service.
// Delivery itself is that service's concern; callers here treat the
// whole call as best-effort.
func (nc *NotificationClient) Notify(ctx context.Context, req NotifyRequest) error {
	resp, err := postJSON(ctx, nc.HTTP, nc.BaseURL+"/notifications", nil, req, nil)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return apperr.Internal("notification service unreachable: " + err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperr.Internal("notification service error: " + upstreamMessage(resp))
	}
	return nil
}
