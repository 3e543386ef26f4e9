package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/owlCoder/task-management-system-software-sub000/apperr"
)

// User is the projection of a User-service record this engine needs.
type User struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type UserClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{BaseURL: baseURL, HTTP: newHTTPClient(timeout)}
}

func (uc *UserClient) GetUser(ctx context.Context, id uint) (*User, error) {
	var user User
	resp, err := getJSON(ctx, uc.HTTP, fmt.Sprintf("%s/users/%d", uc.BaseURL, id), &user)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, apperr.Internal("user service unreachable: " + err.Error())
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.NotFound("user not found")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, apperr.Internal("user service error: " + upstreamMessage(resp))
	}
	return &user, nil
}

// VerifyUserExists discards the payload and reports only whether the
// lookup succeeded.
func (uc *UserClient) VerifyUserExists(ctx context.Context, id uint) bool {
	_, err := uc.GetUser(ctx, id)
	return err == nil
}
