package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/owlCoder/task-management-system-software-sub000/apperr"
	"github.com/owlCoder/task-management-system-software-sub000/clients"
	"github.com/owlCoder/task-management-system-software-sub000/constants"
	"github.com/owlCoder/task-management-system-software-sub000/models"
)

func fakeUserService(t *testing.T, users map[uint]clients.User) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.URL.Path, "/users/")
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		user, ok := users[uint(id)]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "user not found"})
			return
		}
		json.NewEncoder(w).Encode(user)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fakeTaskService(t *testing.T, fail bool) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "sprint is locked"})
			return
		}
		var input clients.CreateTaskInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		actingID, _ := strconv.ParseUint(r.Header.Get("X-User-Id"), 10, 64)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(clients.Task{
			ID:            99,
			SprintID:      5,
			Title:         input.Title,
			Description:   input.Description,
			EstimatedCost: input.EstimatedCost,
			Status:        "created",
			CreatedByID:   uint(actingID),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fakeNotificationService(t *testing.T) (*httptest.Server, chan clients.NotifyRequest) {
	t.Helper()

	delivered := make(chan clients.NotifyRequest, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req clients.NotifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		delivered <- req
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)
	return srv, delivered
}

func newTemplateService(t *testing.T, users map[uint]clients.User, taskFail bool) (*TemplateService, chan clients.NotifyRequest) {
	t.Helper()

	userSrv := fakeUserService(t, users)
	taskSrv := fakeTaskService(t, taskFail)
	notifSrv, delivered := fakeNotificationService(t)

	svc := &TemplateService{
		DB:            openTestDB(t),
		Users:         clients.NewUserClient(userSrv.URL, time.Second),
		Tasks:         clients.NewTaskClient(taskSrv.URL, time.Second),
		Notifications: clients.NewNotificationClient(notifSrv.URL, time.Second),
		NotifyTimeout: time.Second,
	}
	return svc, delivered
}

func TestNewTemplateService_NotifyTimeoutFollowsClientTimeout(t *testing.T) {
	userSrv := fakeUserService(t, testUsers)
	taskSrv := fakeTaskService(t, false)
	notifSrv, _ := fakeNotificationService(t)

	timeout := 2 * time.Second
	svc := NewTemplateService(
		openTestDB(t),
		clients.NewUserClient(userSrv.URL, timeout),
		clients.NewTaskClient(taskSrv.URL, timeout),
		clients.NewNotificationClient(notifSrv.URL, timeout),
	)
	if svc.NotifyTimeout != timeout {
		t.Fatalf("notify timeout=%v want %v", svc.NotifyTimeout, timeout)
	}
}

var testUsers = map[uint]clients.User{
	1: {ID: 1, Name: "PM One", Role: constants.RoleProjectManager},
	3: {ID: 3, Name: "Worker", Role: constants.RoleMember},
}

func TestCreateTemplate_ValidationAndAuthorization(t *testing.T) {
	svc, _ := newTemplateService(t, testUsers, false)
	ctx := context.Background()

	valid := CreateTemplateInput{
		Title:          "Set up CI",
		Description:    "Pipeline with lint and tests",
		EstimatedCost:  500,
		AttachmentType: "document",
	}

	// Non-PM and unknown requesters are both refused, and nothing is
	// persisted.
	_, err := svc.CreateTemplate(ctx, valid, 3)
	wantKind(t, err, apperr.KindForbidden)
	_, err = svc.CreateTemplate(ctx, valid, 404)
	wantKind(t, err, apperr.KindForbidden)

	var count int64
	svc.DB.Model(&models.TaskTemplate{}).Count(&count)
	if count != 0 {
		t.Fatalf("refused create persisted %d templates", count)
	}

	cases := []struct {
		name  string
		patch func(in *CreateTemplateInput)
	}{
		{"empty title", func(in *CreateTemplateInput) { in.Title = "  " }},
		{"empty description", func(in *CreateTemplateInput) { in.Description = "" }},
		{"negative cost", func(in *CreateTemplateInput) { in.EstimatedCost = -1 }},
		{"missing attachment type", func(in *CreateTemplateInput) { in.AttachmentType = "" }},
	}
	for _, tc := range cases {
		in := valid
		tc.patch(&in)
		if _, err := svc.CreateTemplate(ctx, in, 1); !apperr.IsKind(err, apperr.KindInvalidInput) {
			t.Fatalf("%s: expected INVALID_INPUT, got %v", tc.name, err)
		}
	}

	created, err := svc.CreateTemplate(ctx, valid, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.CreatedByID != 1 {
		t.Fatalf("unexpected template: %+v", created)
	}
	if len(created.Dependencies) != 0 {
		t.Fatalf("new template has %d edges, want 0", len(created.Dependencies))
	}
}

func TestAddDependency_EdgeRules(t *testing.T) {
	svc, _ := newTemplateService(t, testUsers, false)
	ctx := context.Background()

	mk := func(title string) uint {
		t.Helper()
		tpl, err := svc.CreateTemplate(ctx, CreateTemplateInput{
			Title:          title,
			Description:    "d",
			EstimatedCost:  10,
			AttachmentType: "none",
		}, 1)
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		return tpl.ID
	}
	a, b, c := mk("A"), mk("B"), mk("C")

	wantKind(t, svc.AddDependency(ctx, a, b, 3), apperr.KindForbidden)
	wantKind(t, svc.AddDependency(ctx, a, 999, 1), apperr.KindNotFound)
	wantKind(t, svc.AddDependency(ctx, 999, a, 1), apperr.KindNotFound)
	wantKind(t, svc.AddDependency(ctx, a, a, 1), apperr.KindInvalidInput)

	if err := svc.AddDependency(ctx, a, b, 1); err != nil {
		t.Fatalf("add a->b: %v", err)
	}

	// The exact ordered pair is refused, the reverse pair of a
	// two-node cycle is refused, the unrelated edge goes through.
	wantKind(t, svc.AddDependency(ctx, a, b, 1), apperr.KindConflict)
	wantKind(t, svc.AddDependency(ctx, b, a, 1), apperr.KindConflict)
	if err := svc.AddDependency(ctx, b, c, 1); err != nil {
		t.Fatalf("add b->c: %v", err)
	}

	// Transitive cycle: c -> a would close a -> b -> c -> a.
	wantKind(t, svc.AddDependency(ctx, c, a, 1), apperr.KindConflict)

	var count int64
	svc.DB.Model(&models.TemplateDependency{}).Count(&count)
	if count != 2 {
		t.Fatalf("edge count=%d want 2", count)
	}

	got, err := svc.GetTemplateByID(a)
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0].DependsOnID != b {
		t.Fatalf("unexpected edges: %+v", got.Dependencies)
	}
}

func TestCreateTaskFromTemplate_HappyPathNotifiesWorker(t *testing.T) {
	svc, delivered := newTemplateService(t, testUsers, false)
	ctx := context.Background()

	tpl, err := svc.CreateTemplate(ctx, CreateTemplateInput{
		Title:          "Deploy service",
		Description:    "Roll out to staging",
		EstimatedCost:  500,
		AttachmentType: "archive",
	}, 1)
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	task, err := svc.CreateTaskFromTemplate(ctx, tpl.ID, 5, 3, 1)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if task.Title != tpl.Title || task.EstimatedCost != tpl.EstimatedCost {
		t.Fatalf("task payload not derived from template: %+v", task)
	}
	if task.CreatedByID != 1 {
		t.Fatalf("acting identity=%d want 1", task.CreatedByID)
	}

	select {
	case req := <-delivered:
		if len(req.UserIDs) != 1 || req.UserIDs[0] != 3 {
			t.Fatalf("notified wrong recipients: %+v", req)
		}
		if req.Type != clients.NotificationTypeTaskAssigned {
			t.Fatalf("notification type=%s", req.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("assignment notification never arrived")
	}
}

func TestCreateTaskFromTemplate_NoWorkerNoNotification(t *testing.T) {
	svc, delivered := newTemplateService(t, testUsers, false)
	ctx := context.Background()

	tpl, err := svc.CreateTemplate(ctx, CreateTemplateInput{
		Title:          "Unassigned work",
		Description:    "d",
		EstimatedCost:  1,
		AttachmentType: "none",
	}, 1)
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	if _, err := svc.CreateTaskFromTemplate(ctx, tpl.ID, 5, 0, 1); err != nil {
		t.Fatalf("instantiate: %v", err)
	}

	select {
	case req := <-delivered:
		t.Fatalf("unexpected notification: %+v", req)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestCreateTaskFromTemplate_Failures(t *testing.T) {
	svc, delivered := newTemplateService(t, testUsers, true)
	ctx := context.Background()

	_, err := svc.CreateTaskFromTemplate(ctx, 999, 5, 3, 1)
	wantKind(t, err, apperr.KindNotFound)

	tpl, err := svc.CreateTemplate(ctx, CreateTemplateInput{
		Title:          "Doomed",
		Description:    "d",
		EstimatedCost:  1,
		AttachmentType: "none",
	}, 1)
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	// Missing PM, non-PM actor, missing worker.
	_, err = svc.CreateTaskFromTemplate(ctx, tpl.ID, 5, 3, 404)
	wantKind(t, err, apperr.KindNotFound)
	_, err = svc.CreateTaskFromTemplate(ctx, tpl.ID, 5, 3, 3)
	wantKind(t, err, apperr.KindForbidden)
	_, err = svc.CreateTaskFromTemplate(ctx, tpl.ID, 5, 404, 1)
	wantKind(t, err, apperr.KindNotFound)

	// Task service down: INTERNAL_ERROR with the upstream message,
	// and no notification goes out.
	_, err = svc.CreateTaskFromTemplate(ctx, tpl.ID, 5, 3, 1)
	wantKind(t, err, apperr.KindInternal)
	if !strings.Contains(err.Error(), "sprint is locked") {
		t.Fatalf("upstream message lost: %v", err)
	}

	select {
	case req := <-delivered:
		t.Fatalf("notification sent despite task failure: %+v", req)
	case <-time.After(150 * time.Millisecond):
	}
}
