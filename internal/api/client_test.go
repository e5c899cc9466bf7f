package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dori/taskdeck/internal/model"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func respond(t *testing.T, w http.ResponseWriter, status int, message string, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{
		"success": status >= 200 && status <= 299,
		"message": message,
		"data":    data,
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestRequestHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID missing")
		}
		respond(t, w, http.StatusOK, "ok", []model.Project{})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok-123"), time.Second)
	if _, err := c.ListProjects(context.Background()); err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("Authorization header sent without a token")
		}
		respond(t, w, http.StatusOK, "ok", model.AuthPayload{
			Token: "fresh",
			User:  &model.User{ID: 1, Name: "Dana", Email: "dana@example.com"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""), time.Second)
	payload, err := c.Login(context.Background(), model.LoginRequest{Email: "dana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if payload.Token != "fresh" || payload.User == nil || payload.User.ID != 1 {
		t.Errorf("payload = %+v", payload)
	}
}

func TestEnvelopeUnwrapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		respond(t, w, http.StatusOK, "Project retrieved", model.Project{
			ID: 7, Title: "Garden", TotalTasks: 3, CompletedTasks: 1, ProgressPercentage: 33.3,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("t"), time.Second)
	p, err := c.GetProject(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if p.ID != 7 || p.Title != "Garden" || p.ProgressPercentage != 33.3 {
		t.Errorf("project = %+v", p)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindConflict},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusInternalServerError, KindNetworkOrServer},
		{http.StatusBadGateway, KindNetworkOrServer},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respond(t, w, tt.status, "nope", nil)
			}))
			defer srv.Close()

			c := New(srv.URL, staticToken("t"), time.Second)
			_, err := c.GetProject(context.Background(), 1)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := KindOf(err); got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatal("error is not *Error")
			}
			if apiErr.Message != "nope" {
				t.Errorf("message = %q, want server message", apiErr.Message)
			}
		})
	}
}

func TestTransportErrorIsNetworkKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, staticToken("t"), time.Second)
	_, err := c.ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := KindOf(err); got != KindNetworkOrServer {
		t.Errorf("kind = %v, want network", got)
	}
}

func TestUnauthorizedHookFiresOutsideAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusUnauthorized, "Token expired", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("stale"), time.Second)
	fired := 0
	c.OnUnauthorized(func() { fired++ })

	if _, err := c.ListProjects(context.Background()); !IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if fired != 1 {
		t.Errorf("hook fired %d times, want 1", fired)
	}
}

// A 401 from a credential endpoint means the credentials were wrong, not that
// an established session expired, so the teardown hook stays quiet.
func TestUnauthorizedHookSkipsAuthEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusUnauthorized, "Invalid credentials", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""), time.Second)
	fired := 0
	c.OnUnauthorized(func() { fired++ })

	_, err := c.Login(context.Background(), model.LoginRequest{Email: "x@y.z", Password: "wrong"})
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if fired != 0 {
		t.Errorf("hook fired %d times on /auth/login, want 0", fired)
	}
}

func TestCreateTaskSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/projects/3/tasks" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		var req model.CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Title != "Water ferns" || req.DueDate != "2026-09-15" {
			t.Errorf("request = %+v", req)
		}
		respond(t, w, http.StatusCreated, "Task created", model.Task{ID: 41, Title: req.Title, ProjectID: 3})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("t"), time.Second)
	task, err := c.CreateTask(context.Background(), 3, model.CreateTaskRequest{Title: "Water ferns", DueDate: "2026-09-15"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != 41 || task.ProjectID != 3 {
		t.Errorf("task = %+v", task)
	}
}

func TestCompleteTaskUsesPatchWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/projects/3/tasks/41/complete" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.ContentLength > 0 {
			t.Error("complete request carried a body")
		}
		respond(t, w, http.StatusOK, "Task completed", model.Task{ID: 41, ProjectID: 3, Completed: true})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("t"), time.Second)
	task, err := c.CompleteTask(context.Background(), 3, 41)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !task.Completed {
		t.Error("task not marked completed")
	}
}

func TestDeleteIgnoresData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/projects/9" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		respond(t, w, http.StatusOK, "Project deleted", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("t"), time.Second)
	if err := c.DeleteProject(context.Background(), 9); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
}

func TestMissingDataIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusOK, "ok", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("t"), time.Second)
	if _, err := c.GetProject(context.Background(), 1); err == nil {
		t.Fatal("expected error for null data")
	}
}
