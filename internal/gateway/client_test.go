package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/infrastructure/db/memory"
)

func TestClient_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/profile" || r.Method != http.MethodGet {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":7,"name":"Jo","role":"PATIENT"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", http.DefaultTransport, time.Second)

	var id domain.Identity
	if err := c.Get(context.Background(), "/profile", &id); err != nil {
		t.Fatalf("get: %v", err)
	}
	if id.ID != "7" || id.Name != "Jo" || id.Role != domain.RolePatient {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestClient_SendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Fatalf("missing content type")
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["diagnosis"] != "flu" {
			t.Fatalf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, http.DefaultTransport, time.Second)
	var out map[string]string
	if err := c.Post(context.Background(), "/medical-records", map[string]string{"diagnosis": "flu"}, &out); err != nil {
		t.Fatalf("post: %v", err)
	}
}

func TestClient_UnauthorizedIsSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newSession(t, memory.NewStore())
	_ = store.Login(ctx, domain.Identity{ID: "u1"}, "tok")

	c := NewClient(srv.URL, New(Static(store), zerolog.Nop()), time.Second)
	err := c.Delete(ctx, "/medical-records/1")

	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatalf("gateway must have ended the session")
	}
}

func TestClient_APIError(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message", `{"message":"record not found"}`, "record not found"},
		{"error", `{"error":"bad id"}`, "bad id"},
		{"text", "gone\n", "gone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, http.DefaultTransport, time.Second)
			err := c.Put(context.Background(), "/medical-records/x", map[string]string{}, nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != http.StatusNotFound || apiErr.Message != tc.want {
				t.Fatalf("unexpected error: %+v", apiErr)
			}
		})
	}
}

func TestClient_EmptyBodyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, http.DefaultTransport, time.Second)
	var out domain.Identity
	if err := c.Get(context.Background(), "/profile", &out); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
