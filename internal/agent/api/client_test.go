package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

func TestClient_PostJSON_SetsHeaders_AndDecodesResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected method POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("expected Content-Type application/json, got %q", ct)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer token-1" {
			t.Fatalf("expected Authorization Bearer token-1, got %q", auth)
		}

		var got map[string]any
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if got["a"] != float64(1) {
			t.Fatalf("expected a=1, got %#v", got["a"])
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	c := api.NewClient(srv.URL, true)

	var resp map[string]any
	if err := c.PostJSON("/x", map[string]any{"a": 1}, &resp, "token-1"); err != nil {
		t.Fatalf("PostJSON returned error: %v", err)
	}
	if resp["ok"] != true {
		t.Fatalf("expected ok=true, got %#v", resp)
	}
}

// без --insecure самоподписанный сертификат не принимается
func TestClient_VerifiesTLSByDefault(t *testing.T) {
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	defer srv.Close()

	if err := api.NewClient(srv.URL, false).GetJSON("/", nil, ""); err == nil {
		t.Fatal("expected TLS verification error")
	}
}

func TestClient_APIError_FromJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(models.ErrorResponse{Msg: "Field name is required!", Error: "missing_field", Field: "name"})
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL, false).Register(models.RegisterRequest{})

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Code != "missing_field" || apiErr.Field != "name" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestClient_APIError_PlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := api.NewClient(srv.URL, false).GetJSON("/", nil, "")

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Msg != "boom" || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_GetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/id-1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Fatalf("missing bearer token")
		}
		json.NewEncoder(w).Encode(models.UserResponse{ID: "id-1", Name: "Ana", Email: "ana@x.com"})
	}))
	defer srv.Close()

	u, err := api.NewClient(srv.URL+"/", false).GetUser("id-1", "tok")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.Name != "Ana" || u.Email != "ana@x.com" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "ana@x.com" || req.Password != "p1" {
			t.Fatalf("unexpected request %+v", req)
		}
		json.NewEncoder(w).Encode(models.LoginResponse{Msg: "ok", Token: "tok"})
	}))
	defer srv.Close()

	resp, err := api.NewClient(srv.URL, false).Login("ana@x.com", "p1")
	if err != nil || resp.Token != "tok" {
		t.Fatalf("Login: %v %+v", err, resp)
	}
}
