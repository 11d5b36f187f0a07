package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/agent/config"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

func newApp(t *testing.T, serverURL string) *cli.App {
	t.Helper()
	return &cli.App{
		ServerURL: serverURL,
		CredsPath: filepath.Join(t.TempDir(), "creds.json"),
		Creds:     &config.Credentials{},
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func signed(t *testing.T, sub string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: sub}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRegisterCmd_WithFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Name != "Ana" || req.Email != "ana@x.com" || req.Password != "p1" || req.ConfirmPassword != "p1" {
			t.Fatalf("unexpected request %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.MessageResponse{Msg: "User created successfully!"})
	}))
	defer srv.Close()

	out, err := run(t, cli.NewRegisterCmd(newApp(t, srv.URL)), "--name", "Ana", "--email", "ana@x.com", "--password", "p1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(out, "User created successfully!") {
		t.Fatalf("unexpected output %q", out)
	}
}

// пароль запрашивается, если не передан флагом
func TestRegisterCmd_PromptsPassword(t *testing.T) {
	var got models.RegisterRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.MessageResponse{Msg: "ok"})
	}))
	defer srv.Close()

	answers := []string{"p1", "p2"}
	orig := cli.ReadPassword
	cli.ReadPassword = func(cmd *cobra.Command, prompt string) (string, error) {
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	t.Cleanup(func() { cli.ReadPassword = orig })

	if _, err := run(t, cli.NewRegisterCmd(newApp(t, srv.URL)), "--name", "Ana", "--email", "ana@x.com"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got.Password != "p1" || got.ConfirmPassword != "p2" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestRegisterCmd_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(models.ErrorResponse{Msg: "Please use another email!", Error: "duplicate_email"})
	}))
	defer srv.Close()

	_, err := run(t, cli.NewRegisterCmd(newApp(t, srv.URL)), "--name", "Ana", "--email", "ana@x.com", "--password", "p1")

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "duplicate_email" {
		t.Fatalf("expected duplicate_email api error, got %v", err)
	}
}

func TestLoginCmd_SavesToken(t *testing.T) {
	token := signed(t, "id-1")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.LoginResponse{Msg: "Authentication successful!", Token: token})
	}))
	defer srv.Close()

	app := newApp(t, srv.URL)
	out, err := run(t, cli.NewLoginCmd(app), "--email", "ana@x.com", "--password", "p1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "id-1") {
		t.Fatalf("unexpected output %q", out)
	}

	saved, err := config.Load(app.CredsPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.Token != token || saved.UserID != "id-1" {
		t.Fatalf("unexpected saved creds %+v", saved)
	}
}

func TestUserCmd_NotLoggedIn(t *testing.T) {
	_, err := run(t, cli.NewUserCmd(newApp(t, "http://127.0.0.1:1")))
	if !errors.Is(err, cli.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestUserCmd_DefaultsToOwnID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/id-1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Fatalf("missing token")
		}
		json.NewEncoder(w).Encode(models.UserResponse{ID: "id-1", Name: "Ana", Email: "ana@x.com"})
	}))
	defer srv.Close()

	app := newApp(t, srv.URL)
	app.Creds = &config.Credentials{Token: "tok", UserID: "id-1"}

	out, err := run(t, cli.NewUserCmd(app))
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if !strings.Contains(out, "name=Ana") || !strings.Contains(out, "email=ana@x.com") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, cli.NewVersionCmd("1.2.3", "2026-01-01"))
	if err != nil {
		t.Fatal(err)
	}
	if out != "version=1.2.3\nbuild_date=2026-01-01\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := cli.NewRootCmd("dev", "unknown")
	for _, name := range []string{"register", "login", "user", "version"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("subcommand %s not found: %v", name, err)
		}
	}
}

func TestRootCmd_UsesCredentialsFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	if err := config.Save(path, &config.Credentials{}); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, cli.NewRootCmd("dev", "unknown"), "--credentials", path, "user")
	if !errors.Is(err, cli.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}
