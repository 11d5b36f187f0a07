package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/api"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-authkeeper/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/logger"
	dto "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Secret:    "supersecretkeysupersecretkey123456",
			Issuer:    "issuer",
			AccessTTL: time.Minute,
		},
		Password: config.PasswordConfig{
			Hasher: "bcrypt",
			Bcrypt: config.BcryptConfig{Cost: 4},
		},
	}
}

// NewTestHandler создаёт Handler с моками и конфигом через dependency injection
func NewTestHandler(t *testing.T) (*api.Handler, *svcmocks.MockUsersRepo, *svcmocks.MockHealthRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	users := svcmocks.NewMockUsersRepo(ctrl)
	health := svcmocks.NewMockHealthRepo(ctrl)

	cfg := testConfig()
	svc, err := service.NewServices(service.Repositories{Users: users, Health: health}, cfg)
	require.NoError(t, err)

	verifier := middleware.NewJWTVerifier(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience)
	log := logger.New(logger.Options{File: filepath.Join(t.TempDir(), "http.log")})

	return api.NewHandler(svc, log, verifier, metrics.NewMetrics(nil)), users, health
}

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestHome(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	rr := httptest.NewRecorder()
	h.Home(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"msg":"Welcome to the API!"}`, rr.Body.String())
}

// Успех
func TestRegister_OK(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().GetByEmail(gomock.Any(), "ana@x.com").Return(nil, serr.ErrUserNotFound)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return("id-1", nil)

	rr := postJSON(h.Register, `{"name":"Ana","email":"ana@x.com","password":"p1","confirmPassword":"p1"}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	var body dto.MessageResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.NotEmpty(t, body.Msg)
	require.Equal(t, 1.0, testutil.ToFloat64(h.Metrics.AuthEvents.WithLabelValues("register", metrics.OutcomeSuccess)))
}

// старое написание confirmpassword
func TestRegister_LegacyConfirmField(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().GetByEmail(gomock.Any(), "ana@x.com").Return(nil, serr.ErrUserNotFound)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return("id-1", nil)

	rr := postJSON(h.Register, `{"name":"Ana","email":"ana@x.com","password":"p1","confirmpassword":"p1"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
}

func TestRegister_BadJSON(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	rr := postJSON(h.Register, `{"name":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "bad json", decodeError(t, rr).Error)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{"no name", `{"email":"a@x.com","password":"p","confirmPassword":"p"}`, "missing_field", "name"},
		{"no email", `{"name":"A","password":"p","confirmPassword":"p"}`, "missing_field", "email"},
		{"no password", `{"name":"A","email":"a@x.com"}`, "missing_field", "password"},
		{"mismatch", `{"name":"A","email":"a@x.com","password":"p1","confirmPassword":"p2"}`, "password_mismatch", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := NewTestHandler(t)

			rr := postJSON(h.Register, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

			body := decodeError(t, rr)
			require.Equal(t, tt.code, body.Error)
			require.Equal(t, tt.field, body.Field)
			require.NotEmpty(t, body.Msg)
		})
	}
}

// Такой email уже есть
func TestRegister_Duplicate(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().GetByEmail(gomock.Any(), "ana@x.com").Return(&models.User{ID: "id-1"}, nil)

	rr := postJSON(h.Register, `{"name":"Ana","email":"ana@x.com","password":"p1","confirmPassword":"p1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Equal(t, "duplicate_email", decodeError(t, rr).Error)
}

// Ошибка сервера, причина не уходит клиенту
func TestRegister_StorageError(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().GetByEmail(gomock.Any(), "ana@x.com").Return(nil, serr.Storage(errors.New("connection refused to 10.0.0.1")))

	rr := postJSON(h.Register, `{"name":"Ana","email":"ana@x.com","password":"p1","confirmPassword":"p1"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "10.0.0.1")
	require.Equal(t, "storage_unavailable", decodeError(t, rr).Error)
}

// Успех
func TestLogin_OK(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	hash, err := crypto.NewBcryptHasher(4).Hash("p1")
	require.NoError(t, err)
	users.EXPECT().GetByEmail(gomock.Any(), "ana@x.com").Return(&models.User{ID: "id-1", PasswordHash: hash}, nil)

	rr := postJSON(h.Login, `{"email":"ana@x.com","password":"p1"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var body dto.LoginResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.NotEmpty(t, body.Msg)

	sub, err := crypto.ParseAccessToken(body.Token, h.Svc.Auth.JWT())
	require.NoError(t, err)
	require.Equal(t, "id-1", sub)
}

func TestLogin_Failures(t *testing.T) {
	hash, err := crypto.NewBcryptHasher(4).Hash("p1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		body   string
		setup  func(users *svcmocks.MockUsersRepo)
		status int
		code   string
	}{
		{"bad json", `nope`, nil, http.StatusBadRequest, "bad json"},
		{"no email", `{"password":"p1"}`, nil, http.StatusUnprocessableEntity, "missing_field"},
		{"no password", `{"email":"ana@x.com"}`, nil, http.StatusUnprocessableEntity, "missing_field"},
		{"not found", `{"email":"ana@x.com","password":"p1"}`, func(users *svcmocks.MockUsersRepo) {
			users.EXPECT().GetByEmail(gomock.Any(), "ana@x.com").Return(nil, serr.ErrUserNotFound)
		}, http.StatusUnprocessableEntity, "user_not_found"},
		{"wrong password", `{"email":"ana@x.com","password":"nope"}`, func(users *svcmocks.MockUsersRepo) {
			users.EXPECT().GetByEmail(gomock.Any(), "ana@x.com").Return(&models.User{ID: "id-1", PasswordHash: hash}, nil)
		}, http.StatusUnprocessableEntity, "invalid_credentials"},
		{"storage", `{"email":"ana@x.com","password":"p1"}`, func(users *svcmocks.MockUsersRepo) {
			users.EXPECT().GetByEmail(gomock.Any(), "ana@x.com").Return(nil, serr.Storage(context.DeadlineExceeded))
		}, http.StatusInternalServerError, "storage_unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, users, _ := NewTestHandler(t)
			if tt.setup != nil {
				tt.setup(users)
			}

			rr := postJSON(h.Login, tt.body)
			require.Equal(t, tt.status, rr.Code)
			require.Equal(t, tt.code, decodeError(t, rr).Error)
		})
	}
}

func getUser(h *api.Handler, id string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/user/{id}", h.GetUser)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/user/"+id, nil))
	return rr
}

func TestGetUser_OK(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().GetByID(gomock.Any(), "id-1").
		Return(&models.User{ID: "id-1", Name: "Ana", Email: "ana@x.com", PasswordHash: "secret-hash"}, nil)

	rr := getUser(h, "id-1")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"id":"id-1","name":"Ana","email":"ana@x.com"}`, rr.Body.String())
}

func TestGetUser_NotFound(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, serr.ErrUserNotFound)

	rr := getUser(h, "nope")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "user_not_found", decodeError(t, rr).Error)
}

func TestGetUser_StorageError(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().GetByID(gomock.Any(), "id-1").Return(nil, serr.Storage(errors.New("down")))

	rr := getUser(h, "id-1")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHealth(t *testing.T) {
	h, _, health := NewTestHandler(t)

	health.EXPECT().Ping(gomock.Any()).Return(nil)
	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	health.EXPECT().Ping(gomock.Any()).Return(serr.Storage(errors.New("down")))
	rr = httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
