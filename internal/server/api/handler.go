// Package api реализует HTTP-слой сервера AuthKeeper.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения;
//   - подсчёт событий аутентификации в метриках.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: компонент проверки JWT и middleware авторизации;
//   - Metrics: счётчики Prometheus (может быть nil).
type Handler struct {
	Svc      *service.Services
	Log      *logger.HTTPLogger
	Verifier *middleware.JWTVerifier
	Metrics  *metrics.Metrics
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.JWTVerifier, m *metrics.Metrics) *Handler {
	return &Handler{
		Svc:      svc,
		Log:      log,
		Verifier: verifier,
		Metrics:  m,
	}
}

// WriteJSON пишет v в ответ с заданным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, msg, code string) {
	WriteJSON(w, status, models.ErrorResponse{Msg: msg, Error: code})
}

// writeServiceError маппит ошибку сервиса в HTTP-ответ.
//
// notFound — статус для ErrUserNotFound: при логине это ошибка ввода (422),
// при чтении профиля — 404.
// Внутренние ошибки логируются вместе с причиной, клиенту причина не отдаётся.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error, notFound int) {
	var mf *serr.MissingFieldError

	switch {
	case errors.As(err, &mf):
		WriteJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Msg:   "Field " + mf.Field + " is required!",
			Error: "missing_field",
			Field: mf.Field,
		})
	case errors.Is(err, serr.ErrPasswordMismatch):
		WriteError(w, http.StatusUnprocessableEntity, "Passwords do not match!", "password_mismatch")
	case errors.Is(err, serr.ErrDuplicateEmail):
		WriteError(w, http.StatusUnprocessableEntity, "Please use another email!", "duplicate_email")
	case errors.Is(err, serr.ErrUserNotFound):
		WriteError(w, notFound, "User not found!", "user_not_found")
	case errors.Is(err, serr.ErrInvalidCredentials):
		WriteError(w, http.StatusUnprocessableEntity, "Invalid password!", "invalid_credentials")
	case errors.Is(err, serr.ErrTokenIssuance):
		h.Log.Error(op+" failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Could not issue token, try again later!", "token_issuance_failed")
	case errors.Is(err, serr.ErrStorageUnavailable):
		h.Log.Error(op+" failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Server error, try again later!", "storage_unavailable")
	default:
		h.Log.Error(op+" failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Server error, try again later!", "internal")
	}
}

// outcome классифицирует ошибку для метрик: отказ по вводу или сбой сервера.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, serr.ErrStorageUnavailable), errors.Is(err, serr.ErrTokenIssuance):
		return metrics.OutcomeError
	case errors.Is(err, serr.ErrMissingField), errors.Is(err, serr.ErrPasswordMismatch),
		errors.Is(err, serr.ErrDuplicateEmail), errors.Is(err, serr.ErrUserNotFound),
		errors.Is(err, serr.ErrInvalidCredentials):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

// Home — приветствие.
//
// @Summary  Welcome message
// @Tags     public
// @Produce  json
// @Success  200 {object} models.MessageResponse
// @Router   / [get]
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, models.MessageResponse{Msg: "Welcome to the API!"})
}

// Health проверяет доступность хранилища.
//
// @Summary  Health check
// @Tags     public
// @Produce  json
// @Success  200 {object} models.MessageResponse
// @Failure  503 {object} models.ErrorResponse
// @Router   /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Svc.Health != nil {
		if err := h.Svc.Health.Ping(r.Context()); err != nil {
			h.Log.Warn("health check failed", zap.Error(err))
			WriteError(w, http.StatusServiceUnavailable, "Storage unavailable", "storage_unavailable")
			return
		}
	}
	WriteJSON(w, http.StatusOK, models.MessageResponse{Msg: "ok"})
}
