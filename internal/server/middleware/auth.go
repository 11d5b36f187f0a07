// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/metrics"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userIDKey — ключ контекста, под которым хранится ID аутентифицированного пользователя.
const userIDKey ctxKey = "user_id"

// JWTVerifier инкапсулирует параметры проверки JWT access-токенов.
//
// Используется в HTTP middleware для:
//   - проверки подписи токена
//   - валидации issuer и audience
//   - извлечения userID из claims.Subject
type JWTVerifier struct {
	SigningKey string // симметричный ключ для подписи (HS256)
	Issuer     string // ожидаемый issuer (опционально)
	Audience   string // ожидаемая audience (опционально)

	// Metrics — необязательные счётчики исходов проверки.
	Metrics *metrics.Metrics
}

// NewJWTVerifier создаёт новый JWTVerifier с заданными параметрами.
func NewJWTVerifier(signingKey, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{SigningKey: signingKey, Issuer: issuer, Audience: audience}
}

// UserIDFromContext извлекает userID аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - userID
//   - false, если пользователь не аутентифицирован
func UserIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	s, ok := v.(string)
	return s, ok
}

// WithUserID кладёт userID в контекст (так же, как это делает AuthMiddleware).
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// AuthMiddleware возвращает HTTP middleware для проверки JWT access-токенов.
//
// Middleware:
//   - ожидает заголовок Authorization: Bearer <token>
//   - валидирует подпись (только HS256), срок жизни, issuer/audience
//   - сохраняет claims.Subject в context.Context
//
// Нет заголовка или токена — 401 unauthenticated,
// токен не прошёл проверку — 403 invalid_token.
func (v *JWTVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := v.Verify(r.Header.Get("Authorization"))
			switch {
			case errors.Is(err, serr.ErrUnauthenticated):
				v.Metrics.Auth("guard", metrics.OutcomeRejected)
				writeError(w, http.StatusUnauthorized, "Access denied!", serr.Code(err))
				return
			case err != nil:
				v.Metrics.Auth("guard", metrics.OutcomeRejected)
				writeError(w, http.StatusForbidden, "Invalid token!", serr.Code(err))
				return
			}

			v.Metrics.Auth("guard", metrics.OutcomeSuccess)
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// Verify проверяет значение заголовка Authorization и возвращает subject токена.
//
// Ошибки:
//   - serr.ErrUnauthenticated: нет заголовка или токена
//   - serr.ErrInvalidToken (с причиной от парсера): токен не прошёл проверку
func (v *JWTVerifier) Verify(authHeader string) (string, error) {
	tokenStr := ExtractBearer(authHeader)
	if tokenStr == "" {
		return "", serr.ErrUnauthenticated
	}

	cfg := crypto.JWTConfig{SigningKey: v.SigningKey, Issuer: v.Issuer, Audience: v.Audience}
	userID, err := crypto.ParseAccessToken(tokenStr, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", serr.ErrInvalidToken, err)
	}
	return userID, nil
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Msg: msg, Error: code})
}
