// Package crypto содержит криптографические примитивы сервера:
//   - хэширование и проверку паролей (bcrypt, argon2id);
//   - выпуск и проверку JWT access-токенов (HS256).
package crypto

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrEmptySigningKey — попытка подписать токен пустым ключом.
	ErrEmptySigningKey = errors.New("empty signing key")
	// ErrInvalidSubject — в токене нет subject.
	ErrInvalidSubject = errors.New("invalid token subject")
	// ErrInvalidIssuer — issuer не совпал с ожидаемым.
	ErrInvalidIssuer = errors.New("invalid token issuer")
	// ErrInvalidAudience — в audience нет ожидаемого значения.
	ErrInvalidAudience = errors.New("invalid token audience")
)

// JWTConfig описывает параметры генерации и проверки JWT access-токена.
type JWTConfig struct {
	// Issuer — значение поля iss (опционально).
	Issuer string
	// Audience — значение поля aud (опционально).
	Audience string
	// SigningKey — секрет сервера для подписи (HS256).
	SigningKey string
	// AccessTTL — срок жизни токена.
	AccessTTL time.Duration
}

// NewAccessToken создаёт и подписывает JWT access-токен для пользователя.
//
// Токен содержит стандартные RegisteredClaims:
//   - sub (userID)
//   - iat, exp
//   - iss и aud, если заданы в cfg
func NewAccessToken(userID string, cfg JWTConfig) (string, error) {
	if cfg.SigningKey == "" {
		return "", ErrEmptySigningKey
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTTL)),
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(cfg.SigningKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken проверяет подпись, алгоритм (только HS256), срок жизни,
// issuer/audience (если заданы в cfg) и возвращает subject.
func ParseAccessToken(tokenStr string, cfg JWTConfig) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if _, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	}); err != nil {
		return "", err
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return "", ErrInvalidIssuer
	}
	if cfg.Audience != "" && !slices.Contains(claims.Audience, cfg.Audience) {
		return "", ErrInvalidAudience
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", ErrInvalidSubject
	}
	return sub, nil
}
