// Package errors содержит общие доменные ошибки приложения
// и утилиты для error wrapping.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Обязательное поле не заполнено (конкретное поле — в MissingFieldError)
	ErrMissingField = errors.New("missing field")
	// password и confirmPassword не совпадают
	ErrPasswordMismatch = errors.New("password mismatch")
	// email уже занят
	ErrDuplicateEmail = errors.New("duplicate email")
	// Пользователь не найден
	ErrUserNotFound = errors.New("user not found")
	// Неверный пароль
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Нет заголовка Authorization или токена в нём
	ErrUnauthenticated = errors.New("unauthenticated")
	// Токен не прошёл проверку подписи/структуры
	ErrInvalidToken = errors.New("invalid token")
	// Хранилище (или криптография) вернуло непредвиденную ошибку
	ErrStorageUnavailable = errors.New("storage unavailable")
	// Не удалось подписать токен
	ErrTokenIssuance = errors.New("token issuance failed")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
)

// MissingFieldError — ошибка валидации с именем незаполненного поля.
//
// errors.Is(err, ErrMissingField) возвращает true.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field: %s", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// MissingField создаёт ошибку MissingFieldError для поля field.
func MissingField(field string) error {
	return &MissingFieldError{Field: field}
}

// Storage оборачивает причину в ErrStorageUnavailable,
// сохраняя cause для логов.
func Storage(cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, cause)
}

var coded = []error{
	ErrMissingField, ErrPasswordMismatch, ErrDuplicateEmail, ErrUserNotFound,
	ErrInvalidCredentials, ErrUnauthenticated, ErrInvalidToken, ErrStorageUnavailable,
	ErrTokenIssuance,
}

// Code возвращает машинный код ошибки для ответа API: текст первого
// совпавшего sentinel в snake_case (ErrInvalidToken -> "invalid_token").
// Для ошибок вне списка — "internal".
func Code(err error) string {
	for _, s := range coded {
		if errors.Is(err, s) {
			return strings.ReplaceAll(s.Error(), " ", "_")
		}
	}
	return "internal"
}
