package models

// Плоские модели HTTP API, общие для сервера и CLI-клиента.

// RegisterRequest — тело запроса POST /auth/register.
//
// ConfirmPasswordLegacy принимает написание "confirmpassword",
// которое использовали первые клиенты сервиса.
type RegisterRequest struct {
	Name                  string `json:"name"`
	Email                 string `json:"email"`
	Password              string `json:"password"`
	ConfirmPassword       string `json:"confirmPassword"`
	ConfirmPasswordLegacy string `json:"confirmpassword,omitempty"`
}

// Confirmation возвращает подтверждение пароля с учётом старого написания поля.
func (r RegisterRequest) Confirmation() string {
	if r.ConfirmPassword == "" {
		return r.ConfirmPasswordLegacy
	}
	return r.ConfirmPassword
}

// LoginRequest — тело запроса POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse — успешный ответ POST /auth/login.
type LoginResponse struct {
	Msg   string `json:"msg"`
	Token string `json:"token"`
}

// MessageResponse — ответ, состоящий только из сообщения.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// ErrorResponse — ответ с ошибкой.
//
// Msg — сообщение для человека, Error — машинный код ошибки
// (missing_field, duplicate_email, ...), Field — имя поля для missing_field.
type ErrorResponse struct {
	Msg   string `json:"msg"`
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// UserResponse — публичное представление пользователя (без хэша пароля).
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
