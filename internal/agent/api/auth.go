// В этом файле описаны методы клиента для работы
// с эндпоинтами аутентификации и профиля пользователя.
package api

import (
	"net/url"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// Register выполняет регистрацию пользователя на сервере.
//
// Метод отправляет POST запрос на /auth/register и возвращает сообщение сервера.
// В случае ошибки возвращает непустую ошибку (обычно *APIError) и пустой ответ.
func (c *Client) Register(req models.RegisterRequest) (models.MessageResponse, error) {
	var resp models.MessageResponse
	err := c.PostJSON("/auth/register", req, &resp, "")
	return resp, err
}

// Login выполняет вход пользователя и получает access токен.
//
// Метод отправляет POST запрос на /auth/login и возвращает LoginResponse.
func (c *Client) Login(email, password string) (models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.PostJSON("/auth/login", models.LoginRequest{Email: email, Password: password}, &resp, "")
	return resp, err
}

// GetUser запрашивает профиль пользователя по id.
//
// Метод отправляет GET запрос на /user/{id} и использует accessToken для авторизации.
func (c *Client) GetUser(id, accessToken string) (models.UserResponse, error) {
	var resp models.UserResponse
	err := c.GetJSON("/user/"+url.PathEscape(id), &resp, accessToken)
	return resp, err
}
