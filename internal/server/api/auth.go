// HTTP-хендлеры регистрации и логина
package api

import (
	"encoding/json"
	"net/http"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// Register обрабатывает регистрацию пользователя.
//
// Ответы:
//   - 201 Created: регистрация успешна;
//   - 400 Bad Request: неверный JSON;
//   - 422 Unprocessable Entity: не заполнено поле, пароли не совпадают, email занят;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary  Register user
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body     models.RegisterRequest true "registration data"
// @Success  201  {object} models.MessageResponse
// @Failure  400  {object} models.ErrorResponse
// @Failure  422  {object} models.ErrorResponse
// @Failure  500  {object} models.ErrorResponse
// @Router   /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Malformed JSON body", serr.ErrBadJSON.Error())
		return
	}

	err := h.Svc.Auth.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.Confirmation(),
	})
	h.Metrics.Auth("register", outcome(err))
	if err != nil {
		h.writeServiceError(w, "register", err, http.StatusUnprocessableEntity)
		return
	}

	WriteJSON(w, http.StatusCreated, models.MessageResponse{Msg: "User created successfully!"})
}

// Login обрабатывает вход пользователя и выдачу access-токена.
//
// Ответы:
//   - 200 OK: успешный вход;
//   - 400 Bad Request: неверный JSON;
//   - 422 Unprocessable Entity: не заполнено поле, пользователь не найден, неверный пароль;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary  Login
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body     models.LoginRequest true "credentials"
// @Success  200  {object} models.LoginResponse
// @Failure  400  {object} models.ErrorResponse
// @Failure  422  {object} models.ErrorResponse
// @Failure  500  {object} models.ErrorResponse
// @Router   /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Malformed JSON body", serr.ErrBadJSON.Error())
		return
	}

	token, err := h.Svc.Auth.Login(r.Context(), req.Email, req.Password)
	h.Metrics.Auth("login", outcome(err))
	if err != nil {
		h.writeServiceError(w, "login", err, http.StatusUnprocessableEntity)
		return
	}

	WriteJSON(w, http.StatusOK, models.LoginResponse{
		Msg:   "Authentication successful!",
		Token: token,
	})
}
