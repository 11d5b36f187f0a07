package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// GetUser возвращает профиль пользователя по id (маршрут защищён AuthMiddleware).
//
// Любой аутентифицированный пользователь может прочитать любой профиль.
//
// @Summary  Get user
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    id  path     string true "user id"
// @Success  200 {object} models.UserResponse
// @Failure  401 {object} models.ErrorResponse
// @Failure  403 {object} models.ErrorResponse
// @Failure  404 {object} models.ErrorResponse
// @Failure  500 {object} models.ErrorResponse
// @Router   /user/{id} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.Svc.Users.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "get user", err, http.StatusNotFound)
		return
	}

	WriteJSON(w, http.StatusOK, models.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email})
}
