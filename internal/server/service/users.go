package service

import (
	"context"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
)

// UsersService — чтение профиля пользователя (защищённый GET /user/{id}).
type UsersService struct {
	users UsersRepo
}

func NewUsersService(users UsersRepo) *UsersService {
	return &UsersService{users: users}
}

// GetByID возвращает пользователя без хэша пароля.
// Некорректный или неизвестный id — serr.ErrUserNotFound.
func (s *UsersService) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}
