// Package service содержит бизнес-логику приложения (authkeeper).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

import (
	"context"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_repos.go -package=mocks

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users  UsersRepo
	Health HealthRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth   *AuthService
	Users  *UsersService
	Health HealthRepo
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (хэширование пароля и параметры JWT).
func NewServices(repos Repositories, cfg *config.Config) (*Services, error) {
	auth, err := NewAuthService(repos.Users, cfg)
	if err != nil {
		return nil, err
	}
	return &Services{
		Auth:   auth,
		Users:  NewUsersService(repos.Users),
		Health: repos.Health,
	}, nil
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — репозиторий пользователей (register/login/GET /user/{id}).
//
// Create проставляет в u ID и CreatedAt.
// GetByEmail возвращает пользователя вместе с хэшем пароля,
// GetByID — без него.
// Отсутствие пользователя — serr.ErrUserNotFound.
type UsersRepo interface {
	Create(ctx context.Context, u *models.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
