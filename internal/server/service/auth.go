package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
)

// AuthService реализует регистрацию и вход пользователей.
//
// Ответственность:
//   - валидация входных данных
//   - хэширование пароля
//   - проверка пароля и выпуск access-токена
type AuthService struct {
	users  UsersRepo
	hasher crypto.Hasher
	jwt    crypto.JWTConfig
}

// RegisterInput — данные для регистрации.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, cfg *config.Config) (*AuthService, error) {
	hasher, err := crypto.NewHasher(cfg.Password.Hasher, cfg.Password.Bcrypt.Cost, crypto.Argon2Params{
		Time:      cfg.Password.Argon2.Time,
		MemoryKiB: cfg.Password.Argon2.MemoryKiB,
		Threads:   cfg.Password.Argon2.Threads,
		KeyLen:    cfg.Password.Argon2.KeyLen,
		SaltLen:   cfg.Password.Argon2.SaltLen,
	})
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:  users,
		hasher: hasher,
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.Secret,
			AccessTTL:  cfg.Auth.AccessTTL,
		},
	}, nil
}

// JWT возвращает параметры токена (их же использует middleware для проверки).
func (s *AuthService) JWT() crypto.JWTConfig {
	return s.jwt
}

type check func(in RegisterInput) error

// registerChecks выполняются по порядку, возвращается первая ошибка.
var registerChecks = []check{
	func(in RegisterInput) error { return required("name", in.Name) },
	func(in RegisterInput) error { return required("email", in.Email) },
	func(in RegisterInput) error { return required("password", in.Password) },
	func(in RegisterInput) error {
		if in.Password != in.ConfirmPassword {
			return serr.ErrPasswordMismatch
		}
		return nil
	},
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return serr.MissingField(field)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register регистрирует нового пользователя.
//
// Ошибки:
//   - MissingFieldError (name, email, password), ErrPasswordMismatch
//   - ErrDuplicateEmail, если email уже зарегистрирован
//   - ErrStorageUnavailable
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	for _, c := range registerChecks {
		if err := c(in); err != nil {
			return err
		}
	}

	email := normalizeEmail(in.Email)

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return serr.ErrDuplicateEmail
	case !errors.Is(err, serr.ErrUserNotFound):
		return err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return serr.Storage(fmt.Errorf("hash password: %w", err))
	}

	// уникальный индекс в БД ловит гонку двух одновременных регистраций
	_, err = s.users.Create(ctx, &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
	})
	return err
}

// Login проверяет email и пароль и выдаёт access-токен (sub = id пользователя).
//
// Ошибки:
//   - MissingFieldError (email, password)
//   - ErrUserNotFound, ErrInvalidCredentials
//   - ErrStorageUnavailable, ErrTokenIssuance
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if err := required("email", email); err != nil {
		return "", err
	}
	if err := required("password", password); err != nil {
		return "", err
	}

	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return "", serr.Storage(fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return "", serr.ErrInvalidCredentials
	}

	token, err := crypto.NewAccessToken(u.ID, s.jwt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", serr.ErrTokenIssuance, err)
	}
	return token, nil
}
