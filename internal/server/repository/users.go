// Package repository содержит реализации хранилища пользователей (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors:
// ErrUserNotFound, ErrDuplicateEmail или ErrStorageUnavailable с исходной причиной.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
)

// pgUniqueViolation — код ошибки postgres unique_violation.
const pgUniqueViolation = "23505"

// UsersRepository — хранилище пользователей в PostgreSQL.
type UsersRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewUsersRepository создаёт UsersRepository.
// queryTimeout ограничивает каждый запрос (0 — без ограничения).
func NewUsersRepository(db *sql.DB, queryTimeout time.Duration) *UsersRepository {
	return &UsersRepository{db: db, timeout: queryTimeout}
}

// Create сохраняет пользователя и возвращает сгенерированный id.
// Нарушение уникальности email возвращается как ErrDuplicateEmail.
func (r *UsersRepository) Create(ctx context.Context, u *models.User) (string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var (
		id        uuid.UUID
		createdAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1,$2,$3)
		 RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash,
	).Scan(&id, &createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", serr.ErrDuplicateEmail
		}
		return "", serr.Storage(err)
	}

	u.ID = id.String()
	u.CreatedAt = createdAt
	return u.ID, nil
}

// GetByEmail возвращает пользователя вместе с хэшем пароля (нужен для логина).
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var (
		u  models.User
		id uuid.UUID
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email=$1`,
		email,
	).Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serr.ErrUserNotFound
		}
		return nil, serr.Storage(err)
	}

	u.ID = id.String()
	return &u, nil
}

// GetByID возвращает пользователя без хэша пароля: колонка password_hash не выбирается.
// id, который не является UUID, не может существовать и даёт ErrUserNotFound.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, serr.ErrUserNotFound
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var u models.User
	err = r.db.QueryRowContext(ctx,
		`SELECT name, email, created_at FROM users WHERE id=$1`,
		uid,
	).Scan(&u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serr.ErrUserNotFound
		}
		return nil, serr.Storage(err)
	}

	u.ID = uid.String()
	return &u, nil
}

// Ping проверяет доступность БД (health-check).
func (r *UsersRepository) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return serr.Storage(err)
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
