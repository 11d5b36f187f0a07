package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
)

// MemoryUsersRepository — хранилище пользователей в памяти процесса.
// Используется для локальной разработки (db.driver=memory) и тестов.
type MemoryUsersRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

func NewMemoryUsersRepository() *MemoryUsersRepository {
	return &MemoryUsersRepository{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

// Create сохраняет копию пользователя. Проверка уникальности и вставка
// выполняются под одной блокировкой.
func (r *MemoryUsersRepository) Create(ctx context.Context, u *models.User) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", serr.Storage(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return "", serr.ErrDuplicateEmail
	}

	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()

	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return u.ID, nil
}

func (r *MemoryUsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, serr.Storage(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, serr.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

// GetByID возвращает копию пользователя с пустым PasswordHash.
func (r *MemoryUsersRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, serr.Storage(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, serr.ErrUserNotFound
	}
	u.PasswordHash = ""
	return &u, nil
}

func (r *MemoryUsersRepository) Ping(ctx context.Context) error {
	return nil
}

// Len возвращает количество пользователей.
func (r *MemoryUsersRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
