package repository_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
)

func TestMemoryUsersRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUsersRepository()

	u := &models.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "hash"}
	id, err := repo.Create(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.False(t, u.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	require.Equal(t, id, byEmail.ID)
	require.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Ana", byID.Name)
	require.Empty(t, byID.PasswordHash)

	// изменение возвращённой копии не влияет на хранилище
	byEmail.PasswordHash = "changed"
	again, err := repo.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	require.Equal(t, "hash", again.PasswordHash)
}

func TestMemoryUsersRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUsersRepository()

	_, err := repo.GetByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, serr.ErrUserNotFound)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, serr.ErrUserNotFound)
}

func TestMemoryUsersRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repository.NewMemoryUsersRepository().GetByEmail(ctx, "ana@x.com")
	require.ErrorIs(t, err, serr.ErrStorageUnavailable)
}

// конкурентная регистрация одного email создаёт ровно одну запись
func TestMemoryUsersRepository_ConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUsersRepository()

	var (
		wg         sync.WaitGroup
		created    atomic.Int32
		duplicates atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, &models.User{Name: fmt.Sprintf("u%d", i), Email: "same@x.com", PasswordHash: "h"})
			switch {
			case err == nil:
				created.Add(1)
			case err == serr.ErrDuplicateEmail:
				duplicates.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 1, created.Load())
	require.EqualValues(t, 19, duplicates.Load())
	require.Equal(t, 1, repo.Len())
}
