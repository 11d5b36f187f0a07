package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// OpenPostgres открывает подключение к PostgreSQL по DSN, проверяет его доступность
// и, если включено, применяет миграции из migrations.Path.
//
// Возвращённый *sql.DB принадлежит вызывающему: его закрывает cmd/server.
// Если миграции уже применены, migrate.ErrNoChange не считается ошибкой.
func OpenPostgres(ctx context.Context, dsn string, migrations MigrationsConfig, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if !migrations.Enabled {
		return db, nil
	}

	if err := runMigrations(db, migrations.Path); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("migrations applied successfully", zap.String("path", migrations.Path))

	return db, nil
}

func runMigrations(db *sql.DB, path string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(path, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
