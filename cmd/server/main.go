// @title           AuthKeeper API
// @version         1.0
// @description     Minimal authentication service.
// @description     Provides registration, login with JWT and a protected user lookup.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа серверного приложения AuthKeeper.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера (флаг -config, CONFIG_PATH или ./configs/server.yaml);
//   - подключение к хранилищу пользователей (mongo, postgres или memory) и его закрытие;
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - запуск HTTP-сервера (или HTTPS, если включён TLS) с заданными таймаутами;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/api"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/config"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/metrics"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-authkeeper/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/repository"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/service"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-authkeeper/swagger/docs"
)

const defaultConfigPath = "./configs/server.yaml"

func main() {
	configPath := flag.String("config", "", "path to server.yaml (default $CONFIG_PATH or "+defaultConfigPath+")")
	flag.Parse()

	// до загрузки конфига пишем в консоль
	boot := zap.Must(zap.NewDevelopment()).Sugar()

	if err := godotenv.Load(); err != nil {
		boot.Warnf("no .env file loaded, error: %v", err)
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		boot.Fatal(err)
	}

	httpLogger := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Console: cfg.Log.Console,
	})
	defer httpLogger.Sync()
	sugar := httpLogger.Sugar()

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// подключаем хранилище
	users, closeStore, err := openStore(ctx, cfg, httpLogger.Logger)
	if err != nil {
		sugar.Fatal(err)
	}
	// делаем отложенное закрытие бд
	defer closeStore()

	repos := service.Repositories{
		Users:  users,
		Health: users,
	}
	// создаём сервис
	svc, err := service.NewServices(repos, cfg)
	if err != nil {
		sugar.Fatal(err)
	}

	var m *metrics.Metrics
	if cfg.Observability.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.NewMetrics(reg)
	}

	// создаём jwt
	verifier := middleware.NewJWTVerifier(
		cfg.Auth.Secret,
		cfg.Auth.Issuer,
		cfg.Auth.Audience,
	)
	verifier.Metrics = m
	// создаём хандлер
	handler := api.NewHandler(svc, httpLogger, verifier, m)
	// создаём роутер
	router := h.NewRouter(handler, h.Options{
		MetricsPath:  cfg.Observability.Metrics.Path,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})
	//создаём сервер
	addr := cfg.Server.Addr()

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infof("server started on %s (db driver: %s, tls: %t)", addr, cfg.DB.Driver, cfg.TLS.Enabled)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единная обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Errorf("server stopped with error: %v", err)
		return
	}
	sugar.Info("server gracefully stopped")
}

// userStore — то, что main берёт от любого драйвера хранилища.
type userStore interface {
	service.UsersRepo
	service.HealthRepo
}

// openStore подключает хранилище, выбранное в db.driver.
// Возвращает функцию закрытия соединения.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (userStore, func(), error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		client, coll, err := config.OpenMongo(ctx, cfg.DB, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn("mongo disconnect failed", zap.Error(err))
			}
		}
		return repository.NewMongoUsersRepository(coll, cfg.DB.QueryTimeout), closeFn, nil

	case config.DriverPostgres:
		db, err := config.OpenPostgres(ctx, cfg.DB.DSN, cfg.Migrations, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := db.Close(); err != nil {
				log.Warn("postgres close failed", zap.Error(err))
			}
		}
		return repository.NewUsersRepository(db, cfg.DB.QueryTimeout), closeFn, nil

	case config.DriverMemory:
		log.Warn("using in-memory user store, data is lost on restart")
		return repository.NewMemoryUsersRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown db driver %q", cfg.DB.Driver)
	}
}
