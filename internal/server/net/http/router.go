// Package http реализует маршрутизацию HTTP-слоя сервера AuthKeeper.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование и метрики выполнения HTTP-запросов;
//   - проверку JWT access-токенов для защищённых маршрутов.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/api"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/middleware"
)

// Options — необязательные настройки роутера.
type Options struct {
	// MetricsPath — путь для Prometheus; пустая строка отключает эндпоинт.
	MetricsPath string
	// MaxBodyBytes — ограничение тела запроса; 0 — без ограничения.
	MaxBodyBytes int64
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - middleware логирования (и метрик, если h.Metrics задан) для всех запросов;
//   - публичные эндпоинты: /, /healthz, /swagger/*, /auth/register, /auth/login;
//   - группу защищённых JWT эндпоинтов: GET /user/{id}.
func NewRouter(h *api.Handler, opts Options) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))
	if h.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(h.Metrics))
	}
	r.Use(middleware.MaxBytes(opts.MaxBodyBytes))

	r.Get("/", h.Home)
	r.Get("/healthz", h.Health)
	if h.Metrics != nil && opts.MetricsPath != "" {
		r.Method(http.MethodGet, opts.MetricsPath, h.Metrics.Handler())
	}

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	// Публичные пути
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})
	// защищены пути
	r.Group(func(r chi.Router) {
		// проверка access токена
		r.Use(h.Verifier.AuthMiddleware())
		r.Get("/user/{id}", h.GetUser)
	})

	return r
}
