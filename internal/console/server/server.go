package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xela07ax/threatintel-console/internal/console/handler"
	"github.com/xela07ax/threatintel-console/internal/infra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Обработчики событий страницы
	uiHandler *handler.UIHandler

	// Ограничитель событий оператора (клики, формы)
	limiter *rate.Limiter

	// без него /metrics не публикуется
	gatherer prometheus.Gatherer
}

// NewConsoleServer инициализирует сервер консоли со всеми зависимостями
func NewConsoleServer(
	cfg *infra.Config,
	logger *zap.Logger,
	uiH *handler.UIHandler,
	gatherer prometheus.Gatherer,
) *ConsoleServer {
	s := &ConsoleServer{
		router:    chi.NewRouter(),
		logger:    logger.Named("console-http"),
		cfg:       cfg,
		uiHandler: uiH,
		limiter:   rate.NewLimiter(rate.Limit(cfg.Console.EventsPerSecond), cfg.Console.EventBurst),
		gatherer:  gatherer,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(s.logger))
	r.Use(middleware.Recoverer)

	// --- 2. Оболочка страницы и служебные роуты ---
	r.Group(func(r chi.Router) {
		r.Get("/", s.serveShell)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		if s.cfg.Metrics.Enabled && s.gatherer != nil {
			r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
		}
	})

	// --- 3. Документ и события оператора ---
	r.Route("/ui", func(r chi.Router) {
		// Опрос документа не ограничиваем: оболочка ходит сюда по таймеру
		r.Get("/document", s.uiHandler.GetDocument)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.limiter, s.logger))

			// Сессия
			r.Post("/login", s.uiHandler.Login)
			r.Post("/logout", s.uiHandler.Logout)
			r.Post("/refresh", s.uiHandler.Refresh)
			r.Post("/tabs/{tab}", s.uiHandler.SwitchTab)

			// Клиенты
			r.Route("/customers/{email}", func(r chi.Router) {
				r.Post("/deactivate", s.uiHandler.DeactivateCustomer())
				r.Post("/rotate-key", s.uiHandler.RotateKey())
				r.Delete("/", s.uiHandler.DeleteCustomer())
			})

			// Тестовые ключи
			r.Post("/test-keys", s.uiHandler.CreateTestKey)
			r.Delete("/test-keys/{email}", s.uiHandler.DeleteTestKey())

			r.Post("/copy/{target}", s.uiHandler.Copy)
		})
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
