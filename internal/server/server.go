// Пакет server — HTTP-сервер Listings Module с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propidesk/listings-module/internal/api/handlers"
	"github.com/propidesk/listings-module/internal/api/middleware"
	"github.com/propidesk/listings-module/internal/config"
	"github.com/propidesk/listings-module/internal/domain/rbac"
)

// Server — HTTP-сервер Listings Module.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// jwtAuth — JWT middleware (может быть nil для тестирования без auth;
// админские маршруты тогда открыты).
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.APIHandler, jwtAuth *middleware.JWTAuth) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Health и metrics проверяются Kubernetes напрямую, без auth.
	router.Get("/health/live", handler.HealthLive)
	router.Get("/health/ready", handler.HealthReady)
	router.Get("/metrics", handler.GetMetrics)

	router.Route("/api/v1", func(r chi.Router) {
		// Публичная витрина
		r.Get("/properties", handler.ListProperties)
		r.Get("/properties/{id}", handler.GetProperty)
		r.Get("/blog", handler.ListBlogPosts)
		r.Get("/blog/{id}", handler.GetBlogPost)
		r.Get("/testimonials", handler.ListTestimonials)
		r.Get("/agents", handler.ListAgents)
		r.Post("/contact", handler.SubmitLead)

		// Админка: JWT session issuer + RBAC
		r.Route("/admin", func(ar chi.Router) {
			if jwtAuth != nil {
				ar.Use(jwtAuth.Middleware())

				// Чтение: admin или readonly
				ar.Group(func(rr chi.Router) {
					rr.Use(middleware.RequireRole(rbac.RoleAdmin, rbac.RoleReadonly))
					rr.Get("/properties", handler.ListAdminProperties)
					rr.Get("/blog", handler.ListAdminBlogPosts)
					rr.Get("/leads", handler.ListLeads)
				})

				// Мутации: только admin
				ar.Group(func(wr chi.Router) {
					wr.Use(middleware.RequireAdmin())
					registerAdminWrites(wr, handler)
				})
				return
			}

			ar.Get("/properties", handler.ListAdminProperties)
			ar.Get("/blog", handler.ListAdminBlogPosts)
			ar.Get("/leads", handler.ListLeads)
			registerAdminWrites(ar, handler)
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// registerAdminWrites регистрирует мутирующие админские маршруты.
func registerAdminWrites(r chi.Router, handler *handlers.APIHandler) {
	r.Post("/properties", handler.CreateProperty)
	r.Put("/properties/{id}", handler.UpdateProperty)
	r.Delete("/properties/{id}", handler.DeleteProperty)
	r.Post("/properties/{id}/images", handler.AddPropertyImage)
	r.Delete("/properties/{id}/images/{key}", handler.RemovePropertyImage)

	r.Post("/blog", handler.CreateBlogPost)
	r.Put("/blog/{id}", handler.UpdateBlogPost)
	r.Delete("/blog/{id}", handler.DeleteBlogPost)

	r.Post("/testimonials", handler.CreateTestimonial)
	r.Delete("/testimonials/{id}", handler.DeleteTestimonial)

	r.Post("/agents", handler.CreateAgent)
	r.Put("/agents/{id}", handler.UpdateAgent)
	r.Delete("/agents/{id}", handler.DeleteAgent)
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
