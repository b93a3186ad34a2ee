// Точка входа Listings Module — backend каталога недвижимости Propidesk.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// создаёт сервисный слой и API handlers, запускает HTTP-сервер
// с JWT middleware и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/propidesk/listings-module/internal/api/handlers"
	"github.com/propidesk/listings-module/internal/api/middleware"
	"github.com/propidesk/listings-module/internal/config"
	"github.com/propidesk/listings-module/internal/database"
	"github.com/propidesk/listings-module/internal/repository"
	"github.com/propidesk/listings-module/internal/server"
	"github.com/propidesk/listings-module/internal/service"
)

func main() {
	// 1. Загрузка .env (для локальной разработки; в кластере файла нет)
	_ = godotenv.Load()

	// 2. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 3. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Listings Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if cfg.ContactWhatsApp == "" && cfg.ContactEmail == "" {
		logger.Warn("LM_CONTACT_WHATSAPP и LM_CONTACT_EMAIL не заданы, контактные ссылки отключены")
	}

	// 4. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 6. Repositories
	propRepo := repository.NewPropertyRepository(pool)
	assetsRepo := repository.NewPropertyAssetsRepository(pool)
	blogRepo := repository.NewBlogPostRepository(pool)
	tmRepo := repository.NewTestimonialRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	leadRepo := repository.NewContactLeadRepository(pool)

	// 7. Services
	catalogSvc := service.NewCatalogService(propRepo, assetsRepo, logger)
	propertySvc := service.NewPropertyService(propRepo, assetsRepo, logger)
	contentSvc := service.NewContentService(blogRepo, tmRepo, agentRepo, logger)
	contactSvc := service.NewContactService(leadRepo, cfg.ContactWhatsApp, cfg.ContactEmail, logger)

	// 8. Readiness checkers (PostgreSQL + session issuer)
	pgChecker := database.NewReadinessChecker(pool)
	authChecker := middleware.NewAuthReadinessChecker(cfg.AuthJWKSURL, cfg.AuthAnonKey, cfg.AuthReadinessTimeout)
	healthHandler := handlers.NewHealthHandler(pgChecker, authChecker)

	// 9. API handler
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		catalogSvc,
		propertySvc,
		contentSvc,
		contactSvc,
		logger,
	)

	// 10. JWT middleware
	jwtAuth, err := middleware.NewJWTAuth(
		cfg.AuthJWKSURL,
		cfg.AuthIssuer,
		cfg.RoleAdminGroups,
		cfg.RoleReadonlyGroups,
		cfg.JWKSClientTimeout,
		cfg.JWKSRefreshInterval,
		cfg.JWTLeeway,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("JWT middleware инициализирован",
		slog.String("jwks_url", cfg.AuthJWKSURL),
		slog.String("issuer", cfg.AuthIssuer),
	)

	// 11. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, jwtAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Listings Module остановлен")
}
