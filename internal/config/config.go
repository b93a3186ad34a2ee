// Пакет config — загрузка и валидация конфигурации Listings Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Listings Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Session issuer (внешний провайдер аутентификации) ---

	// Базовый URL провайдера (например, https://xyzcompany.supabase.co)
	AuthURL string
	// Анонимный ключ доступа (публичный ключ, которым ходит фронтенд)
	AuthAnonKey string
	// Issuer JWT (авто-вычисляется из AuthURL, если не задан)
	AuthIssuer string
	// URL JWKS endpoint (авто-вычисляется из AuthURL, если не задан)
	AuthJWKSURL string
	// Интервал обновления JWKS-ключей
	JWKSRefreshInterval time.Duration
	// Таймаут HTTP-клиента JWKS
	JWKSClientTimeout time.Duration
	// Допустимое отклонение времени при проверке JWT
	JWTLeeway time.Duration
	// Таймаут readiness-проверки провайдера
	AuthReadinessTimeout time.Duration

	// --- Маппинг групп → ролей ---

	// Группы провайдера, дающие роль admin (через запятую)
	RoleAdminGroups []string
	// Группы провайдера, дающие роль readonly (через запятую)
	RoleReadonlyGroups []string

	// --- Контактная воронка ---

	// Номер WhatsApp в международном формате без знаков (5215512345678)
	ContactWhatsApp string
	// Адрес электронной почты для обращений
	ContactEmail string

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// LM_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("LM_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("LM_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("LM_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// LM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("LM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LM_LOG_LEVEL: %w", err)
	}

	// LM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("LM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// LM_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("LM_DB_HOST")
	if err != nil {
		return nil, err
	}

	// LM_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("LM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("LM_DB_PORT: %w", err)
	}

	// LM_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("LM_DB_NAME")
	if err != nil {
		return nil, err
	}

	// LM_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("LM_DB_USER")
	if err != nil {
		return nil, err
	}

	// LM_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("LM_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// LM_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("LM_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("LM_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Session issuer ---

	// LM_AUTH_URL — обязательный
	cfg.AuthURL, err = getEnvRequired("LM_AUTH_URL")
	if err != nil {
		return nil, err
	}
	// Убираем trailing slash
	cfg.AuthURL = strings.TrimRight(cfg.AuthURL, "/")

	// LM_AUTH_ANON_KEY — обязательный
	cfg.AuthAnonKey, err = getEnvRequired("LM_AUTH_ANON_KEY")
	if err != nil {
		return nil, err
	}

	// LM_AUTH_ISSUER — авто-вычисляется из AuthURL, если не задан
	cfg.AuthIssuer = getEnvDefault("LM_AUTH_ISSUER",
		fmt.Sprintf("%s/auth/v1", cfg.AuthURL))

	// LM_AUTH_JWKS_URL — авто-вычисляется из AuthURL, если не задан
	cfg.AuthJWKSURL = getEnvDefault("LM_AUTH_JWKS_URL",
		fmt.Sprintf("%s/auth/v1/.well-known/jwks.json", cfg.AuthURL))

	// LM_JWKS_REFRESH_INTERVAL — интервал обновления JWKS-ключей (по умолчанию 1h)
	cfg.JWKSRefreshInterval, err = getEnvDuration("LM_JWKS_REFRESH_INTERVAL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("LM_JWKS_REFRESH_INTERVAL: %w", err)
	}

	// LM_JWKS_CLIENT_TIMEOUT — таймаут HTTP-клиента JWKS (по умолчанию 10s)
	cfg.JWKSClientTimeout, err = getEnvDuration("LM_JWKS_CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LM_JWKS_CLIENT_TIMEOUT: %w", err)
	}

	// LM_JWT_LEEWAY — допустимое отклонение времени JWT (по умолчанию 30s)
	cfg.JWTLeeway, err = getEnvDuration("LM_JWT_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LM_JWT_LEEWAY: %w", err)
	}

	// LM_AUTH_READINESS_TIMEOUT — таймаут readiness-проверки (по умолчанию 5s)
	cfg.AuthReadinessTimeout, err = getEnvDuration("LM_AUTH_READINESS_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LM_AUTH_READINESS_TIMEOUT: %w", err)
	}

	// --- Маппинг групп → ролей ---

	// LM_ROLE_ADMIN_GROUPS — группы для роли admin (по умолчанию "propidesk-admins")
	cfg.RoleAdminGroups = parseCSV(getEnvDefault("LM_ROLE_ADMIN_GROUPS", "propidesk-admins"))

	// LM_ROLE_READONLY_GROUPS — группы для роли readonly (по умолчанию "propidesk-viewers")
	cfg.RoleReadonlyGroups = parseCSV(getEnvDefault("LM_ROLE_READONLY_GROUPS", "propidesk-viewers"))

	// --- Контактная воронка ---

	// LM_CONTACT_WHATSAPP — номер WhatsApp (опционально)
	cfg.ContactWhatsApp = getEnvDefault("LM_CONTACT_WHATSAPP", "")

	// LM_CONTACT_EMAIL — почта для обращений (опционально)
	cfg.ContactEmail = getEnvDefault("LM_CONTACT_EMAIL", "")

	// --- Graceful shutdown ---

	// LM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("LM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
