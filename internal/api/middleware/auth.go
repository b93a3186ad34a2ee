// auth.go — JWT middleware для аутентификации и авторизации админ-панели.
// Извлекает claims из JWT session issuer (Supabase/GoTrue), маппит группы
// из app_metadata в роли и помещает результат в контекст запроса.
// Подпись валидируется через JWKS endpoint провайдера.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/propidesk/listings-module/internal/api/errors"
	"github.com/propidesk/listings-module/internal/domain/rbac"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyClaims — полные извлечённые claims в контексте запроса.
	ContextKeyClaims contextKey = "jwt_claims"
)

// AuthClaims — извлечённые и обработанные claims из JWT session issuer.
// Помещаются в контекст запроса для downstream handlers.
type AuthClaims struct {
	// Subject — sub из JWT (user ID провайдера).
	Subject string
	// Email — email из JWT.
	Email string
	// Groups — группы из app_metadata.groups.
	Groups []string
	// Role — роль, вычисленная из групп (admin, readonly, "").
	Role string
}

// HasAnyRole проверяет, совпадает ли роль с одной из указанных.
func (c *AuthClaims) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// issuerClaims — raw claims из JWT session issuer для парсинга.
// GoTrue кладёт произвольные атрибуты пользователя в app_metadata.
type issuerClaims struct {
	jwt.RegisteredClaims
	// Email — электронная почта.
	Email string `json:"email"`
	// Role — роль уровня провайдера (authenticated, anon). Не наша RBAC-роль.
	Role string `json:"role,omitempty"`
	// AppMetadata — серверные атрибуты пользователя.
	AppMetadata *appMetadata `json:"app_metadata,omitempty"`
}

// appMetadata — вложенная структура app_metadata в JWT GoTrue.
type appMetadata struct {
	// Groups — группы пользователя, назначенные администратором провайдера.
	Groups []string `json:"groups,omitempty"`
	// Role — явная роль в app_metadata (альтернатива группам).
	Role string `json:"role,omitempty"`
}

// JWTAuth — middleware для JWT-аутентификации через JWKS session issuer.
type JWTAuth struct {
	jwks           keyfunc.Keyfunc
	logger         *slog.Logger
	adminGroups    []string
	readonlyGroups []string
	issuer         string
	jwtLeeway      time.Duration
}

// NewJWTAuth создаёт JWT middleware с JWKS от session issuer.
// jwksURL — URL к JWKS endpoint провайдера (LM_AUTH_JWKS_URL).
// issuer — ожидаемый issuer JWT (обычно https://<project>.supabase.co/auth/v1).
// adminGroups, readonlyGroups — группы для маппинга в роли.
// jwksClientTimeout — таймаут HTTP-клиента JWKS (LM_JWKS_CLIENT_TIMEOUT).
// jwksRefreshInterval — интервал обновления JWKS-ключей (LM_JWKS_REFRESH_INTERVAL).
// jwtLeeway — допустимое отклонение времени при проверке JWT (LM_JWT_LEEWAY).
func NewJWTAuth(
	jwksURL string,
	issuer string,
	adminGroups, readonlyGroups []string,
	jwksClientTimeout time.Duration,
	jwksRefreshInterval time.Duration,
	jwtLeeway time.Duration,
	logger *slog.Logger,
) (*JWTAuth, error) {
	// JWKS Storage с фоновым обновлением.
	// NoErrorReturnFirstHTTPReq — стартуем даже если провайдер ещё недоступен.
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: jwksClientTimeout},
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           jwksRefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("создание JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{
		Storage: storage,
	})
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}

	return &JWTAuth{
		jwks:           k,
		logger:         logger.With(slog.String("component", "jwt_auth")),
		adminGroups:    adminGroups,
		readonlyGroups: readonlyGroups,
		issuer:         issuer,
		jwtLeeway:      jwtLeeway,
	}, nil
}

// NewJWTAuthWithKeyfunc создаёт JWT middleware с предоставленной keyfunc.
// Используется в тестах для подстановки mock JWKS.
func NewJWTAuthWithKeyfunc(
	kf keyfunc.Keyfunc,
	issuer string,
	adminGroups, readonlyGroups []string,
	logger *slog.Logger,
) *JWTAuth {
	return &JWTAuth{
		jwks:           kf,
		logger:         logger.With(slog.String("component", "jwt_auth")),
		adminGroups:    adminGroups,
		readonlyGroups: readonlyGroups,
		issuer:         issuer,
	}
}

// Middleware возвращает HTTP middleware для JWT-аутентификации.
// Извлекает Bearer token, валидирует подпись, извлекает claims,
// вычисляет роль и помещает в контекст.
func (j *JWTAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем Bearer token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Отсутствует заголовок Authorization")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Unauthorized(w, "Неверный формат Authorization: ожидается Bearer <token>")
				return
			}

			tokenString := parts[1]
			if tokenString == "" {
				apierrors.Unauthorized(w, "Пустой Bearer token")
				return
			}

			// Парсинг и валидация JWT через JWKS.
			// GoTrue подписывает токены RS256 или ES256 (JWT signing keys).
			rawClaims := &issuerClaims{}
			parserOpts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{"RS256", "ES256"}),
				jwt.WithExpirationRequired(),
				jwt.WithLeeway(j.jwtLeeway),
			}
			if j.issuer != "" {
				parserOpts = append(parserOpts, jwt.WithIssuer(j.issuer))
			}

			token, err := jwt.ParseWithClaims(tokenString, rawClaims, j.jwks.KeyfuncCtx(r.Context()), parserOpts...)
			if err != nil {
				j.logger.Debug("JWT валидация не пройдена",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Unauthorized(w, "Невалидный или просроченный токен")
				return
			}

			if !token.Valid {
				apierrors.Unauthorized(w, "Невалидный токен")
				return
			}

			// Извлекаем sub
			subject, err := rawClaims.GetSubject()
			if err != nil || subject == "" {
				apierrors.Unauthorized(w, "Отсутствует sub в токене")
				return
			}

			// Формируем AuthClaims
			authClaims := j.buildAuthClaims(rawClaims)

			// Помещаем claims в контекст
			ctx := context.WithValue(r.Context(), ContextKeyClaims, authClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// buildAuthClaims формирует AuthClaims из raw claims session issuer.
// Роль вычисляется из групп app_metadata; при их отсутствии — из
// явной app_metadata.role, если она валидна.
func (j *JWTAuth) buildAuthClaims(raw *issuerClaims) *AuthClaims {
	claims := &AuthClaims{
		Subject: raw.Subject,
		Email:   raw.Email,
	}

	if raw.AppMetadata != nil {
		claims.Groups = raw.AppMetadata.Groups
	}

	// Маппинг групп → роль через RBAC
	claims.Role = rbac.MapGroupsToRole(claims.Groups, j.adminGroups, j.readonlyGroups)

	// Если роль не определена через группы, пробуем явную роль из app_metadata
	if claims.Role == "" && raw.AppMetadata != nil && rbac.IsValidRole(raw.AppMetadata.Role) {
		claims.Role = raw.AppMetadata.Role
	}

	return claims
}

// --- RBAC middleware helpers ---

// RequireRole возвращает middleware, требующий одну из указанных ролей.
// Должен использоваться ПОСЛЕ JWTAuth.Middleware().
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
				return
			}

			if !claims.HasAnyRole(roles...) {
				apierrors.Forbidden(w, fmt.Sprintf("Недостаточно прав: требуется роль %s", strings.Join(roles, " или ")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin возвращает middleware, пропускающий только роль admin.
// Все мутации каталога идут через него.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(rbac.RoleAdmin)
}

// --- Context helpers ---

// ClaimsFromContext извлекает AuthClaims из контекста запроса.
// Возвращает nil, если claims не найдены.
func ClaimsFromContext(ctx context.Context) *AuthClaims {
	claims, _ := ctx.Value(ContextKeyClaims).(*AuthClaims)
	return claims
}

// SubjectFromContext извлекает sub из контекста запроса.
// Возвращает пустую строку, если claims не найдены.
func SubjectFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.Subject
}

// RoleFromContext извлекает роль из контекста запроса.
// Возвращает пустую строку, если claims не найдены.
func RoleFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.Role
}

// --- ReadinessChecker для session issuer ---

// AuthReadinessChecker — проверка доступности session issuer через JWKS.
type AuthReadinessChecker struct {
	jwksURL string
	anonKey string
	client  *http.Client
}

// NewAuthReadinessChecker создаёт checker доступности session issuer.
// anonKey — публичный anon-ключ (LM_AUTH_ANON_KEY), GoTrue требует его
// в заголовке apikey даже для открытых endpoint-ов.
// readinessTimeout — таймаут проверки готовности (LM_AUTH_READINESS_TIMEOUT).
func NewAuthReadinessChecker(jwksURL, anonKey string, readinessTimeout time.Duration) *AuthReadinessChecker {
	return &AuthReadinessChecker{
		jwksURL: jwksURL,
		anonKey: anonKey,
		client:  &http.Client{Timeout: readinessTimeout},
	}
}

const statusFail = "fail"

// CheckReady проверяет доступность JWKS endpoint session issuer.
func (a *AuthReadinessChecker) CheckReady() (status, message string) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, a.jwksURL, http.NoBody)
	if err != nil {
		return statusFail, "ошибка создания запроса: " + err.Error()
	}
	if a.anonKey != "" {
		req.Header.Set("apikey", a.anonKey)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return statusFail, fmt.Sprintf("JWKS session issuer недоступен: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusFail, fmt.Sprintf("JWKS session issuer вернул статус %d", resp.StatusCode)
	}

	// Проверяем, что ответ — валидный JSON с ключами
	var jwksResp struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jwksResp); err != nil {
		return "degraded", fmt.Sprintf("JWKS session issuer: невалидный JSON: %v", err)
	}

	if len(jwksResp.Keys) == 0 {
		return "degraded", "JWKS session issuer: нет ключей"
	}

	return "ok", fmt.Sprintf("JWKS доступен, ключей: %d", len(jwksResp.Keys))
}
