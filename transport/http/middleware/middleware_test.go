package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cowork/config"
	"cowork/infras/jwt"
	jwtMocks "cowork/infras/jwt/mocks"
	"cowork/infras/otel/mocks"
	"cowork/permissions"
	cacheMocks "cowork/shared/cache/mocks"
	"cowork/shared/constant"
	"cowork/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var routePermissions = permissions.New(
	permissions.Rule{Path: "/v1/meetingrooms/", Method: http.MethodGet, Public: true},
	permissions.Rule{Path: "/v1/meetingrooms/", Method: http.MethodPost, Roles: []string{constant.RoleAdmin}},
	permissions.Rule{Path: "/v1/reservations/{id}", Method: http.MethodGet, Roles: []string{constant.RoleUser, constant.RoleAdmin}},
)

func newAuthRouter(t *testing.T) (*jwtMocks.MockJWT, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	jwtService := jwtMocks.NewMockJWT(ctrl)

	authRole := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), routePermissions, &config.Config{})

	echoUser := func(w http.ResponseWriter, r *http.Request) {
		userID, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		_, _ = w.Write([]byte(userID))
	}

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(authRole.Auth, authRole.RBAC)
		r.Get("/meetingrooms/", echoUser)
		r.Post("/meetingrooms/", echoUser)
		r.Get("/reservations/{id}", echoUser)
	})

	return jwtService, router
}

func TestAuth(t *testing.T) {
	claims := &jwt.Claims{UserID: "u-1", Email: "u@example.com", Role: constant.RoleUser}

	t.Run("PublicRouteSkipsToken", func(t *testing.T) {
		_, router := newAuthRouter(t)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/meetingrooms/", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("MissingToken", func(t *testing.T) {
		_, router := newAuthRouter(t)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/reservations/r-1", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("BearerHeader", func(t *testing.T) {
		jwtService, router := newAuthRouter(t)

		jwtService.EXPECT().ValidateToken(gomock.Any(), "header-token", jwt.AccessToken).Return(claims, nil)

		request := httptest.NewRequest(http.MethodGet, "/v1/reservations/r-1", nil)
		request.Header.Set(constant.RequestHeaderAuthorization, "Bearer header-token")

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "u-1", recorder.Body.String())
	})

	t.Run("CookieFallback", func(t *testing.T) {
		jwtService, router := newAuthRouter(t)

		jwtService.EXPECT().ValidateToken(gomock.Any(), "cookie-token", jwt.AccessToken).Return(claims, nil)

		request := httptest.NewRequest(http.MethodGet, "/v1/reservations/r-1", nil)
		request.AddCookie(&http.Cookie{Name: constant.CookieNameToken, Value: "cookie-token"})

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		jwtService, router := newAuthRouter(t)

		jwtService.EXPECT().ValidateToken(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, jwt.ErrExpiredToken)

		request := httptest.NewRequest(http.MethodGet, "/v1/reservations/r-1", nil)
		request.Header.Set(constant.RequestHeaderAuthorization, "Bearer stale")

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Token has expired")
	})

	t.Run("IncompleteClaims", func(t *testing.T) {
		jwtService, router := newAuthRouter(t)

		jwtService.EXPECT().ValidateToken(gomock.Any(), gomock.Any(), gomock.Any()).Return(&jwt.Claims{UserID: "u-1"}, nil)

		request := httptest.NewRequest(http.MethodGet, "/v1/reservations/r-1", nil)
		request.Header.Set(constant.RequestHeaderAuthorization, "Bearer partial")

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), "u-1")
	})

	t.Run("RoleNotAllowed", func(t *testing.T) {
		jwtService, router := newAuthRouter(t)

		jwtService.EXPECT().ValidateToken(gomock.Any(), gomock.Any(), gomock.Any()).Return(claims, nil)

		request := httptest.NewRequest(http.MethodPost, "/v1/meetingrooms/", nil)
		request.Header.Set(constant.RequestHeaderAuthorization, "Bearer user-token")

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

func TestRateLimit(t *testing.T) {
	newLimiter := func(t *testing.T, enable bool) (*cacheMocks.MockRedisCache, http.Handler) {
		t.Helper()

		cfg := &config.Config{}
		cfg.App.RateLimiter.Enable = enable
		cfg.App.RateLimiter.MaxRequests = 2
		cfg.App.RateLimiter.WindowSeconds = 60

		redisCache := cacheMocks.NewMockRedisCache(gomock.NewController(t))
		app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, redisCache)

		ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

		return redisCache, app.RateLimit()(ok)
	}

	t.Run("Disabled", func(t *testing.T) {
		_, handler := newLimiter(t, false)

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})

	t.Run("WithinLimit", func(t *testing.T) {
		redisCache, handler := newLimiter(t, true)

		redisCache.EXPECT().Increment(gomock.Any(), "limiter:203.0.113.7:curl", 60).Return(int64(2), nil)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constant.RequestHeaderForwardedFor, "203.0.113.7, 10.0.0.1")
		request.Header.Set(constant.RequestHeaderUserAgent, "curl")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Equal(t, "0", recorder.Header().Get(constant.RequestHeaderRateLimitRemaining))
	})

	t.Run("OverLimit", func(t *testing.T) {
		redisCache, handler := newLimiter(t, true)

		redisCache.EXPECT().Increment(gomock.Any(), gomock.Any(), 60).Return(int64(3), nil)

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	})

	t.Run("CacheDownLetsTrafficThrough", func(t *testing.T) {
		redisCache, handler := newLimiter(t, true)

		redisCache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("dial tcp: refused"))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})
}
