package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/errors"
	"github.com/ikkim/fictionhub-backend/pkg/redis"
	"github.com/ikkim/fictionhub-backend/pkg/util"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type identity struct {
	UserID uint           `json:"user_id"`
	Email  string         `json:"email"`
	Role   model.UserRole `json:"role"`
}

// echoIdentity reports what the middleware chain put on the context
func echoIdentity(c *gin.Context) {
	caller := GetCaller(c)
	email, _ := GetUserEmail(c)
	c.JSON(http.StatusOK, identity{UserID: caller.UserID, Email: email, Role: caller.Role})
}

func issue(t *testing.T, userID uint, role model.UserRole, accessTTL time.Duration) *util.TokenPair {
	t.Helper()
	pair, err := util.GenerateTokenPair(userID, "u@example.com", string(role), testJWTSecret, accessTTL, time.Hour)
	require.NoError(t, err)
	return pair
}

func probe(handlers ...gin.HandlerFunc) func(target, authorization string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/probe", append(handlers, echoIdentity)...)
	return func(target, authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}
}

func responseCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestAuthenticate(t *testing.T) {
	mw := NewAuthMiddleware(testJWTSecret)
	send := probe(mw.Authenticate())

	author := issue(t, 1, model.RoleAuthor, 15*time.Minute)
	reader := issue(t, 5, model.RoleUser, 15*time.Minute)
	expired := issue(t, 2, model.RoleUser, -time.Minute)

	tests := []struct {
		name     string
		target   string
		header   string
		wantCode string
	}{
		{name: "bearer header", target: "/probe", header: "Bearer " + author.AccessToken},
		{name: "websocket query token", target: "/probe?token=" + reader.AccessToken},
		{name: "no credentials", target: "/probe", wantCode: errors.AuthUnauthorized},
		{name: "missing scheme", target: "/probe", header: author.AccessToken, wantCode: errors.AuthUnauthorized},
		{name: "basic scheme", target: "/probe", header: "Basic abc", wantCode: errors.AuthUnauthorized},
		{name: "empty bearer", target: "/probe", header: "Bearer ", wantCode: errors.AuthUnauthorized},
		{name: "garbage token", target: "/probe", header: "Bearer not.a.jwt", wantCode: errors.AuthTokenInvalid},
		{name: "refresh token", target: "/probe", header: "Bearer " + author.RefreshToken, wantCode: errors.AuthTokenInvalid},
		{name: "expired token", target: "/probe", header: "Bearer " + expired.AccessToken, wantCode: errors.AuthTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(tt.target, tt.header)
			if tt.wantCode != "" {
				assert.Equal(t, http.StatusUnauthorized, w.Code)
				assert.Equal(t, tt.wantCode, responseCode(t, w))
				return
			}
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}

	w := send("/probe", "Bearer "+author.AccessToken)
	var who identity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &who))
	assert.Equal(t, identity{UserID: 1, Email: "u@example.com", Role: model.RoleAuthor}, who)
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = redis.Close() })

	send := probe(NewAuthMiddleware(testJWTSecret).Authenticate())
	pair := issue(t, 3, model.RoleUser, 15*time.Minute)
	require.Equal(t, http.StatusOK, send("/probe", "Bearer "+pair.AccessToken).Code)

	require.NoError(t, redis.BlacklistToken(context.Background(), pair.AccessToken, time.Minute))
	w := send("/probe", "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, errors.AuthTokenRevoked, responseCode(t, w))

	// Redis 장애 시에는 서명 검증만으로 통과
	mr.Close()
	assert.Equal(t, http.StatusOK, send("/probe", "Bearer "+pair.AccessToken).Code)
}

func TestOptionalAuthenticate_NeverRejects(t *testing.T) {
	send := probe(NewAuthMiddleware(testJWTSecret).OptionalAuthenticate())
	valid := issue(t, 9, model.RoleUser, 15*time.Minute)

	for header, wantID := range map[string]uint{
		"":                             0,
		"Token abc":                    0,
		"Bearer nope":                  0,
		"Bearer " + valid.AccessToken:  9,
		"Bearer " + valid.RefreshToken: 0,
	} {
		w := send("/probe", header)
		require.Equal(t, http.StatusOK, w.Code, header)
		var who identity
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &who))
		assert.Equal(t, wantID, who.UserID, header)
	}
}

func TestRequireRole(t *testing.T) {
	mw := NewAuthMiddleware(testJWTSecret)
	send := probe(mw.Authenticate(), mw.RequireRole(model.RoleAuthor, model.RoleAdmin))

	for role, want := range map[model.UserRole]int{
		model.RoleAdmin:  http.StatusOK,
		model.RoleAuthor: http.StatusOK,
		model.RoleUser:   http.StatusForbidden,
	} {
		w := send("/probe", "Bearer "+issue(t, 1, role, time.Minute).AccessToken)
		assert.Equal(t, want, w.Code, role)
		if want == http.StatusForbidden {
			assert.Equal(t, errors.AuthzForbidden, responseCode(t, w))
		}
	}

	// 인증 미들웨어 없이 사용하면 역할 정보가 없음
	w := probe(mw.RequireRole(model.RoleAdmin))("/probe", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, errors.AuthzRoleNotFound, responseCode(t, w))
}

func TestContextAccessors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)
	assert.Equal(t, model.Caller{}, GetCaller(c))
	_, _, ok = GetToken(c)
	assert.False(t, ok)

	claims := &util.Claims{UserID: 123, Email: "a@example.com", Role: string(model.RoleAdmin)}
	setIdentity(c, "raw-token", claims)

	caller := GetCaller(c)
	assert.Equal(t, model.Caller{UserID: 123, Role: model.RoleAdmin}, caller)
	assert.True(t, caller.IsAdmin())
	email, _ := GetUserEmail(c)
	assert.Equal(t, "a@example.com", email)

	token, got, ok := GetToken(c)
	require.True(t, ok)
	assert.Equal(t, "raw-token", token)
	assert.Same(t, claims, got)
}
