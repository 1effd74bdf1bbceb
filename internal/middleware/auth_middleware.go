package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/errors"
	"github.com/ikkim/fictionhub-backend/pkg/redis"
	"github.com/ikkim/fictionhub-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
	TokenKey     = "access_token"
	ClaimsKey    = "token_claims"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// bearerToken reads "Authorization: Bearer <token>", falling back to ?token= for websocket upgrades
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query("token")
		return token, token != ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// verify validates signature, expiry, token type and the logout blacklist
func (m *AuthMiddleware) verify(c *gin.Context, token string) (*util.Claims, string, error) {
	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		if err == util.ErrExpiredToken {
			return nil, errors.AuthTokenExpired, err
		}
		return nil, errors.AuthTokenInvalid, err
	}
	if claims.TokenType != util.TokenTypeAccess {
		return nil, errors.AuthTokenInvalid, util.ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()
	revoked, err := redis.IsTokenBlacklisted(ctx, token)
	if err != nil {
		// Redis 장애 시 토큰 자체 검증만으로 통과
		GetLoggerFromContext(c).Warn("Blacklist lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if revoked {
		return nil, errors.AuthTokenRevoked, util.ErrInvalidToken
	}
	return claims, "", nil
}

func setIdentity(c *gin.Context, token string, claims *util.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(UserRoleKey, model.UserRole(claims.Role))
	c.Set(TokenKey, token)
	c.Set(ClaimsKey, claims)
}

var tokenFailureMessages = map[string]string{
	errors.AuthTokenExpired: "Your session has expired",
	errors.AuthTokenRevoked: "This token has been signed out",
	errors.AuthTokenInvalid: "Invalid authentication token",
}

// Authenticate validates JWT token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Missing or malformed authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Abort(c, http.StatusUnauthorized, errors.AuthUnauthorized, "")
			return
		}

		claims, code, err := m.verify(c, token)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"code":  code,
				"error": err.Error(),
			})
			errors.Abort(c, http.StatusUnauthorized, code, tokenFailureMessages[code])
			return
		}

		setIdentity(c, token, claims)
		log.Debug("User authenticated", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})
		c.Next()
	}
}

// OptionalAuthenticate sets user info when a valid token is present and
// otherwise continues as a guest
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		claims, _, err := m.verify(c, token)
		if err != nil {
			GetLoggerFromContext(c).Debug("Ignoring invalid token on optional route", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}
		setIdentity(c, token, claims)
		c.Next()
	}
}

// RequireRole checks if user has one of the given roles
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Abort(c, http.StatusForbidden, errors.AuthzRoleNotFound, "No role information for this request")
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.Abort(c, http.StatusForbidden, errors.AuthzForbidden, "")
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(model.UserRole)
	return r, ok
}

// GetCaller returns the authenticated caller; guests get the zero Caller
func GetCaller(c *gin.Context) model.Caller {
	userID, _ := GetUserID(c)
	role, _ := GetUserRole(c)
	return model.Caller{UserID: userID, Role: role}
}

// GetToken returns the raw access token and its claims
func GetToken(c *gin.Context) (string, *util.Claims, bool) {
	token := c.GetString(TokenKey)
	raw, exists := c.Get(ClaimsKey)
	if !exists || token == "" {
		return "", nil, false
	}
	claims, ok := raw.(*util.Claims)
	return token, claims, ok
}
