package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kedr891/steam-inventory/internal/domain"
)

// ContextSteamID - ключ gin.Context со steamid из токена.
const ContextSteamID = "steamid"

// AuthMiddleware - middleware для JWT аутентификации.
// Токен выдаёт внешний логин, в claims лежит steamid.
type AuthMiddleware struct {
	jwtSecret  string
	cookieName string
	log        domain.Logger
}

// NewAuthMiddleware - создать middleware аутентификации
func NewAuthMiddleware(jwtSecret, cookieName string, log domain.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:  jwtSecret,
		cookieName: cookieName,
		log:        log,
	}
}

// RequireAuth - проверка JWT токена из заголовка или cookie
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := m.extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		steamID, err := m.parse(tokenString)
		if err != nil {
			m.log.Debug("Failed to parse JWT", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextSteamID, steamID)
		c.Next()
	}
}

// RequireOwner - steamid из пути должен совпадать со steamid из токена.
// Ставится после RequireAuth.
func (m *AuthMiddleware) RequireOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextSteamID) != c.Param(param) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		// Формат "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	if m.cookieName == "" {
		return "", false
	}

	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie == "" {
		return "", false
	}

	return cookie, true
}

func (m *AuthMiddleware) parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Проверить метод подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(m.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrUnauthorized
	}

	steamID, ok := claims[ContextSteamID].(string)
	if !ok || steamID == "" {
		return "", domain.ErrUnauthorized
	}

	return steamID, nil
}
