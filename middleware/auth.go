package middleware

import (
	"net/http"
	"strings"

	"videohub-service/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	errNotAuthenticated = &HTTPError{Status: http.StatusUnauthorized, Message: "You are not authenticated!"}
	errInvalidToken     = &HTTPError{Status: http.StatusUnauthorized, Message: "Token is not valid!"}
)

// Claims issued by the auth service. "id" carries the user id.
type Claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// Auth verifies the HS256 token from the Authorization header or, failing
// that, from the named cookie, and stores the user id on the context.
func Auth(secret []byte, cookieName string, log *zap.Logger) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		tokenStr := bearerToken(c.GetHeader("Authorization"))
		if tokenStr == "" && cookieName != "" {
			tokenStr, _ = c.Cookie(cookieName)
		}
		if tokenStr == "" {
			c.Error(errNotAuthenticated)
			c.Abort()
			return
		}

		claims := &Claims{}
		_, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || claims.ID == "" {
			log.Debug("rejected token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Error(errInvalidToken)
			c.Abort()
			return
		}

		c.Set(utils.UserIDKey, claims.ID)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserID returns the authenticated user id, empty for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(utils.UserIDKey)
}
