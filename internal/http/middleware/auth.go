package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	intconfig "github.com/Yidian-He/hilton-online-service/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// StaffAuth guards admin routes with the configured static credential pair.
// It accepts either HTTP Basic credentials or a Bearer token previously
// issued by the login endpoint.
func StaffAuth(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))

		authorized := false
		switch {
		case strings.HasPrefix(header, "Bearer "):
			authorized = VerifyToken(env, strings.TrimPrefix(header, "Bearer ")) == nil
		default:
			if user, pass, ok := c.Request.BasicAuth(); ok {
				authorized = ValidateCredentials(env, user, pass)
			}
		}

		if !authorized {
			c.Header("WWW-Authenticate", `Basic realm="reservations"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "missing or invalid credentials",
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}

// ValidateCredentials checks the presented pair against the configured one.
// The configured password may be stored as a bcrypt hash.
func ValidateCredentials(env intconfig.Env, username, password string) bool {
	if env.AdminUsername == "" || env.AdminPassword == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(env.AdminUsername)) != 1 {
		return false
	}
	if isBcryptHash(env.AdminPassword) {
		return bcrypt.CompareHashAndPassword([]byte(env.AdminPassword), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(env.AdminPassword)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// IssueToken creates the staff session token returned by login.
func IssueToken(env intconfig.Env, username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": "staff",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(env.JWTSecret))
}

// VerifyToken checks signature and expiry of a staff session token.
func VerifyToken(env intconfig.Env, raw string) error {
	_, err := jwt.Parse(strings.TrimSpace(raw), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(env.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	return err
}
