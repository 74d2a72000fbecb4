package handlers

import (
	"net/http"
	"strings"

	intconfig "github.com/Yidian-He/hilton-online-service/internal/config"
	"github.com/Yidian-He/hilton-online-service/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the static staff credentials and issues a session token.
func Login(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !BindJSONOrError(c, &req) {
			return
		}

		if !middleware.ValidateCredentials(env, req.Username, req.Password) {
			respondError(c, http.StatusUnauthorized, "unauthorized", "username or password incorrect")
			return
		}

		token, err := middleware.IssueToken(env, req.Username)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "internal_error", "failed to issue token")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":    token,
			"username": req.Username,
		})
	}
}

// ValidateAuth reports whether the presented credential would be accepted
// by the admin routes.
func ValidateAuth(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))

		valid := false
		switch {
		case strings.HasPrefix(header, "Bearer "):
			valid = middleware.VerifyToken(env, strings.TrimPrefix(header, "Bearer ")) == nil
		default:
			if user, pass, ok := c.Request.BasicAuth(); ok {
				valid = middleware.ValidateCredentials(env, user, pass)
			}
		}

		c.JSON(http.StatusOK, gin.H{"valid": valid})
	}
}
