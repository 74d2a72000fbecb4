package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "github.com/Yidian-He/hilton-online-service/internal/config"
	"github.com/Yidian-He/hilton-online-service/internal/domain/models"
	h "github.com/Yidian-He/hilton-online-service/internal/http/handlers"
	"github.com/Yidian-He/hilton-online-service/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsMiddleware(env))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/healthcheck", h.Health)

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login(env))
		auth.GET("/validate", h.ValidateAuth(env))
	}

	reservations := r.Group("/reservations")
	{
		reservations.POST("", h.CreateReservation)

		guest := reservations.Group("/guest")
		guest.GET("", h.FindGuestReservation)
		guest.PATCH("/:id", h.UpdateGuestReservation)
		guest.PATCH("/:id/cancel", h.CancelGuestReservation)

		admin := reservations.Group("/admin")
		admin.Use(middleware.StaffAuth(env))
		admin.GET("/sheet", h.GetDailySheet)
		admin.POST("/graphql", h.QueryReservations)
		admin.GET("/:id", h.GetReservationByID)
		admin.PATCH("/:id/status", h.UpdateReservationStatus)
	}

	return r
}

func corsMiddleware(env intconfig.Env) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if len(env.CORSOrigins) > 0 {
		cfg.AllowOrigins = env.CORSOrigins
	} else {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("cnmobile", func(fl validator.FieldLevel) bool {
			return models.MobilePhonePattern.MatchString(fl.Field().String())
		})
	}
}
