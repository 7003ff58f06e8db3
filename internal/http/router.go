package http

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterOptions agrupa lo que el router necesita además de los handlers.
type RouterOptions struct {
	FrontendURL string
	StaticDir   string
	StorageDir  string
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	opts RouterOptions,
	authRequired gin.HandlerFunc,
	userH *UserHandler,
	activityH *ActivityHandler,
	contentH *ContentHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y CORS hacia el frontend.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(opts.FrontendURL))

	api := r.Group("/api")

	// Cuentas y sesión.
	api.POST("/users", userH.Register)
	api.POST("/auth/signup", userH.Register)
	api.POST("/auth/login", userH.Login)
	api.GET("/users/:user_id", authRequired, userH.GetUser)
	api.PATCH("/users/:user_id", authRequired, userH.UpdateUser)

	// Eco-acciones.
	api.POST("/activities", authRequired, activityH.LogActivity)

	// Contenido mock, protegido igual que en el source.
	api.GET("/challenges", authRequired, contentH.ListChallenges)
	api.POST("/challenges", authRequired, contentH.CreateChallenge)
	api.GET("/challenges/:challenge_id", authRequired, contentH.GetChallenge)
	api.GET("/education", authRequired, contentH.ListEducation)
	api.GET("/marketplace", authRequired, contentH.ListMarketplace)
	api.POST("/issue-reports", authRequired, contentH.SubmitIssueReport)
	api.GET("/issue-reports/:report_id", authRequired, contentH.GetIssueReport)
	api.GET("/dashboard", authRequired, contentH.GetDashboard)
	api.GET("/profile", authRequired, contentH.GetProfileSummary)

	api.GET("/health", contentH.Health)

	// SPA: estáticos del frontend, media subida y fallback a index.html
	// para rutas que no son del API.
	if opts.StaticDir != "" {
		r.Static("/assets", filepath.Join(opts.StaticDir, "assets"))
	}
	if opts.StorageDir != "" {
		r.Static("/storage", opts.StorageDir)
	}
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") || opts.StaticDir == "" {
			c.Status(http.StatusNotFound)
			return
		}
		c.File(filepath.Join(opts.StaticDir, "index.html"))
	})

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware habilita el origen del frontend con credenciales.
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
