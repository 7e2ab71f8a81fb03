package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"estimapp/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas base. Todo
// cuelga de /api/estimaApp; los recursos de estimacion requieren JWT.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	projectH *ProjectHandler,
	boqH *BoqHandler,
	rateH *RateAnalysisHandler,
	teamH *TeamHandler,
	reportH *ReportHandler,
	dashboardH *DashboardHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	api := r.Group("/api/estimaApp")

	auth := api.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/start-signup", authH.Signup)
	auth.POST("/send-otp", authH.SendOTP)
	auth.POST("/verify-signup", authH.VerifyOTP)
	auth.POST("/complete-signup", authH.CompleteSignup)
	auth.POST("/oauth", authH.OAuthLogin)
	auth.POST("/refresh", authH.RefreshToken)
	auth.POST("/logout", authH.Logout)

	protected := api.Group("")
	protected.Use(JWTAuthMiddleware(jwtSvc))

	projects := protected.Group("/projects")
	projects.POST("", projectH.Create)
	projects.GET("/my", projectH.My)
	projects.GET("/recent", projectH.Recent)
	projects.GET("/count", projectH.Count)
	projects.GET("/stats", projectH.Stats)
	projects.GET("/monthly", projectH.Monthly)
	projects.GET("/:id", projectH.Get)
	projects.PUT("/:id", projectH.Update)
	projects.DELETE("/:id", projectH.Delete)

	boq := protected.Group("/boq-items")
	boq.POST("/project/:projectID", boqH.CreateForProject)
	boq.GET("/project/:projectID", boqH.ListForProject)
	boq.GET("/stats", boqH.Stats)
	boq.GET("/:id", boqH.Get)
	boq.PUT("/:id", boqH.Update)
	boq.DELETE("/:id", boqH.Delete)

	analysis := protected.Group("/rate-analysis")
	analysis.POST("", rateH.Create)
	analysis.GET("/project/:projectID", rateH.ListForProject)
	analysis.GET("/:id", rateH.Get)
	analysis.PUT("/:id", rateH.Update)
	analysis.DELETE("/:id", rateH.Delete)

	team := protected.Group("/team")
	team.POST("", teamH.Add)
	team.GET("", teamH.List)
	team.DELETE("/:id", teamH.Remove)

	reports := protected.Group("/reports")
	reports.POST("/generate", reportH.Generate)
	reports.GET("", reportH.List)
	reports.GET("/stats", reportH.Stats)
	reports.DELETE("/:id", reportH.Delete)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("/stats", dashboardH.Stats)
	dashboard.GET("/monthly", dashboardH.Monthly)

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

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
