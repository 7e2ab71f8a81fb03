package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"estimapp/internal/config"
	"estimapp/internal/db"
	"estimapp/internal/email"
	apihttp "estimapp/internal/http"
	"estimapp/internal/repository"
	"estimapp/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	projectRepo := repository.NewPgProjectRepository(pool)
	boqRepo := repository.NewPgBoqRepository(pool)
	rateRepo := repository.NewPgRateAnalysisRepository(pool)
	teamRepo := repository.NewPgTeamRepository(pool)
	reportRepo := repository.NewPgReportRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		otpLimiter  service.OTPRateLimiter
		tokenStore  service.RefreshTokenStore
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			otpLimiter = service.NewRedisOTPRateLimiter(redisClient, 10*time.Minute, 3)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userSvc := service.NewUserService(logger, userRepo, emailSender, otpLimiter)

	authHandler := apihttp.NewAuthHandler(logger, userSvc, jwtSvc)
	projectHandler := apihttp.NewProjectHandler(logger, projectRepo)
	boqHandler := apihttp.NewBoqHandler(logger, boqRepo)
	rateHandler := apihttp.NewRateAnalysisHandler(logger, rateRepo)
	teamHandler := apihttp.NewTeamHandler(logger, teamRepo)
	reportHandler := apihttp.NewReportHandler(logger, reportRepo)
	dashboardHandler := apihttp.NewDashboardHandler(logger, projectRepo, boqRepo, teamRepo, reportRepo)

	router := apihttp.NewRouter(logger, jwtSvc, authHandler, projectHandler, boqHandler, rateHandler, teamHandler, reportHandler, dashboardHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
