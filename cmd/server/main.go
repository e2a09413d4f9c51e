package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kennelworks/studbook-server/internal/config"
	"github.com/kennelworks/studbook-server/internal/database"
	"github.com/kennelworks/studbook-server/internal/handler"
	"github.com/kennelworks/studbook-server/internal/middleware"
	"github.com/kennelworks/studbook-server/internal/queue"
	"github.com/kennelworks/studbook-server/internal/repository"
	"github.com/kennelworks/studbook-server/internal/router"
	"github.com/kennelworks/studbook-server/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connect failed")
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	resets := repository.NewResetTokenRepo(db)
	studs := repository.NewMaleStudRepo(db)
	breeding := repository.NewBreedingStudRepo(db)

	mailer, err := service.NewSendGridMailer(cfg.SendGridKey, cfg.MailFrom)
	if err != nil {
		logrus.WithError(err).Fatal("mailer init failed")
	}

	var media service.MediaStore
	if cfg.S3Bucket != "" {
		m, err := service.NewS3MediaStore(cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Region, cfg.S3Bucket, cfg.S3Endpoint)
		if err != nil {
			logrus.WithError(err).Fatal("media store init failed")
		}
		media = m
	} else {
		logrus.Warn("no S3 bucket configured; image uploads disabled")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable; rate limiting and response cache disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	resetH := handler.NewResetHandler(cfg, users, tokens, resets, mailer)
	publicH := handler.NewPublicHandler(studs)
	adminH := handler.NewAdminHandler(studs, breeding, media)

	// Audit trail consumer runs beside the server and reconnects forever.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			logrus.WithError(err).Warn("audit consumer stopped")
		}
	}()

	e := echo.New()
	e.Validator = handler.NewValidator()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, resetH, cfg.JWTSecret, limiter)
	router.RegisterPublic(e, publicH, cache)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")

	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
