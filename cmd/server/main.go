package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/auth"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/config"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/database"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/logging"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/server"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/services"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/rs/zerolog/log"

	_ "github.com/kxshiii/-Children-s-Home-Orphanages-Donations/docs/api" // Swagger docs
)

// @title Caredonate API
// @version 1.0.0
// @description Donations, visits and reviews for children's homes
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init(server.ServiceName, "development", "info")
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(server.ServiceName, cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	rdb, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	var blocklist auth.Blocklist = auth.NoopBlocklist{}
	if rdb != nil {
		defer rdb.Close()
		blocklist = auth.NewRedisBlocklist(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, logout will not revoke tokens")
	}

	st := store.New(db)
	tokens := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL, blocklist)
	svc := services.New(st, auth.NewBcryptHasher(cfg.BcryptCost), services.Options{
		Location:      cfg.Location,
		RestDay:       cfg.VisitRestDay,
		DailyCapacity: cfg.VisitDailyCapacity,
		WindowDays:    cfg.VisitWindowDays,
		Now:           time.Now,
	})

	if cfg.BootstrapAdminUsername != "" {
		err := svc.Users.EnsureAdmin(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create bootstrap admin")
		}
	}

	app := server.New(server.Deps{
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		Services:   svc,
		Guard:      auth.NewGuard(tokens, st.Users),
		Tokens:     tokens,
		Prometheus: fiberprometheus.New(server.ServiceName),
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info().Msg("gracefully shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	log.Info().Msg("server stopped")
}
