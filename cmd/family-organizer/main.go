package main

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"

	"github.com/avasilkov/family-organizer-backend/internal/api"
	cycle_service "github.com/avasilkov/family-organizer-backend/internal/business/cycle"
	events_service "github.com/avasilkov/family-organizer-backend/internal/business/events"
	"github.com/avasilkov/family-organizer-backend/internal/business/gamification"
	tasks_service "github.com/avasilkov/family-organizer-backend/internal/business/tasks"
	wallet_service "github.com/avasilkov/family-organizer-backend/internal/business/wallet"
	"github.com/avasilkov/family-organizer-backend/internal/config"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/database/cycle"
	"github.com/avasilkov/family-organizer-backend/internal/database/events"
	"github.com/avasilkov/family-organizer-backend/internal/database/family"
	"github.com/avasilkov/family-organizer-backend/internal/database/pets"
	"github.com/avasilkov/family-organizer-backend/internal/database/tasks"
	"github.com/avasilkov/family-organizer-backend/internal/database/wallet"
	"github.com/avasilkov/family-organizer-backend/internal/pkg/jwt"
	"github.com/avasilkov/family-organizer-backend/internal/redis"
	"github.com/xlab/closer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx := context.Background()

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}

	jwts := jwt.NewManager()

	redisPool := redis.NewRedisPool(logger)
	deviceTokens := redis.NewDeviceTokenRepository(redisPool, logger)

	db, err := database.NewPGX(ctx)
	if err != nil {
		log.Fatalf("unable to initialize db: %v", err)
	}

	if err := database.Migrate(); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}

	familiesRepository := family.NewRepository()
	eventsRepository := events.NewRepository()
	completionsRepository := tasks.NewRepository()
	petsRepository := pets.NewRepository()
	walletRepository := wallet.NewRepository()
	cycleRepository := cycle.NewRepository()

	eventsService := events_service.NewService(db, eventsRepository)
	gamificationService := gamification.NewService(db, petsRepository, familiesRepository, config.HatchThreshold())
	tasksService := tasks_service.NewService(db, eventsRepository, completionsRepository, gamificationService)
	walletService := wallet_service.NewService(db, walletRepository)
	cycleService := cycle_service.NewService(db, cycleRepository)

	api, err := api.NewApi(
		logger,
		rand.Reader,
		jwts,
		deviceTokens,
		db,
		familiesRepository,
		eventsService,
		tasksService,
		gamificationService,
		walletService,
		cycleService,
	)
	if err != nil {
		log.Fatalf("unable to initialize api: %v", err)
	}

	errLogger, err := zap.NewStdLogAt(logger.Desugar(), zap.ErrorLevel)
	if err != nil {
		logger.Fatalw("error initiating server logger", "err", err)
	}

	server := &http.Server{
		Addr:     ":" + config.Port(),
		Handler:  api,
		ErrorLog: errLogger,
	}

	logger.Infow("Started server", "port", config.Port())
	logger.Fatalw("server error", "err", server.ListenAndServe())
}

func initLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if config.Production() {
		logger, err = zap.NewProduction()
	} else {
		conf := zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = conf.Build()
	}

	if err != nil {
		return nil, err
	}

	closer.Bind(func() {
		_ = logger.Sync()
	})

	return logger.Sugar(), nil
}
