package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roster-data/internal/config"
	"roster-data/internal/domain"
	httpapi "roster-data/internal/http"
	"roster-data/internal/logger"
	"roster-data/internal/repository"
	"roster-data/internal/service"
	"roster-data/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "roster-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mongo-backed repos when reachable, memory repos otherwise so the
	// API still serves during local development.
	var (
		mongoClient *mongo.Client
		profiles    repository.ProfilesRepo
		ledger      repository.LedgerRepo
		guests      repository.GuestsRepo
		notes       repository.NotesRepo
	)
	connCtx, connCancel := context.WithTimeout(ctx, 10*time.Second)
	mongoClient, err = repository.Connect(connCtx, cfg.Mongo.URI)
	connCancel()
	if err == nil {
		db := mongoClient.Database(cfg.Mongo.Database)
		profiles = repository.NewMongoProfilesRepo(db)
		ledger = repository.NewMongoLedgerRepo(db)
		guests = repository.NewMongoGuestsRepo(db)
		notes = repository.NewMongoNotesRepo(db)
		log.Info("mongo connected", zap.String("db", cfg.Mongo.Database))
	} else {
		log.Warn("mongo unavailable, falling back to in-memory repos", zap.Error(err))
		profiles = repository.NewMemoryProfilesRepo()
		ledger = repository.NewMemoryLedgerRepo()
		guests = repository.NewMemoryGuestsRepo()
		notes = repository.NewMemoryNotesRepo()
	}

	var kv store.KV
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err == nil {
		kv = store.NewRedisKV(redisClient)
	} else {
		log.Warn("redis unavailable, falling back to in-memory KV", zap.Error(err))
		kv = store.NewMemoryKV()
	}

	var notifier service.Notifier = service.NopNotifier{}
	if cfg.Mail.RelayURL != "" {
		notifier = service.NewMailRelayClient(cfg.Mail.RelayURL, cfg.Mail.RelayKey, cfg.Mail.OpsEmail, log)
	}

	ingestSvc := service.NewIngestService(profiles, ledger, notifier, log)
	insightsSvc := service.NewInsightsService(ledger, profiles, domain.DefaultStatusTransitions, log)
	searchSvc := service.NewSearchService(profiles)
	guestSvc := service.NewGuestService(guests, profiles, kv, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.Guest.PageLimit, cfg.Guest.PageSize, log)

	router := httpapi.NewRouter(log)
	router.RegisterUploadRoutes(httpapi.NewUploadHandler(ingestSvc, log))
	router.RegisterRosterRoutes(httpapi.NewRosterHandler(profiles, ledger, searchSvc, log))
	router.RegisterLedgerRoutes(httpapi.NewLedgerHandler(ledger, log))
	router.RegisterInsightsRoutes(httpapi.NewInsightsHandler(insightsSvc, log))
	router.RegisterGuestRoutes(httpapi.NewGuestHandler(guestSvc, log))
	router.RegisterAdminRoutes(httpapi.NewAdminHandler(guestSvc, cfg.Auth.AdminToken, log))
	router.RegisterNotesRoutes(httpapi.NewNotesHandler(notes, log))

	var ping func() error
	if mongoClient != nil {
		ping = func() error {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer pingCancel()
			return mongoClient.Ping(pingCtx, readpref.Primary())
		}
	}
	router.RegisterHealthRoute(ping)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Error("server error", zap.Error(err))
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	if mongoClient != nil {
		_ = mongoClient.Disconnect(shutdownCtx)
	}
}
