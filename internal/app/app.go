package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	natsgo "github.com/nats-io/nats.go"
	redisgo "github.com/redis/go-redis/v9"

	"avtobot/internal/adapter/greenapi"
	natsadapter "avtobot/internal/adapter/nats"
	"avtobot/internal/adapter/postgres"
	redisadapter "avtobot/internal/adapter/redis"
	"avtobot/internal/adapter/storage"
	"avtobot/internal/app/config"
	"avtobot/internal/bot"
	"avtobot/internal/catalog"
	"avtobot/internal/mailer"
	"avtobot/internal/platform/logger"
	"avtobot/internal/platform/metrics"
	"avtobot/internal/sellform"
	"avtobot/internal/service"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	bot         *bot.Bot
	client      *greenapi.Client
	db          *sqlx.DB
	redisClient *redisgo.Client
	natsConn    *natsgo.Conn
	verdicts    *natsadapter.VerdictConsumer
	metricsSrv  *http.Server
	webhookSrv  *http.Server
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s", cfg.Env)

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := postgres.NewDB(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	appLogger.Info("PostgreSQL connected")

	appLogger.Info("Connecting to Redis...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	appLogger.Info("Redis connected")

	appLogger.Info("Connecting to NATS...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS: %w", err)
	}
	publisher, err := natsadapter.NewPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
	}
	appLogger.Info("NATS connected")

	var photoStorage storage.PhotoStorage
	switch cfg.Storage.Backend {
	case "minio":
		photoStorage, err = storage.NewMinIOStorage(ctx, cfg.Storage, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MinIO storage: %w", err)
		}
		appLogger.Infof("Photo storage: MinIO bucket %s", cfg.Storage.MinIOBucket)
	default:
		photoStorage, err = storage.NewLocalStorage(cfg.Storage.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		appLogger.Infof("Photo storage: local directory %s", cfg.Storage.UploadDir)
	}

	var moderatorMailer mailer.Mailer = mailer.NopMailer{}
	if cfg.SMTP.Host != "" {
		moderatorMailer = mailer.NewSMTPMailer(cfg.SMTP)
		appLogger.Infof("SMTP mailer initialized for %s", cfg.SMTP.Moderator)
	} else {
		appLogger.Info("SMTP not configured, moderation emails disabled")
	}

	userRepo := postgres.NewUserRepository(db)
	adRepo := postgres.NewAdRepository(db)
	brandRepo := postgres.NewBrandRepository(db)
	imageRepo := postgres.NewImageRepository(db)
	favoriteRepo := postgres.NewFavoriteRepository(db)
	moderationRepo := postgres.NewModerationRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	viewRepo := postgres.NewViewRepository(db)
	adCache := redisadapter.NewAdCache(redisClient)
	appLogger.Info("Repositories initialized")

	userService := service.NewUserService(userRepo, paymentRepo, appLogger)
	adService := service.NewAdService(
		adRepo, brandRepo, imageRepo, moderationRepo, viewRepo,
		adCache, cfg.Redis.AdTTL, publisher, moderatorMailer, appLogger,
	)
	favoriteService := service.NewFavoriteService(favoriteRepo, adRepo, appLogger)
	moderationService := service.NewModerationService(moderationRepo, adRepo, adCache, publisher, appLogger)
	appLogger.Info("Services initialized")

	verdicts, err := natsadapter.NewVerdictConsumer(natsConn, moderationService, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize verdict consumer: %w", err)
	}

	client := greenapi.NewClient(cfg.GreenAPI, appLogger)
	sellManager := sellform.NewManager(adService, photoStorage, client, appLogger)
	filterStore := catalog.NewFileStore(cfg.Bot.FilterStateFile, appLogger)
	renderer := catalog.NewRenderer(adRepo)

	chatBot := bot.New(bot.Deps{
		Replier:    client,
		Users:      userService,
		Ads:        adService,
		Favorites:  favoriteService,
		Moderation: moderationService,
		SellForm:   sellManager,
		Filters:    filterStore,
		Renderer:   renderer,
		Brands:     brandRepo,
		Allowed:    cfg.AllowedSenderSet(),
		AutoReply:  cfg.Bot.AutoReplyText,
		Logger:     appLogger,
	})
	appLogger.Info("Bot assembled")

	return &App{
		cfg:         cfg,
		log:         appLogger,
		bot:         chatBot,
		client:      client,
		db:          db,
		redisClient: redisClient,
		natsConn:    natsConn,
		verdicts:    verdicts,
	}, nil
}

func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.verdicts.Start(); err != nil {
		a.log.Fatalf("Verdict consumer failed: %v", err)
	}
	a.log.Infof("Verdict consumer subscribed to %s", natsadapter.SubjectModerationVerdicts)

	a.metricsSrv = &http.Server{Addr: a.cfg.Bot.MetricsAddr, Handler: metrics.Router()}
	go func() {
		a.log.Infof("Metrics server listening on %s", a.cfg.Bot.MetricsAddr)
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Errorf("Metrics server failed: %v", err)
		}
	}()

	if addr := a.cfg.GreenAPI.WebhookAddr; addr != "" {
		webhook := greenapi.NewWebhookServer(a.bot.Handle, a.cfg.GreenAPI.WebhookSecret, a.log)
		a.webhookSrv = &http.Server{Addr: addr, Handler: webhook.Router()}
		go func() {
			a.log.Infof("Webhook server listening on %s", addr)
			if err := a.webhookSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Fatalf("Webhook server failed: %v", err)
			}
		}()
	} else {
		poller := greenapi.NewPoller(a.client, a.cfg.GreenAPI.PollTimeout, a.bot.Handle, a.log)
		go poller.Run(ctx)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down...", receivedSignal)

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if a.webhookSrv != nil {
		if err := a.webhookSrv.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error stopping webhook server: %v", err)
		}
	}
	if err := a.metricsSrv.Shutdown(shutdownCtx); err != nil {
		a.log.Errorf("Error stopping metrics server: %v", err)
	}

	a.verdicts.Stop()

	a.log.Info("Closing connections...")
	if err := a.db.Close(); err != nil {
		a.log.Errorf("Error closing PostgreSQL: %v", err)
	}
	if err := a.redisClient.Close(); err != nil {
		a.log.Errorf("Error closing Redis: %v", err)
	}
	a.natsConn.Close()

	a.log.Info("Application shut down successfully")
}
