package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"stressorleads/internal/config"
	"stressorleads/internal/database"
	"stressorleads/internal/domain/dealer"
	"stressorleads/internal/domain/lead"
	"stressorleads/internal/domain/upload"
	"stressorleads/internal/domain/vehicle"
	"stressorleads/internal/ingest"
	"stressorleads/internal/middleware"
	"stressorleads/internal/notify"
	jwtsvc "stressorleads/internal/pkg/jwt"
	"stressorleads/internal/pkg/logger"
	"stressorleads/internal/realtime"
	"stressorleads/internal/storage"
)

// app holds every long-lived component of the API process.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *gorm.DB
	router *gin.Engine

	pool        *ingest.Pool
	asynqClient *ingest.AsynqClient
	asynqWorker *ingest.AsynqWorker
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwt := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := realtime.NewHub(log)

	dealerService := dealer.NewService(dealer.NewRepository(db), jwt)
	leadRepo := lead.NewRepository(db)
	vehicleRepo := vehicle.NewRepository(db)
	uploadService := upload.NewService(upload.NewRepository(db), store, nil, log, cfg.MaxUploadSize)

	notifiers := notify.Fanout{hub}
	if cfg.IsSMTPEnabled() {
		notifiers = append(notifiers, notify.NewMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, dealerService, log))
	}

	job := ingest.NewJob(uploadService, leadRepo, store, notifiers, log, cfg.PhoneRegion)

	a := &app{cfg: cfg, log: log, db: db}
	if cfg.IsRedisEnabled() {
		if a.asynqClient, err = ingest.NewAsynqClient(cfg.RedisURL, cfg.AsynqQueue); err != nil {
			return nil, err
		}
		if a.asynqWorker, err = ingest.NewAsynqWorker(cfg.RedisURL, cfg.AsynqQueue, cfg.AsynqConcurrency, job, log); err != nil {
			return nil, err
		}
		uploadService.SetDispatcher(a.asynqClient)
		log.Info("ingestion queue: redis", "queue", cfg.AsynqQueue)
	} else {
		a.pool = ingest.NewPool(job, cfg.IngestWorkers, cfg.IngestQueueSize, log)
		a.pool.Start()
		uploadService.SetDispatcher(a.pool)
		log.Info("ingestion queue: in-process", "workers", cfg.IngestWorkers, "queue_size", cfg.IngestQueueSize)
	}

	a.router = newRouter(cfg, log, jwt, handlers{
		dealer:   dealer.NewHandler(dealerService),
		upload:   upload.NewHandler(uploadService),
		vehicle:  vehicle.NewHandler(vehicleRepo),
		lead:     lead.NewHandler(leadRepo),
		realtime: realtime.NewHandler(hub, jwt, cfg.AllowedOrigins()),
	})
	return a, nil
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.IsMinIOEnabled() {
		s, err := storage.NewMinIOStore(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio storage: %w", err)
		}
		return s, nil
	}
	s, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}
	return s, nil
}

type handlers struct {
	dealer   *dealer.Handler
	upload   *upload.Handler
	vehicle  *vehicle.Handler
	lead     *lead.Handler
	realtime *realtime.Handler
}

func newRouter(cfg *config.Config, log *logger.Logger, jwt *jwtsvc.Service, h handlers) *gin.Engine {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(log),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.AllowedOrigins()),
	)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	h.dealer.RegisterPublicRoutes(api)
	h.realtime.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(jwt))
	{
		h.dealer.RegisterProtectedRoutes(protected)
		upload.RegisterRoutes(protected, h.upload)
		vehicle.RegisterRoutes(protected, h.vehicle)
		lead.RegisterRoutes(protected, h.lead)
	}

	return r
}

// runWorkers blocks until ctx ends. The in-process pool drains queued uploads
// before returning.
func (a *app) runWorkers(ctx context.Context) error {
	if a.asynqWorker != nil {
		return a.asynqWorker.Run(ctx)
	}
	<-ctx.Done()
	return nil
}

func (a *app) close(ctx context.Context) {
	if a.pool != nil {
		if err := a.pool.Shutdown(ctx); err != nil {
			a.log.Warn("ingest pool did not drain", "error", err)
		}
	}
	if a.asynqClient != nil {
		_ = a.asynqClient.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
