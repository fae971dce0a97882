package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	apphttp "github.com/yungbote/roomfinder-backend/internal/http"
	"github.com/yungbote/roomfinder-backend/internal/observability"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	redis        *goredis.Client
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New connects, migrates and wires the webhook service.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	if err := cfg.RequireMessenger(); err != nil {
		return nil, err
	}
	shutdown := observability.InitOTel(ctx, log, cfg.Otel)

	theDB, err := OpenMigratedDB(log, cfg)
	if err != nil {
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	locker, rdb, err := wireLocker(log, cfg)
	if err != nil {
		return nil, err
	}

	campus, err := cfg.Campus()
	if err != nil {
		return nil, err
	}
	reposet := wireRepos(theDB, log, searchConfig(cfg, campus))

	serviceset, err := wireServices(serviceDeps{
		DB:      theDB,
		Log:     log,
		Cfg:     cfg,
		Repos:   reposet,
		Locker:  locker,
		Metrics: metrics,
	})
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, err
	}

	handlerset := wireHandlers(log, cfg, serviceset, metrics)
	router := wireRouter(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		redis:        rdb,
		otelShutdown: shutdown,
	}, nil
}

// Start launches background collectors.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB, 0)
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Serving", "addr", a.Cfg.Addr())
	srv := &apphttp.Server{Engine: a.Router}
	return srv.Run(ctx, a.Cfg.Addr(), a.Cfg.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
