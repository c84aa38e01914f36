package app

import (
	"context"

	"github.com/ADRIANPANEL/Web-order-adrian/configs"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/adapter/cache"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/adapter/http"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/adapter/http/middleware"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/adapter/notify"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/adapter/repo"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/adapter/storage"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/logging"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)
	logger.Info("web-order: starting up")

	// order collection + attachment directory
	orders, err := repo.NewFileOrderRepo(cfg.Storage.OrdersFile)
	if err != nil {
		return nil, nil, err
	}
	files, err := storage.NewDiskAttachmentStore(cfg.Storage.UploadDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		return nil, nil, err
	}

	// telegram notifier is optional: without credentials the submission
	// path simply skips notification
	var notifier usecase.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		notifier = notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.Timeout, files)
	} else {
		logger.Warn("telegram credentials absent, notifications disabled")
	}

	// redis-backed duplicate-submit guard, also optional
	var idem usecase.IdempotencyStore
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, nil, err
		}
		idem = cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	}

	svc := usecase.NewOrderService(orders, files, notifier, idem, cfg.Telegram.Timeout)

	// handlers + router + middleware
	h := http.NewOrderHandler(svc)
	ah := http.NewAdminHandler(svc)
	lh := http.NewLoginHandler(cfg)
	authz := middleware.NewAuthz(cfg)
	router := http.NewRouter(cfg, h, ah, lh, authz)

	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
	}

	return &App{Router: router}, cleanup, nil
}
