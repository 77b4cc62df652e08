package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/xela07ax/threatintel-console/internal/adminapi"
	"github.com/xela07ax/threatintel-console/internal/console"
	"github.com/xela07ax/threatintel-console/internal/console/dom"
	"github.com/xela07ax/threatintel-console/internal/console/handler"
	"github.com/xela07ax/threatintel-console/internal/console/server"
	"github.com/xela07ax/threatintel-console/internal/infra"
	"github.com/xela07ax/threatintel-console/internal/keystore"
)

// Сколько раз пингуем Redis при старте
const redisAttempts = 10

func main() {
	configPath := pflag.String("config", "", "path to config.yaml (default: ./config.yaml or ./configs/config.yaml)")
	ephemeral := pflag.Bool("ephemeral", false, "keep the API key in memory only")
	pflag.Parse()

	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *ephemeral {
		cfg.KeyStore.Backend = "memory"
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Контекст жизни процесса: SIGINT/SIGTERM останавливают таймер и сервер
	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Хранилище ключа
	store, closeStore, err := openKeyStore(appCtx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open key store", zap.String("backend", cfg.KeyStore.Backend), zap.Error(err))
	}
	defer closeStore()

	// 3. Метрики
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	apiMetrics := adminapi.NewMetrics(reg)
	consoleMetrics := console.NewMetrics(reg)

	// 4. Документ, сессия и клиент API
	doc := dom.New(dom.WithTabs(console.TabIDs()...))
	session := console.NewSession(store, doc, logger)

	baseURL := cfg.API.ResolveBaseURL(cfg.Console.Host)
	client := adminapi.New(adminapi.Config{
		BaseURL:       baseURL,
		KeyHeader:     cfg.API.KeyHeader,
		Timeout:       cfg.API.Timeout,
		CBMaxRequests: uint32(cfg.API.CBMaxRequests),
		CBInterval:    cfg.API.CBInterval,
		CBTimeout:     cfg.API.CBTimeout,
		CBMaxFailures: uint32(cfg.API.CBMaxFailures),
	}, session, apiMetrics, logger)

	// 5. Контроллер консоли
	loc, err := time.LoadLocation(cfg.Console.Timezone)
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}
	var clip console.Clipboard
	if cfg.Console.Clipboard == "system" {
		clip = console.SystemClipboard{}
	}

	ctrl := console.New(client, session, doc, console.Options{
		RefreshInterval: cfg.Console.RefreshInterval,
		ToastDuration:   cfg.Console.ToastDuration,
		Location:        loc,
		Clipboard:       clip,
		Metrics:         consoleMetrics,
		Logger:          logger,
	})
	if err := ctrl.Boot(appCtx); err != nil {
		logger.Warn("console booted without stored key", zap.Error(err))
	}
	defer ctrl.Close()

	// 6. HTTP сервер
	consoleSrv := server.NewConsoleServer(cfg, logger, handler.NewUIHandler(ctrl, doc, logger), reg)
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      consoleSrv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("console started",
			zap.String("addr", srv.Addr),
			zap.String("api", baseURL),
			zap.String("keystore", cfg.KeyStore.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 7. Graceful Shutdown
	<-appCtx.Done()
	logger.Info("console stopping...")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("console exited properly")
}

// openKeyStore выбирает хранилище ключа по keystore.backend.
func openKeyStore(ctx context.Context, cfg *infra.Config, logger *zap.Logger) (keystore.Store, func(), error) {
	switch cfg.KeyStore.Backend {
	case "memory":
		return keystore.NewMemory(""), func() {}, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := keystore.WaitForRedis(ctx, rdb, redisAttempts, logger.Named("redis")); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		key := infra.RedisStoreKey(cfg.Redis.Namespace, infra.StoreKeyAPIKey)
		return keystore.NewRedis(rdb, key), func() { _ = rdb.Close() }, nil

	default:
		return keystore.NewFile(cfg.KeyStore.Path, infra.StoreKeyAPIKey), func() {}, nil
	}
}
