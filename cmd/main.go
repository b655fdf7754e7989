package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videohub-service/config"
	"videohub-service/events"
	"videohub-service/handler"
	"videohub-service/logger"
	"videohub-service/metrics"
	"videohub-service/router"
	"videohub-service/service"
	"videohub-service/store"
	"videohub-service/worker"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Development(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Init(cfg.ServiceName, cfg.Version, cfg.Env)

	if code := finish(log, run(cfg, log)); code != 0 {
		os.Exit(code)
	}
}

// finish reports how run ended and flushes the logger. It returns the exit code.
func finish(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("video service failed", zap.Error(err))
		code = 1
	} else {
		log.Info("video service stopped")
	}
	_ = log.Sync()
	return code
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	videos, users, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// NATS is optional: without it events are dropped and the view worker is off.
	var publisher events.Publisher = events.NopPublisher{}
	var nc *nats.Conn
	if cfg.NATSUrl != "" {
		nc, err = events.Connect(cfg.NATSUrl, cfg.ServiceName, log)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer nc.Close()
		publisher = events.NewNATSPublisher(nc, cfg.NATSPrefix, cfg.ServiceName, log)
		log.Info("connected to NATS", zap.String("url", nc.ConnectedUrl()))
	}

	svc := service.NewVideoService(videos, users, publisher, log)

	var viewWorker *worker.Worker
	if nc != nil {
		viewWorker = worker.NewWorker(nc, cfg.NATSPrefix+".views.record", svc, log)
		if err := viewWorker.Start(ctx); err != nil {
			return fmt.Errorf("start view worker: %w", err)
		}
	}

	r := router.Setup(cfg, handler.NewVideoHandler(svc, log), log)

	// Setup HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("video service starting",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.StoreDriver),
			zap.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutting down video service", zap.String("signal", sig.String()))
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if viewWorker != nil {
		viewWorker.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// openStore returns the configured stores and a function releasing them.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.VideoStore, store.UserStore, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("using in-memory store, data is lost on restart")
		mem := store.NewMemoryStore()
		return mem, mem.Users(), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	disconnect := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("failed to disconnect from MongoDB", zap.Error(err))
		}
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		disconnect()
		return nil, nil, nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	videos := store.NewMongoVideoStore(db, cfg.VideoCollection, log)
	videos.EnsureIndexes(connectCtx)
	log.Info("connected to MongoDB", zap.String("database", cfg.MongoDB))

	return videos, store.NewMongoUserStore(db, cfg.UserCollection), disconnect, nil
}
