package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/eco-market/internal/config"
	"github.com/Dan9191/eco-market/internal/handler"
	"github.com/Dan9191/eco-market/internal/integrations/catalog"
	"github.com/Dan9191/eco-market/internal/middleware"
	"github.com/Dan9191/eco-market/internal/repository"
	"github.com/Dan9191/eco-market/internal/service"
	"github.com/Dan9191/eco-market/internal/session"
	"github.com/Dan9191/eco-market/internal/storage"
	"github.com/Dan9191/eco-market/internal/utils/email"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("Failed to load .env: %v", err)
	}

	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	if err := repository.RunMigrations(ctx, db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Sessions
	store, closeStore := newSessionStore(cfg, db)
	defer closeStore()
	sessions := session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL)
	sweeper, err := session.NewSweeper(store, cfg.SessionSweepSchedule, logger)
	if err != nil {
		logger.Fatalf("Failed to schedule session sweeper: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Uploads
	files, uploadDir, err := newFileStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Catalog
	cat, err := catalog.NewClient(cfg, logger).Load(ctx)
	if err != nil {
		logger.Fatalf("Failed to load catalog: %v", err)
	}

	var mailer service.Mailer
	if cfg.MailEnabled() {
		mailer = email.NewSender(cfg, logger)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, sessions, files, mailer, logger, cfg)
	h := handler.NewHandler(svc, cat, cfg, logger)

	router := handler.NewRouter(handler.RouterConfig{
		Handler:      h,
		RequireLogin: middleware.RequireLogin(sessions, repo, logger),
		Secure:       middleware.NewSecure(middleware.SecureOptions(cfg.DevMode)),
		UploadDir:    uploadDir,
		Log:          logger,
	})

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
	svc.Wait()
}

func newSessionStore(cfg *config.Config, db *sql.DB) (session.Store, func()) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return session.NewRedisStore(rdb), func() { rdb.Close() }
	case config.SessionStoreMemory:
		return session.NewMemoryStore(), func() {}
	default:
		return session.NewPostgresStore(db), func() {}
	}
}

// newFileStore also returns the directory to serve under /uploads/, empty
// when uploads live in S3.
func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, string, error) {
	if cfg.UploadBackend == config.UploadBackendS3 {
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		return storage.NewS3Store(client, cfg.S3Bucket, cfg.S3PublicURL), "", nil
	}

	disk, err := storage.NewDiskStore(cfg.UploadDir, "/uploads")
	if err != nil {
		return nil, "", err
	}
	return disk, disk.Dir(), nil
}
