package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"portalmunicipal/cmd/internal/config"
	"portalmunicipal/cmd/internal/domain/sqlite/repository"
	"portalmunicipal/cmd/internal/http/handler"
	authmw "portalmunicipal/cmd/internal/http/middleware"
	"portalmunicipal/cmd/internal/infrastructure/aws/storage"
	"portalmunicipal/cmd/internal/infrastructure/cache"
	"portalmunicipal/cmd/internal/routes"
	"portalmunicipal/cmd/internal/service"
	"portalmunicipal/cmd/internal/service/jobs"
	"portalmunicipal/cmd/internal/utils"
	"portalmunicipal/cmd/internal/utils/uid"
	"portalmunicipal/cmd/internal/utils/validators"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const (
	filesURLPrefix  = "/files"
	shutdownTimeout = 10 * time.Second
)

func serve(parent context.Context, cfg *config.Config, migrate bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uid.Init(cfg.NodeID)

	if err := initAuth(cfg); err != nil {
		return err
	}

	db, err := openDB(cfg, migrate)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB(db) }()

	files, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	publicCache := service.NewPublicCache(newCache(ctx, cfg), time.Duration(cfg.CacheTTLSeconds)*time.Second)
	validate := validators.New()

	// Repositories
	docRepo := repository.NewDocumentRepository(db)
	areaRepo := repository.NewAreaRepository(db)
	biddingRepo := repository.NewBiddingRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	// Services
	documentService := service.NewDocumentService(docRepo, areaRepo, files, publicCache, validate)
	versionService := service.NewVersionService(docRepo, files, publicCache, validate)
	areaService := service.NewAreaService(areaRepo, docRepo, publicCache, validate)
	biddingService := service.NewBiddingService(biddingRepo, files, publicCache, validate)
	newsService := service.NewNewsService(newsRepo, publicCache, validate)
	catalogService := service.NewCatalogService(catalogRepo, publicCache, validate)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins(),
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	if cfg.StorageDriver == "disk" {
		e.Static(filesURLPrefix, cfg.StorageDir)
	}

	routes.Register(e, &routes.Routes{
		Public:    handler.NewPublicDefault(areaService, documentService, biddingService, newsService, catalogService),
		Documents: handler.NewDocumentDefault(documentService),
		Versions:  handler.NewVersionDefault(versionService),
		Areas:     handler.NewAreaDefault(areaService),
		Biddings:  handler.NewBiddingDefault(biddingService),
		News:      handler.NewNewsDefault(newsService),
		Catalog:   handler.NewCatalogDefault(catalogService),
	}, authmw.NewAuthMiddleware())

	runner := jobs.NewRunner(jobs.NewNewsPublisher(newsService, cfg.NewsPublisherSchedule))
	go func() {
		if err := runner.Start(ctx); err != nil {
			log.Errorf("background jobs stopped: %v", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func initAuth(cfg *config.Config) error {
	if cfg.JWTJWKSURL != "" {
		return utils.InitJWKS(cfg.JWTJWKSURL)
	}
	return utils.InitHMAC(cfg.JWTSecret)
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.FileStorage, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region)
	}
	return storage.NewDiskStorage(cfg.StorageDir, filesURLPrefix)
}

// newCache falls back to no caching when redis is not configured or unreachable.
func newCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewNoop()
	}

	redisCache, err := cache.NewRedis(ctx, cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warnf("redis unavailable at %s, caching disabled: %v", cfg.RedisAddr, err)
		return cache.NewNoop()
	}
	return redisCache
}
