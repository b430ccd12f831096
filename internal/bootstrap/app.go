// Package bootstrap wires configuration into a running application graph.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"docuhub-backend/internal/documents"
	"docuhub-backend/internal/processing"
	"docuhub-backend/internal/shared/config"
	"docuhub-backend/internal/shared/metrics"
	"docuhub-backend/internal/shared/server"
	"docuhub-backend/internal/shared/storage/db"
	"docuhub-backend/internal/shared/storage/files"
	"docuhub-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Metrics *metrics.Metrics

	DocumentsRepo    documents.Repo
	UsersRepo        users.Repo
	FileStore        files.Store
	Processor        processing.Client
	Dispatcher       *processing.Dispatcher
	DocumentsService *documents.Service
	UsersService     *users.Service
}

// Build prepares the dependency graph and wires the router. Without a
// configured database the repositories run in memory, which is what local
// development and the handler tests use.
func Build(cfg config.Config) (*App, error) {
	sqlDB, err := buildDB(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	var docRepo documents.Repo
	var userRepo users.Repo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
		userRepo = users.NewPGRepo(sqlDB)
	} else {
		docRepo = documents.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	m := metrics.New()
	fileStore := files.NewDiskStore(cfg.UploadDir)
	processor := processing.NewHTTPClient(cfg.FastAPIURL, processing.Timeouts{
		Process: cfg.ProcessTimeout,
		Status:  cfg.StatusTimeout,
		Health:  cfg.HealthTimeout,
	})
	dispatcher := processing.NewDispatcher(processor, docRepo, m)

	docSvc := &documents.Service{
		Repo:       docRepo,
		Files:      fileStore,
		Dispatcher: dispatcher,
		Policy:     documents.NewMediaPolicy(cfg.MaxFileSize, cfg.AllowedExtensions, cfg.AllowedMimeTypes),
		Metrics:    m,
	}
	userSvc := users.NewService(userRepo, cfg.JWTSecret, 0)

	app := &App{
		Config:           cfg,
		DB:               sqlDB,
		Metrics:          m,
		DocumentsRepo:    docRepo,
		UsersRepo:        userRepo,
		FileStore:        fileStore,
		Processor:        processor,
		Dispatcher:       dispatcher,
		DocumentsService: docSvc,
		UsersService:     userSvc,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Metrics:           m,
		DocumentsHandler:  documents.NewHandler(docSvc),
		ProcessingHandler: processing.NewHandler(processor),
		UsersHandler:      users.NewHandler(userSvc),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}
