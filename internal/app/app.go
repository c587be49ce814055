package app

import (
	"context"
	"docflow/internal/cache/redis"
	"docflow/internal/config"
	"docflow/internal/dbs/postgres"
	cachedocsrepo "docflow/internal/repositories/cache/docs"
	cachesessionrepo "docflow/internal/repositories/cache/session"
	assignmentrepo "docflow/internal/repositories/db/assignment"
	documentrepo "docflow/internal/repositories/db/document"
	userrepo "docflow/internal/repositories/db/user"
	filerepo "docflow/internal/repositories/storage/file"
	assignmentservice "docflow/internal/services/assignment"
	authservice "docflow/internal/services/auth"
	documentservice "docflow/internal/services/document"
	exportservice "docflow/internal/services/export"
	userservice "docflow/internal/services/user"
	"fmt"
	"log/slog"
)

type App struct {
	AuthService       *authservice.AuthService
	UserService       *userservice.UserService
	DocumentService   *documentservice.DocumentService
	AssignmentService *assignmentservice.AssignmentService
	ExportService     *exportservice.ExportService
}

func NewApp(ctx context.Context, log *slog.Logger, dbCfg config.DB, cacheConfig config.Cache, fileStorageCfg config.FileStorage, adminToken string) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     dbCfg.Addr,
		Port:     dbCfg.Port,
		User:     dbCfg.User,
		Password: dbCfg.Password,
		DB:       dbCfg.DB})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{Addr: cacheConfig.Addr, Password: cacheConfig.Password, DB: cacheConfig.DB})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	userRepo := userrepo.NewRepository(db)

	sessionCacheRepo := cachesessionrepo.New(cache, cacheConfig.SessionTTL)

	documentCacheRepo := cachedocsrepo.New(cache, cacheConfig.DocumentsTTL)

	userService := userservice.New(log, userRepo, userRepo, userRepo)

	authService := authservice.New(log, userService, userService, sessionCacheRepo, adminToken)

	docRepo := documentrepo.NewRepository(db)

	fileStorage := filerepo.NewRepository(fileStorageCfg.Path)

	documentService := documentservice.New(log, docRepo, documentCacheRepo, fileStorage)

	assignmentRepo := assignmentrepo.NewRepository(db)

	assignmentService := assignmentservice.New(log, assignmentRepo, docRepo, userService, documentCacheRepo)

	exportService := exportservice.New(log, assignmentRepo, docRepo)

	return &App{
		AuthService:       authService,
		UserService:       userService,
		DocumentService:   documentService,
		AssignmentService: assignmentService,
		ExportService:     exportService,
	}, nil
}
