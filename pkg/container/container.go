package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"addressbook-backend/internal/config"
	infraCache "addressbook-backend/internal/infrastructure/cache"
	"addressbook-backend/internal/infrastructure/database"
	"addressbook-backend/internal/infrastructure/storage"
	"addressbook-backend/pkg/cache"
	"addressbook-backend/pkg/jwt"

	"addressbook-backend/internal/domains/addressbook"
	entryHandler "addressbook-backend/internal/domains/addressbook/handler"
	entryRepo "addressbook-backend/internal/domains/addressbook/repository"
	entryService "addressbook-backend/internal/domains/addressbook/service"

	"addressbook-backend/internal/domains/auth"
	authHandler "addressbook-backend/internal/domains/auth/handler"
	authRepo "addressbook-backend/internal/domains/auth/repository"
	authService "addressbook-backend/internal/domains/auth/service"

	"addressbook-backend/internal/domains/department"
	departmentHandler "addressbook-backend/internal/domains/department/handler"
	departmentRepo "addressbook-backend/internal/domains/department/repository"
	departmentService "addressbook-backend/internal/domains/department/service"

	"addressbook-backend/internal/domains/job"
	jobHandler "addressbook-backend/internal/domains/job/handler"
	jobRepo "addressbook-backend/internal/domains/job/repository"
	jobService "addressbook-backend/internal/domains/job/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container owns every long-lived dependency of the API process.
// Build order: config, infrastructure, repositories, services, handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Photos     *storage.PhotoStorage
	JWTManager *jwt.Manager

	// LocalUploadDir is set when photos live on the local filesystem
	// so the router can serve them statically.
	LocalUploadDir string

	redis *infraCache.RedisCache

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	JobRepo        job.Repository
	DepartmentRepo department.Repository
	EntryRepo      addressbook.Repository
	AdminRepo      auth.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	JobService        job.Service
	DepartmentService department.Service
	EntryService      addressbook.Service
	AuthService       auth.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	JobHandler        *jobHandler.JobHandler
	DepartmentHandler *departmentHandler.DepartmentHandler
	EntryHandler      *entryHandler.EntryHandler
	AuthHandler       *authHandler.AuthHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer wires the dependency graph from cfg. A failed database
// connection or migration is fatal; an unreachable Redis falls back to
// an in-process cache.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Msg("[CONTAINER] Initializing dependencies...")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	db := database.NewPostgresDB(cfg.Database.PoolConfig())

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	if cfg.App.AutoMigrate {
		if err := runMigrations(ctx, cfg.Database.DSN()); err != nil {
			c.Close()
			return nil, err
		}
	}

	// ========================================
	// STEP 2: CACHE
	// ========================================
	c.initCache(ctx)

	// ========================================
	// STEP 3: PHOTO STORAGE
	// ========================================
	if err := c.initStorage(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to init photo storage: %w", err)
	}

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		time.Duration(cfg.JWT.ExpirationMinutes)*time.Minute,
	)

	// ========================================
	// STEP 4: DOMAINS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().
		Str("storage", cfg.Storage.Driver).
		Bool("redis", c.redis != nil).
		Msg("[CONTAINER] Dependencies initialized")
	return c, nil
}

func runMigrations(ctx context.Context, dsn string) error {
	migrator, err := database.NewMigrator(dsn)
	if err != nil {
		return fmt.Errorf("failed to open migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(ctx); err != nil {
		return err
	}
	return nil
}

func (c *Container) initCache(ctx context.Context) {
	if c.Config.Cache.Driver == "memory" {
		log.Info().Msg("[CACHE] Using in-memory cache")
		c.Cache = cache.NewMemoryCache()
		return
	}

	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("[CACHE] Redis unavailable, using in-memory cache")
		_ = rc.Close()
		c.Cache = cache.NewMemoryCache()
		return
	}

	c.redis = rc
	c.Cache = rc
}

func (c *Container) initStorage(ctx context.Context) error {
	processor := storage.NewImageProcessor(c.Config.Storage.MaxPhotoSize, c.Config.Storage.MaxDimension)

	var driver storage.Driver
	switch c.Config.Storage.Driver {
	case "minio":
		d, err := storage.NewMinIODriver(ctx, c.Config.MinIO)
		if err != nil {
			return err
		}
		driver = d
	case "s3":
		d, err := storage.NewS3Driver(ctx, c.Config.S3)
		if err != nil {
			return err
		}
		driver = d
	default:
		d, err := storage.NewLocalDriver(c.Config.Storage.UploadDir)
		if err != nil {
			return err
		}
		c.LocalUploadDir = d.Root()
		driver = d
	}

	c.Photos = storage.NewPhotoStorage(driver, processor)
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.JobRepo = jobRepo.NewPostgresRepository(pool, c.Cache)
	c.DepartmentRepo = departmentRepo.NewPostgresRepository(pool, c.Cache)
	c.EntryRepo = entryRepo.NewPostgresRepository(pool)
	c.AdminRepo = authRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.JobService = jobService.NewJobService(c.JobRepo)
	c.DepartmentService = departmentService.NewDepartmentService(c.DepartmentRepo)
	c.EntryService = entryService.NewEntryService(
		c.EntryRepo,
		c.JobRepo,
		c.DepartmentRepo,
		c.Photos,
		entryService.Config{
			BcryptCost:     c.Config.App.BcryptCost,
			PhotoURLPrefix: c.Config.Storage.PublicPrefix,
		},
	)
	c.AuthService = authService.NewAuthService(c.AdminRepo, c.JWTManager, c.Config.App.BcryptCost)
}

func (c *Container) initHandlers() {
	c.JobHandler = jobHandler.NewJobHandler(c.JobService)
	c.DepartmentHandler = departmentHandler.NewDepartmentHandler(c.DepartmentService)
	c.EntryHandler = entryHandler.NewEntryHandler(c.EntryService)
	c.AuthHandler = authHandler.NewAuthHandler(c.AuthService)
}

// Close releases the database pool and the Redis client.
func (c *Container) Close() {
	log.Info().Msg("[CONTAINER] Releasing resources...")

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("[CACHE] Failed to close Redis")
		}
	}
}
