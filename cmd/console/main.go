package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aimhigh31/work-ten-sub005/internal/config"
	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	consolehandler "github.com/aimhigh31/work-ten-sub005/internal/console/handler"
	"github.com/aimhigh31/work-ten-sub005/internal/console/repository"
	"github.com/aimhigh31/work-ten-sub005/internal/console/service"
	"github.com/aimhigh31/work-ten-sub005/internal/console/storage"
	applogger "github.com/aimhigh31/work-ten-sub005/internal/logger"
	"github.com/aimhigh31/work-ten-sub005/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := applogger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting work console service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := autoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate schema", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	store, err := initStorage(cfg.Storage)
	if err != nil {
		zapLogger.Fatal("Failed to init storage", zap.Error(err))
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, store, zapLogger)
	handlers := consolehandler.NewHandlers(services)

	if err := seedMenus(services); err != nil {
		zapLogger.Warn("Menu seeding failed", zap.Error(err))
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization", "X-Request-ID"},
	}))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, services, cfg)

	if cfg.Storage.Driver == "local" {
		router.Static("/uploads", cfg.Storage.LocalDir)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Task{},
		&entity.Checklist{},
		&entity.KPIRecord{},
		&entity.Hardware{},
		&entity.Attachment{},
		&entity.User{},
		&entity.Department{},
		&entity.Menu{},
		&entity.MenuPermission{},
		&entity.ChangeLog{},
	)
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func initStorage(cfg config.StorageConfig) (storage.Store, error) {
	if cfg.Driver == "s3" {
		return storage.NewS3Store(context.Background(), storage.S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			PathStyle: cfg.PathStyle,
			PublicURL: cfg.PublicURL,
		})
	}
	return storage.NewLocalStore(cfg.LocalDir, cfg.BaseURL), nil
}

// consoleMenus are the routes the permission oracle answers for. Seeding is
// idempotent: existing route keys are left alone.
var consoleMenus = []struct {
	routeKey string
	label    string
	order    int
}{
	{"tasks", "업무관리", 1},
	{"checklists", "체크리스트", 2},
	{"kpis", "KPI관리", 3},
	{"hardware", "하드웨어관리", 4},
	{"users", "사용자관리", 5},
	{"departments", "부서관리", 6},
	{"changelogs", "변경이력", 7},
	{"admin", "관리자", 8},
}

func seedMenus(services *service.Services) error {
	ctx := context.Background()
	existing, err := services.Permission.Menus(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, m := range existing {
		known[m.RouteKey] = true
	}
	for _, m := range consoleMenus {
		if known[m.routeKey] {
			continue
		}
		if _, err := services.Permission.CreateMenu(ctx, m.routeKey, m.label, "", m.order); err != nil {
			return err
		}
		// admins get everything, members read by default
		if err := services.Permission.Grant(ctx, m.routeKey, "admin", true, true, true); err != nil {
			return err
		}
		if m.routeKey != "admin" {
			if err := services.Permission.Grant(ctx, m.routeKey, "member", true, false, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func registerRoutes(r *gin.Engine, h *consolehandler.Handlers, svc *service.Services, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		v1.GET("/permissions/:routeKey", h.Permission.Check)
		v1.GET("/menus", h.Permission.Menus)

		admin := v1.Group("")
		admin.Use(middleware.RequireFull(svc.Permission, "admin"))
		{
			admin.POST("/menus", h.Permission.CreateMenu)
			admin.PUT("/menus/:routeKey/permissions", h.Permission.Grant)
		}

		tasks := v1.Group("/tasks")
		{
			tasks.GET("", middleware.RequireRead(svc.Permission, "tasks"), h.Task.List)
			tasks.GET("/code-exists", middleware.RequireRead(svc.Permission, "tasks"), h.Task.CodeExists)
			tasks.GET("/:id", middleware.RequireRead(svc.Permission, "tasks"), h.Task.Get)
			tasks.POST("", middleware.RequireWrite(svc.Permission, "tasks"), h.Task.Create)
			tasks.PUT("/:id", middleware.RequireWrite(svc.Permission, "tasks"), h.Task.Update)
			tasks.DELETE("/:id", middleware.RequireWrite(svc.Permission, "tasks"), h.Task.Delete)
			tasks.POST("/batch-delete", middleware.RequireWrite(svc.Permission, "tasks"), h.Task.BatchDelete)
		}

		checklists := v1.Group("/checklists")
		{
			checklists.GET("", middleware.RequireRead(svc.Permission, "checklists"), h.Checklist.List)
			checklists.GET("/code-exists", middleware.RequireRead(svc.Permission, "checklists"), h.Checklist.CodeExists)
			checklists.GET("/:id", middleware.RequireRead(svc.Permission, "checklists"), h.Checklist.Get)
			checklists.POST("", middleware.RequireWrite(svc.Permission, "checklists"), h.Checklist.Create)
			checklists.PUT("/:id", middleware.RequireWrite(svc.Permission, "checklists"), h.Checklist.Update)
			checklists.DELETE("/:id", middleware.RequireWrite(svc.Permission, "checklists"), h.Checklist.Delete)
			checklists.POST("/batch-delete", middleware.RequireWrite(svc.Permission, "checklists"), h.Checklist.BatchDelete)
		}

		kpis := v1.Group("/kpis")
		{
			kpis.GET("", middleware.RequireRead(svc.Permission, "kpis"), h.KPI.List)
			kpis.GET("/code-exists", middleware.RequireRead(svc.Permission, "kpis"), h.KPI.CodeExists)
			kpis.GET("/:id", middleware.RequireRead(svc.Permission, "kpis"), h.KPI.Get)
			kpis.POST("", middleware.RequireWrite(svc.Permission, "kpis"), h.KPI.Create)
			kpis.PUT("/:id", middleware.RequireWrite(svc.Permission, "kpis"), h.KPI.Update)
			kpis.DELETE("/:id", middleware.RequireWrite(svc.Permission, "kpis"), h.KPI.Delete)
			kpis.POST("/batch-delete", middleware.RequireWrite(svc.Permission, "kpis"), h.KPI.BatchDelete)
		}

		hardware := v1.Group("/hardware")
		{
			hardware.GET("", middleware.RequireRead(svc.Permission, "hardware"), h.Hardware.List)
			hardware.GET("/code-exists", middleware.RequireRead(svc.Permission, "hardware"), h.Hardware.CodeExists)
			hardware.GET("/:id", middleware.RequireRead(svc.Permission, "hardware"), h.Hardware.Get)
			hardware.POST("", middleware.RequireWrite(svc.Permission, "hardware"), h.Hardware.Create)
			hardware.PUT("/:id", middleware.RequireWrite(svc.Permission, "hardware"), h.Hardware.Update)
			hardware.DELETE("/:id", middleware.RequireWrite(svc.Permission, "hardware"), h.Hardware.Delete)
			hardware.POST("/batch-delete", middleware.RequireWrite(svc.Permission, "hardware"), h.Hardware.BatchDelete)
			hardware.POST("/:id/attachments", middleware.RequireWrite(svc.Permission, "hardware"), h.Hardware.UploadAttachment)
			hardware.DELETE("/:id/attachments/:attachmentId", middleware.RequireWrite(svc.Permission, "hardware"), h.Hardware.DeleteAttachment)
		}

		users := v1.Group("/users")
		{
			users.GET("", middleware.RequireRead(svc.Permission, "users"), h.User.List)
			users.GET("/code-exists", middleware.RequireRead(svc.Permission, "users"), h.User.CodeExists)
			users.GET("/:id", middleware.RequireRead(svc.Permission, "users"), h.User.Get)
			users.POST("", middleware.RequireWrite(svc.Permission, "users"), h.User.Create)
			users.PUT("/:id", middleware.RequireWrite(svc.Permission, "users"), h.User.Update)
			users.DELETE("/:id", middleware.RequireWrite(svc.Permission, "users"), h.User.Delete)
			users.POST("/batch-delete", middleware.RequireWrite(svc.Permission, "users"), h.User.BatchDelete)
			users.POST("/:id/profile-image", middleware.RequireWrite(svc.Permission, "users"), h.User.UploadProfileImage)
		}

		departments := v1.Group("/departments")
		{
			departments.GET("", middleware.RequireRead(svc.Permission, "departments"), h.Department.List)
			departments.GET("/code-exists", middleware.RequireRead(svc.Permission, "departments"), h.Department.CodeExists)
			departments.GET("/:id", middleware.RequireRead(svc.Permission, "departments"), h.Department.Get)
			departments.POST("", middleware.RequireWrite(svc.Permission, "departments"), h.Department.Create)
			departments.PUT("/:id", middleware.RequireWrite(svc.Permission, "departments"), h.Department.Update)
			departments.DELETE("/:id", middleware.RequireWrite(svc.Permission, "departments"), h.Department.Delete)
			departments.POST("/batch-delete", middleware.RequireWrite(svc.Permission, "departments"), h.Department.BatchDelete)
		}

		changelogs := v1.Group("/changelogs")
		{
			changelogs.GET("", middleware.RequireRead(svc.Permission, "changelogs"), h.ChangeLog.List)
			changelogs.POST("", h.ChangeLog.Create)
		}
	}
}
