package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/attendance-service/internal/api/http"
	"github.com/spec-kit/attendance-service/internal/api/http/handlers"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/clock"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/observability"
	"github.com/spec-kit/attendance-service/internal/persistence"
	"github.com/spec-kit/attendance-service/internal/repository"
	"github.com/spec-kit/attendance-service/internal/repository/memory"
	"github.com/spec-kit/attendance-service/internal/service"
	"github.com/spec-kit/attendance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		tokenRepo      repository.TokenRepository
		attendanceRepo repository.AttendanceRepository
		studentRepo    repository.StudentRepository
		classRepo      repository.ClassRepository
		departmentRepo repository.DepartmentRepository
		adminRepo      repository.AdminRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		tokenRepo = repository.NewTokenRepository(pool)
		attendanceRepo = repository.NewAttendanceRepository(pool)
		studentRepo = repository.NewStudentRepository(pool)
		classRepo = repository.NewClassRepository(pool)
		departmentRepo = repository.NewDepartmentRepository(pool)
		adminRepo = repository.NewAdminRepository(pool)
	} else {
		store := memory.NewStore()
		tokenRepo = store.Tokens()
		attendanceRepo = store.Attendance()
		studentRepo = store.Students()
		classRepo = store.Classes()
		departmentRepo = store.Departments()
		adminRepo = store.Admins()
	}

	systemClock := clock.System()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	tokenService := service.NewTokenService(service.TokenDependencies{
		TokenRepo:  tokenRepo,
		Clock:      systemClock,
		Policy:     cfg.Token,
		Dispatcher: dispatcher,
	})
	attendanceService := service.NewAttendanceService(service.AttendanceDependencies{
		TokenRepo:      tokenRepo,
		AttendanceRepo: attendanceRepo,
		Clock:          systemClock,
		Dispatcher:     dispatcher,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		TokenRepo:      tokenRepo,
		AttendanceRepo: attendanceRepo,
		Clock:          systemClock,
		Location:       cfg.App.Location(),
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		StudentRepo: studentRepo,
		AdminRepo:   adminRepo,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), studentRepo, adminRepo)
	rateLimiter := httptransport.NewSubmissionRateLimiter(redis.Client, cfg.RateLimit, logger)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tokens:         handlers.NewTokensHandler(tokenService),
		Attendance:     handlers.NewAttendanceHandler(attendanceService),
		Reports:        handlers.NewReportsHandler(reportService),
		Catalog:        handlers.NewCatalogHandler(classRepo, departmentRepo),
		AuthMiddleware: authMiddleware,
		RateLimiter:    rateLimiter,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
