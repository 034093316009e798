package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/database"
	"github.com/stemsi/daycare-backend/internal/handler"
	"github.com/stemsi/daycare-backend/internal/logger"
	"github.com/stemsi/daycare-backend/internal/render"
	"github.com/stemsi/daycare-backend/internal/repository"
	"github.com/stemsi/daycare-backend/internal/router"
	"github.com/stemsi/daycare-backend/internal/service"
	"github.com/stemsi/daycare-backend/internal/validator"
	"github.com/stemsi/daycare-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("timezone", cfg.Location.String()).
		Msg("Starting Daycare Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Document Renderer ─────────────────────────────────────────────
	// Invoices are still stored without a font; only the PDF is unavailable.
	pdfRenderer := render.NewPDFRenderer(cfg.InvoiceFontPath)
	if err := pdfRenderer.Check(); err != nil {
		log.Warn().Err(err).Str("path", cfg.InvoiceFontPath).Msg("Invoice PDFs disabled until the font is installed")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	penaltyRepo := repository.NewPenaltyRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	activityService := service.NewActivityService(rdb, activityRepo, log)
	authService := service.NewAuthService(cfg, rdb)
	adminService := service.NewAdminService(adminRepo, roleRepo)
	settingService := service.NewSettingService(settingRepo, log)
	studentService := service.NewStudentService(studentRepo, activityService, cfg.Now, log)
	penaltyService := service.NewPenaltyService(penaltyRepo, studentRepo, activityService)
	attendanceService := service.NewAttendanceService(attendanceRepo, studentRepo, penaltyRepo, activityService, cfg, cfg.Now, log)
	staffService := service.NewStaffService(staffRepo, activityService, cfg.Now)
	invoiceService := service.NewInvoiceService(
		studentRepo, penaltyRepo, invoiceRepo, settingService, pdfRenderer,
		activityService, config.Schedules, cfg.Now, log,
	)
	migrationService := service.NewScheduleMigrationService(
		studentRepo, service.NewRedisRunLock(rdb), activityService, cfg.Now, log,
	)
	dashboardService := service.NewDashboardService(dashboardRepo, studentRepo, cfg.Now)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, adminService, log),
		Student:    handler.NewStudentHandler(studentService, log),
		Penalty:    handler.NewPenaltyHandler(penaltyService, log),
		Attendance: handler.NewAttendanceHandler(attendanceService, log),
		Staff:      handler.NewStaffHandler(staffService, log),
		Invoice:    handler.NewInvoiceHandler(invoiceService, log),
		Activity:   handler.NewActivityHandler(activityService, log),
		Schedule:   handler.NewScheduleHandler(migrationService, log),
		Setting:    handler.NewSettingHandler(settingService, log),
		Dashboard:  handler.NewDashboardHandler(dashboardService, log),
		System:     handler.NewSystemHandler(rdb, pool, log),
		WS:         handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	activityWorker := worker.NewActivityWorker(rdb, activityRepo, log)
	migrationWorker := worker.NewScheduleMigrationWorker(migrationService, cfg.ScheduleMigrationCheck, log)

	workers.Add(2)
	go func() {
		defer workers.Done()
		activityWorker.Start(workerCtx)
	}()
	go func() {
		defer workers.Done()
		migrationWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the activity batch to flush.
	workerCancel()
	drained := make(chan struct{})
	go func() {
		workers.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("Workers did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
