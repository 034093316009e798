package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/handler"
	"github.com/stemsi/daycare-backend/internal/middleware"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/response"
	"github.com/stemsi/daycare-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Student    *handler.StudentHandler
	Penalty    *handler.PenaltyHandler
	Attendance *handler.AttendanceHandler
	Staff      *handler.StaffHandler
	Invoice    *handler.InvoiceHandler
	Activity   *handler.ActivityHandler
	Schedule   *handler.ScheduleHandler
	Setting    *handler.SettingHandler
	Dashboard  *handler.DashboardHandler
	System     *handler.SystemHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-Invoice-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	publicAPI.Use(middleware.CacheControl(300))
	{
		publicAPI.GET("/settings", handlers.Setting.GetPublicSettings)
	}

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/admin/login", authLimiter.Middleware(), handlers.Auth.AdminLogin)

		// Authenticated profile routes
		session := []gin.HandlerFunc{
			middleware.RequireAdminJWT(authService),
			middleware.CheckAdminSession(authService),
		}
		auth.GET("/admin/me", append(session, handlers.Auth.GetAdminProfile)...)
		auth.POST("/admin/logout", append(session, handlers.Auth.AdminLogout)...)
	}

	// ─── 2. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireAdminWSAuth(authService),
		middleware.CheckAdminSession(authService),
	)
	{
		ws.GET("/admin/changes",
			middleware.RequirePermission(model.PermissionActivityRead),
			handlers.WS.ChangeStream,
		)
	}

	// ─── 3. Admin Group (JWT + Session + RBAC) ─────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAdminJWT(authService),
		middleware.CheckAdminSession(authService),
		middleware.NoStore(),
	)
	{
		// Admin users
		adminAPI.POST("/users",
			middleware.RequirePermission(model.PermissionAdminsWrite),
			handlers.Auth.CreateAdmin,
		)

		// Schedule catalog
		adminAPI.GET("/schedules",
			middleware.CacheControl(3600),
			handlers.Schedule.ListSchedules,
		)
		adminAPI.POST("/schedules/migrate",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Schedule.MigrateSchedules,
		)

		// Students
		adminAPI.GET("/students",
			middleware.RequirePermission(model.PermissionStudentsRead),
			handlers.Student.ListStudents,
		)
		adminAPI.POST("/students",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Student.CreateStudent,
		)
		adminAPI.GET("/students/:id",
			middleware.RequirePermission(model.PermissionStudentsRead),
			handlers.Student.GetStudent,
		)
		adminAPI.PUT("/students/:id",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Student.UpdateStudent,
		)
		adminAPI.DELETE("/students/:id",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Student.DeleteStudent,
		)
		adminAPI.POST("/students/:id/enrollment-fee",
			middleware.RequirePermission(model.PermissionStudentsWrite, model.PermissionInvoicesWrite),
			handlers.Student.MarkEnrollmentFeePaid,
		)

		// Penalties
		adminAPI.GET("/students/:id/penalties",
			middleware.RequirePermission(model.PermissionPenaltiesRead),
			handlers.Penalty.ListPenalties,
		)
		adminAPI.POST("/students/:id/penalties",
			middleware.RequirePermission(model.PermissionPenaltiesWrite),
			handlers.Penalty.CreatePenalty,
		)
		adminAPI.DELETE("/students/:id/penalties/:penalty_id",
			middleware.RequirePermission(model.PermissionPenaltiesWrite),
			handlers.Penalty.DeletePenalty,
		)

		// Attendance
		adminAPI.POST("/students/:id/check-in",
			middleware.RequirePermission(model.PermissionAttendanceWrite),
			handlers.Attendance.CheckIn,
		)
		adminAPI.POST("/students/:id/check-out",
			middleware.RequirePermission(model.PermissionAttendanceWrite),
			handlers.Attendance.CheckOut,
		)
		adminAPI.GET("/students/:id/attendance",
			middleware.RequirePermission(model.PermissionAttendanceRead),
			handlers.Attendance.ListByStudentMonth,
		)
		adminAPI.GET("/attendance",
			middleware.RequirePermission(model.PermissionAttendanceRead),
			handlers.Attendance.ListByDate,
		)
		adminAPI.GET("/attendance/export",
			middleware.RequirePermission(model.PermissionAttendanceRead),
			handlers.Attendance.ExportMonth,
		)

		// Invoices
		adminAPI.GET("/students/:id/invoices",
			middleware.RequirePermission(model.PermissionInvoicesRead),
			handlers.Invoice.ListInvoices,
		)
		adminAPI.GET("/students/:id/invoices/preview",
			middleware.RequirePermission(model.PermissionInvoicesRead),
			handlers.Invoice.PreviewInvoice,
		)
		adminAPI.POST("/students/:id/invoices",
			middleware.RequirePermission(model.PermissionInvoicesWrite),
			handlers.Invoice.GenerateInvoice,
		)
		adminAPI.GET("/students/:id/invoices/:invoice_id/pdf",
			middleware.RequirePermission(model.PermissionInvoicesRead),
			handlers.Invoice.DownloadInvoice,
		)

		// Staff time-clock
		adminAPI.GET("/staff",
			middleware.RequirePermission(model.PermissionStaffRead),
			handlers.Staff.ListStaff,
		)
		adminAPI.POST("/staff",
			middleware.RequirePermission(model.PermissionStaffWrite),
			handlers.Staff.CreateStaff,
		)
		adminAPI.POST("/staff/:id/clock-in",
			middleware.RequirePermission(model.PermissionStaffWrite),
			handlers.Staff.ClockIn,
		)
		adminAPI.POST("/staff/:id/clock-out",
			middleware.RequirePermission(model.PermissionStaffWrite),
			handlers.Staff.ClockOut,
		)
		adminAPI.GET("/staff/:id/time-entries",
			middleware.RequirePermission(model.PermissionStaffRead),
			handlers.Staff.TimeSheet,
		)

		// History log
		adminAPI.GET("/activity",
			middleware.RequirePermission(model.PermissionActivityRead),
			handlers.Activity.ListActivity,
		)

		// Settings
		adminAPI.GET("/settings",
			middleware.RequirePermission(model.PermissionSettingsRead),
			handlers.Setting.GetAllSettings,
		)
		adminAPI.PUT("/settings",
			middleware.RequirePermission(model.PermissionSettingsWrite),
			handlers.Setting.UpdateSettings,
		)

		// Dashboard
		adminAPI.GET("/dashboard",
			handlers.Dashboard.GetDashboardData, // Open to all admins
		)

		// System Monitoring
		adminAPI.GET("/system/metrics",
			middleware.RequirePermission(model.PermissionSettingsRead),
			handlers.System.SystemMetricsSSE,
		)
	}

	return router
}
