package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/aklinic/internal/audit"
	"github.com/BruksfildServices01/aklinic/internal/auth"
	"github.com/BruksfildServices01/aklinic/internal/handlers"
	infraRepo "github.com/BruksfildServices01/aklinic/internal/infra/repository"
	"github.com/BruksfildServices01/aklinic/internal/metrics"
	"github.com/BruksfildServices01/aklinic/internal/middleware"
	"github.com/BruksfildServices01/aklinic/internal/models"
	"github.com/BruksfildServices01/aklinic/internal/notify"
	"github.com/BruksfildServices01/aklinic/internal/receipts"
	"github.com/BruksfildServices01/aklinic/internal/refcache"
	ucVisit "github.com/BruksfildServices01/aklinic/internal/usecase/visit"
	"github.com/BruksfildServices01/aklinic/internal/web"
)

const refCacheTTL = time.Minute

// Dependencies are built once in main and shared by every route.
// Redis and Archiver may be nil.
type Dependencies struct {
	DB       *gorm.DB
	Guard    *auth.Guard
	Calendar ucVisit.Calendar
	Notifier notify.Notifier
	Audit    audit.Recorder
	Metrics  *metrics.Metrics
	Redis    redis.Cmdable
	Archiver *receipts.S3Archiver
	Logger   zerolog.Logger

	LoginRateLimit middleware.RateLimitConfig
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) error {

	// ======================================================
	// 🌍 TEMPLATES + GATEKEEPER
	// ======================================================
	tmpl, err := web.Templates(deps.Calendar.Loc)
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(middleware.Gatekeeper(deps.Guard, middleware.DefaultPageRules()))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	visitRepo := infraRepo.NewVisitGormRepository(deps.DB)
	userRepo := infraRepo.NewUserGormRepository(deps.DB)
	refs := refcache.New(refcache.NewGormLoader(deps.DB), refCacheTTL)

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createVisitUC := ucVisit.NewCreateVisit(
		visitRepo,
		deps.Notifier,
		deps.Audit,
		deps.Metrics,
		deps.Calendar,
	)

	updateVisitUC := ucVisit.NewUpdateVisit(
		visitRepo,
		deps.Notifier,
		deps.Audit,
		deps.Calendar,
	)

	listVisitsUC := ucVisit.NewListVisits(visitRepo, deps.Calendar)
	historyUC := ucVisit.NewPatientHistory(visitRepo)
	receiptsUC := ucVisit.NewReceipts(visitRepo, deps.Audit, deps.Calendar)
	analyticsUC := ucVisit.NewAnalytics(visitRepo, deps.Calendar)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	log := deps.Logger

	authHandler := handlers.NewAuthHandler(userRepo, deps.Guard, deps.Audit, deps.Metrics, log)

	publicHandler := handlers.NewPublicHandler(
		createVisitUC,
		listVisitsUC,
		refs,
		deps.Calendar,
		log,
	)

	receptionHandler := handlers.NewReceptionHandler(
		createVisitUC,
		listVisitsUC,
		historyUC,
		receiptsUC,
		deps.Archiver,
		refs,
		log,
	)

	doctorHandler := handlers.NewDoctorHandler(
		listVisitsUC,
		updateVisitUC,
		deps.Calendar,
		log,
	)

	adminHandler := handlers.NewAdminHandler(
		deps.DB,
		analyticsUC,
		listVisitsUC,
		refs,
		deps.Audit,
		deps.Calendar,
		log,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB, deps.Calendar.Loc, log)

	// ======================================================
	// 🌐 PUBLIC PAGES
	// ======================================================
	r.GET("/", publicHandler.Landing)
	r.GET("/login", publicHandler.LoginPage)
	r.GET("/tv", publicHandler.TV)

	// ======================================================
	// 🔐 STAFF PAGES (Gatekeeper)
	// ======================================================
	r.GET("/reception", receptionHandler.Page)
	r.GET("/reception/visits/:id/receipt", receptionHandler.ReceiptPage)
	r.GET("/doctor", doctorHandler.Page)
	r.GET("/admin", adminHandler.Page)
	r.GET("/admin/dashboard", adminHandler.Page)

	// ======================================================
	// 🌐 PUBLIC API
	// ======================================================
	api := r.Group("/api")

	api.POST(
		"/auth/login",
		middleware.RateLimiter(deps.Redis, deps.LoginRateLimit, log),
		authHandler.Login,
	)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/booking", publicHandler.Booking)
	api.GET("/queue/today", publicHandler.QueueToday)

	// ======================================================
	// 🔐 STAFF API
	// ======================================================
	staff := api.Group("")
	staff.Use(middleware.AnyStaff(deps.Guard))
	{
		staff.GET("/me", authHandler.Me)
	}

	frontDesk := api.Group("")
	frontDesk.Use(middleware.RequireRole(deps.Guard, models.RoleReception, models.RoleAdmin))
	{
		frontDesk.POST("/reception/visits", receptionHandler.CreateVisit)
		frontDesk.GET("/reception/visits", receptionHandler.ListVisits)
		frontDesk.PATCH("/reception/visits/:id/payment", receptionHandler.UpdatePayment)
		frontDesk.GET("/patients/search", receptionHandler.SearchPatient)
		frontDesk.POST("/visits/:id/receipt/archive", receptionHandler.ArchiveReceipt)
	}

	receiptReaders := api.Group("")
	receiptReaders.Use(middleware.RequireRole(
		deps.Guard,
		models.RoleReception,
		models.RoleAdmin,
		models.RoleDoctor,
	))
	{
		receiptReaders.GET("/visits/:id/receipt", receptionHandler.ReceiptJSON)
	}

	doctor := api.Group("/doctor")
	doctor.Use(middleware.RequireRole(deps.Guard, models.RoleDoctor))
	{
		doctor.POST("/visits/:id", doctorHandler.UpdateVisit)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole(deps.Guard, models.RoleAdmin))
	{
		admin.GET("/analytics", adminHandler.Analytics)
		admin.GET("/visits/export", adminHandler.Export)

		admin.GET("/services", adminHandler.ListServices)
		admin.POST("/services", adminHandler.CreateService)
		admin.PATCH("/services/:id", adminHandler.UpdateService)

		admin.GET("/doctors", adminHandler.ListDoctors)
		admin.POST("/doctors", adminHandler.CreateDoctor)

		admin.GET("/audit-logs", auditLogsHandler.List)
	}

	return nil
}
