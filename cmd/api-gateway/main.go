package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academy-admin-api/api/swagger"
	"github.com/noah-isme/academy-admin-api/internal/handler"
	"github.com/noah-isme/academy-admin-api/internal/middleware"
	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/internal/repository"
	"github.com/noah-isme/academy-admin-api/internal/service"
	"github.com/noah-isme/academy-admin-api/pkg/assistant"
	"github.com/noah-isme/academy-admin-api/pkg/cache"
	"github.com/noah-isme/academy-admin-api/pkg/config"
	"github.com/noah-isme/academy-admin-api/pkg/database"
	"github.com/noah-isme/academy-admin-api/pkg/jobs"
	"github.com/noah-isme/academy-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academy-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academy-admin-api/pkg/middleware/requestid"
	"github.com/noah-isme/academy-admin-api/pkg/response"
	"github.com/noah-isme/academy-admin-api/pkg/storage"
)

// @title Music Academy Admin API
// @version 1.0.0
// @description Students, sessions, attendance, payments and teacher requests of a music academy
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if reporter := logger.NewRollbarReporter(cfg, logr); reporter != nil {
		response.SetReporter(reporter)
		defer logger.FlushRollbar()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	binding.EnableDecoderDisallowUnknownFields = true

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logr.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}
	clock := service.NewClock(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, running without cache", zap.Error(err))
		} else {
			redisRepo := repository.NewCacheRepository(client, logr)
			defer redisRepo.Close() //nolint:errcheck
			cacheRepo = redisRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cacheRepo != nil)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	requestRepo := repository.NewTeacherRequestRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	seedRepo := repository.NewSeedRepository(db)

	invoiceStore, err := storage.NewLocalStorage(cfg.Invoices.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare invoice storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Invoices.SignedURLSecret, cfg.Invoices.SignedURLTTL)
	invoiceSvc := service.NewInvoiceService(installmentRepo, studentRepo, invoiceStore, signer, metricsSvc,
		cfg.APIPrefix+"/payments/invoices/download", clock, logr)

	invoiceQueue := jobs.NewQueue("invoices", invoiceSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Invoices.WorkerConcurrency,
		MaxRetries: cfg.Invoices.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	invoiceQueue.Start(context.WithoutCancel(ctx))

	var generator *assistant.Gemini
	if cfg.Assistant.Enabled() {
		generator, err = assistant.NewGemini(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model)
		if err != nil {
			logr.Warn("assistant disabled", zap.Error(err))
		} else {
			defer generator.Close() //nolint:errcheck
		}
	}
	var assistantSvc *service.AssistantService
	if generator != nil {
		assistantSvc = service.NewAssistantService(generator, cfg.Assistant.Timeout, validate, logr)
	} else {
		assistantSvc = service.NewAssistantService(nil, cfg.Assistant.Timeout, validate, logr)
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, gradeRepo, evaluationRepo, installmentRepo, cacheSvc, clock, validate, logr)
	paymentSvc := service.NewPaymentService(installmentRepo, studentRepo, invoiceQueue, cacheSvc, metricsSvc, clock, validate, logr)
	scheduleSvc := service.NewScheduleService(sessionRepo, metricsSvc, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, sessionRepo, cacheSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, sessionRepo, enrollmentRepo, validate, logr)
	requestSvc := service.NewTeacherRequestService(requestRepo, cacheSvc, metricsSvc, clock, validate, logr)
	semesterSvc := service.NewSemesterService(semesterRepo, sessionRepo, cacheSvc, logr)
	migrator, err := database.NewMigrator(db)
	if err != nil {
		logr.Fatal("failed to prepare schema migrations", zap.Error(err))
	}
	databaseSvc := service.NewDatabaseService(migrator, seedRepo, cfg.Seed.DefaultPassword, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, invoiceSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, attendanceSvc)
	requestHandler := handler.NewTeacherRequestHandler(requestSvc)
	semesterHandler := handler.NewSemesterHandler(semesterSvc)
	assistantHandler := handler.NewAssistantHandler(assistantSvc)
	databaseHandler := handler.NewDatabaseHandler(databaseSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	const (
		admin     = models.RoleAdmin
		teacher   = models.RoleTeacher
		upper     = models.RoleUpperManagement
		dashboard = models.RoleHighLevelDashboard
	)
	audit := func(action, resource, param string) gin.HandlerFunc {
		return middleware.Audit(userRepo, logr, action, resource, param)
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/database/initialize", databaseHandler.Initialize)
	api.GET("/payments/invoices/download", paymentHandler.DownloadInvoice)

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))
	secured.GET("/auth/me", authHandler.Me)

	students := secured.Group("/students")
	students.GET("", middleware.RequireRoles(admin, teacher, upper, dashboard), studentHandler.List)
	students.GET("/:id", middleware.RequireRoles(admin, teacher, upper, dashboard), studentHandler.Get)
	students.POST("", middleware.RequireRoles(admin), studentHandler.Create)
	students.PUT("/:id/level", middleware.RequireRoles(admin), audit(models.AuditActionLevelChanged, "students", "id"), studentHandler.UpdateLevel)
	students.POST("/:id/grades", middleware.RequireRoles(admin), studentHandler.AddGrade)
	students.POST("/:id/evaluations", middleware.RequireRoles(admin), studentHandler.AddEvaluation)

	semesters := secured.Group("/semesters")
	semesters.Use(middleware.RequireRoles(admin, teacher, upper, dashboard))
	semesters.GET("", semesterHandler.List)
	semesters.GET("/:id/schedule", semesterHandler.Schedule)

	sessions := secured.Group("/sessions")
	sessions.Use(middleware.RequireRoles(admin, teacher, upper, dashboard))
	sessions.GET("", scheduleHandler.Week)
	sessions.GET("/export", scheduleHandler.Export)

	secured.POST("/attendance", middleware.RequireRoles(admin, teacher), enrollmentHandler.RecordAttendance)

	roster := secured.Group("/session-students")
	roster.POST("", middleware.RequireRoles(admin), audit(models.AuditActionEnrollmentEdit, "session_students", ""), enrollmentHandler.Enroll)
	roster.DELETE("", middleware.RequireRoles(admin), audit(models.AuditActionEnrollmentEdit, "session_students", ""), enrollmentHandler.Remove)
	roster.PUT("/pending", middleware.RequireRoles(admin, teacher), audit(models.AuditActionEnrollmentEdit, "session_students", ""), enrollmentHandler.SetPendingRemoval)

	requests := secured.Group("/teacher-requests")
	requests.GET("", middleware.RequireRoles(admin, teacher, upper, dashboard), requestHandler.List)
	requests.POST("", middleware.RequireRoles(admin, teacher), requestHandler.Create)
	requests.PUT("", middleware.RequireRoles(admin), audit(models.AuditActionRequestReview, "requests", ""), requestHandler.Review)

	payments := secured.Group("/payments")
	payments.GET("/students", middleware.RequireRoles(admin, upper, dashboard), paymentHandler.Students)
	payments.GET("/export", middleware.RequireRoles(admin, upper, dashboard), paymentHandler.Export)
	payments.GET("/installments/:id/invoice", middleware.RequireRoles(admin, upper, dashboard), paymentHandler.InvoiceLink)
	payments.POST("/assign-plan", middleware.RequireRoles(admin), audit(models.AuditActionPlanAssigned, "installments", ""), paymentHandler.AssignPlan)
	payments.POST("/change-due-dates", middleware.RequireRoles(admin), audit(models.AuditActionDueDayChanged, "installments", ""), paymentHandler.ChangeDueDates)
	payments.POST("/mark-paid", middleware.RequireRoles(admin), audit(models.AuditActionPaymentMarked, "installments", ""), paymentHandler.MarkPaid)
	payments.POST("/set-grace-period", middleware.RequireRoles(admin), audit(models.AuditActionGraceGranted, "installments", ""), paymentHandler.SetGracePeriod)

	assist := secured.Group("/assistant")
	assist.Use(middleware.RequireRoles(admin, teacher))
	assist.POST("/grade-suggestions", assistantHandler.SuggestGrade)
	assist.POST("/schedule-suggestions", assistantHandler.SuggestSchedule)

	secured.GET("/system/metrics", middleware.RequireRoles(admin, upper, dashboard), metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "assistant", generator != nil, "cache", cacheSvc.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	invoiceQueue.Stop(shutdownCtx)
}
