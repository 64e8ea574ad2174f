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
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sis-api/api/swagger"
	"github.com/noah-isme/sis-api/internal/handler"
	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/repository"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/cache"
	"github.com/noah-isme/sis-api/pkg/config"
	"github.com/noah-isme/sis-api/pkg/database"
	"github.com/noah-isme/sis-api/pkg/docstore"
	"github.com/noah-isme/sis-api/pkg/jobs"
	"github.com/noah-isme/sis-api/pkg/logger"
	"github.com/noah-isme/sis-api/pkg/mailer"
	corsmiddleware "github.com/noah-isme/sis-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sis-api/pkg/middleware/requestid"
)

// @title Student Information System API
// @version 1.0.0
// @description Programs, course catalog, enrollments and academic progress.
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Catalog.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	contactStore, err := newContactStore(ctx, cfg, db)
	if err != nil {
		logr.Fatal("failed to init contact store", zap.Error(err))
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	programRepo := repository.NewProgramRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	structureRepo := repository.NewProgramStructureRepository(db)
	requirementRepo := repository.NewRequirementRepository(db)
	tuitionRepo := repository.NewTuitionRepository(db)
	admissionRepo := repository.NewAdmissionRepository(db)
	studentProgramRepo := repository.NewStudentProgramRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "sis")

	notifier := service.NewNotificationService(mailer.New(cfg.Mail, logr), cfg.Contact.NotifyRecipients, metricsSvc, logr)
	queue := jobs.NewQueue("notifications", notifier.Handle, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})
	queue.Start(ctx)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, redisClient != nil)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(userRepo, logr)
	programSvc := service.NewProgramService(programRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, cacheSvc, cfg.Catalog.CacheTTL, validate, logr)
	structureSvc := service.NewProgramStructureService(structureRepo, programSvc, courseRepo, validate, logr)
	requirementSvc := service.NewRequirementService(requirementRepo, programSvc, validate, logr)
	tuitionSvc := service.NewTuitionService(tuitionRepo, programSvc, validate, logr)
	admissionSvc := service.NewAdmissionService(admissionRepo, programSvc, queue, validate, logr)
	contactSvc := service.NewContactService(contactStore, queue, validate, logr)
	studentProgramSvc := service.NewStudentProgramService(studentProgramRepo, programSvc, structureSvc, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentProgramRepo, structureSvc, metricsSvc, validate, logr)
	progressSvc := service.NewProgressService(studentProgramRepo, enrollmentRepo, courseSvc, structureSvc, metricsSvc, logr)
	transcriptSvc := service.NewTranscriptService(studentSvc, progressSvc, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	checks := map[string]handler.Pinger{"postgres": handler.PingFunc(db.PingContext)}
	if redisClient != nil {
		checks["redis"] = cacheRepo
	}

	handler.SetupRouter(r, cfg.APIPrefix, handler.Handlers{
		Auth:           handler.NewAuthHandler(authSvc),
		Students:       handler.NewStudentHandler(studentSvc),
		Programs:       handler.NewProgramHandler(programSvc),
		Structures:     handler.NewStructureHandler(structureSvc),
		ProgramInfo:    handler.NewProgramInfoHandler(requirementSvc, tuitionSvc),
		Courses:        handler.NewCourseHandler(courseSvc),
		Admissions:     handler.NewAdmissionHandler(admissionSvc),
		Contact:        handler.NewContactHandler(contactSvc),
		StudentProgram: handler.NewStudentProgramHandler(studentProgramSvc),
		Enrollments:    handler.NewEnrollmentHandler(enrollmentSvc),
		Progress:       handler.NewProgressHandler(progressSvc, transcriptSvc),
		Metrics:        handler.NewMetricsHandler(metricsSvc, checks),
	}, authSvc, logr)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "contact_store", cfg.Contact.Store)
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
	queue.Stop()
}

func newContactStore(ctx context.Context, cfg *config.Config, db *sqlx.DB) (service.ContactStore, error) {
	if cfg.Contact.Store != config.ContactStoreDynamoDB {
		return repository.NewContactRepository(db), nil
	}
	client, err := docstore.NewDynamoDB(ctx, cfg.Contact)
	if err != nil {
		return nil, err
	}
	return repository.NewContactDynamoRepository(client, cfg.Contact.DynamoTable), nil
}
