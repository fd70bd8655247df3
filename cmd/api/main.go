package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/karierni-denik/denik-api/internal/config"
	"github.com/karierni-denik/denik-api/internal/database"
	"github.com/karierni-denik/denik-api/internal/handler"
	"github.com/karierni-denik/denik-api/internal/middleware"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
	"github.com/karierni-denik/denik-api/internal/router"
	"github.com/karierni-denik/denik-api/internal/service"
	"github.com/karierni-denik/denik-api/pkg/drive"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.ClassSection{},
		&models.ClassTeacher{},
		&models.ClassEnrollment{},
		&models.Template{},
		&models.Assignment{},
		&models.Question{},
		&models.Option{},
		&models.OutcomeCategory{},
		&models.OptionOutcomePoint{},
		&models.Submission{},
		&models.SubmissionAnswer{},
		&models.SubmissionAttachment{},
		&models.Notice{},
		&models.Contact{},
		&models.PortfolioFile{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	uploader, err := drive.New(drive.Config{
		CloudName: cfg.DriveCloudName,
		APIKey:    cfg.DriveAPIKey,
		APISecret: cfg.DriveAPISecret,
		Folder:    cfg.DriveFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create drive client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	accountRepo := repository.NewAccountRepository(db)
	classRepo := repository.NewClassRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	contentRepo := repository.NewContentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	contactRepo := repository.NewContactRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	guard := service.NewAccessGuard(classRepo, assignmentRepo)
	events := service.NewEventPublisher(natsConn, "denik", logger)
	activityService := service.NewActivityService(activityRepo, logger)

	authService := service.NewAuthService(accountRepo, validate, cfg.AdminEmails, logger)
	classService := service.NewClassService(classRepo, accountRepo, guard, activityService, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, contentRepo, submissionRepo, templateRepo, guard, events, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, contentRepo, guard, activityService, redisClient, validate, logger)
	resultsService := service.NewResultsService(assignmentRepo, submissionRepo, contentRepo, accountRepo, guard, redisClient, cfg.ResultsCacheTTL, logger)
	templateService := service.NewTemplateService(templateRepo, contentRepo, assignmentRepo, validate, logger)
	noticeService := service.NewNoticeService(noticeRepo, events, redisClient, cfg.NoticeCacheTTL, validate, logger)
	contactService := service.NewContactService(contactRepo, validate, logger)
	portfolioService := service.NewPortfolioService(portfolioRepo, uploader, logger)
	accountAdminService := service.NewAccountAdminService(accountRepo, activityService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:          handler.NewAuthHandler(authService, cfg.JWTSecret, cfg.TokenTTL, logger),
		ClassHandler:         handler.NewClassHandler(classService, resultsService, logger),
		AssignmentHandler:    handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler:    handler.NewSubmissionHandler(submissionService, logger),
		TemplateHandler:      handler.NewTemplateHandler(templateService, logger),
		NoticeHandler:        handler.NewNoticeHandler(noticeService, logger),
		ContactHandler:       handler.NewContactHandler(contactService, logger),
		PortfolioHandler:     handler.NewPortfolioHandler(portfolioService, logger),
		AdminAccountHandler:  handler.NewAdminAccountHandler(accountAdminService, logger),
		AdminActivityHandler: handler.NewAdminActivityHandler(activityService, logger),
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
		JoinRateLimiter:      middleware.RateLimit("class-join", cfg.JoinRateLimit, cfg.JoinRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
