package api

import (
	"log"
	"log/slog"
	"os"

	"github.com/SundayYogurt/blog_service/config"
	"github.com/SundayYogurt/blog_service/infra/queue"
	"github.com/SundayYogurt/blog_service/internal/api/rest/handlers"
	"github.com/SundayYogurt/blog_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/blog_service/internal/domain"
	"github.com/SundayYogurt/blog_service/internal/helper"
	"github.com/SundayYogurt/blog_service/internal/notify"
	"github.com/SundayYogurt/blog_service/internal/repository"
	"github.com/SundayYogurt/blog_service/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := fiber.New(fiber.Config{
		ErrorHandler: NewErrorHandler(logger),
	})

	// ---------- Middleware ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- Migration (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260831

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.PasswordReset{},
		&domain.Post{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	authHelper := helper.SetupAuth(cfg.JWTSecret, cfg.JWTExpiresIn, cfg.JWTRefreshExpiresIn)

	var sender notify.Sender
	switch cfg.MailProvider {
	case "kafka":
		sender = notify.NewKafkaSender(queue.NewProducer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
		))
	default:
		sender = notify.NewSMTPSender(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUser,
			cfg.SMTPPassword,
			cfg.MailFrom,
			cfg.MailFromName,
		)
	}
	mailer := notify.NewEmailService(sender, cfg.MailFromName, cfg.FrontendURL, logger)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)
	postRepo := repository.NewPostRepository(db)

	// ---------- Services ----------
	authSvc := services.NewAuthService(userRepo, tokenRepo, resetRepo, authHelper, mailer, logger)
	userSvc := services.NewUserService(userRepo, logger)
	postSvc := services.NewPostService(postRepo, logger)

	// ---------- Handlers ----------
	authRequired := middleware.AuthRequired(authHelper)
	api := app.Group("/api")

	handlers.NewAuthHandler(authSvc).SetupRoutes(api, authRequired)
	handlers.NewPostHandler(postSvc).SetupRoutes(api, authRequired)
	handlers.NewUserHandler(userSvc).SetupRoutes(api, authRequired)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	log.Println("listening on", cfg.ServerPort)
	log.Fatal(app.Listen(cfg.ServerPort))
}
