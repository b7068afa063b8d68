package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"exam-prep-system/cache"
	"exam-prep-system/config"
	"exam-prep-system/handlers"
	"exam-prep-system/models"
	"exam-prep-system/services"
	"exam-prep-system/utils"
	"exam-prep-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "exam-prep-system",
	})

	origins := strings.Split(cfg.AllowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Topic{},
		&models.Question{},
		&models.Exam{},
		&models.ExamQuestion{},
		&models.Attempt{},
		&models.AttemptAnswer{},
		&models.LeaderboardEntry{},
		&models.Lead{},
		&models.PaymentEvent{},
	); err != nil {
		log.Fatal("failed to migrate database: ", err)
	}

	storageEnabled, err := utils.InitStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKeyID,
		cfg.StorageAccessKeySecret,
		cfg.StorageBucket,
	)
	if err != nil {
		log.Fatal("failed to initialize export storage: ", err)
	}

	var rankingCache *cache.RankingCache
	if cfg.RedisAddr != "" {
		rankingCache = cache.NewRankingCache(
			redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}),
			time.Minute,
		)
	}

	authService := services.NewAuthService(db, cfg)
	examService := services.NewExamService(db, cfg, rankingCache)
	rankingService := services.NewRankingService(db, cfg, rankingCache)
	leadService := services.NewLeadService(db)
	userService := services.NewUserService(db)
	adminService := services.NewAdminService(db)
	recommendationService := services.NewRecommendationService(db)

	asaasClient := services.NewAsaasClient(cfg.AsaasAPIBaseURL, cfg.AsaasAPIKey)
	paymentService := services.NewPaymentService(db, cfg, asaasClient)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupExamRoutes(app, examService, rankingService, recommendationService, cfg.JWTSecret)
	handlers.SetupBillingRoutes(app, paymentService, cfg.JWTSecret)
	handlers.SetupAccountRoutes(app, userService, leadService, cfg.JWTSecret)
	handlers.SetupAdminRoutes(app, adminService, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitor := workers.NewLeaderboardJanitor(db, rankingCache, rankingService.StartOfWeek)
	if err := janitor.Start(ctx); err != nil {
		log.Fatal("failed to start leaderboard janitor: ", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	if rankingCache != nil {
		log.Println("✅ Ranking cache enabled (redis)")
	}
	if storageEnabled {
		log.Println("✅ Export archive storage enabled")
	}
	if cfg.AsaasAllowUnverified {
		log.Println("⚠️  Asaas webhooks accepted WITHOUT verification (ASAAS_ALLOW_UNVERIFIED_WEBHOOKS=true)")
	}

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
