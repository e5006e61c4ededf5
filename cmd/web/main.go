package main

import (
	"context"
	"log"
	"os"
	"time"

	"log/slog"

	"github.com/joho/godotenv"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"dineezy.in/app/internal/config"
	apphttp "dineezy.in/app/internal/http"
	"dineezy.in/app/internal/media"
	"dineezy.in/app/internal/modules/admins"
	"dineezy.in/app/internal/modules/menu"
	"dineezy.in/app/internal/modules/orders"
	"dineezy.in/app/internal/modules/payments"
	"dineezy.in/app/internal/modules/reservations"
	"dineezy.in/app/internal/otp"
)

func main() {
	// .env for local dev; prod uses real env vars
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()

	mediaRes, err := media.FromEnv(ctx)
	if err != nil {
		log.Fatalf("media store: %v", err)
	}
	logger.Info("media store ready", "driver", mediaRes.Driver)

	rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})

	// Provider client is built once at startup and injected everywhere;
	// no package-level singletons.
	provider := payments.NewRazorpayProvider(payments.RazorpayConfig{
		KeyID:         cfg.RazorpayKeyID,
		KeySecret:     cfg.RazorpayKeySecret,
		WebhookSecret: cfg.RazorpayWebhookSecret,
	})

	menuRepo := menu.NewRepo(db)
	orderRepo := orders.NewRepo(db)
	orderSvc := orders.NewService(db, menuRepo)
	orderAdmin := orders.NewAdminService(db)
	sweeper := orders.NewSweeper(db, logger, time.Duration(cfg.SweepMaxAgeMin)*time.Minute)
	paySvc := payments.NewService(db, provider, logger)
	webhookSvc := payments.NewWebhookService(db, logger)
	resvSvc := reservations.NewService(db)
	resvRepo := reservations.NewRepo(db)
	adminSvc := admins.NewService(db)

	gateway := otp.NewWhatsAppGateway(cfg.WhatsAppAPIURL, cfg.WhatsAppToken)
	limiter := otp.NewSendLimiter(rdb, 3, 5*time.Minute)
	otpSvc := otp.NewVerificationService(db, gateway, limiter)

	go sweeper.Run(ctx, time.Duration(cfg.SweepInterval)*time.Minute)

	// local driver serves uploads itself; s3 serves from the bucket URL
	mediaDir, mediaPrefix := "", ""
	if mediaRes.Driver == "local" {
		if mediaDir = os.Getenv("MEDIA_LOCAL_DIR"); mediaDir == "" {
			mediaDir = "./storage/menu-images"
		}
		if mediaPrefix = os.Getenv("MEDIA_LOCAL_URL_PREFIX"); mediaPrefix == "" {
			mediaPrefix = "/menu-images"
		}
	}

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:      logger,
		Provider:    provider,
		PaySvc:      paySvc,
		WebhookSvc:  webhookSvc,
		OrderSvc:    orderSvc,
		OrderRepo:   orderRepo,
		OrderAdmin:  orderAdmin,
		Sweeper:     sweeper,
		MenuRepo:    menuRepo,
		ResvSvc:     resvSvc,
		ResvRepo:    resvRepo,
		AdminSvc:    adminSvc,
		OTPSvc:      otpSvc,
		ImageStore:  mediaRes.Store,
		CronToken:   cfg.CronToken,
		MediaDir:    mediaDir,
		MediaPrefix: mediaPrefix,
	})

	logger.Info("listening", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
