package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// HTTP
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// DB
	DBDSN string `envconfig:"DB_DSN" required:"true"`

	// Razorpay
	RazorpayKeyID         string `envconfig:"RAZORPAY_KEY_ID" required:"true"`
	RazorpayKeySecret     string `envconfig:"RAZORPAY_KEY_SECRET" required:"true"`
	RazorpayWebhookSecret string `envconfig:"RAZORPAY_WEBHOOK_SECRET" required:"true"`

	// Stale pending-order sweep
	SweepInterval  int `envconfig:"SWEEP_INTERVAL_MIN" default:"30"`
	SweepMaxAgeMin int `envconfig:"SWEEP_MAX_AGE_MIN" default:"30"`

	// Redis (OTP send limiter)
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	// WhatsApp OTP gateway
	WhatsAppAPIURL string `envconfig:"WHATSAPP_API_URL"`
	WhatsAppToken  string `envconfig:"WHATSAPP_API_TOKEN"`

	// Shared secret for the external cron trigger
	CronToken string `envconfig:"CRON_TOKEN" default:"dev-cron-token"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
