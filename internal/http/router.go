package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"dineezy.in/app/internal/http/handlers"
	"dineezy.in/app/internal/http/middleware"
	"dineezy.in/app/internal/media"
	"dineezy.in/app/internal/modules/admins"
	"dineezy.in/app/internal/modules/menu"
	"dineezy.in/app/internal/modules/orders"
	"dineezy.in/app/internal/modules/payments"
	"dineezy.in/app/internal/modules/reservations"
	"dineezy.in/app/internal/otp"
)

type Deps struct {
	Logger *slog.Logger

	Provider    payments.Provider
	PaySvc      *payments.Service
	WebhookSvc  *payments.WebhookService
	OrderSvc    *orders.Service
	OrderRepo   *orders.Repo
	OrderAdmin  *orders.AdminService
	Sweeper     *orders.Sweeper
	MenuRepo    *menu.Repo
	ResvSvc     *reservations.Service
	ResvRepo    *reservations.Repo
	AdminSvc    *admins.Service
	OTPSvc      *otp.VerificationService
	ImageStore  media.ImageStore
	CronToken   string
	MediaDir    string // local driver: serve uploaded images from here
	MediaPrefix string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.ErrorHandler(d.Logger))

	paymentsH := handlers.NewPaymentsHandler(d.Logger, d.PaySvc)
	webhookH := handlers.NewWebhookHandler(d.Logger, d.Provider, d.WebhookSvc)
	sweepH := handlers.NewSweepHandler(d.Logger, d.Sweeper)
	ordersH := handlers.NewOrdersHandler(d.Logger, d.OrderSvc, d.OrderRepo, d.OrderAdmin, d.PaySvc)
	menuH := handlers.NewMenuHandler(d.MenuRepo)
	adminMenuH := handlers.NewAdminMenuHandler(d.MenuRepo, d.ImageStore)
	resvH := handlers.NewReservationsHandler(d.ResvSvc, d.ResvRepo)
	otpH := handlers.NewOTPHandler(d.Logger, d.OTPSvc)
	authH := handlers.NewAdminAuthHandler(d.AdminSvc)

	if d.MediaDir != "" && d.MediaPrefix != "" {
		r.Static(d.MediaPrefix, d.MediaDir)
	}

	api := r.Group("/api")
	{
		api.GET("/menu", menuH.List)
		api.POST("/orders", ordersH.Create)
		api.GET("/orders/:id", ordersH.Detail)
		api.POST("/reservations", resvH.Create)
		api.POST("/payment/order", paymentsH.CreateOrder)
		api.POST("/payment/verify", paymentsH.Verify)
		api.POST("/otp/send", otpH.Send)
		api.POST("/otp/verify", otpH.Verify)

		api.POST("/admin/login", authH.Login)

		admin := api.Group("/admin", middleware.RequireAdmin(d.AdminSvc))
		{
			admin.POST("/logout", authH.Logout)

			admin.GET("/orders", ordersH.AdminList)
			admin.POST("/orders/:id/transition", ordersH.AdminTransition)
			admin.POST("/orders/:id/settle", ordersH.AdminSettle)
			admin.POST("/orders/cancel-stale", sweepH.Trigger)

			admin.GET("/reservations", resvH.AdminList)
			admin.POST("/reservations/:id/transition", resvH.AdminTransition)
			admin.POST("/reservations/:id/table", resvH.AdminAssignTable)
			admin.GET("/tables", resvH.AdminListTables)
			admin.POST("/tables", resvH.AdminCreateTable)

			admin.POST("/menu/categories", adminMenuH.CreateCategory)
			admin.POST("/menu/items", adminMenuH.CreateItem)
			admin.PATCH("/menu/items/:id/availability", adminMenuH.SetAvailability)
			admin.POST("/menu/items/:id/image", adminMenuH.UploadImage)
		}
	}

	r.POST("/webhooks/razorpay", webhookH.Handle)

	// external scheduler trigger; same handler as the manual one
	cron := r.Group("/internal/cron", middleware.RequireCronToken(d.CronToken))
	cron.POST("/cancel-stale-orders", sweepH.Trigger)

	return r
}
