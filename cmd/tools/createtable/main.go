package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"dineezy.in/app/internal/modules/admins"
	"dineezy.in/app/internal/modules/menu"
	"dineezy.in/app/internal/modules/orders"
	"dineezy.in/app/internal/modules/payments"
	"dineezy.in/app/internal/modules/reservations"
	"dineezy.in/app/internal/otp"
)

func main() {
	_ = godotenv.Load()

	seedAdminEmail := flag.String("seed-admin-email", "", "Create an admin account with this email")
	seedAdminPass := flag.String("seed-admin-password", "", "Password for the seeded admin")
	seedRestaurant := flag.String("seed-restaurant-id", "", "Restaurant id for the seeded admin")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&menu.Category{},
		&menu.Item{},
		&orders.Order{},
		&orders.OrderItem{},
		&orders.TransactionLog{},
		&payments.Transaction{},
		&payments.ProviderEvent{},
		&reservations.Reservation{},
		&reservations.Table{},
		&reservations.ReservationEvent{},
		&admins.Admin{},
		&admins.Session{},
		&otp.Verification{},
		&otp.SentLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("Tables created.")

	if *seedAdminEmail != "" {
		if *seedAdminPass == "" || *seedRestaurant == "" {
			log.Fatal("seed-admin-password and seed-restaurant-id are required with seed-admin-email")
		}
		svc := admins.NewService(db)
		a, err := svc.CreateAdmin(context.Background(), *seedRestaurant, *seedAdminEmail, "Admin", *seedAdminPass)
		if err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
		log.Printf("Admin seeded: %s (%s)", a.Email, a.ID)
	}
}
