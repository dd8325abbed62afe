package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/XylonMarkLabs/justpos-backend/internal/middleware"
	"github.com/XylonMarkLabs/justpos-backend/internal/models"
)

var DB *gorm.DB

// Connect opens the postgres connection from the DB_* environment.
func Connect() {
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		log.Fatal("Failed to connect to database. \nError: ", err)
	}

	log.Println("Database connection successful")
	DB = db
}

// Migrate runs the schema migration and seeds the default admin account.
func Migrate() {
	if DB == nil {
		Connect()
	}

	log.Println("Running schema migrations (gorm AutoMigrate)...")
	err := DB.AutoMigrate(
		&models.Product{},
		&models.Category{},
		&models.Order{},
		&models.OrderItem{},
		&models.User{},
	)
	if err != nil {
		log.Fatal("Schema migration failed: ", err)
	}
	log.Println("Schema migrations completed")

	seedAdmin()
}

// seedAdmin creates the initial admin login on an empty users table so a
// fresh deployment can be signed into.
func seedAdmin() {
	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil {
		log.Fatal("Failed to inspect users table: ", err)
	}
	if count > 0 {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := middleware.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash admin password: ", err)
	}

	admin := models.User{Username: "admin", Password: hash, Role: models.RoleAdmin}
	if err := DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to seed admin user: ", err)
	}
	log.Println("Seeded default admin user")
}
