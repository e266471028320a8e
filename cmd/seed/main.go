package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/QuadraMap/QM-Backend/internal/auth"
	"github.com/QuadraMap/QM-Backend/internal/db"
	"github.com/QuadraMap/QM-Backend/internal/utils"
)

// Seeds the first admin account so the map isn't locked out on a fresh
// database. Safe to re-run: an existing username is left alone.
func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("usage: seed -username admin -password <password>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db.Connect()
	auth.Init()

	var existing auth.User
	err := db.DB.First(&existing, "username = ?", *username).Error
	if err == nil {
		log.Printf("user %q already exists, nothing to do", *username)
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("failed to check for existing user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	user := auth.User{
		UserID:       utils.GenerateUUID(),
		Username:     *username,
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if err := db.DB.Create(&user).Error; err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}
	log.Printf("created admin user %q (%s)", user.Username, user.UserID)
}
