package auth

import (
	"log"
	"time"

	"github.com/QuadraMap/QM-Backend/internal/db"
)

type User struct {
	UserID       string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex"`
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "app_auth.users"
}

type Session struct {
	SessionID string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (Session) TableName() string {
	return "app_auth.sessions"
}

func Init() {
	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		log.Fatalf("failed to create app_auth schema: %v", err)
	}
	if err := db.DB.AutoMigrate(&User{}, &Session{}); err != nil {
		log.Fatalf("failed to migrate auth tables: %v", err)
	}
}
