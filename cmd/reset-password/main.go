package main

import (
	"flag"
	"log"

	"erp-pdv-api/internal/config"
	"erp-pdv-api/internal/model"
	"erp-pdv-api/internal/repository"
	"erp-pdv-api/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Resets a user's password from the server host, for when nobody can log in.
// The user's current session ends.
func main() {
	email := flag.String("email", "", "user email (defaults to ADMIN_EMAIL)")
	password := flag.String("password", "", "new password (defaults to ADMIN_PASSWORD)")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *email == "" {
		*email = cfg.AdminEmail
	}
	if *password == "" {
		*password = cfg.AdminPassword
	}
	if len(*password) < model.MinPasswordLength {
		log.Fatalf("Password must be at least %d characters", model.MinPasswordLength)
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN, database.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	users := repository.NewUserRepo(db)

	// 3. Find user
	user, err := users.FindByEmail(*email)
	if err != nil {
		log.Fatalf("User %s not found in database: %v", *email, err)
	}

	// 4. Hash and store
	if err := user.SetPassword(*password); err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	if err := users.UpdatePassword(user.ID, user.Password); err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}
	if err := users.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
		log.Fatalf("Failed to end current session: %v", err)
	}

	log.Printf("Password for %s (user #%d) has been reset", *email, user.ID)
}
