// Command createadmin seeds an admin account. Admins are never created
// through the public API; run this once per admin:
//
//	createadmin -email admin@example.com -password 'secret'
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/greenspro/auth-backend/internal/config"
	"github.com/greenspro/auth-backend/internal/database"
	"github.com/greenspro/auth-backend/internal/repository"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password (min 6 characters)")
	flag.Parse()

	if *email == "" || len(*password) < 6 {
		log.Fatal("usage: createadmin -email <email> -password <min 6 chars>")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	admins := repository.NewAdminRepo(db)
	id, err := admins.Create(ctx, *email, *password, cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			log.Fatalf("admin %s already exists", *email)
		}
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin created (id=%d, email=%s)", id, *email)
}
