package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo login for local dashboard development. Idempotent: running
// it again refreshes the password and role of the same account.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	email := strings.ToLower(getenvDefault("SEED_USER_EMAIL", "demo@chatlens.local"))
	password := getenvDefault("SEED_USER_PASSWORD", "Demo1234!")
	name := getenvDefault("SEED_USER_NAME", "Demo Analyst")
	role := getenvDefault("SEED_USER_ROLE", "analyst")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	query := `
	INSERT INTO users (id, name, email, password, role, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, 'active', $6, $6)
	ON CONFLICT (LOWER(email)) WHERE deleted_at IS NULL DO UPDATE SET
	  password = EXCLUDED.password,
	  role = EXCLUDED.role,
	  updated_at = EXCLUDED.updated_at
	RETURNING id
	`

	now := time.Now()
	var id string
	if err := db.QueryRow(query, uuid.NewString(), name, email, string(hash), role, now).Scan(&id); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	fmt.Printf("Seeded user: email=%s role=%s id=%s\n", email, role, id)
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
