package database

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens the Postgres pool used for coupon definitions and usage
// records. Cart contents never touch the database.
func Connect(databaseURL string) (*sql.DB, error) {
	logSafeDatabaseURL(databaseURL)

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	log.Println("Database connection established successfully")
	return db, nil
}

// logSafeDatabaseURL logs the database URL without exposing credentials.
func logSafeDatabaseURL(databaseURL string) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		log.Printf("Database: Connecting to database (URL parse error)")
		return
	}

	safeURL := &url.URL{
		Scheme:   parsed.Scheme,
		Host:     parsed.Host,
		Path:     parsed.Path,
		RawQuery: parsed.RawQuery,
	}
	if parsed.User != nil {
		if username := parsed.User.Username(); username != "" {
			safeURL.User = url.User(username)
		}
	}

	log.Printf("Database: Connecting to %s", safeURL.String())
}
