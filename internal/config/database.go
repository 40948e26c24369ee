package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// InitDatabase creates the database schema from scratch
// This is POC-friendly: auto-creates tables on startup
// Set DROP_TABLES_ON_STARTUP=true environment variable to drop existing tables
func InitDatabase(db *sql.DB) error {
	// Only drop tables if explicitly requested (via env var)
	// This prevents accidental data loss on restart
	if os.Getenv("DROP_TABLES_ON_STARTUP") == "true" {
		log.Println("Dropping existing tables (DROP_TABLES_ON_STARTUP=true)...")
		for _, table := range []string{"health_entries", "period_records", "reminders", "feedback", "users"} {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE"); err != nil {
				log.Printf("Warning: Failed to drop %s table: %v", table, err)
			}
		}
	} else {
		log.Println("Skipping table drop (set DROP_TABLES_ON_STARTUP=true to drop tables on startup)")
	}

	log.Println("Creating users table...")
	usersSchema := `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'USER',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMP DEFAULT now()
	);`

	if _, err := db.Exec(usersSchema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	log.Println("Creating health_entries table...")
	entriesSchema := `
	CREATE TABLE IF NOT EXISTS health_entries (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		category TEXT NOT NULL,
		value JSONB NOT NULL,
		recommendation TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT now()
	);`

	if _, err := db.Exec(entriesSchema); err != nil {
		return fmt.Errorf("failed to create health_entries table: %w", err)
	}

	log.Println("Creating period_records table...")
	periodsSchema := `
	CREATE TABLE IF NOT EXISTS period_records (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		last_period_date DATE NOT NULL,
		cycle_length INTEGER NOT NULL DEFAULT 28,
		period_duration INTEGER NOT NULL DEFAULT 5,
		symptoms TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT now(),
		CONSTRAINT chk_cycle_length CHECK (cycle_length > 0),
		CONSTRAINT chk_period_duration CHECK (period_duration > 0)
	);`

	if _, err := db.Exec(periodsSchema); err != nil {
		return fmt.Errorf("failed to create period_records table: %w", err)
	}

	log.Println("Creating reminders table...")
	remindersSchema := `
	CREATE TABLE IF NOT EXISTS reminders (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		reminder_type TEXT NOT NULL,
		reminder_time TEXT NOT NULL,
		reminder_email TEXT NOT NULL DEFAULT '',
		reminder_phone TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT now()
	);`

	if _, err := db.Exec(remindersSchema); err != nil {
		return fmt.Errorf("failed to create reminders table: %w", err)
	}

	log.Println("Creating feedback table...")
	feedbackSchema := `
	CREATE TABLE IF NOT EXISTS feedback (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		rating INTEGER NOT NULL,
		usefulness TEXT NOT NULL DEFAULT '',
		feedback_type TEXT NOT NULL DEFAULT '',
		improve TEXT NOT NULL DEFAULT '',
		feature TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT now(),
		CONSTRAINT chk_rating CHECK (rating BETWEEN 1 AND 5)
	);`

	if _, err := db.Exec(feedbackSchema); err != nil {
		return fmt.Errorf("failed to create feedback table: %w", err)
	}

	// Create indexes
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_health_entries_user_id ON health_entries(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_health_entries_user_created ON health_entries(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_health_entries_category ON health_entries(category)",
		"CREATE INDEX IF NOT EXISTS idx_period_records_user_created ON period_records(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reminders_user_id ON reminders(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at)",
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
		}
	}

	log.Println("Database schema initialized successfully")
	return nil
}

// ConnectDatabase establishes a connection to PostgreSQL with retry logic
func ConnectDatabase(databaseURL string, maxRetries int, retryDelay time.Duration) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", databaseURL)
		if err != nil {
			log.Printf("Failed to open database connection (attempt %d/%d): %v", i+1, maxRetries, err)
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
		}

		// Test the connection
		if err = db.Ping(); err != nil {
			log.Printf("Failed to ping database (attempt %d/%d): %v", i+1, maxRetries, err)
			db.Close()
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("failed to ping database after %d attempts: %w", maxRetries, err)
		}

		// Configure connection pool
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		log.Println("Database connection established successfully")
		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}
