package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the connection string understood by pgx
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// LoadDBConfig loads database configuration from environment variables
func LoadDBConfig() (*DBConfig, error) {
	cfg := &DBConfig{
		Host:     getenv("DB_HOST", ""),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", ""),
		Password: firstEnv("DB_PASSWORD", "DB_PASS"),
		Name:     getenv("DB_NAME", ""),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}

	if cfg.Host == "" || cfg.User == "" || cfg.Name == "" {
		return nil, fmt.Errorf("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}
	return cfg, nil
}

// ConnectDB establishes a connection pool to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg *DBConfig) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(ctx, cfg.DSN())
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				log.Info().Str("database", cfg.Name).Msg("connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		log.Warn().Err(err).Int("attempt", i+1).Int("max_attempts", maxRetries).
			Dur("retry_in", retryInterval).Msg("failed to connect to database")
		time.Sleep(retryInterval)
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// EnsureSchema creates the tables the service expects if they are missing.
// It never alters existing tables.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	sql := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		avatar_path TEXT,
		full_name TEXT,
		user_role TEXT NOT NULL DEFAULT 'user',
		phone_number TEXT,
		address TEXT,
		gender TEXT,
		created_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		modify_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS teachers (
		teacher_id BIGSERIAL PRIMARY KEY,
		user_id BIGINT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		salary NUMERIC(12, 2)
	);

	CREATE TABLE IF NOT EXISTS courses (
		course_id BIGSERIAL PRIMARY KEY,
		course_name TEXT UNIQUE NOT NULL,
		course_description TEXT,
		category TEXT,
		teacher_id BIGINT REFERENCES teachers(teacher_id) ON DELETE SET NULL,
		created_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		modify_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS course_enter (
		course_id BIGINT NOT NULL REFERENCES courses(course_id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		PRIMARY KEY (course_id, user_id)
	);

	CREATE INDEX IF NOT EXISTS idx_courses_teacher_id ON courses(teacher_id);
	CREATE INDEX IF NOT EXISTS idx_course_enter_user_id ON course_enter(user_id);
	`
	if _, err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("unable to ensure schema: %w", err)
	}

	log.Info().Msg("schema bootstrap applied")
	return nil
}

// EnsureSandboxSchema creates the minimal users table used by the sandbox endpoints
func EnsureSandboxSchema(ctx context.Context, db *pgxpool.Pool) error {
	sql := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(255),
		email VARCHAR(255)
	);`
	if _, err := db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("unable to ensure sandbox schema: %w", err)
	}
	return nil
}
