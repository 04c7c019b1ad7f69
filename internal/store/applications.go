package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/jhunter/agent/internal/jobs"
)

const (
	maxOpenConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Applications records every application decision in PostgreSQL so runs can
// be audited later.
type Applications struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to the database behind the given DSN and verifies the
// connection.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Applications, error) {
	if dsn == "" {
		return nil, errors.New("database dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewWithDB(db, logger), nil
}

// NewWithDB wraps an existing connection pool. Used by Open and by tests.
func NewWithDB(db *sql.DB, logger *zap.Logger) *Applications {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applications{db: db, logger: logger}
}

const insertApplication = `
INSERT INTO applications (user_id, job_title, company, job_url, fit_score, explanation, cover_letter, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Save persists one application record for the given user.
func (a *Applications) Save(ctx context.Context, userID string, app *jobs.Application) error {
	if app == nil {
		return errors.New("application is required")
	}

	_, err := a.db.ExecContext(ctx, insertApplication,
		userID,
		app.JobTitle,
		app.Company,
		app.JobURL,
		app.FitScore,
		app.Explanation,
		app.CoverLetter,
		app.Status,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	a.logger.Debug("application saved",
		zap.String("user_id", userID),
		zap.String("job_url", app.JobURL),
	)

	return nil
}

func (a *Applications) Close() error {
	return a.db.Close()
}
