package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the tables on first run. The student FK restricts
// deleting a student that still has lessons.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS lessons (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			student_id UUID NOT NULL REFERENCES students(id) ON DELETE RESTRICT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lessons_start_time ON lessons(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_lessons_student_id ON lessons(student_id)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
