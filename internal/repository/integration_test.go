package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rainboowbee/next-shedule/internal/db"
	"github.com/rainboowbee/next-shedule/internal/model"
)

func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("set INTEGRATION_TESTS=1 to run")
	}
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		t.Fatalf("db connection failed: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("schema init failed: %v", err)
	}
	return NewStore(pool)
}

func TestStoreLessonLifecycle(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	student, err := store.CreateStudent(ctx, model.Student{Name: "Integration Anna", Color: "#ff0000"})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}

	start := time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)
	lesson, err := store.CreateLesson(ctx, model.Lesson{
		Title:     "Algebra",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		StudentID: student.ID,
	})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	if lesson.Student == nil || lesson.Student.Name != "Integration Anna" {
		t.Fatalf("expected embedded student, got %+v", lesson.Student)
	}
	if !lesson.StartTime.Equal(start) {
		t.Fatalf("expected start %s, got %s", start, lesson.StartTime)
	}

	fetched, err := store.GetLesson(ctx, lesson.ID)
	if err != nil {
		t.Fatalf("get lesson: %v", err)
	}
	if fetched.Title != "Algebra" {
		t.Fatalf("unexpected title %q", fetched.Title)
	}

	updated, err := store.UpdateLesson(ctx, lesson.ID, model.Lesson{
		Title:       "Geometry",
		Description: "angles",
		StartTime:   start.Add(2 * time.Hour),
		EndTime:     start.Add(3 * time.Hour),
		StudentID:   student.ID,
	})
	if err != nil {
		t.Fatalf("update lesson: %v", err)
	}
	if updated.Title != "Geometry" || updated.Description != "angles" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if err := store.DeleteLesson(ctx, lesson.ID); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}
	if _, err := store.GetLesson(ctx, lesson.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreMalformedIDs(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	if _, err := store.GetLesson(ctx, "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
	if _, err := store.GetStudent(ctx, "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
	if err := store.DeleteLesson(ctx, "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}
