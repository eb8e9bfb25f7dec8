package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rainboowbee/next-shedule/internal/model"
)

// ErrNotFound reports a read or write against an id that does not exist.
// Malformed ids map to it as well: from the caller's point of view there
// is simply no such record.
var ErrNotFound = errors.New("not found")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) ListStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, color
		FROM students
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var student model.Student
		if err := rows.Scan(&student.ID, &student.Name, &student.Color); err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func (s *Store) GetStudent(ctx context.Context, id string) (model.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Student{}, ErrNotFound
	}
	var student model.Student
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, color
		FROM students
		WHERE id = $1
	`, id)
	err := row.Scan(&student.ID, &student.Name, &student.Color)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Student{}, ErrNotFound
	}
	return student, err
}

func (s *Store) ListLessons(ctx context.Context) ([]model.Lesson, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT l.id, l.title, COALESCE(l.description, ''), l.start_time, l.end_time, l.student_id,
		       s.id, s.name, s.color
		FROM lessons l
		JOIN students s ON s.id = l.student_id
		ORDER BY l.start_time ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := []model.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

func (s *Store) GetLesson(ctx context.Context, id string) (model.Lesson, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Lesson{}, ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `
		SELECT l.id, l.title, COALESCE(l.description, ''), l.start_time, l.end_time, l.student_id,
		       s.id, s.name, s.color
		FROM lessons l
		JOIN students s ON s.id = l.student_id
		WHERE l.id = $1
	`, id)
	lesson, err := scanLesson(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Lesson{}, ErrNotFound
	}
	return lesson, err
}

// CreateLesson persists the lesson and returns it with the store-generated
// id and the student embedded.
func (s *Store) CreateLesson(ctx context.Context, lesson model.Lesson) (model.Lesson, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO lessons (id, title, description, start_time, end_time, student_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, lesson.Title, nullable(lesson.Description), lesson.StartTime.UTC(), lesson.EndTime.UTC(), lesson.StudentID)
	if err != nil {
		return model.Lesson{}, err
	}
	return s.GetLesson(ctx, id)
}

// UpdateLesson replaces all mutable fields of the lesson (full replace).
func (s *Store) UpdateLesson(ctx context.Context, id string, lesson model.Lesson) (model.Lesson, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Lesson{}, ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE lessons
		SET title = $2, description = $3, start_time = $4, end_time = $5, student_id = $6
		WHERE id = $1
	`, id, lesson.Title, nullable(lesson.Description), lesson.StartTime.UTC(), lesson.EndTime.UTC(), lesson.StudentID)
	if err != nil {
		return model.Lesson{}, err
	}
	if tag.RowsAffected() == 0 {
		return model.Lesson{}, ErrNotFound
	}
	return s.GetLesson(ctx, id)
}

func (s *Store) DeleteLesson(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateStudent exists for seeding and tests; student management is not
// part of the HTTP surface.
func (s *Store) CreateStudent(ctx context.Context, student model.Student) (model.Student, error) {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO students (id, name, color)
		VALUES ($1, $2, $3)
	`, student.ID, student.Name, student.Color)
	if err != nil {
		return model.Student{}, err
	}
	return student, nil
}

func scanLesson(row pgx.Row) (model.Lesson, error) {
	var lesson model.Lesson
	var student model.Student
	err := row.Scan(
		&lesson.ID,
		&lesson.Title,
		&lesson.Description,
		&lesson.StartTime,
		&lesson.EndTime,
		&lesson.StudentID,
		&student.ID,
		&student.Name,
		&student.Color,
	)
	if err != nil {
		return model.Lesson{}, err
	}
	lesson.StartTime = lesson.StartTime.UTC()
	lesson.EndTime = lesson.EndTime.UTC()
	lesson.Student = &student
	return lesson, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
