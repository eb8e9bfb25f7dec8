package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rainboowbee/next-shedule/internal/model"
)

// Memory is an in-memory store with the same contract as Store. It backs
// handler and client tests and lets the server run without Postgres.
type Memory struct {
	mu       sync.RWMutex
	students map[string]model.Student
	lessons  map[string]model.Lesson
}

func NewMemory() *Memory {
	return &Memory{
		students: make(map[string]model.Student),
		lessons:  make(map[string]model.Lesson),
	}
}

// AddStudent registers a student, assigning an id when none is given.
func (m *Memory) AddStudent(student model.Student) model.Student {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	m.mu.Lock()
	m.students[student.ID] = student
	m.mu.Unlock()
	return student
}

func (m *Memory) ListStudents(ctx context.Context) ([]model.Student, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	students := make([]model.Student, 0, len(m.students))
	for _, student := range m.students {
		students = append(students, student)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (m *Memory) GetStudent(ctx context.Context, id string) (model.Student, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	student, ok := m.students[id]
	if !ok {
		return model.Student{}, ErrNotFound
	}
	return student, nil
}

func (m *Memory) ListLessons(ctx context.Context) ([]model.Lesson, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	lessons := make([]model.Lesson, 0, len(m.lessons))
	for _, lesson := range m.lessons {
		lessons = append(lessons, m.withStudent(lesson))
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].StartTime.Before(lessons[j].StartTime) })
	return lessons, nil
}

func (m *Memory) GetLesson(ctx context.Context, id string) (model.Lesson, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	lesson, ok := m.lessons[id]
	if !ok {
		return model.Lesson{}, ErrNotFound
	}
	return m.withStudent(lesson), nil
}

func (m *Memory) CreateLesson(ctx context.Context, lesson model.Lesson) (model.Lesson, error) {
	_ = ctx
	lesson.ID = uuid.NewString()
	lesson.Student = nil
	lesson.StartTime = lesson.StartTime.UTC()
	lesson.EndTime = lesson.EndTime.UTC()

	m.mu.Lock()
	m.lessons[lesson.ID] = lesson
	stored := m.withStudent(lesson)
	m.mu.Unlock()
	return stored, nil
}

func (m *Memory) UpdateLesson(ctx context.Context, id string, lesson model.Lesson) (model.Lesson, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lessons[id]; !ok {
		return model.Lesson{}, ErrNotFound
	}
	lesson.ID = id
	lesson.Student = nil
	lesson.StartTime = lesson.StartTime.UTC()
	lesson.EndTime = lesson.EndTime.UTC()
	m.lessons[id] = lesson
	return m.withStudent(lesson), nil
}

func (m *Memory) DeleteLesson(ctx context.Context, id string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lessons[id]; !ok {
		return ErrNotFound
	}
	delete(m.lessons, id)
	return nil
}

// withStudent must be called with the mutex held.
func (m *Memory) withStudent(lesson model.Lesson) model.Lesson {
	if student, ok := m.students[lesson.StudentID]; ok {
		lesson.Student = &student
	}
	return lesson
}
