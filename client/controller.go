package client

import (
	"context"
	"sync"
	"time"

	"github.com/rainboowbee/next-shedule/internal/model"
	"github.com/rainboowbee/next-shedule/internal/schedule"
)

// Controller keeps a local mirror of server-side lessons and students and
// applies each mutation to the mirror only after the server accepts it. A
// failed call leaves the mirror untouched.
type Controller struct {
	api *Client

	mu       sync.RWMutex
	lessons  []model.Lesson
	students []model.Student
	editing  *model.Lesson
	formOpen bool
}

func NewController(api *Client) *Controller {
	return &Controller{api: api}
}

// Refresh reloads both collections from the server.
func (c *Controller) Refresh(ctx context.Context) error {
	lessons, err := c.api.ListLessons(ctx)
	if err != nil {
		return err
	}
	students, err := c.api.ListStudents(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.lessons = lessons
	c.students = students
	c.mu.Unlock()
	return nil
}

func (c *Controller) Lessons() []model.Lesson {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out
}

func (c *Controller) Students() []model.Student {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Student, len(c.students))
	copy(out, c.students)
	return out
}

// Grouped returns the mirrored lessons bucketed by local calendar day.
func (c *Controller) Grouped(loc *time.Location) []schedule.DayGroup {
	return schedule.GroupByDay(c.Lessons(), loc)
}

// StartCreate opens the form with no edit target.
func (c *Controller) StartCreate() {
	c.mu.Lock()
	c.editing = nil
	c.formOpen = true
	c.mu.Unlock()
}

// StartEdit opens the form targeting the lesson with the given id. It is a
// no-op when the lesson is not in the mirror.
func (c *Controller) StartEdit(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lessons {
		if c.lessons[i].ID == id {
			lesson := c.lessons[i]
			c.editing = &lesson
			c.formOpen = true
			return
		}
	}
}

// Cancel closes the form and drops any edit target.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.editing = nil
	c.formOpen = false
	c.mu.Unlock()
}

func (c *Controller) Editing() (model.Lesson, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.editing == nil {
		return model.Lesson{}, false
	}
	return *c.editing, true
}

func (c *Controller) FormOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.formOpen
}

// Create submits a new lesson and appends the server's version to the mirror.
func (c *Controller) Create(ctx context.Context, in LessonInput) (model.Lesson, error) {
	lesson, err := c.api.CreateLesson(ctx, in)
	if err != nil {
		return model.Lesson{}, err
	}
	c.mu.Lock()
	c.lessons = append(c.lessons, lesson)
	c.editing = nil
	c.formOpen = false
	c.mu.Unlock()
	return lesson, nil
}

// Update replaces a lesson and swaps the server's version into the mirror.
func (c *Controller) Update(ctx context.Context, id string, in LessonInput) (model.Lesson, error) {
	lesson, err := c.api.UpdateLesson(ctx, id, in)
	if err != nil {
		return model.Lesson{}, err
	}
	c.mu.Lock()
	for i := range c.lessons {
		if c.lessons[i].ID == id {
			c.lessons[i] = lesson
			break
		}
	}
	c.editing = nil
	c.formOpen = false
	c.mu.Unlock()
	return lesson, nil
}

// Delete removes a lesson server-side, then filters it out of the mirror.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.api.DeleteLesson(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	kept := c.lessons[:0]
	for _, lesson := range c.lessons {
		if lesson.ID != id {
			kept = append(kept, lesson)
		}
	}
	c.lessons = kept
	if c.editing != nil && c.editing.ID == id {
		c.editing = nil
		c.formOpen = false
	}
	c.mu.Unlock()
	return nil
}
