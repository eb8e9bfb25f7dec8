package schedule

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rainboowbee/next-shedule/internal/model"
	"github.com/rainboowbee/next-shedule/internal/repository"
)

// WallClockLayout is the business-timezone wall clock shape the form posts
// (HTML datetime-local, no offset).
const WallClockLayout = "2006-01-02T15:04"

// Payload is the loosely-typed lesson body as it arrives on the wire.
// Times stay strings until the validator normalizes them.
type Payload struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	StudentID   string `json:"studentId" validate:"required"`
}

// StudentGetter is the slice of the store the validator needs for the
// referential check.
type StudentGetter interface {
	GetStudent(ctx context.Context, id string) (model.Student, error)
}

// Validator checks lesson payloads and normalizes wall-clock input in the
// business timezone into UTC instants.
type Validator struct {
	validate *validator.Validate
	loc      *time.Location
	students StudentGetter
}

func NewValidator(loc *time.Location, students StudentGetter) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v, loc: loc, students: students}
}

func (v *Validator) Location() *time.Location {
	return v.loc
}

// ValidatePayload runs the cheap local checks first (required fields, time
// parsing, range), then the store round trip for the student reference.
// On success the returned lesson carries UTC instants and the resolved
// student; the id is left for the store to assign.
func (v *Validator) ValidatePayload(ctx context.Context, p Payload) (model.Lesson, error) {
	if err := v.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return model.Lesson{}, &FieldError{Required: fields}
		}
		return model.Lesson{}, err
	}

	start, err := v.ParseTime(p.StartTime)
	if err != nil {
		return model.Lesson{}, &TimeError{Field: "startTime"}
	}
	end, err := v.ParseTime(p.EndTime)
	if err != nil {
		return model.Lesson{}, &TimeError{Field: "endTime"}
	}
	if !end.After(start) {
		return model.Lesson{}, ErrTimeRange
	}

	student, err := v.students.GetStudent(ctx, p.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Lesson{}, ErrStudentNotFound
		}
		return model.Lesson{}, err
	}

	return model.Lesson{
		Title:       p.Title,
		Description: p.Description,
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
		StudentID:   student.ID,
		Student:     &student,
	}, nil
}

// ParseTime accepts either an ISO-8601 instant with an explicit offset or
// a wall-clock value, which is interpreted in the business timezone using
// its real offset rules (DST included).
func (v *Validator) ParseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", WallClockLayout} {
		if t, err := time.ParseInLocation(layout, value, v.loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &TimeError{Field: "time"}
}

// FormatLocal renders a stored instant back to the business-timezone wall
// clock for editing. Re-parsing the result yields the same instant.
func (v *Validator) FormatLocal(t time.Time) string {
	return t.In(v.loc).Format(WallClockLayout)
}
