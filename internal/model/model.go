package model

import "time"

// Student is the read-only side of the Lesson relation. Students are
// managed out of band; this service only lists and references them.
type Student struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Lesson is a single scheduled appointment. StartTime and EndTime are
// absolute instants stored in UTC; the business-timezone wall clock only
// exists at the API edge.
type Lesson struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	StudentID   string    `json:"studentId"`
	Student     *Student  `json:"student,omitempty"`
}
