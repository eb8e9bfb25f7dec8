package schedule

import (
	"sort"
	"time"

	"github.com/rainboowbee/next-shedule/internal/model"
)

const dayKeyLayout = "2006-01-02"

// DayGroup is one calendar day of lessons, keyed by the local date the
// lesson starts on in the business timezone.
type DayGroup struct {
	Date    string         `json:"date"`
	Weekday string         `json:"weekday"`
	Day     time.Time      `json:"day"`
	Lessons []model.Lesson `json:"lessons"`
}

// GroupByDay buckets lessons by the calendar date of their start instant
// as observed in loc. A lesson running past local midnight stays under its
// start date. Buckets come out in ascending date order, lessons within a
// bucket ascending by start time. The input slice is not modified.
func GroupByDay(lessons []model.Lesson, loc *time.Location) []DayGroup {
	sorted := make([]model.Lesson, len(lessons))
	copy(sorted, lessons)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	groups := []DayGroup{}
	index := make(map[string]int)
	for _, lesson := range sorted {
		local := lesson.StartTime.In(loc)
		key := local.Format(dayKeyLayout)
		i, ok := index[key]
		if !ok {
			day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
			groups = append(groups, DayGroup{
				Date:    key,
				Weekday: day.Weekday().String(),
				Day:     day,
			})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Lessons = append(groups[i].Lessons, lesson)
	}
	return groups
}
