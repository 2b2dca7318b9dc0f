package models

import "strings"

// Weekdays are the five fixed timetable keys, in display order.
var Weekdays = []string{"月", "火", "水", "木", "金"}

// PeriodLabels name the four period blocks of a school day.
var PeriodLabels = []string{"1/2限", "3/4限", "5/6限", "7/8限"}

// PeriodsPerDay is the fixed slot count per weekday.
const PeriodsPerDay = 4

// DefaultSubjects seeds the subject list when no subject document exists.
var DefaultSubjects = []string{"数学", "物理", "化学", "英語", "日本史", "情報", "機械設計"}

// Timetable maps each weekday to its four period-block labels.
type Timetable map[string][]string

// EmptyTimetable returns a grid with every slot blank.
func EmptyTimetable() Timetable {
	t := make(Timetable, len(Weekdays))
	for _, day := range Weekdays {
		t[day] = make([]string, PeriodsPerDay)
	}
	return t
}

// Clone returns a deep copy of the grid.
func (t Timetable) Clone() Timetable {
	cp := make(Timetable, len(t))
	for day, slots := range t {
		cp[day] = append([]string(nil), slots...)
	}
	return cp
}

// Subjects collects the trimmed non-empty cell labels, in grid order with
// duplicates retained; callers dedupe via the subject registry.
func (t Timetable) Subjects() []string {
	var out []string
	for _, day := range Weekdays {
		for _, cell := range t[day] {
			if trimmed := strings.TrimSpace(cell); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// ValidWeekday reports whether day is one of the five timetable keys.
func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
