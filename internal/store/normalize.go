package store

import (
	"sort"
	"strings"
	"time"

	"github.com/schoolkit/planner-api/internal/models"
)

// NormalizeTimetable repairs a decoded timetable document: exactly the five
// weekday keys, each with exactly four string slots (padded or truncated),
// unknown keys dropped, non-string cells blanked. Idempotent.
func NormalizeTimetable(raw map[string]interface{}) models.Timetable {
	t := models.EmptyTimetable()
	for _, day := range models.Weekdays {
		v, ok := raw[day]
		if !ok {
			continue
		}
		switch slots := v.(type) {
		case []interface{}:
			for i := 0; i < models.PeriodsPerDay && i < len(slots); i++ {
				if s, ok := slots[i].(string); ok {
					t[day][i] = strings.TrimSpace(s)
				}
			}
		case []string:
			for i := 0; i < models.PeriodsPerDay && i < len(slots); i++ {
				t[day][i] = strings.TrimSpace(slots[i])
			}
		}
	}
	return t
}

// TimetableToRaw converts a typed grid back to the decoded-JSON shape so the
// same normalization path serves both load and import.
func TimetableToRaw(t models.Timetable) map[string]interface{} {
	raw := make(map[string]interface{}, len(t))
	for day, slots := range t {
		raw[day] = append([]string(nil), slots...)
	}
	return raw
}

// NormalizeSubjects trims, drops empties, deduplicates and sorts. Idempotent.
func NormalizeSubjects(subjects []string) []string {
	seen := make(map[string]struct{}, len(subjects))
	out := make([]string, 0, len(subjects))
	for _, s := range subjects {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	sort.Strings(out)
	return out
}

// NormalizeHomework repairs every record of a homework list: due defaults to
// today, created_at to now, invalid status to not-started, empty content to a
// placeholder. Records without a positive id are dropped since they can never
// be addressed by a mutation. Idempotent for fixed now.
func NormalizeHomework(items []models.Homework, now time.Time) []models.Homework {
	out := make([]models.Homework, 0, len(items))
	for _, h := range items {
		if h.ID <= 0 {
			continue
		}
		if h.DueDate().IsZero() {
			h.Due = now.Format(models.DueLayout)
		}
		if h.CreatedTime().IsZero() {
			h.CreatedAt = now.Format(time.RFC3339)
		}
		if !h.Status.Valid() {
			h.Status = models.StatusNotStarted
		}
		h.Subject = strings.TrimSpace(h.Subject)
		h.Content = strings.TrimSpace(h.Content)
		if h.Content == "" {
			h.Content = models.ContentPlaceholder
		}
		out = append(out, h)
	}
	return out
}

// CoerceHomework converts decoded-JSON list elements into records, silently
// dropping anything that is not an object. Field values of the wrong type are
// left at their zero value for NormalizeHomework to repair.
func CoerceHomework(raw []interface{}) []models.Homework {
	out := make([]models.Homework, 0, len(raw))
	for _, el := range raw {
		obj, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		var h models.Homework
		if id, ok := obj["id"].(float64); ok {
			h.ID = int64(id)
		}
		h.Subject, _ = obj["subject"].(string)
		h.Content, _ = obj["content"].(string)
		h.Due, _ = obj["due"].(string)
		if s, ok := obj["status"].(string); ok {
			h.Status = models.Status(s)
		}
		if m, ok := obj["submit_method"].(string); ok {
			h.SubmitMethod = models.SubmitMethod(m)
		}
		h.SubmitMethodDetail, _ = obj["submit_method_detail"].(string)
		h.CreatedAt, _ = obj["created_at"].(string)
		out = append(out, h)
	}
	return out
}
