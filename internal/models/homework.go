package models

import (
	"strings"
	"time"
)

// Status tracks the lifecycle of a homework record. Persisted labels keep the
// original locale spelling so existing documents round-trip unchanged.
type Status string

const (
	StatusNotStarted Status = "未着手"
	StatusInProgress Status = "作業中"
	StatusDone       Status = "完了"
)

// Valid reports whether the status is one of the known labels.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// SubmitMethod names the channel a homework is handed in through.
type SubmitMethod string

const (
	SubmitTeams     SubmitMethod = "Teams"
	SubmitClassroom SubmitMethod = "Google Classroom"
	SubmitHandedIn  SubmitMethod = "手渡し"
	SubmitOther     SubmitMethod = "その他"
)

// Valid reports whether the method is one of the known labels.
func (m SubmitMethod) Valid() bool {
	switch m {
	case SubmitTeams, SubmitClassroom, SubmitHandedIn, SubmitOther:
		return true
	}
	return false
}

const (
	// DueLayout is the calendar-date format of the due field.
	DueLayout = "2006-01-02"
	// ContentPlaceholder replaces an empty content on load.
	ContentPlaceholder = "（内容未記入）"
)

// Homework is one registered assignment. Due and CreatedAt stay strings in
// the document shape; parse helpers below give callers calendar values.
type Homework struct {
	ID                 int64        `json:"id"`
	Subject            string       `json:"subject"`
	Content            string       `json:"content"`
	Due                string       `json:"due"`
	Status             Status       `json:"status"`
	SubmitMethod       SubmitMethod `json:"submit_method"`
	SubmitMethodDetail string       `json:"submit_method_detail"`
	CreatedAt          string       `json:"created_at"`
}

// DueDate parses the due field; the zero time signals a malformed value.
func (h Homework) DueDate() time.Time {
	d, err := time.Parse(DueLayout, strings.TrimSpace(h.Due))
	if err != nil {
		return time.Time{}
	}
	return d
}

// createdAtLayouts covers RFC 3339 plus the zone-less ISO variants older
// documents carry.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CreatedTime parses the created_at field; the zero time signals a malformed
// value.
func (h Homework) CreatedTime() time.Time {
	raw := strings.TrimSpace(h.CreatedAt)
	for _, layout := range createdAtLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// DaysUntilDue is the calendar-day distance from today to the due date,
// negative for overdue records.
func (h Homework) DaysUntilDue(today time.Time) int {
	due := h.DueDate()
	if due.IsZero() {
		return 0
	}
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24)
}

// HomeworkView is the derived, non-persisted projection returned by queries.
type HomeworkView struct {
	Homework
	DaysUntilDue int `json:"days_until_due"`
}

// Sort keys accepted by homework queries.
const (
	SortDueAsc      = "due_asc"
	SortDueDesc     = "due_desc"
	SortCreatedDesc = "created_desc"
)

// HomeworkFilter captures filtering and ordering criteria for list queries.
type HomeworkFilter struct {
	Status  string // empty or "all" keeps every status
	Keyword string
	Sort    string
}
