package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/idilsaglam/controldesk/internal/dates"
)

// TaskType tells recurring templates from one-off ones.
type TaskType string

const (
	Recurring TaskType = "recurring"
	OneOff    TaskType = "one-off"
)

// Older backups wrote the Portuguese names.
var legacyTypes = map[string]TaskType{
	"diaria": Recurring,
	"unica":  OneOff,
}

func (t *TaskType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("task type: %w", err)
	}
	if v, ok := legacyTypes[s]; ok {
		*t = v
		return nil
	}
	*t = TaskType(s)
	return nil
}

// Tag is a category label from a closed set.
type Tag string

const (
	TagGeneral Tag = "general"
	TagSQL     Tag = "sql"
	TagReport  Tag = "report"
	TagMeeting Tag = "meeting"
	TagSupport Tag = "support"
)

// Tags lists the closed set in display order.
var Tags = []Tag{TagGeneral, TagSQL, TagReport, TagMeeting, TagSupport}

func (t *Tag) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("tag: %w", err)
	}
	switch s {
	case "", "geral":
		*t = TagGeneral
	default:
		*t = Tag(s)
	}
	return nil
}

// Template is the definition of a task, independent of any date.
// Only IsActive and EndDate ever change after creation.
type Template struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Description string     `json:"description"`
	Tag         Tag        `json:"tag"`
	Type        TaskType   `json:"type"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	IsActive    bool       `json:"isActive"`
}

func (t Template) IsRecurring() bool { return t.Type == Recurring }

// Instance is one dated occurrence of a template.
type Instance struct {
	ID          string     `json:"id"`
	TemplateID  int64      `json:"templateId"`
	DueDate     time.Time  `json:"dueDate"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

// InstanceID is the deterministic id of templateID's occurrence on day.
// It is what keeps generation to one instance per template per day.
func InstanceID(templateID int64, day time.Time) string {
	return strconv.FormatInt(templateID, 10) + "_" + dates.ISO(day)
}
