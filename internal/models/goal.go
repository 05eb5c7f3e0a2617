package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GoalPriority defines how urgent a goal is
type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// GoalStatus defines the progress state of a goal
type GoalStatus string

const (
	GoalPending    GoalStatus = "pending"
	GoalInProgress GoalStatus = "in-progress"
	GoalCompleted  GoalStatus = "completed"
)

// StringList is a list of strings stored as a JSON array column
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Goal represents a personal goal of a user. CompletedAt is set only
// while the status is completed.
type Goal struct {
	ID          uuid.UUID    `json:"id" gorm:"type:text;primary_key"`
	StudentID   uuid.UUID    `json:"student_id" gorm:"type:text;not null;index"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Priority    GoalPriority `json:"priority" gorm:"default:'medium'"`
	Category    string       `json:"category" gorm:"default:'academic'"`
	Status      GoalStatus   `json:"status" gorm:"default:'pending'"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Tags        StringList   `json:"tags" gorm:"type:text"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// DailyCompletion is the number of goals completed on one calendar day (UTC)
type DailyCompletion struct {
	Date        string `json:"date"`
	Completions int64  `json:"completions"`
}

// CategoryCount is the number of goals in one category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// PriorityCount is the number of goals with one priority
type PriorityCount struct {
	Priority GoalPriority `json:"priority"`
	Count    int64        `json:"count"`
}
