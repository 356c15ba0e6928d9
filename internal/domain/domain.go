package domain

import "time"

// Space is the aggregate root. Every other entity carries its id as a foreign
// key and is removed with it on cascading delete.
type Space struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	Goal               string     `json:"goal,omitempty"`
	BeforeImage        string     `json:"before_image,omitempty"`
	AfterImage         string     `json:"after_image,omitempty"`
	DateCreated        time.Time  `json:"date_created" format:"date-time"`
	DateModified       time.Time  `json:"date_modified" format:"date-time"`
	TotalClockedInTime int        `json:"total_clocked_in_time"`
	IsClockedIn        bool       `json:"is_clocked_in"`
	ClockInStartTime   *time.Time `json:"clock_in_start_time,omitempty" format:"date-time"`
}

// Action is a repeatable point-earning activity.
type Action struct {
	ID          string    `json:"id"`
	SpaceID     string    `json:"space_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Points      int       `json:"points"`
	DateCreated time.Time `json:"date_created" format:"date-time"`
}

// Step is one named step of a Quest.
type Step struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// Quest is an ordered multi-step action awarding points per completed step.
// CurrentStepIndex is a 0-based cursor; the quest is complete once it reaches
// len(Steps).
type Quest struct {
	ID               string    `json:"id"`
	SpaceID          string    `json:"space_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	PointsPerStep    int       `json:"points_per_step"`
	Steps            []Step    `json:"steps"`
	CurrentStepIndex int       `json:"current_step_index"`
	DateCreated      time.Time `json:"date_created" format:"date-time"`
}

// Complete reports whether every step has been completed.
func (q Quest) Complete() bool {
	return q.CurrentStepIndex >= len(q.Steps)
}

// LogType discriminates log entry kinds.
type LogType string

const (
	LogTypeAction    LogType = "action"
	LogTypeQuestStep LogType = "multiStepAction"
	LogTypeClockIn   LogType = "clockIn"
	LogTypeClockOut  LogType = "clockOut"
)

// LogEntry is an immutable, append-only record of a state-changing event. All
// point totals are derived from this collection; it is never updated in place.
type LogEntry struct {
	ID         string    `json:"id"`
	SpaceID    string    `json:"space_id"`
	Timestamp  time.Time `json:"timestamp" format:"date-time"`
	ActionName string    `json:"action_name"`
	Points     int       `json:"points"`
	Type       LogType   `json:"type" enum:"action,multiStepAction,clockIn,clockOut"`

	QuestID   string `json:"multi_step_action_id,omitempty"`
	StepIndex *int   `json:"step_index,omitempty"`

	ClockInTime      *time.Time `json:"clock_in_time,omitempty" format:"date-time"`
	ClockOutTime     *time.Time `json:"clock_out_time,omitempty" format:"date-time"`
	MinutesClockedIn *int       `json:"minutes_clocked_in,omitempty"`
}

// WasteEntry records one observed inefficiency. Points are copied from the
// category's fixed weight at creation time and never recomputed.
type WasteEntry struct {
	ID        string    `json:"id"`
	SpaceID   string    `json:"space_id"`
	Timestamp time.Time `json:"timestamp" format:"date-time"`
	Category  string    `json:"category"`
	Points    int       `json:"points"`
}

// Comment is a free-text note optionally carrying one image reference.
type Comment struct {
	ID        string    `json:"id"`
	SpaceID   string    `json:"space_id"`
	Text      string    `json:"text,omitempty"`
	Image     string    `json:"image,omitempty"`
	Timestamp time.Time `json:"timestamp" format:"date-time"`
}

// TodoItem is a visual before/after task record.
type TodoItem struct {
	ID          string    `json:"id"`
	SpaceID     string    `json:"space_id"`
	Description string    `json:"description"`
	BeforeImage string    `json:"before_image,omitempty"`
	AfterImage  string    `json:"after_image,omitempty"`
	DateCreated time.Time `json:"date_created" format:"date-time"`
	Completed   bool      `json:"completed"`
}
