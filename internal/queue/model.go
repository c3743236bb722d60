package queue

import (
	"time"

	"github.com/uptrace/bun"
)

// Status is the closed lifecycle enum for a live queue entry.
type Status string

const (
	StatusWaiting     Status = "WAITING"
	StatusBeingServed Status = "BEING_SERVED"
	StatusCompleted   Status = "COMPLETED"
	StatusCancelled   Status = "CANCELLED"
	StatusNoShow      Status = "NO_SHOW"
)

// transitions is the full reachability table. Anything not listed is invalid.
var transitions = map[Status][]Status{
	StatusWaiting:     {StatusBeingServed, StatusCancelled, StatusNoShow},
	StatusBeingServed: {StatusCompleted, StatusNoShow},
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Active reports whether the entry still occupies a queue slot.
func (s Status) Active() bool {
	return s == StatusWaiting || s == StatusBeingServed
}

// NormalizeStatus folds the legacy status strings found in old seed data
// ("CALLED", "IN_PROGRESS") into the canonical enum. Only used when reading
// free-text history values; new rows are always written with the canonical
// enum. The drift between the two vocabularies is inherited from the original
// data set, see DESIGN.md.
func NormalizeStatus(raw string) Status {
	switch raw {
	case "CALLED", "IN_PROGRESS":
		return StatusBeingServed
	case string(StatusWaiting), string(StatusBeingServed), string(StatusCompleted),
		string(StatusCancelled), string(StatusNoShow):
		return Status(raw)
	}
	return ""
}

// Entry is one student's position in a specific service's queue.
type Entry struct {
	bun.BaseModel `bun:"table:queue_entries,alias:qe"`

	ID             int        `bun:"id,pk,autoincrement" json:"id"`
	UserID         int        `bun:"user_id,notnull" json:"userId" validate:"required"`
	ServiceID      int        `bun:"service_id,notnull" json:"serviceId" validate:"required"`
	PositionNumber int        `bun:"position_number,notnull" json:"positionNumber"`
	Status         Status     `bun:"status,notnull,default:'WAITING'" json:"status"`
	Priority       int        `bun:"priority,notnull,default:0" json:"priority"` // higher is served first
	EstimatedTime  int        `bun:"estimated_time,nullzero" json:"estimatedTime,omitempty"`
	ActualWaitTime *int       `bun:"actual_wait_time" json:"actualWaitTime,omitempty"`
	Notes          string     `bun:"notes,nullzero" json:"notes,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt      time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
	ServedAt       *time.Time `bun:"served_at" json:"servedAt,omitempty"`
	CompletedAt    *time.Time `bun:"completed_at" json:"completedAt,omitempty"`
}

// History is the immutable reporting snapshot written when an entry reaches
// a terminal state. It carries denormalized copies of the user and service
// fields and no foreign keys, so it stays valid even if the source rows are
// later removed. Status is free text, not the Entry enum: historical rows
// may carry legacy vocabulary.
type History struct {
	bun.BaseModel `bun:"table:queue_history,alias:qh"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	UserID      int       `bun:"user_id,notnull" json:"userId"`
	ServiceID   int       `bun:"service_id,notnull" json:"serviceId"`
	ServiceName string    `bun:"service_name,notnull" json:"serviceName"`
	UserName    string    `bun:"user_name,notnull" json:"userName"`
	UserCode    string    `bun:"user_code,notnull" json:"userCode"`
	WaitTime    *int      `bun:"wait_time" json:"waitTime,omitempty"`
	Status      string    `bun:"status,notnull" json:"status"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"createdAt"`
	CompletedAt time.Time `bun:"completed_at,notnull" json:"completedAt"`
}

// QueueEvent is the domain event published to the reporting/analytics stream
// whenever an entry changes state.
type QueueEvent struct {
	Type           string    `json:"type"`
	EntryID        int       `json:"entryId"`
	UserID         int       `json:"userId"`
	ServiceID      int       `json:"serviceId"`
	Status         Status    `json:"status"`
	PositionNumber int       `json:"positionNumber"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// OneActiveEntryPerUserIndex closes the check-then-insert race on the
// duplicate-active-entry guard: even if two concurrent requests pass the
// pre-check, only one insert can commit.
const OneActiveEntryPerUserIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS queue_entries_one_active_per_user
ON queue_entries (user_id)
WHERE status IN ('WAITING', 'BEING_SERVED')`
