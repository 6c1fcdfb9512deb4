package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

const (
	JobSync      = "sync"
	JobScore     = "score"
	JobStandings = "standings"
)

// DispatchEvent records one state change of a background job run.
// One row is kept per DispatchID and moves through the statuses.
type DispatchEvent struct {
	DispatchID   string
	JobName      string
	JobPath      string
	Target       string
	Status       DispatchStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
