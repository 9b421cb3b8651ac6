package analyze

import (
	"time"

	"github.com/google/uuid"
)

// Status is the client-observed state of an analyze job. A job walks
// collecting -> calling_service -> saving_analysis -> saving_roadmap ->
// complete, absorbing into error on any failure. There is no automatic retry;
// a failed job is healed by enqueueing a fresh run, which recomputes both
// records from the same inputs.
type Status string

const (
	StatusCollecting     Status = "collecting"
	StatusCallingService Status = "calling_service"
	StatusSavingAnalysis Status = "saving_analysis"
	StatusSavingRoadmap  Status = "saving_roadmap"
	StatusComplete       Status = "complete"
	StatusError          Status = "error"
)

// Job is the message published to the analyze queue.
type Job struct {
	ID      uuid.UUID `json:"id"`
	UserKey string    `json:"user_key"`
}

// Update is published on the updates exchange at every status transition so
// clients can follow real progress instead of simulating it.
type Update struct {
	JobID     uuid.UUID `json:"job_id"`
	UserKey   string    `json:"user_key"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
