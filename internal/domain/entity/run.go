package entity

import (
	"time"

	"github.com/google/uuid"
)

type RunKind string

const (
	RunKindConvert   RunKind = "CONVERT"
	RunKindCalibrate RunKind = "CALIBRATE"
)

type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// Run records one invocation of a pipeline, for summary logging.
type Run struct {
	ID            uuid.UUID
	Kind          RunKind
	VideoPath     string
	Status        RunStatus
	FrameCount    int
	VideoDuration float64
	ErrorMessage  string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

func NewRun(kind RunKind, videoPath string) *Run {
	return &Run{
		ID:        uuid.New(),
		Kind:      kind,
		VideoPath: videoPath,
		Status:    RunStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func (r *Run) MarkRunning() {
	r.Status = RunStatusRunning
}

func (r *Run) MarkCompleted(frameCount int, duration float64) {
	now := time.Now().UTC()
	r.Status = RunStatusCompleted
	r.FrameCount = frameCount
	r.VideoDuration = duration
	r.CompletedAt = &now
}

func (r *Run) MarkFailed(errMsg string) {
	now := time.Now().UTC()
	r.Status = RunStatusFailed
	r.ErrorMessage = errMsg
	r.CompletedAt = &now
}
