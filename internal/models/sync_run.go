package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SyncStatusRunning   = "running"
	SyncStatusSucceeded = "succeeded"
	SyncStatusFailed    = "failed"
)

// SyncRun records one synchronization attempt, successful or not.
type SyncRun struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Status           string     `gorm:"type:varchar(20);not null;index" json:"status"`
	RecordsProcessed int        `gorm:"not null;default:0" json:"records_processed"`
	RecordsInserted  int        `gorm:"not null;default:0" json:"records_inserted"`
	RecordsUpdated   int        `gorm:"not null;default:0" json:"records_updated"`
	ErrorMessage     string     `gorm:"type:text" json:"error_message,omitempty"`
	StartedAt        time.Time  `gorm:"not null;index" json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}

func (r *SyncRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now().UTC()
	}
	if r.Status == "" {
		r.Status = SyncStatusRunning
	}
	return nil
}

func (r *SyncRun) MarkSucceeded(processed, inserted, updated int) {
	now := time.Now().UTC()
	r.Status = SyncStatusSucceeded
	r.RecordsProcessed = processed
	r.RecordsInserted = inserted
	r.RecordsUpdated = updated
	r.ErrorMessage = ""
	r.FinishedAt = &now
}

func (r *SyncRun) MarkFailed(err error) {
	now := time.Now().UTC()
	r.Status = SyncStatusFailed
	if err != nil {
		r.ErrorMessage = err.Error()
	}
	r.FinishedAt = &now
}

func (r *SyncRun) IsFinished() bool {
	return r.Status == SyncStatusSucceeded || r.Status == SyncStatusFailed
}

// Duration is zero while the run is still in progress.
func (r *SyncRun) Duration() time.Duration {
	if !r.IsFinished() || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *SyncRun) String() string {
	return fmt.Sprintf("SyncRun[%s: %s, processed=%d, started=%s]",
		r.ID, r.Status, r.RecordsProcessed, r.StartedAt.Format(time.RFC3339))
}
