package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CallSummary is one row per voice call, keyed by the platform-assigned call id.
// Repeated deliveries for the same call overwrite the previous row.
type CallSummary struct {
	ID              string    `json:"id" gorm:"type:uuid;primaryKey"`
	CallID          string    `json:"call_id" gorm:"uniqueIndex;not null"`
	PhoneNumber     string    `json:"phone_number"`
	CustomerID      *string   `json:"customer_id" gorm:"type:uuid"`
	DurationSeconds *int      `json:"duration_seconds"`
	Transcript      string    `json:"transcript" gorm:"type:text"`
	Summary         string    `json:"summary"`
	EndedReason     string    `json:"ended_reason"`
	ToolCalls       string    `json:"tool_calls"`
	CreatedAt       time.Time `json:"created_at"`
}

func (s *CallSummary) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (CallSummary) TableName() string {
	return "call_summaries"
}
