package repository

import (
	"lpg_assistant/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CallSummaryRepository interface {
	Upsert(summary *models.CallSummary, columns []string) error
	GetByCallID(callID string) (*models.CallSummary, error)
	GetAll() ([]models.CallSummary, error)
}

type callSummaryRepository struct {
	db *gorm.DB
}

func NewCallSummaryRepository(db *gorm.DB) CallSummaryRepository {
	return &callSummaryRepository{db: db}
}

// Upsert inserts or overwrites the row for summary.CallID. Only the named
// columns are written on conflict, so absent payload fields never null out
// previously stored values.
func (r *callSummaryRepository) Upsert(summary *models.CallSummary, columns []string) error {
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "call_id"}},
		DoNothing: true,
	}
	if len(columns) > 0 {
		onConflict.DoNothing = false
		onConflict.DoUpdates = clause.AssignmentColumns(columns)
	}

	return r.db.Clauses(onConflict).Create(summary).Error
}

func (r *callSummaryRepository) GetByCallID(callID string) (*models.CallSummary, error) {
	var summary models.CallSummary
	err := r.db.First(&summary, "call_id = ?", callID).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *callSummaryRepository) GetAll() ([]models.CallSummary, error) {
	var summaries []models.CallSummary
	err := r.db.Order("created_at DESC").Find(&summaries).Error
	return summaries, err
}
