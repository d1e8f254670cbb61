package upload

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Upload is one dealer file and the outcome of its ingestion job.
// RowCount and ProcessedCount stay 0 until the job finalizes the upload.
type Upload struct {
	ID             int64     `gorm:"column:id;primaryKey" json:"id"`
	DealerID       int64     `gorm:"column:dealer_id;index;not null" json:"dealer_id"`
	Filename       string    `gorm:"column:filename;not null" json:"filename"`
	FilePath       string    `gorm:"column:file_path;not null" json:"file_path"`
	Status         Status    `gorm:"column:status;type:varchar(20);index;not null;default:processing" json:"status"`
	RowCount       int       `gorm:"column:row_count;not null;default:0" json:"row_count"`
	ProcessedCount int       `gorm:"column:processed_count;not null;default:0" json:"processed_count"`
	ErrorMessage   *string   `gorm:"column:error_message" json:"error_message"`
	UploadedAt     time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
}

func (Upload) TableName() string { return "uploads" }

// Transition moves a processing upload to a terminal status with its final
// counts. It is the only way Status changes after creation.
func (u *Upload) Transition(to Status, rowCount, processedCount int, message string) error {
	if u.Status.IsTerminal() {
		return ErrTerminalStatus
	}
	if !to.IsTerminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, u.Status, to)
	}
	if processedCount < 0 || processedCount > rowCount {
		return fmt.Errorf("%w: processed %d of %d rows", ErrInvalidTransition, processedCount, rowCount)
	}

	u.Status = to
	u.RowCount = rowCount
	u.ProcessedCount = processedCount
	u.ErrorMessage = nil
	if to == StatusError {
		u.ErrorMessage = &message
	}
	return nil
}
