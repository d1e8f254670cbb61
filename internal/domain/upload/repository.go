package upload

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, u *Upload) error
	GetByID(ctx context.Context, id int64) (*Upload, error)
	GetForDealer(ctx context.Context, dealerID, id int64) (*Upload, error)
	ListByDealer(ctx context.Context, dealerID int64) ([]*Upload, error)
	// Finalize persists a terminal transition. It only matches rows still in
	// processing, so a second finalizer gets ErrTerminalStatus.
	Finalize(ctx context.Context, u *Upload) error
	// Delete removes the upload together with its vehicles and scored leads.
	Delete(ctx context.Context, id int64) error
	ListStale(ctx context.Context, before time.Time) ([]*Upload, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *Upload) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Upload, error) {
	var u Upload
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetForDealer(ctx context.Context, dealerID, id int64) (*Upload, error) {
	var u Upload
	err := r.db.WithContext(ctx).Where("id = ? AND dealer_id = ?", id, dealerID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) ListByDealer(ctx context.Context, dealerID int64) ([]*Upload, error) {
	var uploads []*Upload
	err := r.db.WithContext(ctx).
		Where("dealer_id = ?", dealerID).
		Order("uploaded_at DESC, id DESC").
		Find(&uploads).Error
	return uploads, err
}

func (r *repository) Finalize(ctx context.Context, u *Upload) error {
	res := r.db.WithContext(ctx).
		Model(&Upload{}).
		Where("id = ? AND status = ?", u.ID, StatusProcessing).
		Updates(map[string]interface{}{
			"status":          u.Status,
			"row_count":       u.RowCount,
			"processed_count": u.ProcessedCount,
			"error_message":   u.ErrorMessage,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
		return ErrTerminalStatus
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM scored_leads WHERE upload_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM vehicles WHERE upload_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Upload{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUploadNotFound
		}
		return nil
	})
}

func (r *repository) ListStale(ctx context.Context, before time.Time) ([]*Upload, error) {
	var uploads []*Upload
	err := r.db.WithContext(ctx).
		Where("status = ? AND uploaded_at < ?", StatusProcessing, before).
		Order("uploaded_at ASC").
		Find(&uploads).Error
	return uploads, err
}
