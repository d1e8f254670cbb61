package vehicle

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

type Repository interface {
	GetForDealer(ctx context.Context, dealerID, id int64) (*Vehicle, error)
	List(ctx context.Context, dealerID int64, f ListFilter) ([]*Vehicle, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetForDealer(ctx context.Context, dealerID, id int64) (*Vehicle, error) {
	var v Vehicle
	err := r.db.WithContext(ctx).Where("id = ? AND dealer_id = ?", id, dealerID).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) List(ctx context.Context, dealerID int64, f ListFilter) ([]*Vehicle, error) {
	q := r.db.WithContext(ctx).Where("dealer_id = ?", dealerID)
	if f.UploadID != nil {
		q = q.Where("upload_id = ?", *f.UploadID)
	}

	var vehicles []*Vehicle
	err := q.Order("created_at DESC, id DESC").Limit(ClampLimit(f.Limit)).Find(&vehicles).Error
	return vehicles, err
}

// ClampLimit applies the default and maximum page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
