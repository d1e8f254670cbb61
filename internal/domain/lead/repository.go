package lead

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stressorleads/internal/domain/vehicle"
	"stressorleads/internal/scoring"
)

type Repository interface {
	// CreateWithVehicle inserts v and its scored lead in one transaction.
	CreateWithVehicle(ctx context.Context, v *vehicle.Vehicle, r scoring.Result) (*ScoredLead, error)
	GetForDealer(ctx context.Context, dealerID, id int64) (*ScoredLead, error)
	List(ctx context.Context, dealerID int64, f ListFilter) ([]*ScoredLead, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithVehicle(ctx context.Context, v *vehicle.Vehicle, res scoring.Result) (*ScoredLead, error) {
	var l *ScoredLead
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(v).Error; err != nil {
			return err
		}
		l = NewScoredLead(v, res)
		return tx.Omit(clause.Associations).Create(l).Error
	})
	if err != nil {
		return nil, err
	}
	l.Vehicle = v
	return l, nil
}

func (r *repository) GetForDealer(ctx context.Context, dealerID, id int64) (*ScoredLead, error) {
	var l ScoredLead
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("id = ? AND dealer_id = ?", id, dealerID).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) List(ctx context.Context, dealerID int64, f ListFilter) ([]*ScoredLead, error) {
	q := r.db.WithContext(ctx).Preload("Vehicle").Where("dealer_id = ?", dealerID)
	if f.UploadID != nil {
		q = q.Where("upload_id = ?", *f.UploadID)
	}
	if f.MinScore != nil {
		q = q.Where("urgency_score >= ?", *f.MinScore)
	}

	var leads []*ScoredLead
	err := q.Order("urgency_score DESC, id ASC").Limit(clampLimit(f.Limit)).Find(&leads).Error
	return leads, err
}
