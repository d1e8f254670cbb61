package dealer

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, d *Dealer) error
	GetByID(ctx context.Context, id int64) (*Dealer, error)
	GetByEmail(ctx context.Context, email string) (*Dealer, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, d *Dealer) error {
	err := r.db.WithContext(ctx).Create(d).Error
	if isUniqueViolation(err) {
		return ErrEmailExists
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Dealer, error) {
	var d Dealer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDealerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Dealer, error) {
	var d Dealer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDealerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// isUniqueViolation recognises duplicate keys from PostgreSQL (23505) and SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
