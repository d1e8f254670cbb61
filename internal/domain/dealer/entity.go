package dealer

import "time"

// Dealer is the account that owns uploads. Every protected request resolves to one.
type Dealer struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	ZipCode      *string   `gorm:"column:zip_code" json:"zip_code,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Dealer) TableName() string { return "dealers" }
