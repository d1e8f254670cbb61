package vehicle

import "time"

// Vehicle is one accepted row of a dealer file. It is never updated after insert.
type Vehicle struct {
	ID                int64      `gorm:"column:id;primaryKey" json:"id"`
	UploadID          int64      `gorm:"column:upload_id;index;not null" json:"upload_id"`
	DealerID          int64      `gorm:"column:dealer_id;index;not null" json:"dealer_id"`
	VIN               string     `gorm:"column:vin;not null" json:"vin"`
	WarrantyExpDate   *time.Time `gorm:"column:warranty_exp_date;type:date" json:"-"`
	CustomerName      string     `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerPhone     string     `gorm:"column:customer_phone;not null" json:"customer_phone"`
	CustomerPhoneE164 *string    `gorm:"column:customer_phone_e164" json:"customer_phone_e164,omitempty"`
	CustomerEmail     *string    `gorm:"column:customer_email" json:"customer_email"`
	CustomerZip       *string    `gorm:"column:customer_zip" json:"customer_zip"`
	LastServiceDate   *time.Time `gorm:"column:last_service_date;type:date" json:"-"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (Vehicle) TableName() string { return "vehicles" }
