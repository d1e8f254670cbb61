package lead

import (
	"time"

	"stressorleads/internal/domain/vehicle"
	"stressorleads/internal/scoring"
)

// ScoredLead is the score derived from exactly one vehicle. It is written
// together with the vehicle and never updated.
type ScoredLead struct {
	ID                  int64     `gorm:"column:id;primaryKey" json:"id"`
	VehicleID           int64     `gorm:"column:vehicle_id;uniqueIndex;not null" json:"vehicle_id"`
	UploadID            int64     `gorm:"column:upload_id;index;not null" json:"upload_id"`
	DealerID            int64     `gorm:"column:dealer_id;index;not null" json:"dealer_id"`
	UrgencyScore        float64   `gorm:"column:urgency_score;index;not null" json:"urgency_score"`
	StressorScore       float64   `gorm:"column:stressor_score;not null" json:"stressor_score"`
	WarrantyScore       float64   `gorm:"column:warranty_score;not null" json:"warranty_score"`
	SusceptibilityScore float64   `gorm:"column:susceptibility_score;not null" json:"susceptibility_score"`
	TelematicScore      float64   `gorm:"column:telematic_score;not null" json:"telematic_score"`
	HasTelematic        bool      `gorm:"column:has_telematic;not null" json:"has_telematic"`
	StressorType        *string   `gorm:"column:stressor_type" json:"stressor_type"`
	WhyNow              string    `gorm:"column:why_now;type:text;not null" json:"why_now"`
	CallByDate          time.Time `gorm:"column:call_by_date;type:date;not null" json:"-"`
	SuggestedScript     string    `gorm:"column:suggested_script;type:text;not null" json:"suggested_script"`
	CreatedAt           time.Time `gorm:"column:created_at" json:"created_at"`

	Vehicle *vehicle.Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ScoredLead) TableName() string { return "scored_leads" }

// NewScoredLead builds the lead row for a persisted vehicle.
func NewScoredLead(v *vehicle.Vehicle, r scoring.Result) *ScoredLead {
	return &ScoredLead{
		VehicleID:           v.ID,
		UploadID:            v.UploadID,
		DealerID:            v.DealerID,
		UrgencyScore:        r.UrgencyScore,
		StressorScore:       r.StressorScore,
		WarrantyScore:       r.WarrantyScore,
		SusceptibilityScore: r.SusceptibilityScore,
		TelematicScore:      r.TelematicScore,
		HasTelematic:        r.HasTelematic,
		StressorType:        r.StressorType,
		WhyNow:              r.WhyNow,
		CallByDate:          r.CallByDate,
		SuggestedScript:     r.SuggestedScript,
	}
}
