// Package scoring turns a vehicle record into a lead score. Everything here is
// pure: the same vehicle and day always produce the same Result.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"stressorleads/internal/domain/vehicle"
)

const (
	StressorWarrantyExpiring    = "Warranty Expiring"
	StressorServiceOverdue      = "Service Overdue"
	StressorMultipleConcerns    = "Multiple Concerns"
	StressorMaintenanceReminder = "Maintenance Reminder"
)

// No telematic source is integrated yet. Every lead carries this fixed score
// until one is.
const (
	HasTelematic   = false
	TelematicScore = 0.1
)

const (
	warrantyWeightInStressor = 0.6
	serviceWeightInStressor  = 0.4

	urgencyWarrantyWeight       = 0.3
	urgencyServiceWeight        = 0.3
	urgencyStressorWeight       = 0.2
	urgencySusceptibilityWeight = 0.1
	urgencyTelematicWeight      = 0.1

	noServiceRecordScore = 0.8
	routineReason        = "Routine maintenance reminder"
	fallbackStressor     = "maintenance"
)

type Result struct {
	UrgencyScore        float64
	StressorScore       float64
	WarrantyScore       float64
	ServiceScore        float64
	SusceptibilityScore float64
	TelematicScore      float64
	HasTelematic        bool
	StressorType        *string
	WhyNow              string
	CallByDate          time.Time
	SuggestedScript     string
}

// Score computes the lead score of v as of today. today is reduced to its UTC
// calendar date.
func Score(v *vehicle.Vehicle, today time.Time) Result {
	day := civil(today.UTC())

	warrantyDays, hasWarranty := daysUntil(v.WarrantyExpDate, day)
	serviceDays, hasService := daysSince(v.LastServiceDate, day)

	warranty := WarrantyScore(warrantyDays, hasWarranty)
	service := ServiceScore(serviceDays, hasService)
	stressor := math.Min(1, warrantyWeightInStressor*warranty+serviceWeightInStressor*service)
	stressorType := StressorType(warranty, service)
	susceptibility := SusceptibilityScore(v.CustomerEmail, v.CustomerZip)

	urgency := math.Min(1,
		urgencyWarrantyWeight*warranty+
			urgencyServiceWeight*service+
			urgencyStressorWeight*stressor+
			urgencySusceptibilityWeight*susceptibility+
			urgencyTelematicWeight*TelematicScore)

	var typ *string
	if stressorType != "" {
		typ = &stressorType
	}

	return Result{
		UrgencyScore:        urgency,
		StressorScore:       stressor,
		WarrantyScore:       warranty,
		ServiceScore:        service,
		SusceptibilityScore: susceptibility,
		TelematicScore:      TelematicScore,
		HasTelematic:        HasTelematic,
		StressorType:        typ,
		WhyNow:              whyNow(warranty, warrantyDays, service, serviceDays, hasService),
		CallByDate:          day.AddDate(0, 0, CallByOffset(urgency)),
		SuggestedScript:     script(v.CustomerName, typ),
	}
}

// WarrantyScore rates days until warranty expiry. Upper bounds are inclusive.
func WarrantyScore(days int, known bool) float64 {
	switch {
	case !known, days < 0:
		return 0.0
	case days <= 30:
		return 1.0
	case days <= 60:
		return 0.8
	case days <= 90:
		return 0.6
	default:
		return 0.3
	}
}

// ServiceScore rates days since the last service. A missing record scores
// higher than a recent visit.
func ServiceScore(days int, known bool) float64 {
	switch {
	case !known:
		return noServiceRecordScore
	case days > 365:
		return 0.9
	case days > 180:
		return 0.7
	case days > 90:
		return 0.5
	default:
		return 0.2
	}
}

// StressorType returns the first matching label.
func StressorType(warranty, service float64) string {
	switch {
	case warranty > 0.7:
		return StressorWarrantyExpiring
	case service > 0.7:
		return StressorServiceOverdue
	case warranty > 0.5 && service > 0.5:
		return StressorMultipleConcerns
	default:
		return StressorMaintenanceReminder
	}
}

// SusceptibilityScore rates how reachable the customer is.
func SusceptibilityScore(email, zip *string) float64 {
	switch {
	case email != nil && zip != nil:
		return 0.8
	case email != nil || zip != nil:
		return 0.5
	default:
		return 0.3
	}
}

// CallByOffset is the number of days until the customer should be called.
// Lower bounds are exclusive.
func CallByOffset(urgency float64) int {
	switch {
	case urgency > 0.8:
		return 1
	case urgency > 0.6:
		return 3
	case urgency > 0.4:
		return 7
	default:
		return 14
	}
}

func whyNow(warranty float64, warrantyDays int, service float64, serviceDays int, hasService bool) string {
	var reasons []string

	if warranty > 0.7 {
		if warrantyDays > 0 {
			reasons = append(reasons, fmt.Sprintf("Warranty expires in %d days", warrantyDays))
		} else {
			reasons = append(reasons, "Warranty has expired")
		}
	}

	if service > 0.7 {
		if hasService {
			reasons = append(reasons, fmt.Sprintf("Last service was %d days ago", serviceDays))
		} else {
			reasons = append(reasons, "No service record found")
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, routineReason)
	}

	return fmt.Sprintf("Customer should be contacted because: %s. This is an optimal time to reach out and provide value.",
		strings.Join(reasons, ", "))
}

func script(customerName string, stressorType *string) string {
	stressor := fallbackStressor
	if stressorType != nil && *stressorType != "" {
		stressor = *stressorType
	}

	return fmt.Sprintf("Hi %s, this is [Your Name] from [Dealership]. I wanted to reach out because your vehicle's %s is coming up. "+
		"We'd love to help ensure your vehicle stays in great condition. Would you be available for a quick conversation "+
		"about scheduling a service appointment? We can work around your schedule and make sure everything is taken care of.",
		customerName, stressor)
}

func daysUntil(date *time.Time, today time.Time) (int, bool) {
	if date == nil {
		return 0, false
	}
	return wholeDays(civil(*date).Sub(today)), true
}

func daysSince(date *time.Time, today time.Time) (int, bool) {
	if date == nil {
		return 0, false
	}
	return wholeDays(today.Sub(civil(*date))), true
}

// civil keeps the calendar date of t in its own location, at UTC midnight.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func wholeDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}
