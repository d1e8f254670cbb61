package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stressorleads/internal/domain/vehicle"
	"stressorleads/internal/pkg/phone"
	"stressorleads/internal/pkg/utils"
)

const (
	colVIN = iota
	colWarrantyExpDate
	colCustomerName
	colCustomerPhone
	colCustomerEmail
	colCustomerZip
	colLastServiceDate
)

// MinPopulatedColumns is vin, warranty date, customer name and phone.
const MinPopulatedColumns = 4

// ErrRowSkipped matches every *SkipError.
var ErrRowSkipped = errors.New("row skipped")

// SkipError reports a row without enough columns. It excludes the row from
// processing and never fails the job.
type SkipError struct {
	Populated int
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("row skipped: %d populated columns, need %d", e.Populated, MinPopulatedColumns)
}

func (e *SkipError) Is(target error) bool {
	return target == ErrRowSkipped
}

// FieldIssue is a value that could not be used and was treated as absent.
type FieldIssue struct {
	Field  string
	Value  string
	Reason string
}

// ParsedRow is a typed row ready to become a vehicle record.
type ParsedRow struct {
	VIN               string
	WarrantyExpDate   *time.Time
	CustomerName      string
	CustomerPhone     string
	CustomerPhoneE164 *string
	CustomerEmail     *string
	CustomerZip       *string
	LastServiceDate   *time.Time
	Issues            []FieldIssue
}

// ParseRow converts one CSV record. Only non-blank cells count as populated.
// Unparsable dates become nil and are reported in Issues.
func ParseRow(fields []string, region string) (*ParsedRow, error) {
	if n := populated(fields); n < MinPopulatedColumns {
		return nil, &SkipError{Populated: n}
	}

	row := &ParsedRow{
		VIN:           field(fields, colVIN),
		CustomerName:  field(fields, colCustomerName),
		CustomerPhone: field(fields, colCustomerPhone),
		CustomerEmail: utils.OptionalString(field(fields, colCustomerEmail)),
		CustomerZip:   utils.OptionalString(field(fields, colCustomerZip)),
	}

	row.WarrantyExpDate = row.date("warranty_exp_date", field(fields, colWarrantyExpDate))
	row.LastServiceDate = row.date("last_service_date", field(fields, colLastServiceDate))

	if e164, ok := phone.NormalizeE164(row.CustomerPhone, region); ok {
		row.CustomerPhoneE164 = &e164
	}

	return row, nil
}

// Vehicle attaches the row to its upload and dealer.
func (r *ParsedRow) Vehicle(uploadID, dealerID int64) *vehicle.Vehicle {
	return &vehicle.Vehicle{
		UploadID:          uploadID,
		DealerID:          dealerID,
		VIN:               r.VIN,
		WarrantyExpDate:   r.WarrantyExpDate,
		CustomerName:      r.CustomerName,
		CustomerPhone:     r.CustomerPhone,
		CustomerPhoneE164: r.CustomerPhoneE164,
		CustomerEmail:     r.CustomerEmail,
		CustomerZip:       r.CustomerZip,
		LastServiceDate:   r.LastServiceDate,
	}
}

func (r *ParsedRow) date(name, value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(vehicle.DateLayout, value)
	if err != nil {
		r.Issues = append(r.Issues, FieldIssue{Field: name, Value: value, Reason: "expected YYYY-MM-DD"})
		return nil
	}
	return &t
}

// populated counts non-blank cells. Empty separators, leading or trailing,
// do not make a column populated.
func populated(fields []string) int {
	n := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			n++
		}
	}
	return n
}

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
