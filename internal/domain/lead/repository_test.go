package lead

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stressorleads/internal/domain/vehicle"
	"stressorleads/internal/pkg/testdb"
	"stressorleads/internal/scoring"
)

var today = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

func seedLead(t *testing.T, repo Repository, dealerID, uploadID int64, vin string, urgency float64) *ScoredLead {
	t.Helper()
	v := &vehicle.Vehicle{UploadID: uploadID, DealerID: dealerID, VIN: vin, CustomerName: "C", CustomerPhone: "1"}
	res := scoring.Score(v, today)
	res.UrgencyScore = urgency
	res.CallByDate = today.AddDate(0, 0, scoring.CallByOffset(urgency))

	l, err := repo.CreateWithVehicle(context.Background(), v, res)
	require.NoError(t, err)
	return l
}

func TestCreateWithVehicle(t *testing.T) {
	db := testdb.Open(t, &vehicle.Vehicle{}, &ScoredLead{})
	repo := NewRepository(db)

	l := seedLead(t, repo, 7, 1, "VIN1", 0.5)

	assert.NotZero(t, l.ID)
	require.NotNil(t, l.Vehicle)
	assert.Equal(t, l.Vehicle.ID, l.VehicleID)
	assert.Equal(t, int64(1), l.UploadID)
	assert.Equal(t, int64(7), l.DealerID)

	var vehicles int64
	db.Model(&vehicle.Vehicle{}).Count(&vehicles)
	assert.Equal(t, int64(1), vehicles)
}

func TestCreateWithVehicle_RollsBackVehicleWhenLeadFails(t *testing.T) {
	db := testdb.Open(t, &vehicle.Vehicle{}, &ScoredLead{})
	repo := NewRepository(db)
	ctx := context.Background()

	l := seedLead(t, repo, 7, 1, "VIN1", 0.5)

	// a second lead for the same vehicle violates the unique index
	dup := &vehicle.Vehicle{ID: l.VehicleID + 1, UploadID: 1, DealerID: 7, VIN: "VIN2", CustomerName: "C", CustomerPhone: "1"}
	require.NoError(t, db.Exec("INSERT INTO scored_leads (vehicle_id, upload_id, dealer_id, urgency_score, stressor_score, warranty_score, susceptibility_score, telematic_score, has_telematic, why_now, call_by_date, suggested_script) VALUES (?, 1, 7, 0, 0, 0, 0, 0, false, '', '2025-03-16', '')", dup.ID).Error)

	_, err := repo.CreateWithVehicle(ctx, dup, scoring.Score(dup, today))
	require.Error(t, err)

	var vehicles int64
	db.Model(&vehicle.Vehicle{}).Count(&vehicles)
	assert.Equal(t, int64(1), vehicles)
}

func TestList_OrderFiltersAndScope(t *testing.T) {
	db := testdb.Open(t, &vehicle.Vehicle{}, &ScoredLead{})
	repo := NewRepository(db)
	ctx := context.Background()

	low := seedLead(t, repo, 7, 1, "LOW", 0.3)
	highA := seedLead(t, repo, 7, 1, "HIGH-A", 0.9)
	mid := seedLead(t, repo, 7, 2, "MID", 0.6)
	highB := seedLead(t, repo, 7, 2, "HIGH-B", 0.9)
	seedLead(t, repo, 8, 3, "OTHER", 1.0)

	all, err := repo.List(ctx, 7, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []int64{highA.ID, highB.ID, mid.ID, low.ID}, ids(all))
	require.NotNil(t, all[0].Vehicle)
	assert.Equal(t, "HIGH-A", all[0].Vehicle.VIN)

	minScore := 0.5
	above, err := repo.List(ctx, 7, ListFilter{MinScore: &minScore})
	require.NoError(t, err)
	assert.Equal(t, []int64{highA.ID, highB.ID, mid.ID}, ids(above))

	upload := int64(2)
	byUpload, err := repo.List(ctx, 7, ListFilter{UploadID: &upload, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{highB.ID}, ids(byUpload))
}

func TestGetForDealer(t *testing.T) {
	db := testdb.Open(t, &vehicle.Vehicle{}, &ScoredLead{})
	repo := NewRepository(db)
	ctx := context.Background()

	l := seedLead(t, repo, 7, 1, "VIN1", 0.5)

	got, err := repo.GetForDealer(ctx, 7, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "VIN1", got.Vehicle.VIN)
	assert.Equal(t, 0.5, got.UrgencyScore)
	assert.Equal(t, today.AddDate(0, 0, 7).Format("2006-01-02"), got.CallByDate.Format("2006-01-02"))

	_, err = repo.GetForDealer(ctx, 8, l.ID)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestResponse_JSON(t *testing.T) {
	l := &ScoredLead{ID: 1, CallByDate: time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), Vehicle: &vehicle.Vehicle{VIN: "VIN1"}}

	raw, err := json.Marshal(NewResponse(l))
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"call_by_date":"2025-03-16"`)
	assert.Contains(t, string(raw), `"vin":"VIN1"`)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, clampLimit(0))
	assert.Equal(t, MaxLimit, clampLimit(501))
	assert.Equal(t, 42, clampLimit(42))
}

func ids(leads []*ScoredLead) []int64 {
	out := make([]int64, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.ID)
	}
	return out
}
