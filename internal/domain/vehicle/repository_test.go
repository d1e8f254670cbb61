package vehicle

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stressorleads/internal/pkg/testdb"
)

func TestRepository_ListScopesAndFilters(t *testing.T) {
	db := testdb.Open(t, &Vehicle{})
	repo := NewRepository(db)
	ctx := context.Background()

	rows := []*Vehicle{
		{UploadID: 1, DealerID: 7, VIN: "A", CustomerName: "Ann", CustomerPhone: "1"},
		{UploadID: 2, DealerID: 7, VIN: "B", CustomerName: "Bob", CustomerPhone: "2"},
		{UploadID: 3, DealerID: 8, VIN: "C", CustomerName: "Cy", CustomerPhone: "3"},
	}
	require.NoError(t, db.Create(&rows).Error)

	all, err := repo.List(ctx, 7, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	uploadID := int64(2)
	filtered, err := repo.List(ctx, 7, ListFilter{UploadID: &uploadID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "B", filtered[0].VIN)

	_, err = repo.GetForDealer(ctx, 7, rows[2].ID)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestRepository_DatesRoundTrip(t *testing.T) {
	db := testdb.Open(t, &Vehicle{})
	repo := NewRepository(db)

	warranty := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	v := &Vehicle{UploadID: 1, DealerID: 7, VIN: "A", CustomerName: "Ann", CustomerPhone: "1", WarrantyExpDate: &warranty}
	require.NoError(t, db.Create(v).Error)

	got, err := repo.GetForDealer(context.Background(), 7, v.ID)
	require.NoError(t, err)
	require.NotNil(t, got.WarrantyExpDate)
	assert.Equal(t, "2025-06-30", got.WarrantyExpDate.Format(DateLayout))
	assert.Nil(t, got.LastServiceDate)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-5))
	assert.Equal(t, 20, ClampLimit(20))
	assert.Equal(t, MaxLimit, ClampLimit(10000))
}

func TestResponse_FormatsDates(t *testing.T) {
	d := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(NewResponse(&Vehicle{VIN: "A", LastServiceDate: &d}))
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"last_service_date":"2024-01-05"`)
	assert.Contains(t, string(raw), `"warranty_exp_date":null`)
}
