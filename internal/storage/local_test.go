package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	body := "vin,warranty\nVIN1,2025-04-01\n"
	key, err := store.Save(ctx, 7, "March Inventory.csv", strings.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "dealers/7/2025/03/09/"), key)
	assert.True(t, strings.HasSuffix(key, "_March_Inventory.csv"), key)

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, body, string(got))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting twice is not an error
	assert.NoError(t, store.Delete(ctx, key))
}

func TestLocalStore_KeyCannotEscapeBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(store.path("../../etc/passwd"), store.baseDir))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "dealer_list_2025", sanitizeName("dealer list 2025.csv"))
	assert.Equal(t, "file", sanitizeName(".csv"))
	assert.Equal(t, "leads", sanitizeName(`C:\tmp\leads.csv`))
	assert.Len(t, sanitizeName(strings.Repeat("a", 100)+".csv"), 40)
}
