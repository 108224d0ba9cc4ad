package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

func TestDispatcherWritesOnClose(t *testing.T) {
	gdb := testutil.NewDB(t)
	shop := testutil.SeedShop(t, gdb)

	d := NewDispatcher(New(gdb), zap.NewNop())

	d.Dispatch(Event{
		BarbershopID: shop.ID,
		UserID:       Ptr(5),
		Action:       "absence_approved",
		Entity:       "absence",
		EntityID:     Ptr(12),
		Metadata:     map[string]any{"resolutions": 2},
	})
	d.Close()
	d.Close()

	var rows []models.AuditLog
	require.NoError(t, gdb.Find(&rows).Error)
	require.Len(t, rows, 1)

	assert.Equal(t, "absence_approved", rows[0].Action)
	require.NotNil(t, rows[0].EntityID)
	assert.Equal(t, uint(12), *rows[0].EntityID)

	var meta map[string]int
	require.NoError(t, json.Unmarshal([]byte(rows[0].Metadata), &meta))
	assert.Equal(t, 2, meta["resolutions"])
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "booking_created"})
	})
}

func TestLoggerList(t *testing.T) {
	gdb := testutil.NewDB(t)
	shop := testutil.SeedShop(t, gdb)
	other := testutil.SeedShop(t, gdb)

	l := New(gdb)
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Log(shop.ID, nil, "booking_created", "booking", Ptr(uint(i+1)), nil))
	}
	require.NoError(t, l.Log(shop.ID, nil, "absence_submitted", "absence", Ptr(1), nil))
	require.NoError(t, l.Log(other.ID, nil, "booking_created", "booking", Ptr(9), nil))

	ctx := context.Background()

	logs, total, err := l.List(ctx, Filter{BarbershopID: shop.ID, Action: "booking_created", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, logs, 2)
	assert.Equal(t, uint(3), *logs[0].EntityID)

	logs, _, err = l.List(ctx, Filter{BarbershopID: shop.ID, Action: "booking_created", Limit: 2, Page: 2})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	today := timezone.DateOf(timezone.NowIn("UTC"))
	_, total, err = l.List(ctx, Filter{BarbershopID: shop.ID, From: today, To: today})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	_, total, err = l.List(ctx, Filter{BarbershopID: shop.ID, To: today.AddDate(0, 0, -1)})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestFilterNormalize(t *testing.T) {
	f := Filter{Page: -1, Limit: 500}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 50, f.Limit)

	f = Filter{Page: 3, Limit: 200}
	f.Normalize()
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 200, f.Limit)
}
