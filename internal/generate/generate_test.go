package generate

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librocco/demo-data/internal/model"
	"github.com/librocco/demo-data/internal/sampling"
)

func TestWarehouses_Defaults(t *testing.T) {
	ws, err := Warehouses(DefaultWarehouses)
	require.NoError(t, err)
	require.Len(t, ws, 8)
	for i, w := range ws {
		assert.Equal(t, int64(i+1), w.ID)
	}
	assert.Equal(t, "Used books (2022)", ws[0].DisplayName)
	assert.True(t, ws[0].Discount.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "New books (2025)", ws[7].DisplayName)
	assert.True(t, ws[7].Discount.IsZero())
	require.NoError(t, model.ValidateWarehouses(ws))
}

func TestWarehouses_Invalid(t *testing.T) {
	_, err := Warehouses(nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = Warehouses([]WarehouseSpec{{DisplayName: "x", Discount: decimal.NewFromInt(120)}})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func testWarehouses(t *testing.T) []model.Warehouse {
	t.Helper()
	ws, err := Warehouses(DefaultWarehouses)
	require.NoError(t, err)
	return ws
}

func TestNotes_Shape(t *testing.T) {
	ws := testWarehouses(t)
	opts := DefaultNoteOptions()
	opts.Total = 3000

	notes, err := Notes(sampling.New(7), ws, opts)
	require.NoError(t, err)
	require.Len(t, notes, opts.Total)
	require.NoError(t, model.ValidateNotes(notes))

	start := model.Millis(opts.Start)
	end := model.Millis(opts.End)
	var inbound, sales int
	var prev int64
	for i, n := range notes {
		assert.Equal(t, int64(i+1), n.ID)
		assert.GreaterOrEqual(t, n.UpdatedAt, prev, "chronological order")
		assert.GreaterOrEqual(t, n.UpdatedAt, start)
		assert.LessOrEqual(t, n.UpdatedAt, end)
		assert.Zero(t, n.UpdatedAt%1000, "rounded to seconds")
		prev = n.UpdatedAt

		if i < len(ws) {
			assert.Equal(t, ws[i].ID, n.WarehouseID, "opening purchase per warehouse")
			assert.Equal(t, opts.MaxInboundBooks, n.NBooks)
		}
		if n.Inbound() {
			inbound++
			assert.Contains(t, n.DisplayName, "Purchase (")
		} else {
			sales++
			assert.Contains(t, n.DisplayName, "Sale (")
		}
		if n.Committed {
			require.NotNil(t, n.CommittedAt)
			assert.Equal(t, n.UpdatedAt+opts.CommitDelay.Milliseconds(), *n.CommittedAt)
		} else {
			assert.Nil(t, n.CommittedAt)
		}
	}
	assert.Equal(t, end, notes[len(notes)-1].UpdatedAt)
	assert.Equal(t, "Purchase (1)", notes[0].DisplayName)
	assert.InDelta(t, 1.0/3, float64(inbound)/float64(len(notes)), 0.05)
	assert.Positive(t, sales)
}

func TestNotes_OldNotesAreCommitted(t *testing.T) {
	opts := DefaultNoteOptions()
	opts.Total = 2000
	notes, err := Notes(sampling.New(3), testWarehouses(t), opts)
	require.NoError(t, err)

	// Anything a month old stays uncommitted with probability 0.5^31.
	cutoff := model.Millis(opts.End.Add(-30 * 24 * time.Hour))
	for _, n := range notes {
		if n.UpdatedAt < cutoff {
			assert.True(t, n.Committed, "note %d", n.ID)
		}
	}
}

func TestNotes_SizeMeans(t *testing.T) {
	ws := testWarehouses(t)
	opts := DefaultNoteOptions()
	opts.Total = 12000
	notes, err := Notes(sampling.New(11), ws, opts)
	require.NoError(t, err)

	var inSum, inN, outSum, outN float64
	for _, n := range notes[len(ws):] {
		if n.Inbound() {
			inSum += float64(n.NBooks)
			inN++
		} else {
			outSum += float64(n.NBooks)
			outN++
		}
	}
	assert.InDelta(t, 8, inSum/inN, 0.6)
	assert.InDelta(t, 3, outSum/outN, 0.2)
}

func TestNotes_Deterministic(t *testing.T) {
	opts := DefaultNoteOptions()
	opts.Total = 500
	a, err := Notes(sampling.New(99), testWarehouses(t), opts)
	require.NoError(t, err)
	b, err := Notes(sampling.New(99), testWarehouses(t), opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNotes_FewerNotesThanWarehouses(t *testing.T) {
	opts := DefaultNoteOptions()
	opts.Total = 3
	notes, err := Notes(sampling.New(1), testWarehouses(t), opts)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	for i, n := range notes {
		assert.Equal(t, int64(i+1), n.WarehouseID)
	}
}

func TestNotes_InvalidOptions(t *testing.T) {
	ws := testWarehouses(t)
	tests := []struct {
		name   string
		mutate func(*NoteOptions)
	}{
		{"zero total", func(o *NoteOptions) { o.Total = 0 }},
		{"inbound rate", func(o *NoteOptions) { o.InboundRate = 1.5 }},
		{"max inbound", func(o *NoteOptions) { o.MaxInboundBooks = 0 }},
		{"inbound book rate", func(o *NoteOptions) { o.InboundBookRate = 0 }},
		{"outbound book rate", func(o *NoteOptions) { o.OutboundBookRate = math.NaN() }},
		{"window", func(o *NoteOptions) { o.End = o.Start }},
		{"commit delay", func(o *NoteOptions) { o.CommitDelay = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultNoteOptions()
			tt.mutate(&opts)
			_, err := Notes(sampling.New(1), ws, opts)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}

	_, err := Notes(sampling.New(1), nil, DefaultNoteOptions())
	assert.ErrorIs(t, err, ErrInvalidOptions)
}
