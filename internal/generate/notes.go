package generate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/librocco/demo-data/internal/model"
	"github.com/librocco/demo-data/internal/sampling"
)

// ErrInvalidOptions is returned for unusable generator settings.
var ErrInvalidOptions = errors.New("invalid generator options")

// NoteOptions configures Notes.
type NoteOptions struct {
	Total            int
	InboundRate      float64 // probability of a note being inbound
	MaxInboundBooks  int64   // size of each warehouse's opening purchase
	InboundBookRate  float64 // geometric success probability, inbound
	OutboundBookRate float64 // geometric success probability, outbound
	Start            time.Time
	End              time.Time
	CommitDelay      time.Duration
}

// DefaultNoteOptions returns the production-fitted parameters.
func DefaultNoteOptions() NoteOptions {
	return NoteOptions{
		Total:            15_000,
		InboundRate:      1.0 / 3,
		MaxInboundBooks:  300,
		InboundBookRate:  1.0 / 8,
		OutboundBookRate: 1.0 / 3,
		Start:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:              time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
		CommitDelay:      10 * time.Minute,
	}
}

func (o NoteOptions) validate() error {
	switch {
	case o.Total < 1:
		return fmt.Errorf("%w: total notes must be >= 1, got %d", ErrInvalidOptions, o.Total)
	case o.InboundRate < 0 || o.InboundRate > 1:
		return fmt.Errorf("%w: inbound rate must be in [0, 1], got %v", ErrInvalidOptions, o.InboundRate)
	case o.MaxInboundBooks < 1:
		return fmt.Errorf("%w: max inbound books must be >= 1, got %d", ErrInvalidOptions, o.MaxInboundBooks)
	case !(o.InboundBookRate > 0 && o.InboundBookRate <= 1):
		return fmt.Errorf("%w: inbound book rate must be in (0, 1], got %v", ErrInvalidOptions, o.InboundBookRate)
	case !(o.OutboundBookRate > 0 && o.OutboundBookRate <= 1):
		return fmt.Errorf("%w: outbound book rate must be in (0, 1], got %v", ErrInvalidOptions, o.OutboundBookRate)
	case !o.End.After(o.Start):
		return fmt.Errorf("%w: end %s must be after start %s", ErrInvalidOptions, o.End, o.Start)
	case o.CommitDelay < 0:
		return fmt.Errorf("%w: commit delay must be >= 0, got %s", ErrInvalidOptions, o.CommitDelay)
	}
	return nil
}

// Notes generates the preliminary note table in chronological order.
//
// The first len(warehouses) notes are inbound, one per warehouse, each with
// MaxInboundBooks books, so every warehouse opens with stock. Outbound notes
// carry warehouse id 0; their warehouses are assigned per transaction later.
func Notes(rng *rand.Rand, warehouses []model.Warehouse, opts NoteOptions) ([]model.Note, error) {
	if len(warehouses) == 0 {
		return nil, fmt.Errorf("%w: at least one warehouse is required", ErrInvalidOptions)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	k := len(warehouses)
	inbound := make([]bool, opts.Total)
	for i := range inbound {
		inbound[i] = i < k || sampling.Bernoulli(rng, opts.InboundRate)
	}

	times := timestamps(rng, opts.Total, opts.Start, opts.End)

	notes := make([]model.Note, opts.Total)
	var purchases, sales int
	for i := range notes {
		n := model.Note{
			ID:        int64(i + 1),
			UpdatedAt: model.Millis(times[i]),
		}
		switch {
		case i < k:
			purchases++
			n.DisplayName = fmt.Sprintf("Purchase (%d)", purchases)
			n.WarehouseID = warehouses[i].ID
			n.NBooks = opts.MaxInboundBooks
		case inbound[i]:
			purchases++
			n.DisplayName = fmt.Sprintf("Purchase (%d)", purchases)
			n.WarehouseID = warehouses[rng.IntN(k)].ID
			n.NBooks = sampling.Geometric(rng, opts.InboundBookRate)
		default:
			sales++
			n.DisplayName = fmt.Sprintf("Sale (%d)", sales)
			n.WarehouseID = model.NoWarehouse
			n.NBooks = sampling.Geometric(rng, opts.OutboundBookRate)
		}

		days := math.Floor(opts.End.Sub(times[i]).Hours() / 24)
		if rng.Float64() > math.Pow(0.5, days+1) {
			n.Committed = true
			n.CommittedAt = model.Ptr(model.Millis(times[i].Add(opts.CommitDelay)))
		}
		notes[i] = n
	}
	return notes, nil
}

// timestamps spreads n points over [start, end] with exponential gaps.
// Gaps are floored to whole units first, so bursts of notes can share a
// timestamp. Results are rounded to the second.
func timestamps(rng *rand.Rand, n int, start, end time.Time) []time.Time {
	cum := make([]float64, n)
	var acc float64
	for i := range cum {
		acc += math.Floor(sampling.Exponential(rng, 1))
		cum[i] = acc
	}

	span := end.Sub(start).Seconds()
	scale := 0.0
	if acc > 0 {
		scale = span / acc
	}

	out := make([]time.Time, n)
	for i, c := range cum {
		out[i] = start.Add(time.Duration(math.Round(c*scale)) * time.Second)
	}
	return out
}
