// Package rank maintains the display ordering of events.
//
// Every event carries a sort_order rank assigned once at creation. Ranks are
// computed by scanning the existing events in ascending rank order and
// slotting the new event before the first event that starts strictly later,
// then shifting every event from that slot onward up by one. Ranks are never
// recomputed afterwards: deletions leave gaps and start_time edits are not
// re-ranked, so rank order only approximates chronological order over time.
// Listing by ascending rank is the one consumer.
package rank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibetrip/vibetrip/internal/model"
	"github.com/vibetrip/vibetrip/internal/store"
)

// ErrMissingStartTime is returned when an event arrives without a start time.
// Validation happens before any other record is touched.
var ErrMissingStartTime = errors.New("rank: event start_time is required")

// Position returns the insertion index for an event starting at start, given
// the existing events in ascending rank order: the index of the first event
// whose start time is strictly later, or len(existing) when none is.
//
// The comparison is strict, so an event with an equal start time lands
// after the existing one, not before it.
func Position(start time.Time, existing []model.EventRank) int {
	for i, e := range existing {
		if e.StartTime.After(start) {
			return i
		}
	}
	return len(existing)
}

// Plan describes how a single insertion changes the rank column.
type Plan struct {
	// SortOrder is the rank assigned to the new event.
	SortOrder int
	// ShiftFrom is the lowest existing rank that must move up by one to make
	// room, applied as one bulk range-shift. -1 means no shift is needed
	// (the new event lands at the end).
	ShiftFrom int
}

// PlanInsert computes the rank plan for an event starting at start.
//
// While ranks are dense (0..n-1, no deletions yet) this reproduces the
// positional assignment exactly: the new event takes the scan index as its
// rank. Once deletions have left gaps, the cutoff and the assigned rank
// follow the rank values themselves rather than positions, so relative order
// stays correct; gaps are never compacted.
func PlanInsert(start time.Time, existing []model.EventRank) Plan {
	p := Position(start, existing)
	if p == len(existing) {
		if len(existing) == 0 {
			return Plan{SortOrder: 0, ShiftFrom: -1}
		}
		return Plan{SortOrder: existing[len(existing)-1].SortOrder + 1, ShiftFrom: -1}
	}
	return Plan{SortOrder: existing[p].SortOrder, ShiftFrom: existing[p].SortOrder}
}

// Assigner persists new events with their computed rank.
type Assigner struct {
	store store.Store
}

// NewAssigner returns an Assigner backed by the given store.
func NewAssigner(s store.Store) *Assigner {
	return &Assigner{store: s}
}

// Insert assigns a rank to the event and persists it. The rank read, the
// range-shift of later events, and the insert run inside one transaction:
// either the whole insertion lands or none of it does, and two concurrent
// insertions cannot interleave their shifts.
func (a *Assigner) Insert(ctx context.Context, event *model.Event) error {
	if event.StartTime.IsZero() {
		return ErrMissingStartTime
	}

	return a.store.RunInTransaction(ctx, func(tx store.Store) error {
		existing, err := tx.ListEventRanks(ctx)
		if err != nil {
			return fmt.Errorf("list event ranks: %w", err)
		}

		plan := PlanInsert(event.StartTime, existing)
		if plan.ShiftFrom >= 0 {
			if err := tx.ShiftEventRanks(ctx, plan.ShiftFrom); err != nil {
				return fmt.Errorf("shift event ranks from %d: %w", plan.ShiftFrom, err)
			}
		}

		event.SortOrder = plan.SortOrder
		if err := tx.CreateEvent(ctx, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return nil
	})
}
