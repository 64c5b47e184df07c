package rank

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/vibetrip/vibetrip/internal/model"
	"github.com/vibetrip/vibetrip/internal/store"
)

func at(hour int) time.Time {
	return time.Date(2026, 7, 4, hour, 0, 0, 0, time.UTC)
}

func TestPosition_Empty(t *testing.T) {
	if got := Position(at(9), nil); got != 0 {
		t.Errorf("Position on empty collection = %d, want 0", got)
	}
}

func TestPosition_Scan(t *testing.T) {
	existing := []model.EventRank{
		{ID: "a", StartTime: at(10), SortOrder: 0},
		{ID: "b", StartTime: at(12), SortOrder: 1},
		{ID: "c", StartTime: at(14), SortOrder: 2},
	}
	for _, tc := range []struct {
		name  string
		start time.Time
		want  int
	}{
		{"before all", at(8), 0},
		{"between first and second", at(11), 1},
		{"between second and third", at(13), 2},
		{"after all", at(15), 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Position(tc.start, existing); got != tc.want {
				t.Errorf("Position(%v) = %d, want %d", tc.start, got, tc.want)
			}
		})
	}
}

// Equal start times insert after the existing event, not before it. The
// scan only stops at a strictly later start time.
func TestPosition_TieInsertsAfter(t *testing.T) {
	existing := []model.EventRank{
		{ID: "e", StartTime: at(10), SortOrder: 0},
	}
	if got := Position(at(10), existing); got != 1 {
		t.Errorf("Position(tie) = %d, want 1 (after the equal event)", got)
	}

	existing = append(existing, model.EventRank{ID: "f", StartTime: at(12), SortOrder: 1})
	if got := Position(at(12), existing); got != 2 {
		t.Errorf("Position(tie with later event) = %d, want 2", got)
	}
}

func TestPlanInsert_Empty(t *testing.T) {
	plan := PlanInsert(at(9), nil)
	if plan.SortOrder != 0 {
		t.Errorf("SortOrder = %d, want 0", plan.SortOrder)
	}
	if plan.ShiftFrom != -1 {
		t.Errorf("ShiftFrom = %d, want -1 (no shift)", plan.ShiftFrom)
	}
}

func TestPlanInsert_Earliest(t *testing.T) {
	existing := []model.EventRank{
		{ID: "a", StartTime: at(10), SortOrder: 0},
		{ID: "b", StartTime: at(12), SortOrder: 1},
	}
	plan := PlanInsert(at(8), existing)
	if plan.SortOrder != 0 {
		t.Errorf("SortOrder = %d, want 0", plan.SortOrder)
	}
	if plan.ShiftFrom != 0 {
		t.Errorf("ShiftFrom = %d, want 0 (every existing rank moves up)", plan.ShiftFrom)
	}
}

func TestPlanInsert_Latest(t *testing.T) {
	existing := []model.EventRank{
		{ID: "a", StartTime: at(10), SortOrder: 0},
		{ID: "b", StartTime: at(12), SortOrder: 1},
	}
	plan := PlanInsert(at(23), existing)
	if plan.SortOrder != 2 {
		t.Errorf("SortOrder = %d, want 2 (previous collection size)", plan.SortOrder)
	}
	if plan.ShiftFrom != -1 {
		t.Errorf("ShiftFrom = %d, want -1 (no existing ranks change)", plan.ShiftFrom)
	}
}

// A(rank0, 10:00), B(rank1, 12:00); insert C(11:00) -> C gets rank 1,
// B shifts to rank 2, A stays at 0; ascending-rank order is A, C, B.
func TestPlanInsert_Middle(t *testing.T) {
	collection := []model.EventRank{
		{ID: "A", StartTime: at(10), SortOrder: 0},
		{ID: "B", StartTime: at(12), SortOrder: 1},
	}
	plan := PlanInsert(at(11), collection)
	if plan.SortOrder != 1 {
		t.Errorf("C.SortOrder = %d, want 1", plan.SortOrder)
	}
	if plan.ShiftFrom != 1 {
		t.Errorf("ShiftFrom = %d, want 1", plan.ShiftFrom)
	}

	collection = apply(collection, "C", at(11), plan)
	wantOrder := []string{"A", "C", "B"}
	for i, id := range wantOrder {
		if collection[i].ID != id {
			t.Fatalf("order[%d] = %q, want %q (full order %v)", i, collection[i].ID, id, ids(collection))
		}
	}
	if collection[0].SortOrder != 0 || collection[1].SortOrder != 1 || collection[2].SortOrder != 2 {
		t.Errorf("ranks after insert = %d,%d,%d, want 0,1,2",
			collection[0].SortOrder, collection[1].SortOrder, collection[2].SortOrder)
	}
}

// For distinct start times, any insertion sequence enumerated by ascending
// rank comes out in ascending start-time order.
func TestPlanInsert_DistinctTimesStayChronological(t *testing.T) {
	insertions := []struct {
		id   string
		hour int
	}{
		{"w", 12}, {"x", 9}, {"y", 15}, {"z", 10}, {"v", 11}, {"u", 8},
	}

	var collection []model.EventRank
	for _, in := range insertions {
		plan := PlanInsert(at(in.hour), collection)
		collection = apply(collection, in.id, at(in.hour), plan)
	}

	for i := 1; i < len(collection); i++ {
		if collection[i].StartTime.Before(collection[i-1].StartTime) {
			t.Fatalf("rank order not chronological: %v", ids(collection))
		}
	}
}

func TestPlanInsert_TiePlacesNewEventAfterExisting(t *testing.T) {
	var collection []model.EventRank
	plan := PlanInsert(at(10), collection)
	collection = apply(collection, "E", at(10), plan)

	plan = PlanInsert(at(10), collection)
	collection = apply(collection, "new", at(10), plan)

	if collection[0].ID != "E" || collection[1].ID != "new" {
		t.Errorf("tie order = %v, want [E new]", ids(collection))
	}
	if collection[1].SortOrder <= collection[0].SortOrder {
		t.Errorf("new event rank %d should exceed existing rank %d",
			collection[1].SortOrder, collection[0].SortOrder)
	}
}

// Deletions leave gaps; insertion into a gapped collection must still land
// in the right relative slot and never reuse or reorder surviving ranks.
func TestPlanInsert_SparseRanks(t *testing.T) {
	collection := []model.EventRank{
		{ID: "a", StartTime: at(8), SortOrder: 2},
		{ID: "b", StartTime: at(12), SortOrder: 5},
	}

	plan := PlanInsert(at(10), collection)
	collection = apply(collection, "mid", at(10), plan)
	if got := ids(collection); got[0] != "a" || got[1] != "mid" || got[2] != "b" {
		t.Fatalf("order = %v, want [a mid b]", got)
	}

	plan = PlanInsert(at(23), collection)
	if plan.ShiftFrom != -1 {
		t.Errorf("append into sparse ranks: ShiftFrom = %d, want -1", plan.ShiftFrom)
	}
	collection = apply(collection, "late", at(23), plan)
	if collection[len(collection)-1].ID != "late" {
		t.Errorf("order = %v, want late last", ids(collection))
	}
}

// apply simulates persisting a plan: shift ranks at/after the cutoff, add the
// new event, and re-sort by rank the way a store enumeration would.
func apply(collection []model.EventRank, id string, start time.Time, plan Plan) []model.EventRank {
	out := make([]model.EventRank, 0, len(collection)+1)
	for _, e := range collection {
		if plan.ShiftFrom >= 0 && e.SortOrder >= plan.ShiftFrom {
			e.SortOrder++
		}
		out = append(out, e)
	}
	out = append(out, model.EventRank{ID: id, StartTime: start, SortOrder: plan.SortOrder})
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func ids(collection []model.EventRank) []string {
	out := make([]string, len(collection))
	for i, e := range collection {
		out[i] = e.ID
	}
	return out
}

// fakeStore implements the three store calls the assigner makes. The embedded
// interface panics on anything else, which doubles as a check that Insert
// touches nothing beyond ranks and the new row.
type fakeStore struct {
	store.Store

	ranks    []model.EventRank
	created  []*model.Event
	inTx     bool
	shiftErr error
}

func (f *fakeStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	f.inTx = true
	defer func() { f.inTx = false }()
	return fn(f)
}

func (f *fakeStore) ListEventRanks(context.Context) ([]model.EventRank, error) {
	return f.ranks, nil
}

func (f *fakeStore) ShiftEventRanks(_ context.Context, fromRank int) error {
	if f.shiftErr != nil {
		return f.shiftErr
	}
	for i := range f.ranks {
		if f.ranks[i].SortOrder >= fromRank {
			f.ranks[i].SortOrder++
		}
	}
	return nil
}

func (f *fakeStore) CreateEvent(_ context.Context, e *model.Event) error {
	if !f.inTx {
		return errors.New("CreateEvent outside transaction")
	}
	f.created = append(f.created, e)
	f.ranks = append(f.ranks, model.EventRank{ID: e.ID, StartTime: e.StartTime, SortOrder: e.SortOrder})
	sort.Slice(f.ranks, func(i, j int) bool { return f.ranks[i].SortOrder < f.ranks[j].SortOrder })
	return nil
}

func TestAssigner_Insert(t *testing.T) {
	fs := &fakeStore{ranks: []model.EventRank{
		{ID: "A", StartTime: at(10), SortOrder: 0},
		{ID: "B", StartTime: at(12), SortOrder: 1},
	}}
	a := NewAssigner(fs)

	event := &model.Event{ID: "C", Title: "brunch", StartTime: at(11)}
	if err := a.Insert(context.Background(), event); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if event.SortOrder != 1 {
		t.Errorf("C.SortOrder = %d, want 1", event.SortOrder)
	}

	want := []string{"A", "C", "B"}
	for i, id := range want {
		if fs.ranks[i].ID != id {
			t.Fatalf("rank order = %v, want %v", ids(fs.ranks), want)
		}
	}
}

func TestAssigner_Insert_MissingStartTime(t *testing.T) {
	fs := &fakeStore{}
	a := NewAssigner(fs)

	err := a.Insert(context.Background(), &model.Event{ID: "D", Title: "no time"})
	if !errors.Is(err, ErrMissingStartTime) {
		t.Fatalf("Insert() error = %v, want ErrMissingStartTime", err)
	}
	if len(fs.created) != 0 {
		t.Error("nothing should be persisted when start_time is missing")
	}
}

func TestAssigner_Insert_ShiftFailureAborts(t *testing.T) {
	fs := &fakeStore{
		ranks:    []model.EventRank{{ID: "A", StartTime: at(10), SortOrder: 0}},
		shiftErr: errors.New("connection reset"),
	}
	a := NewAssigner(fs)

	err := a.Insert(context.Background(), &model.Event{ID: "C", StartTime: at(9)})
	if err == nil {
		t.Fatal("expected error when the range shift fails")
	}
	if len(fs.created) != 0 {
		t.Error("insert must not proceed after a failed shift")
	}
}

func TestAssigner_Insert_Empty(t *testing.T) {
	fs := &fakeStore{}
	a := NewAssigner(fs)

	event := &model.Event{ID: "D", StartTime: at(9)}
	if err := a.Insert(context.Background(), event); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if event.SortOrder != 0 {
		t.Errorf("first event rank = %d, want 0", event.SortOrder)
	}
}
