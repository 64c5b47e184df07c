package gamification

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/vibetrip/vibetrip/internal/events"
	"github.com/vibetrip/vibetrip/internal/model"
	"github.com/vibetrip/vibetrip/internal/store"
)

// mockStore implements store.Store with only the methods needed for testing.
type mockStore struct {
	store.Store // embed to satisfy the full interface

	mu           sync.Mutex
	lastAward    *time.Time
	lastAwardErr error

	recorded []*model.PointsTransaction
	total    int

	earned []*model.Badge
}

func (m *mockStore) LastPointsAward(_ context.Context, _ string, _ model.ActionType) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAward, m.lastAwardErr
}

func (m *mockStore) RecordPoints(_ context.Context, txn *model.PointsTransaction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, txn)
	m.total += txn.Amount
	return m.total, nil
}

func (m *mockStore) recordedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recorded)
}

func (m *mockStore) AwardEarnedBadges(_ context.Context, _ string) ([]*model.Badge, error) {
	return m.earned, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

// capturePublisher records every published event.
type capturePublisher struct {
	topics []string
	events []any
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event any) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestAward_RecordsPoints(t *testing.T) {
	s := &mockStore{total: 40}
	pub := &capturePublisher{}
	a := NewAwarder(s, pub, testLogger())

	res, err := a.Award(context.Background(), "auth-user1", model.ActionPostCreate, "post-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Awarded || res.Amount != 10 || res.TotalPoints != 50 {
		t.Fatalf("got result %+v", res)
	}
	if len(s.recorded) != 1 || s.recorded[0].Action != model.ActionPostCreate || s.recorded[0].Amount != 10 {
		t.Fatalf("got recorded %+v", s.recorded)
	}
	if len(pub.topics) != 1 || pub.topics[0] != events.TopicPointsAwarded {
		t.Fatalf("got topics %v", pub.topics)
	}
}

func TestAward_UnknownActionIsNoOp(t *testing.T) {
	s := &mockStore{}
	a := NewAwarder(s, &capturePublisher{}, testLogger())

	res, err := a.Award(context.Background(), "auth-user1", model.ActionType("bogus"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Awarded {
		t.Fatal("expected no award for unknown action")
	}
	if len(s.recorded) != 0 {
		t.Fatalf("expected no transactions, got %d", len(s.recorded))
	}
}

func TestAward_PublishesNewBadges(t *testing.T) {
	badge := &model.Badge{ID: "bdg-first-steps", Name: "First Steps", Threshold: 10}
	s := &mockStore{earned: []*model.Badge{badge}}
	pub := &capturePublisher{}
	a := NewAwarder(s, pub, testLogger())

	res, err := a.Award(context.Background(), "auth-user1", model.ActionPostCreate, "post-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.NewBadges) != 1 || res.NewBadges[0].ID != "bdg-first-steps" {
		t.Fatalf("got badges %+v", res.NewBadges)
	}
	if len(pub.topics) != 2 || pub.topics[1] != events.TopicBadgeAwarded {
		t.Fatalf("got topics %v", pub.topics)
	}
}

func TestAward_DailyLoginOncePerDay(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	earlier := now.Add(-2 * time.Hour)
	s := &mockStore{lastAward: &earlier}
	a := NewAwarder(s, &capturePublisher{}, testLogger())
	a.now = func() time.Time { return now }

	res, err := a.Award(context.Background(), "auth-user1", model.ActionDailyLogin, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Awarded {
		t.Fatal("expected same-day check-in to be skipped")
	}
	if len(s.recorded) != 0 {
		t.Fatalf("expected no transactions, got %d", len(s.recorded))
	}
}

func TestAward_DailyLoginNextDay(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 30, 0, 0, time.UTC)
	yesterday := now.Add(-time.Hour)
	s := &mockStore{lastAward: &yesterday}
	a := NewAwarder(s, &capturePublisher{}, testLogger())
	a.now = func() time.Time { return now }

	res, err := a.Award(context.Background(), "auth-user1", model.ActionDailyLogin, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Awarded || res.Amount != 1 {
		t.Fatalf("got result %+v", res)
	}
}

func TestSameDay(t *testing.T) {
	base := time.Date(2026, 3, 14, 23, 50, 0, 0, time.UTC)
	if !sameDay(base, base.Add(5*time.Minute)) {
		t.Error("expected same day")
	}
	if sameDay(base, base.Add(time.Hour)) {
		t.Error("expected different day across midnight")
	}
}

// chanSubscriber delivers canned payloads per topic.
type chanSubscriber struct {
	mu    sync.Mutex
	chans map[string]chan []byte
}

func newChanSubscriber() *chanSubscriber {
	return &chanSubscriber{chans: make(map[string]chan []byte)}
}

func (s *chanSubscriber) Subscribe(topic string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan []byte, 8)
	s.chans[topic] = ch
	var once sync.Once
	cancel := func() { once.Do(func() { close(ch) }) }
	return ch, cancel, nil
}

func (s *chanSubscriber) Close() error { return nil }

func (s *chanSubscriber) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chans)
}

func (s *chanSubscriber) send(t *testing.T, topic string, event any) {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s.mu.Lock()
	ch, ok := s.chans[topic]
	s.mu.Unlock()
	if !ok {
		t.Fatalf("no subscription for topic %s", topic)
	}
	ch <- data
}

func TestStartSubscriber_AwardsOnPostCreated(t *testing.T) {
	s := &mockStore{}
	a := NewAwarder(s, &capturePublisher{}, testLogger())
	h := NewHandler(a, testLogger())
	sub := newChanSubscriber()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.StartSubscriber(ctx, sub) }()

	// Wait for all subscriptions to register.
	waitFor(t, func() bool { return sub.count() == len(topicDecoders) })

	sub.send(t, events.TopicPostCreated, events.PostCreated{
		Post: &model.Post{ID: "post-abc", UserID: "auth-user1"},
	})
	sub.send(t, events.TopicPostLiked, events.PostLiked{
		PostID: "post-abc", ActorID: "auth-user2", Liked: false,
	})

	waitFor(t, func() bool { return s.recordedCount() == 1 })
	s.mu.Lock()
	txn := s.recorded[0]
	s.mu.Unlock()
	if txn.Action != model.ActionPostCreate || txn.UserID != "auth-user1" {
		t.Fatalf("got transaction %+v", txn)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("StartSubscriber returned error: %v", err)
	}
}

func TestAwardFor_CheckInVariants(t *testing.T) {
	decode := topicDecoders[events.TopicCheckIn]

	data, _ := json.Marshal(events.CheckIn{UserID: "auth-a", Action: "daily_login"})
	a, ok, err := decode(data)
	if err != nil || !ok {
		t.Fatalf("decode daily_login: ok=%v err=%v", ok, err)
	}
	if a.Action != model.ActionDailyLogin {
		t.Fatalf("got action %q", a.Action)
	}

	data, _ = json.Marshal(events.CheckIn{UserID: "auth-a", PlaceID: "plc-1", Action: "location_visit"})
	a, ok, err = decode(data)
	if err != nil || !ok {
		t.Fatalf("decode location_visit: ok=%v err=%v", ok, err)
	}
	if a.Action != model.ActionLocationVisit || a.ReferenceID != "plc-1" {
		t.Fatalf("got award %+v", a)
	}
}

// waitFor polls cond until it holds or the test times out.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition not met in time")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}
