package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/vibetrip/vibetrip/internal/events"
	"github.com/vibetrip/vibetrip/internal/model"
	"github.com/vibetrip/vibetrip/internal/store"
)

type mockStore struct {
	profiles     map[string]*model.Profile
	posts        map[string]*model.Post
	likes        map[string]map[string]bool // post ID -> user IDs
	saves        map[string]map[string]bool
	places       map[string]*model.Place
	events       map[string]*model.Event
	participants map[string]map[string]*model.EventParticipant // event ID -> user ID
	follows      map[string]map[string]bool                    // follower -> following
	activities   []*model.Activity
	points       []*model.PointsTransaction
	badges       []*model.Badge
	userBadges   map[string]map[string]bool // user ID -> badge IDs

	nextActivityID int64

	// lastPostFilter records the filter passed to the most recent ListPosts
	// call.
	lastPostFilter model.PostFilter

	// createEventErr, when non-nil, is returned by CreateEvent (for testing
	// rollback of the rank shift).
	createEventErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		profiles:     make(map[string]*model.Profile),
		posts:        make(map[string]*model.Post),
		likes:        make(map[string]map[string]bool),
		saves:        make(map[string]map[string]bool),
		places:       make(map[string]*model.Place),
		events:       make(map[string]*model.Event),
		participants: make(map[string]map[string]*model.EventParticipant),
		follows:      make(map[string]map[string]bool),
		userBadges:   make(map[string]map[string]bool),
	}
}

func (m *mockStore) CreateProfile(_ context.Context, p *model.Profile) error {
	m.profiles[p.ID] = p
	return nil
}

func (m *mockStore) GetProfile(_ context.Context, id string) (*model.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (m *mockStore) GetProfileByUsername(_ context.Context, username string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.Username == username {
			clone := *p
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) UpdateProfile(_ context.Context, id string, update model.ProfileUpdate) (*model.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if update.Username != nil {
		p.Username = *update.Username
	}
	if update.FullName != nil {
		p.FullName = *update.FullName
	}
	if update.Bio != nil {
		p.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		p.AvatarURL = *update.AvatarURL
	}
	if update.LocationName != nil {
		p.LocationName = *update.LocationName
	}
	if update.TravelStyle != nil {
		p.TravelStyle = *update.TravelStyle
	}
	if update.Interests != nil {
		p.Interests = update.Interests
	}
	clone := *p
	return &clone, nil
}

func (m *mockStore) CreatePost(_ context.Context, post *model.Post) error {
	m.posts[post.ID] = post
	if p, ok := m.profiles[post.UserID]; ok {
		p.PostsCount++
	}
	return nil
}

func (m *mockStore) GetPost(_ context.Context, id string) (*model.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	clone.LikesCount = len(m.likes[id])
	clone.SavesCount = len(m.saves[id])
	return &clone, nil
}

func (m *mockStore) ListPosts(_ context.Context, filter model.PostFilter) ([]*model.Post, int, error) {
	m.lastPostFilter = filter
	var result []*model.Post
	for _, p := range m.posts {
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		if filter.PlaceID != "" && p.PlaceID != filter.PlaceID {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, len(result), nil
}

func (m *mockStore) ListFeedPosts(_ context.Context, userID string, limit, offset int) ([]*model.Post, error) {
	var result []*model.Post
	for _, p := range m.posts {
		if p.UserID == userID || m.follows[userID][p.UserID] {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockStore) ToggleLike(_ context.Context, postID, userID string) (bool, error) {
	if m.likes[postID] == nil {
		m.likes[postID] = make(map[string]bool)
	}
	if m.likes[postID][userID] {
		delete(m.likes[postID], userID)
		return false, nil
	}
	m.likes[postID][userID] = true
	return true, nil
}

func (m *mockStore) ToggleSave(_ context.Context, postID, userID string) (bool, error) {
	if m.saves[postID] == nil {
		m.saves[postID] = make(map[string]bool)
	}
	if m.saves[postID][userID] {
		delete(m.saves[postID], userID)
		return false, nil
	}
	m.saves[postID][userID] = true
	return true, nil
}

func (m *mockStore) CreatePlace(_ context.Context, place *model.Place) error {
	m.places[place.ID] = place
	return nil
}

func (m *mockStore) GetPlace(_ context.Context, id string) (*model.Place, error) {
	p, ok := m.places[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockStore) ListPlaces(_ context.Context, filter model.PlaceFilter) ([]*model.Place, error) {
	var result []*model.Place
	for _, p := range m.places {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Hidden != nil && p.Hidden != *filter.Hidden {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockStore) CreateEvent(_ context.Context, event *model.Event) error {
	if m.createEventErr != nil {
		return m.createEventErr
	}
	m.events[event.ID] = event
	return nil
}

func (m *mockStore) GetEvent(_ context.Context, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *e
	clone.ParticipantsCount = len(m.participants[id])
	return &clone, nil
}

func (m *mockStore) ListEvents(_ context.Context, filter model.EventFilter, viewerID string) ([]*model.Event, error) {
	var result []*model.Event
	for _, e := range m.events {
		clone := *e
		clone.ParticipantsCount = len(m.participants[e.ID])
		clone.UserParticipating = m.participants[e.ID][viewerID] != nil
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (m *mockStore) DeleteEvent(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.events, id)
	return nil
}

func (m *mockStore) DeletePastEvents(_ context.Context, before time.Time) (int, error) {
	n := 0
	for id, e := range m.events {
		end := e.StartTime
		if e.EndTime != nil {
			end = *e.EndTime
		}
		if end.Before(before) {
			delete(m.events, id)
			n++
		}
	}
	return n, nil
}

func (m *mockStore) ListEventRanks(_ context.Context) ([]model.EventRank, error) {
	var ranks []model.EventRank
	for _, e := range m.events {
		ranks = append(ranks, model.EventRank{ID: e.ID, StartTime: e.StartTime, SortOrder: e.SortOrder})
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i].SortOrder < ranks[j].SortOrder })
	return ranks, nil
}

func (m *mockStore) ShiftEventRanks(_ context.Context, fromRank int) error {
	for _, e := range m.events {
		if e.SortOrder >= fromRank {
			e.SortOrder++
		}
	}
	return nil
}

func (m *mockStore) UpsertParticipant(_ context.Context, p *model.EventParticipant) (bool, error) {
	if m.participants[p.EventID] == nil {
		m.participants[p.EventID] = make(map[string]*model.EventParticipant)
	}
	_, exists := m.participants[p.EventID][p.UserID]
	m.participants[p.EventID][p.UserID] = p
	return !exists, nil
}

func (m *mockStore) CreateFollow(_ context.Context, f *model.Follow) error {
	if m.follows[f.FollowerID] == nil {
		m.follows[f.FollowerID] = make(map[string]bool)
	}
	m.follows[f.FollowerID][f.FollowingID] = true
	return nil
}

func (m *mockStore) DeleteFollow(_ context.Context, followerID, followingID string) error {
	if !m.follows[followerID][followingID] {
		return sql.ErrNoRows
	}
	delete(m.follows[followerID], followingID)
	return nil
}

func (m *mockStore) IsFollowing(_ context.Context, followerID, followingID string) (bool, error) {
	return m.follows[followerID][followingID], nil
}

func (m *mockStore) ListFollowers(_ context.Context, userID string, limit, offset int) ([]*model.ProfileSummary, error) {
	var result []*model.ProfileSummary
	for follower, following := range m.follows {
		if following[userID] {
			if p, ok := m.profiles[follower]; ok {
				result = append(result, p.Summary())
			}
		}
	}
	return result, nil
}

func (m *mockStore) ListFollowing(_ context.Context, userID string, limit, offset int) ([]*model.ProfileSummary, error) {
	var result []*model.ProfileSummary
	for followed := range m.follows[userID] {
		if p, ok := m.profiles[followed]; ok {
			result = append(result, p.Summary())
		}
	}
	return result, nil
}

func (m *mockStore) RecordActivity(_ context.Context, a *model.Activity) error {
	m.nextActivityID++
	a.ID = m.nextActivityID
	m.activities = append(m.activities, a)
	return nil
}

func (m *mockStore) ListActivities(_ context.Context, filter model.ActivityFilter) ([]*model.Activity, error) {
	var result []*model.Activity
	for _, a := range m.activities {
		if a.UserID != filter.UserID {
			continue
		}
		if !filter.IncludeOwn && a.ActorID == filter.UserID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (m *mockStore) RecordPoints(_ context.Context, txn *model.PointsTransaction) (int, error) {
	m.points = append(m.points, txn)
	p, ok := m.profiles[txn.UserID]
	if !ok {
		return txn.Amount, nil
	}
	p.Points += txn.Amount
	return p.Points, nil
}

func (m *mockStore) ListBadges(_ context.Context) ([]*model.Badge, error) {
	return m.badges, nil
}

func (m *mockStore) ListUserBadges(_ context.Context, userID string) ([]*model.UserBadge, error) {
	var result []*model.UserBadge
	for badgeID := range m.userBadges[userID] {
		result = append(result, &model.UserBadge{UserID: userID, BadgeID: badgeID})
	}
	return result, nil
}

func (m *mockStore) AwardEarnedBadges(_ context.Context, userID string) ([]*model.Badge, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	var earned []*model.Badge
	for _, b := range m.badges {
		if b.Threshold <= 0 || b.Threshold > p.Points {
			continue
		}
		if m.userBadges[userID][b.ID] {
			continue
		}
		if m.userBadges[userID] == nil {
			m.userBadges[userID] = make(map[string]bool)
		}
		m.userBadges[userID][b.ID] = true
		earned = append(earned, b)
	}
	return earned, nil
}

func (m *mockStore) Leaderboard(_ context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	var entries []*model.LeaderboardEntry
	for _, p := range m.profiles {
		entries = append(entries, &model.LeaderboardEntry{
			ID:       p.ID,
			Username: p.Username,
			Points:   p.Points,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].Username < entries[j].Username
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *mockStore) LastPointsAward(_ context.Context, userID string, action model.ActionType) (*time.Time, error) {
	var last *time.Time
	for _, txn := range m.points {
		if txn.UserID != userID || txn.Action != action {
			continue
		}
		if last == nil || txn.CreatedAt.After(*last) {
			t := txn.CreatedAt
			last = &t
		}
	}
	return last, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }

var _ store.Store = (*mockStore)(nil)

// testUser is the authenticated subject used by doJSON.
const testUser = "usr-alice"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer() (*Server, *mockStore, http.Handler) {
	ms := newMockStore()
	s := NewServer(ms, &events.NoopPublisher{}, nil, discardLogger())
	// Empty secret: the middleware trusts X-User-ID, which doJSON sets.
	return s, ms, s.NewHTTPHandler("")
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doJSONAs(t, handler, testUser, method, path, body)
}

func doJSONAs(t *testing.T, handler http.Handler, user, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// requireStatus asserts the recorder has the expected HTTP status code.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected status %d, got %d; body: %s", code, rec.Code, rec.Body.String())
	}
}

// decodeJSON decodes the recorder's response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSONAs(t, h, "", "GET", "/v1/health", nil)
	requireStatus(t, rec, 200)
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("expected status=ok, got %q", body["status"])
	}
}

func TestHandleHTTPErrors(t *testing.T) {
	for _, tc := range []struct {
		name      string
		method    string
		path      string
		body      any
		code      int
		wantError string
	}{
		{"CreateProfile/MissingUsername", "POST", "/v1/profile", map[string]any{"bio": "hi"}, 400, ""},
		{"GetProfile/NotFound", "GET", "/v1/profiles/usr-nobody", nil, 404, "profile not found"},
		{"CreatePost/MissingContent", "POST", "/v1/posts", map[string]any{"post_type": "story"}, 400, ""},
		{"CreatePost/BadType", "POST", "/v1/posts", map[string]any{"content": "hi", "post_type": "rant"}, 400, ""},
		{"GetPost/NotFound", "GET", "/v1/posts/post-nope", nil, 404, "post not found"},
		{"LikePost/NotFound", "POST", "/v1/posts/post-nope/like", nil, 404, "post not found"},
		{"CreatePlace/MissingCategory", "POST", "/v1/places", map[string]any{"name": "Cafe"}, 400, ""},
		{"CreateEvent/MissingTitle", "POST", "/v1/events", map[string]any{"location_name": "Lisbon", "start_time": "2026-09-01T18:00:00Z"}, 400, ""},
		{"DeleteEvent/NotFound", "DELETE", "/v1/events/evt-nope", nil, 404, "event not found"},
		{"JoinEvent/NotFound", "PUT", "/v1/events/evt-nope/participants", map[string]any{}, 404, "event not found"},
		{"CreateFollow/Self", "POST", "/v1/follows", map[string]any{"user_id": testUser}, 400, "cannot follow yourself"},
		{"CreateFollow/MissingTarget", "POST", "/v1/follows", map[string]any{}, 400, "user_id is required"},
		{"DeleteFollow/NotFound", "DELETE", "/v1/follows/usr-nobody", nil, 404, "follow not found"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, h := newTestServer()
			rec := doJSON(t, h, tc.method, tc.path, tc.body)
			requireStatus(t, rec, tc.code)
			if tc.wantError != "" {
				var body map[string]string
				decodeJSON(t, rec, &body)
				if body["error"] != tc.wantError {
					t.Fatalf("expected error=%q, got %q", tc.wantError, body["error"])
				}
			}
		})
	}
}

func TestUnauthenticatedWrites(t *testing.T) {
	for _, tc := range []struct {
		method string
		path   string
	}{
		{"POST", "/v1/posts"},
		{"POST", "/v1/events"},
		{"POST", "/v1/follows"},
		{"POST", "/v1/check-in"},
		{"GET", "/v1/feed"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			_, _, h := newTestServer()
			rec := doJSONAs(t, h, "", tc.method, tc.path, map[string]any{})
			requireStatus(t, rec, 401)
		})
	}
}
