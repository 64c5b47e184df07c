package server

import (
	"testing"

	"github.com/vibetrip/vibetrip/internal/gamification"
	"github.com/vibetrip/vibetrip/internal/model"
)

func TestHandleCheckIn_DailyLogin(t *testing.T) {
	_, ms, h := newTestServer()
	ms.profiles[testUser] = &model.Profile{ID: testUser, Username: "alice"}

	rec := doJSON(t, h, "POST", "/v1/check-in", map[string]any{})
	requireStatus(t, rec, 200)
	var result gamification.AwardResult
	decodeJSON(t, rec, &result)
	if !result.Awarded || result.Amount != model.PointsFor(model.ActionDailyLogin) {
		t.Fatalf("expected a daily login award, got %+v", result)
	}

	// Same day: no second award.
	rec = doJSON(t, h, "POST", "/v1/check-in", map[string]any{})
	requireStatus(t, rec, 200)
	decodeJSON(t, rec, &result)
	if result.Awarded {
		t.Fatalf("expected no award on the second check-in, got %+v", result)
	}
	if len(ms.points) != 1 {
		t.Fatalf("expected one transaction, got %d", len(ms.points))
	}
}

func TestHandleCheckIn_AtPlace(t *testing.T) {
	_, ms, h := newTestServer()
	ms.profiles[testUser] = &model.Profile{ID: testUser, Username: "alice"}

	rec := doJSON(t, h, "POST", "/v1/check-in", map[string]any{"place_id": "plc-1"})
	requireStatus(t, rec, 200)
	var result gamification.AwardResult
	decodeJSON(t, rec, &result)
	if result.Amount != model.PointsFor(model.ActionLocationVisit) {
		t.Fatalf("expected location visit points, got %+v", result)
	}
	if ms.points[0].ReferenceID != "plc-1" {
		t.Fatalf("expected the place as reference, got %q", ms.points[0].ReferenceID)
	}
}

func TestHandleCheckIn_CrossesBadgeThreshold(t *testing.T) {
	_, ms, h := newTestServer()
	ms.profiles[testUser] = &model.Profile{ID: testUser, Username: "alice", Points: 99}
	ms.badges = []*model.Badge{
		{ID: "bdg-century", Name: "Century", Threshold: 100},
		{ID: "bdg-far", Name: "Far away", Threshold: 1000},
	}

	rec := doJSON(t, h, "POST", "/v1/check-in", map[string]any{})
	requireStatus(t, rec, 200)
	var result gamification.AwardResult
	decodeJSON(t, rec, &result)
	if result.TotalPoints != 100 {
		t.Fatalf("expected total 100, got %d", result.TotalPoints)
	}
	if len(result.NewBadges) != 1 || result.NewBadges[0].ID != "bdg-century" {
		t.Fatalf("expected the century badge, got %+v", result.NewBadges)
	}
}

func TestHandleLeaderboard(t *testing.T) {
	_, ms, h := newTestServer()
	ms.profiles["usr-a"] = &model.Profile{ID: "usr-a", Username: "ann", Points: 50}
	ms.profiles["usr-b"] = &model.Profile{ID: "usr-b", Username: "ben", Points: 120}
	ms.profiles["usr-c"] = &model.Profile{ID: "usr-c", Username: "cam", Points: 50}

	rec := doJSON(t, h, "GET", "/v1/leaderboard?limit=2", nil)
	requireStatus(t, rec, 200)
	var result struct {
		Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
	}
	decodeJSON(t, rec, &result)
	if len(result.Leaderboard) != 2 {
		t.Fatalf("expected limit applied, got %d entries", len(result.Leaderboard))
	}
	if result.Leaderboard[0].Username != "ben" || result.Leaderboard[1].Username != "ann" {
		t.Fatalf("expected points desc then username asc, got %+v", result.Leaderboard)
	}
}

func TestHandleListUserBadges(t *testing.T) {
	_, ms, h := newTestServer()
	ms.userBadges["usr-bob"] = map[string]bool{"bdg-century": true}

	rec := doJSON(t, h, "GET", "/v1/users/usr-bob/badges", nil)
	requireStatus(t, rec, 200)
	var result struct {
		Badges []model.UserBadge `json:"badges"`
	}
	decodeJSON(t, rec, &result)
	if len(result.Badges) != 1 || result.Badges[0].BadgeID != "bdg-century" {
		t.Fatalf("expected the century badge record, got %+v", result.Badges)
	}
}
