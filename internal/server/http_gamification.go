package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vibetrip/vibetrip/internal/model"
)

// handleListBadges handles GET /v1/badges.
func (s *Server) handleListBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := s.store.ListBadges(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list badges")
		return
	}

	if badges == nil {
		badges = []*model.Badge{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"badges": badges})
}

// handleListUserBadges handles GET /v1/users/{id}/badges.
func (s *Server) handleListUserBadges(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	badges, err := s.store.ListUserBadges(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list user badges")
		return
	}

	if badges == nil {
		badges = []*model.UserBadge{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"badges": badges})
}

// handleLeaderboard handles GET /v1/leaderboard.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxPageSize)
		}
	}

	entries, err := s.store.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build leaderboard")
		return
	}

	if entries == nil {
		entries = []*model.LeaderboardEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

type checkInInput struct {
	PlaceID string `json:"place_id"`
}

// handleCheckIn handles POST /v1/check-in. A plain check-in earns the daily
// login point (at most once per UTC day); a check-in at a place earns
// location-visit points instead.
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in checkInInput
	_ = json.NewDecoder(r.Body).Decode(&in)

	action := model.ActionDailyLogin
	if in.PlaceID != "" {
		action = model.ActionLocationVisit
	}

	result, err := s.awarder.Award(r.Context(), userID, action, in.PlaceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record check-in")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
