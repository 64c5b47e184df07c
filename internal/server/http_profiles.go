package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vibetrip/vibetrip/internal/events"
	"github.com/vibetrip/vibetrip/internal/model"
)

type createProfileInput struct {
	Username     string            `json:"username"`
	FullName     string            `json:"full_name"`
	Bio          string            `json:"bio"`
	AvatarURL    string            `json:"avatar_url"`
	LocationName string            `json:"location_name"`
	TravelStyle  model.TravelStyle `json:"travel_style"`
	Interests    []string          `json:"interests"`
}

// handleCreateProfile handles POST /v1/profile. The profile ID is the
// authenticated subject; a user owns exactly one profile.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in createProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	now := time.Now().UTC()
	profile := &model.Profile{
		ID:           userID,
		Username:     in.Username,
		FullName:     in.FullName,
		Bio:          in.Bio,
		AvatarURL:    in.AvatarURL,
		LocationName: in.LocationName,
		TravelStyle:  in.TravelStyle,
		Interests:    in.Interests,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := model.ValidateProfile(profile); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateProfile(r.Context(), profile); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create profile")
		return
	}

	s.publish(r.Context(), events.TopicProfileCreated, events.ProfileCreated{Profile: profile})
	s.maybeAwardProfileComplete(r, profile)

	writeJSON(w, http.StatusCreated, profile)
}

// handleGetOwnProfile handles GET /v1/profile.
func (s *Server) handleGetOwnProfile(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	s.serveProfile(w, r, userID)
}

// handleGetProfile handles GET /v1/profiles/{id}.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	s.serveProfile(w, r, id)
}

func (s *Server) serveProfile(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := s.store.GetProfile(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleUpdateProfile handles PATCH /v1/profile. Absent fields are left
// unchanged.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var update model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if update.Username != nil {
		check := &model.Profile{Username: *update.Username}
		if err := model.ValidateProfile(check); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	profile, err := s.store.UpdateProfile(r.Context(), userID, update)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	s.publish(r.Context(), events.TopicProfileUpdated, events.ProfileUpdated{Profile: profile})
	s.maybeAwardProfileComplete(r, profile)

	writeJSON(w, http.StatusOK, profile)
}

// maybeAwardProfileComplete grants the one-time completion bonus once a
// profile carries a full name, bio, and avatar. The awarder deduplicates, so
// calling this on every write is fine.
func (s *Server) maybeAwardProfileComplete(r *http.Request, profile *model.Profile) {
	if profile.FullName == "" || profile.Bio == "" || profile.AvatarURL == "" {
		return
	}
	if _, err := s.awarder.Award(r.Context(), profile.ID, model.ActionProfileComplete, ""); err != nil {
		s.logger.Warn("failed to award profile completion", "user_id", profile.ID, "error", err)
	}
}
