package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vibetrip/vibetrip/internal/events"
	"github.com/vibetrip/vibetrip/internal/idgen"
	"github.com/vibetrip/vibetrip/internal/model"
)

type createFollowInput struct {
	UserID string `json:"user_id"`
}

// handleCreateFollow handles POST /v1/follows. Following an already-followed
// user is a no-op, not an error.
func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in createFollowInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if in.UserID == userID {
		writeError(w, http.StatusBadRequest, "cannot follow yourself")
		return
	}

	if _, err := s.store.GetProfile(r.Context(), in.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}

	follow := &model.Follow{
		ID:          idgen.Generate(idgen.PrefixFollow),
		FollowerID:  userID,
		FollowingID: in.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateFollow(r.Context(), follow); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create follow")
		return
	}

	s.recordActivity(r.Context(), &model.Activity{
		UserID:  in.UserID,
		ActorID: userID,
		Type:    model.ActionFollow,
	})
	s.publish(r.Context(), events.TopicFollowCreated, events.FollowCreated{
		FollowerID:  userID,
		FollowingID: in.UserID,
	})

	writeJSON(w, http.StatusCreated, follow)
}

// handleDeleteFollow handles DELETE /v1/follows/{id}, where {id} is the
// followed user's ID.
func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	followingID := r.PathValue("id")
	if followingID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteFollow(r.Context(), userID, followingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "follow not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete follow")
		return
	}

	s.publish(r.Context(), events.TopicFollowRemoved, events.FollowRemoved{
		FollowerID:  userID,
		FollowingID: followingID,
	})

	w.WriteHeader(http.StatusNoContent)
}

// handleListFollowers handles GET /v1/follows/followers.
func (s *Server) handleListFollowers(w http.ResponseWriter, r *http.Request) {
	s.serveFollowList(w, r, s.store.ListFollowers)
}

// handleListFollowing handles GET /v1/follows/following.
func (s *Server) handleListFollowing(w http.ResponseWriter, r *http.Request) {
	s.serveFollowList(w, r, s.store.ListFollowing)
}

func (s *Server) serveFollowList(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, userID string, limit, offset int) ([]*model.ProfileSummary, error),
) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	// Any profile's lists are public.
	if v := r.URL.Query().Get("user_id"); v != "" {
		userID = v
	}
	limit, offset := pagination(r)

	users, err := list(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list follows")
		return
	}

	if users == nil {
		users = []*model.ProfileSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// handleFeed handles GET /v1/feed: posts from the user and everyone they
// follow, newest first.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	limit, offset := pagination(r)

	posts, err := s.store.ListFeedPosts(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build feed")
		return
	}

	if posts == nil {
		posts = []*model.Post{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// handleListActivities handles GET /v1/activities. By default entries the
// user caused themselves are filtered out; include_own=true keeps them.
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	filter := model.ActivityFilter{
		UserID:     userID,
		IncludeOwn: r.URL.Query().Get("include_own") == "true",
	}
	filter.Limit, filter.Offset = pagination(r)

	activities, err := s.store.ListActivities(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}

	if activities == nil {
		activities = []*model.Activity{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"activities": activities})
}
