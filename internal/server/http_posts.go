package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vibetrip/vibetrip/internal/events"
	"github.com/vibetrip/vibetrip/internal/idgen"
	"github.com/vibetrip/vibetrip/internal/model"
)

type createPostInput struct {
	Content  string         `json:"content"`
	ImageURL string         `json:"image_url"`
	PlaceID  string         `json:"place_id"`
	Type     model.PostType `json:"post_type"`
}

// handleCreatePost handles POST /v1/posts.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in createPostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Type == "" {
		in.Type = model.PostStory
	}

	post := &model.Post{
		ID:        idgen.Generate(idgen.PrefixPost),
		UserID:    userID,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		PlaceID:   in.PlaceID,
		Type:      in.Type,
		CreatedAt: time.Now().UTC(),
	}
	if err := model.ValidatePost(post); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreatePost(r.Context(), post); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	s.recordActivity(r.Context(), &model.Activity{
		UserID:  userID,
		ActorID: userID,
		Type:    model.ActionPostCreate,
		PostID:  post.ID,
	})
	s.publish(r.Context(), events.TopicPostCreated, events.PostCreated{Post: post})

	writeJSON(w, http.StatusCreated, post)
}

// handleListPosts handles GET /v1/posts.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.PostFilter{
		UserID:  q.Get("user_id"),
		PlaceID: q.Get("place_id"),
		Type:    model.PostType(q.Get("post_type")),
	}
	filter.Limit, filter.Offset = pagination(r)

	posts, total, err := s.store.ListPosts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	// Ensure posts is never null in JSON output.
	if posts == nil {
		posts = []*model.Post{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts": posts,
		"total": total,
	})
}

// handleGetPost handles GET /v1/posts/{id}.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// handleToggleLike handles POST /v1/posts/{id}/like. A second like from the
// same user removes the first.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	post, err := s.store.GetPost(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}

	liked, err := s.store.ToggleLike(r.Context(), id, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	if liked && post.UserID != userID {
		s.recordActivity(r.Context(), &model.Activity{
			UserID:  post.UserID,
			ActorID: userID,
			Type:    model.ActionPostLike,
			PostID:  id,
		})
	}
	s.publish(r.Context(), events.TopicPostLiked, events.PostLiked{
		PostID:  id,
		OwnerID: post.UserID,
		ActorID: userID,
		Liked:   liked,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// handleToggleSave handles POST /v1/posts/{id}/save.
func (s *Server) handleToggleSave(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if _, err := s.store.GetPost(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}

	saved, err := s.store.ToggleSave(r.Context(), id, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to toggle save")
		return
	}

	s.publish(r.Context(), events.TopicPostSaved, events.PostSaved{
		PostID:  id,
		ActorID: userID,
		Saved:   saved,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

// maxPageSize caps the limit query parameter on list endpoints.
const maxPageSize = 100

// pagination reads limit and offset query parameters. Zero values mean the
// store's defaults apply; limits above maxPageSize are clamped.
func pagination(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxPageSize)
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}
