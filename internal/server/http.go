package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// Requests (except GET /v1/health) must carry a Bearer JWT signed with
// jwtSecret; the token's subject identifies the acting user.
func (s *Server) NewHTTPHandler(jwtSecret string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/profile", s.handleCreateProfile)
	mux.HandleFunc("GET /v1/profile", s.handleGetOwnProfile)
	mux.HandleFunc("PATCH /v1/profile", s.handleUpdateProfile)
	mux.HandleFunc("GET /v1/profiles/{id}", s.handleGetProfile)
	mux.HandleFunc("POST /v1/posts", s.handleCreatePost)
	mux.HandleFunc("GET /v1/posts", s.handleListPosts)
	mux.HandleFunc("GET /v1/posts/{id}", s.handleGetPost)
	mux.HandleFunc("POST /v1/posts/{id}/like", s.handleToggleLike)
	mux.HandleFunc("POST /v1/posts/{id}/save", s.handleToggleSave)
	mux.HandleFunc("POST /v1/places", s.handleCreatePlace)
	mux.HandleFunc("GET /v1/places", s.handleListPlaces)
	mux.HandleFunc("POST /v1/events", s.handleCreateEvent)
	mux.HandleFunc("GET /v1/events", s.handleListEvents)
	mux.HandleFunc("DELETE /v1/events/{id}", s.handleDeleteEvent)
	mux.HandleFunc("PUT /v1/events/{id}/participants", s.handleJoinEvent)
	mux.HandleFunc("POST /v1/events/cleanup-past", s.handleCleanupPastEvents)
	mux.HandleFunc("POST /v1/follows", s.handleCreateFollow)
	mux.HandleFunc("DELETE /v1/follows/{id}", s.handleDeleteFollow)
	mux.HandleFunc("GET /v1/follows/followers", s.handleListFollowers)
	mux.HandleFunc("GET /v1/follows/following", s.handleListFollowing)
	mux.HandleFunc("GET /v1/feed", s.handleFeed)
	mux.HandleFunc("GET /v1/activities", s.handleListActivities)
	mux.HandleFunc("GET /v1/badges", s.handleListBadges)
	mux.HandleFunc("GET /v1/users/{id}/badges", s.handleListUserBadges)
	mux.HandleFunc("GET /v1/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("POST /v1/check-in", s.handleCheckIn)
	mux.HandleFunc("POST /v1/uploads", s.handleUpload)
	mux.HandleFunc("GET /v1/health", s.handleHealth)

	var h http.Handler = mux
	h = AuthMiddleware(jwtSecret, h)
	h = LoggingMiddleware(s.logger, h)
	h = RecoveryMiddleware(s.logger, h)
	return h
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
