package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vibetrip/vibetrip/internal/idgen"
	"github.com/vibetrip/vibetrip/internal/model"
)

type createPlaceInput struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	LocationName string  `json:"location_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ImageURL     string  `json:"image_url"`
	Hidden       bool    `json:"is_hidden"`
}

// handleCreatePlace handles POST /v1/places.
func (s *Server) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in createPlaceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	place := &model.Place{
		ID:           idgen.Generate(idgen.PrefixPlace),
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		LocationName: in.LocationName,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		ImageURL:     in.ImageURL,
		Hidden:       in.Hidden,
		CreatedBy:    userID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := model.ValidatePlace(place); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreatePlace(r.Context(), place); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create place")
		return
	}

	writeJSON(w, http.StatusCreated, place)
}

// handleListPlaces handles GET /v1/places.
func (s *Server) handleListPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.PlaceFilter{Category: q.Get("category")}
	if v := q.Get("is_hidden"); v != "" {
		hidden := v == "true"
		filter.Hidden = &hidden
	}
	filter.Limit, filter.Offset = pagination(r)

	places, err := s.store.ListPlaces(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list places")
		return
	}

	if places == nil {
		places = []*model.Place{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"places": places})
}
