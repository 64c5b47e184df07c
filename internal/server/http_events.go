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
	"github.com/vibetrip/vibetrip/internal/rank"
)

type createEventInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	LocationName    string     `json:"location_name"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	PlaceID         string     `json:"place_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	CoverURL        string     `json:"cover_image_url"`
	MaxParticipants int        `json:"max_participants"`
	Private         bool       `json:"is_private"`
}

// handleCreateEvent handles POST /v1/events. The display rank is assigned
// server-side; clients never supply sort_order. The creator automatically
// joins their own event as going.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var in createEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	now := time.Now().UTC()
	event := &model.Event{
		ID:           idgen.Generate(idgen.PrefixEvent),
		Title:        in.Title,
		Description:  in.Description,
		CreatorID:    userID,
		LocationName: in.LocationName,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		PlaceID:      in.PlaceID,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		CoverURL:     in.CoverURL,
		MaxAttendees: in.MaxParticipants,
		Private:      in.Private,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := model.ValidateEvent(event); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ranks.Insert(r.Context(), event); err != nil {
		if errors.Is(err, rank.ErrMissingStartTime) {
			writeError(w, http.StatusBadRequest, "start_time is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	if _, err := s.store.UpsertParticipant(r.Context(), &model.EventParticipant{
		EventID: event.ID,
		UserID:  userID,
		Status:  model.StatusGoing,
	}); err != nil {
		s.logger.Warn("failed to auto-join creator", "event_id", event.ID, "error", err)
	} else {
		event.ParticipantsCount = 1
		event.UserParticipating = true
	}

	s.recordActivity(r.Context(), &model.Activity{
		UserID:  userID,
		ActorID: userID,
		Type:    model.ActionEventCreate,
		EventID: event.ID,
	})
	s.publish(r.Context(), events.TopicEventCreated, events.EventCreated{Event: event})

	writeJSON(w, http.StatusCreated, event)
}

// handleListEvents handles GET /v1/events. Results follow the stored display
// rank; when latitude and longitude are given, only events within
// radius_meters (default 50km) are returned.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter model.EventFilter
	if v := q.Get("latitude"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.Latitude = &f
		}
	}
	if v := q.Get("longitude"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.Longitude = &f
		}
	}
	if v := q.Get("radius_meters"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			filter.RadiusMeters = f
		}
	}
	filter.Limit, filter.Offset = pagination(r)

	list, err := s.store.ListEvents(r.Context(), filter, UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	if list == nil {
		list = []*model.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": list})
}

// handleDeleteEvent handles DELETE /v1/events/{id}. Only the creator may
// delete an event. The vacated rank is left as a gap; remaining events keep
// their ranks.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
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

	event, err := s.store.GetEvent(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if event.CreatorID != userID {
		writeError(w, http.StatusForbidden, "only the creator can delete an event")
		return
	}

	if err := s.store.DeleteEvent(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	s.publish(r.Context(), events.TopicEventDeleted, events.EventDeleted{EventID: id})

	w.WriteHeader(http.StatusNoContent)
}

type joinEventInput struct {
	Status model.ParticipantStatus `json:"status"`
}

// handleJoinEvent handles PUT /v1/events/{id}/participants. Joining twice
// updates the existing RSVP instead of duplicating it.
func (s *Server) handleJoinEvent(w http.ResponseWriter, r *http.Request) {
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

	var in joinEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Status == "" {
		in.Status = model.StatusGoing
	}
	if !in.Status.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid participant status")
		return
	}

	event, err := s.store.GetEvent(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	participant := &model.EventParticipant{
		EventID: id,
		UserID:  userID,
		Status:  in.Status,
	}
	joined, err := s.store.UpsertParticipant(r.Context(), participant)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to join event")
		return
	}

	if joined && event.CreatorID != userID {
		s.recordActivity(r.Context(), &model.Activity{
			UserID:  event.CreatorID,
			ActorID: userID,
			Type:    model.ActionEventJoin,
			EventID: id,
		})
	}
	s.publish(r.Context(), events.TopicEventJoined, events.EventJoined{
		EventID:   id,
		CreatorID: event.CreatorID,
		ActorID:   userID,
		Status:    in.Status.String(),
		Joined:    joined,
	})

	writeJSON(w, http.StatusOK, participant)
}

// handleCleanupPastEvents handles POST /v1/events/cleanup-past. It removes
// events whose end time (or start time, when open-ended) has passed.
func (s *Server) handleCleanupPastEvents(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.DeletePastEvents(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clean up past events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}
