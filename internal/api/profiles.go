package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/placegrid/placement-core/internal/infrastructure/mqtt"
	"github.com/placegrid/placement-core/internal/profile"
)

// handleListProfiles returns all profiles.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.registry.ListProfiles(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list profiles")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": profiles, "count": len(profiles)})
}

// handleGetProfile returns a single profile by ID.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.registry.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			writeNotFound(w, "profile not found")
			return
		}
		writeInternalError(w, "failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// handleGetProfileBySlug returns a single profile by its URL-safe slug.
func (s *Server) handleGetProfileBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := s.registry.GetProfileBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			writeNotFound(w, "profile not found")
			return
		}
		writeInternalError(w, "failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// handleCreateProfile creates a new profile.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.registry.CreateProfile(r.Context(), &p); err != nil {
		switch {
		case isValidationError(err):
			writeBadRequest(w, err.Error())
		case errors.Is(err, profile.ErrProfileExists):
			writeConflict(w, "profile with this ID or slug already exists")
		default:
			writeInternalError(w, "failed to create profile")
		}
		return
	}

	s.publishProfileEvent(mqtt.Topics{}.ProfileCreated(p.ID), &p)
	s.recordProfileCount()

	writeJSON(w, http.StatusCreated, p)
}

// handleUpdateProfile partially updates a profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Get existing profile
	existing, err := s.registry.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			writeNotFound(w, "profile not found")
			return
		}
		writeInternalError(w, "failed to get profile")
		return
	}

	// Decode partial update onto existing profile
	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	existing.ID = id // Ensure ID cannot be changed

	if err := s.registry.UpdateProfile(r.Context(), existing); err != nil {
		switch {
		case isValidationError(err):
			writeBadRequest(w, err.Error())
		case errors.Is(err, profile.ErrProfileExists):
			writeConflict(w, "profile with this slug already exists")
		case errors.Is(err, profile.ErrProfileNotFound):
			writeNotFound(w, "profile not found")
		default:
			writeInternalError(w, "failed to update profile")
		}
		return
	}

	s.publishProfileEvent(mqtt.Topics{}.ProfileUpdated(id), existing)

	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteProfile removes a profile by ID.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.registry.DeleteProfile(r.Context(), id); err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			writeNotFound(w, "profile not found")
			return
		}
		writeInternalError(w, "failed to delete profile")
		return
	}

	s.publishProfileEvent(mqtt.Topics{}.ProfileDeleted(id), &profile.Profile{ID: id})
	s.recordProfileCount()

	w.WriteHeader(http.StatusNoContent)
}

// handleResolveProfile resolves a candidate spec against a profile.
//
// The candidate comes from the "device" query parameter and may be empty,
// in which case the resolution yields the profile's own spec.
func (s *Server) handleResolveProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	candidate := r.URL.Query().Get("device")

	start := time.Now()

	resolved, err := s.registry.Resolve(r.Context(), id, candidate)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrProfileNotFound):
			s.recordResolution("", "not_found", start)
			writeNotFound(w, "profile not found")
		case errors.Is(err, profile.ErrInvalidSpec):
			s.recordResolution(s.profileSlug(r, id), parseErrorKind(err), start)
			writeError(w, http.StatusUnprocessableEntity, parseErrorKind(err), err.Error())
		default:
			s.recordResolution("", "error", start)
			writeInternalError(w, "failed to resolve placement")
		}
		return
	}

	s.recordResolution(s.profileSlug(r, id), "ok", start)

	writeJSON(w, http.StatusOK, map[string]any{
		"profile_id": id,
		"candidate":  candidate,
		"fields":     specFields(resolved),
		"canonical":  resolved.String(),
	})
}

// profileSlug looks up a profile's slug for metric tagging. Best effort:
// returns "" when the profile cannot be read.
func (s *Server) profileSlug(r *http.Request, id string) string {
	p, err := s.registry.GetProfile(r.Context(), id)
	if err != nil {
		return ""
	}
	return p.Slug
}

// ProfileEvent is the payload published on profile lifecycle topics.
type ProfileEvent struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug,omitempty"`
	Name      string    `json:"name,omitempty"`
	Spec      string    `json:"spec,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// publishProfileEvent announces a profile mutation on the MQTT bus.
// Best effort: failures are logged, never surfaced to the HTTP client.
func (s *Server) publishProfileEvent(topic string, p *profile.Profile) {
	if s.mqtt == nil || !s.mqtt.IsConnected() {
		return
	}

	event := ProfileEvent{Timestamp: time.Now().UTC()}
	if p != nil {
		event.ID = p.ID
		event.Slug = p.Slug
		event.Name = p.Name
		event.Spec = p.Spec
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to encode profile event", "topic", topic, "error", err)
		return
	}

	if err := s.mqtt.Publish(topic, payload, 1, false); err != nil {
		s.logger.Warn("failed to publish profile event", "topic", topic, "error", err)
	}
}

// recordResolution writes a resolution timing to InfluxDB when metrics
// are enabled. Non-blocking.
func (s *Server) recordResolution(profileSlug, outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.WriteResolution(profileSlug, outcome, time.Since(start))
}

// recordProfileCount writes the current registry size to InfluxDB when
// metrics are enabled.
func (s *Server) recordProfileCount() {
	if s.metrics == nil {
		return
	}
	s.metrics.WriteProfileCount(s.registry.GetProfileCount())
}

// isValidationError checks whether an error is a profile validation error.
// ValidateProfile wraps several sentinel errors so all of them are checked
// rather than just ErrInvalidProfile.
func isValidationError(err error) bool {
	return errors.Is(err, profile.ErrInvalidProfile) ||
		errors.Is(err, profile.ErrInvalidName) ||
		errors.Is(err, profile.ErrInvalidSlug) ||
		errors.Is(err, profile.ErrInvalidSpec)
}
