package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/placegrid/placement-core/internal/devicespec"
)

// SpecFields is the decomposed form of a placement specifier.
// Absent fields are omitted; a set device type with an omitted device
// index means the "*" wildcard.
type SpecFields struct {
	Job         *string `json:"job,omitempty"`
	Replica     *int    `json:"replica,omitempty"`
	Task        *int    `json:"task,omitempty"`
	DeviceType  *string `json:"device_type,omitempty"`
	DeviceIndex *int    `json:"device_index,omitempty"`
}

// specFields decomposes a parsed spec into its JSON representation.
func specFields(spec devicespec.Spec) SpecFields {
	var f SpecFields
	if job, ok := spec.Job(); ok {
		f.Job = &job
	}
	if replica, ok := spec.Replica(); ok {
		f.Replica = &replica
	}
	if task, ok := spec.Task(); ok {
		f.Task = &task
	}
	if deviceType, ok := spec.DeviceType(); ok {
		f.DeviceType = &deviceType
	}
	if index, ok := spec.DeviceIndex(); ok {
		f.DeviceIndex = &index
	}
	return f
}

// parseErrorKind maps a parse error to a stable machine-readable kind.
func parseErrorKind(err error) string {
	switch {
	case errors.Is(err, devicespec.ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, devicespec.ErrDuplicateDeviceType):
		return "duplicate_device_type"
	case errors.Is(err, devicespec.ErrUnknownAttribute):
		return "unknown_attribute"
	default:
		return "parse_error"
	}
}

// SpecRequest carries a single specifier string.
type SpecRequest struct {
	Spec string `json:"spec"`
}

// handleParseSpec parses a specifier string and returns its decomposed
// fields together with the canonical string form.
func (s *Server) handleParseSpec(w http.ResponseWriter, r *http.Request) {
	var req SpecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	spec, err := devicespec.Parse(req.Spec)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, parseErrorKind(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fields":    specFields(spec),
		"canonical": spec.String(),
	})
}

// ValidateResponse reports whether a specifier string is well-formed.
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleValidateSpec checks a specifier string without returning its
// decomposition. Malformed input is a 200 with valid=false, not an HTTP
// error: the request itself succeeded.
func (s *Server) handleValidateSpec(w http.ResponseWriter, r *http.Request) {
	var req SpecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := devicespec.CheckValid(req.Spec); err != nil {
		writeJSON(w, http.StatusOK, ValidateResponse{
			Valid: false,
			Kind:  parseErrorKind(err),
			Error: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true})
}

// MergeRequest carries a base spec and an overlay to merge onto it.
type MergeRequest struct {
	Base    string `json:"base"`
	Overlay string `json:"overlay"`
}

// handleMergeSpecs overlays one spec onto another. Fields the overlay
// sets win; fields it leaves absent fall through to the base.
func (s *Server) handleMergeSpecs(w http.ResponseWriter, r *http.Request) {
	var req MergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	base, err := devicespec.Parse(req.Base)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, parseErrorKind(err), "base: "+err.Error())
		return
	}
	overlay, err := devicespec.Parse(req.Overlay)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, parseErrorKind(err), "overlay: "+err.Error())
		return
	}

	base.MergeFrom(overlay)

	writeJSON(w, http.StatusOK, map[string]any{
		"fields":    specFields(base),
		"canonical": base.String(),
	})
}

// ResolveRequest carries an outer spec and an ordered list of candidate
// specs, outermost first.
type ResolveRequest struct {
	Outer      string   `json:"outer"`
	Candidates []string `json:"candidates"`
}

// handleResolveSpecs folds scoped resolution across an ordered candidate
// list. Each candidate is resolved against the scope produced by the
// previous step, so the innermost explicit value for each field wins.
// The response includes every intermediate resolution.
func (s *Server) handleResolveSpecs(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	start := time.Now()

	scope, err := devicespec.ParseScope(req.Outer)
	if err != nil {
		s.recordResolution("", parseErrorKind(err), start)
		writeError(w, http.StatusUnprocessableEntity, parseErrorKind(err), "outer: "+err.Error())
		return
	}

	current := scope.Outer()
	steps := make([]string, 0, len(req.Candidates))
	for i, candidate := range req.Candidates {
		resolved, resolveErr := devicespec.NewScope(current).Resolve(candidate)
		if resolveErr != nil {
			s.recordResolution("", parseErrorKind(resolveErr), start)
			writeError(w, http.StatusUnprocessableEntity, parseErrorKind(resolveErr),
				fmt.Sprintf("candidate %d: %v", i, resolveErr))
			return
		}
		current = resolved
		steps = append(steps, resolved.String())
	}

	s.recordResolution("", "ok", start)

	writeJSON(w, http.StatusOK, map[string]any{
		"steps":     steps,
		"fields":    specFields(current),
		"canonical": current.String(),
	})
}
