package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/corridor/internal/lib/corridor"
	"github.com/dpup/corridor/internal/lib/routedata"
	"github.com/dpup/corridor/internal/render"
)

// errorResponse is the JSON body of every failed API call
type errorResponse struct {
	Error     string `json:"error"`
	Required  int    `json:"required,omitempty"`
	Available int    `json:"available,omitempty"`
}

// StatusForError maps service errors onto HTTP status codes
func StatusForError(err error) int {
	switch {
	case errors.Is(err, routedata.ErrUnknownRoute), errors.Is(err, routedata.ErrUnknownPairSet):
		return http.StatusNotFound
	case errors.Is(err, corridor.ErrInvalidInput), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, corridor.ErrInsufficientPairs), errors.Is(err, corridor.ErrDegenerateRoute):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

// HandleRoutes serves GET /api/v1/routes
func (s *CorridorService) HandleRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := s.ListRoutes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"routes": routes})
}

// HandleCorridor serves GET /api/v1/corridor. Rejected pairs are omitted and the
// kept list is truncated to the configured reply size; kept_indices is complete.
func (s *CorridorService) HandleCorridor(w http.ResponseWriter, r *http.Request) {
	req, err := parseCorridorRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.Compute(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	reply := *result
	reply.Rejected = nil
	if limit := s.config.Server.MaxKeptInReply; limit > 0 && len(reply.Kept) > limit {
		reply.Kept = reply.Kept[:limit]
	}
	writeJSON(w, http.StatusOK, reply)
}

// HandleMap serves GET /api/v1/map?format=html|kml|geojson
func (s *CorridorService) HandleMap(w http.ResponseWriter, r *http.Request) {
	req, err := parseCorridorRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	renderer, err := render.New(format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Render into a buffer so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := s.RenderMap(r.Context(), req, format, &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Errorw(r.Context(), "Failed to write map", "error", err)
	}
}

// HandleOverview serves GET /api/v1/overview, an HTML map of every route
func (s *CorridorService) HandleOverview(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.RenderOverview(r.Context(), &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Errorw(r.Context(), "Failed to write overview", "error", err)
	}
}

func parseCorridorRequest(r *http.Request) (CorridorRequest, error) {
	if r.Method != http.MethodGet {
		return CorridorRequest{}, fmt.Errorf("%w: method %s not allowed", errBadRequest, r.Method)
	}
	q := r.URL.Query()
	req := CorridorRequest{
		RouteID:     q.Get("route"),
		PairSet:     q.Get("pairs"),
		Method:      q.Get("method"),
		Orientation: q.Get("orientation"),
	}
	if req.RouteID == "" {
		return req, fmt.Errorf("%w: route is required", errBadRequest)
	}
	if v := q.Get("min_pairs"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return req, fmt.Errorf("%w: min_pairs must be a positive integer, got %q", errBadRequest, v)
		}
		req.MinPairs = n
	}
	if v := q.Get("require_both"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("%w: require_both must be a boolean, got %q", errBadRequest, v)
		}
		req.RequireBoth = &b
	}
	return req, nil
}

// HandleCache serves /api/v1/cache. GET reports cache statistics and entries;
// DELETE drops one route's corridors (?route=) or, without a route, everything.
func (s *CorridorService) HandleCache(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.CacheStatus(r.Context()))
	case http.MethodDelete:
		routeID := r.URL.Query().Get("route")
		if routeID == "" {
			writeJSON(w, http.StatusOK, map[string]int{"removed": s.InvalidateAll(r.Context())})
			return
		}
		removed, err := s.InvalidateRoute(r.Context(), routeID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
	default:
		s.writeError(w, r, fmt.Errorf("%w: method %s not allowed", errBadRequest, r.Method))
	}
}

func (s *CorridorService) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusForError(err)
	body := errorResponse{Error: err.Error()}

	var insufficient *corridor.InsufficientPairsError
	if errors.As(err, &insufficient) {
		body.Required = insufficient.Required
		body.Available = insufficient.Available
	}

	if status >= http.StatusInternalServerError {
		logging.Errorw(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	} else {
		logging.Infow(r.Context(), "Request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
