// ABOUTME: HTTP handlers for creating, listing, fetching, and deleting readings.
// ABOUTME: Input goes through the parser before it reaches the store.
package web

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/harperreed/bp/internal/classify"
	"github.com/harperreed/bp/internal/models"
	"github.com/harperreed/bp/internal/parser"
	"github.com/harperreed/bp/internal/storage"
)

// createRequest accepts either the shorthand Input or the structured fields.
type createRequest struct {
	Input      *string `json:"input"`
	Systolic   *int    `json:"systolic"`
	Diastolic  *int    `json:"diastolic"`
	HeartRate  *int    `json:"heartRate"`
	Notes      *string `json:"notes"`
	RecordedAt *string `json:"recordedAt"`
}

// readingResponse is a Reading annotated with its category.
type readingResponse struct {
	ID            int64             `json:"id"`
	Systolic      int               `json:"systolic"`
	Diastolic     int               `json:"diastolic"`
	HeartRate     *int              `json:"heartRate"`
	RecordedAt    string            `json:"recordedAt"`
	Notes         *string           `json:"notes"`
	Category      classify.Category `json:"category"`
	CategoryLabel string            `json:"categoryLabel"`
}

func newReadingResponse(r *models.Reading) readingResponse {
	c := classify.Classify(r.Systolic, r.Diastolic)
	return readingResponse{
		ID:            r.ID,
		Systolic:      r.Systolic,
		Diastolic:     r.Diastolic,
		HeartRate:     r.HeartRate,
		RecordedAt:    r.RecordedAtString(),
		Notes:         r.Notes,
		Category:      c,
		CategoryLabel: c.Label(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateReading(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var (
		values parser.Values
		err    error
	)
	if req.Input != nil {
		values, err = parser.Parse(*req.Input)
	} else {
		values, err = parser.Validate(req.Systolic, req.Diastolic, req.HeartRate)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	reading := models.NewReading(values.Systolic, values.Diastolic)
	reading.HeartRate = values.HeartRate
	reading.Notes = req.Notes

	if req.RecordedAt != nil && *req.RecordedAt != "" {
		t, err := models.ParseTimestamp(*req.RecordedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Validation failed", "recordedAt must be an ISO 8601 timestamp")
			return
		}
		reading.RecordedAt = t
	}

	created, err := s.store.Create(r.Context(), reading)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	var opts storage.QueryOptions

	limit, err := intParam(r, "limit")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	opts.Limit = limit

	offset, err := intParam(r, "offset")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if offset != nil {
		opts.Offset = *offset
	}

	days, err := intParam(r, "days")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	opts.SinceDays = days

	result, err := s.store.Query(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetReading(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid record ID")
		return
	}

	reading, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newReadingResponse(reading))
}

func (s *Server) handleDeleteReading(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid record ID")
		return
	}

	removed, err := s.store.Delete(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Record deleted successfully",
	})
}

// intParam reads an optional integer query parameter. A present but
// non-integer value is reported as an invalid parameter.
func intParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &storage.ParameterError{Param: name, Reason: fmt.Sprintf("must be an integer, got %q", raw)}
	}
	return &n, nil
}

// recordID parses the {id} path parameter. It must be a positive whole
// number; "7.0" is accepted, "7.5" is not.
func recordID(r *http.Request) (int64, bool) {
	f, err := strconv.ParseFloat(chi.URLParam(r, "id"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f <= 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// daysAgo returns the start of the window covering the last days days.
func (s *Server) daysAgo(days int) time.Time {
	return storage.DaysAgo(s.now(), days)
}
