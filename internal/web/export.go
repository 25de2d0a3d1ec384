// ABOUTME: HTTP handlers for summary statistics and CSV export.
// ABOUTME: Export dates are validated as real calendar days and filtered inclusively in UTC.
package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/harperreed/bp/internal/stats"
	"github.com/harperreed/bp/internal/storage"
)

const dateLayout = "2006-01-02"

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var since *time.Time
	if days != nil {
		if *days < 1 {
			s.respondError(w, r, &storage.ParameterError{Param: "days", Reason: "must be a positive integer"})
			return
		}
		t := s.daysAgo(*days)
		since = &t
	}

	readings, err := s.store.Range(r.Context(), since, nil)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats.Summarize(readings))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	from, err := dateParam(r, "from")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	to, err := dateParam(r, "to")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if to != nil {
		end := to.Add(24*time.Hour - time.Millisecond)
		to = &end
	}

	readings, err := s.store.Range(r.Context(), from, to)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("bp-records-%s.csv", s.now().Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(storage.ExportCSV(readings)))
}

// dateParam reads an optional YYYY-MM-DD query parameter as midnight UTC.
// Impossible dates such as 2024-02-30 are rejected.
func dateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, &storage.ParameterError{Param: name, Reason: fmt.Sprintf("must be a valid date in YYYY-MM-DD format, got %q", raw)}
	}
	return &t, nil
}
