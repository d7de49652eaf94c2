package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// handleGetEntityHistory returns state history entries for an entity.
//
// Query parameters:
//   - limit: maximum number of entries (default 50, max 200)
//   - since: RFC3339 timestamp; only entries after this moment are returned
func (s *Server) handleGetEntityHistory(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupEntity(w, r)
	if !ok {
		return
	}

	limit, err := parseHistoryLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	since, err := parseSinceParam(r.URL.Query().Get("since"))
	if err != nil {
		writeBadRequest(w, "invalid since timestamp")
		return
	}

	if s.history == nil {
		writeUnavailable(w, "state history unavailable")
		return
	}

	entries, err := s.history.GetHistory(r.Context(), e.UniqueID(), limit)
	if err != nil {
		writeInternalError(w, "failed to load entity history")
		return
	}

	if !since.IsZero() {
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.RecordedAt.After(since) {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entity_id": e.UniqueID(),
		"history":   entries,
		"count":     len(entries),
	})
}

// parseHistoryLimit parses the limit query parameter with bounds enforcement.
func parseHistoryLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit")
	}
	if limit > maxHistoryLimit {
		return 0, fmt.Errorf("limit exceeds maximum")
	}

	return limit, nil
}

// parseSinceParam parses the since parameter as RFC3339/RFC3339Nano.
func parseSinceParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return parsed.UTC(), nil
	}

	parsed, err = time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, err
	}

	return parsed.UTC(), nil
}
