package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearthbridge/hearth/internal/entity"
)

// maxQueryParamLen bounds user-supplied identifiers and query values.
const maxQueryParamLen = 256

// entityView is the JSON representation of an entity snapshot.
type entityView struct {
	UniqueID   string         `json:"unique_id"`
	ObjectID   string         `json:"object_id"`
	Name       string         `json:"name"`
	Platform   string         `json:"platform"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Available  bool           `json:"available"`

	// Light-only fields.
	Effect     string   `json:"effect,omitempty"`
	EffectList []string `json:"effect_list,omitempty"`
}

// newEntityView snapshots an entity for JSON output.
func newEntityView(e entity.Entity) entityView {
	view := entityView{
		UniqueID:   e.UniqueID(),
		ObjectID:   e.ObjectID(),
		Name:       e.Name(),
		Platform:   string(e.Platform()),
		State:      e.State(),
		Attributes: e.Attributes(),
		Available:  e.Available(),
	}
	if light, ok := e.(entity.Light); ok {
		view.Effect = light.Effect()
		view.EffectList = light.EffectList()
	}
	return view
}

// handleListEntities returns all registered entities.
//
// Query parameters:
//   - platform: filter by platform (sensor, light)
func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	if len(platform) > maxQueryParamLen {
		writeBadRequest(w, "invalid platform")
		return
	}

	var entities []entity.Entity
	if platform != "" {
		entities = s.registry.ListByPlatform(entity.Platform(platform))
	} else {
		entities = s.registry.List()
	}

	views := make([]entityView, 0, len(entities))
	for _, e := range entities {
		views = append(views, newEntityView(e))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entities": views,
		"count":    len(views),
	})
}

// handleGetEntity returns a single entity by unique ID.
func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupEntity(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newEntityView(e))
}

// handleGetEntityState returns the current state of an entity.
func (s *Server) handleGetEntityState(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupEntity(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entity_id":  e.UniqueID(),
		"state":      e.State(),
		"attributes": e.Attributes(),
		"available":  e.Available(),
	})
}

// lookupEntity resolves the {id} URL parameter to a registered entity,
// writing the error response itself when resolution fails.
func (s *Server) lookupEntity(w http.ResponseWriter, r *http.Request) (entity.Entity, bool) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxQueryParamLen {
		writeBadRequest(w, "invalid entity ID")
		return nil, false
	}

	e, err := s.registry.Get(id)
	if err != nil {
		if errors.Is(err, entity.ErrEntityNotFound) {
			writeNotFound(w, "entity not found")
			return nil, false
		}
		writeInternalError(w, "failed to get entity")
		return nil, false
	}
	return e, true
}
