package quadra

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb"

	"github.com/QuadraMap/QM-Backend/internal/geo"
)

// LogRecorder receives status transitions. Satisfied by the work log
// service; statuses cross as plain strings to keep the packages apart.
type LogRecorder interface {
	Record(ctx context.Context, quadraID, quadraNome, quadraNumber, from, to string) error
}

type Handlers struct {
	svc  *Service
	logs LogRecorder
}

func NewHandlers(svc *Service, logs LogRecorder) *Handlers {
	return &Handlers{svc: svc, logs: logs}
}

// ListHandler returns the full merged feature collection.
func (h *Handlers) ListHandler(w http.ResponseWriter, r *http.Request) {
	features, err := h.svc.All(r.Context())
	if err != nil {
		log.Printf("failed to list quadras: %v", err)
		http.Error(w, "Failed to load quadras", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	json.NewEncoder(w).Encode(featureCollection{
		Type:     "FeatureCollection",
		Features: features,
	})
}

// CreateHandler adds a new quadra from a GeoJSON feature body.
func (h *Handlers) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var f Feature
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		http.Error(w, "Invalid GeoJSON feature", http.StatusBadRequest)
		return
	}

	if err := h.svc.Create(r.Context(), &f); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateID):
			http.Error(w, "A quadra with this id already exists", http.StatusConflict)
		case errors.Is(err, ErrReservedKey):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(&f)
}

// AdvanceHandler cycles the status of one quadra and records the transition.
func (h *Handlers) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	from, to, feat, err := h.svc.Advance(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Quadra not found", http.StatusNotFound)
			return
		}
		log.Printf("failed to advance quadra %s: %v", id, err)
		http.Error(w, "Failed to update status", http.StatusInternalServerError)
		return
	}

	if err := h.logs.Record(r.Context(), feat.ID, feat.Nome, feat.Number(), string(from), string(to)); err != nil {
		// The status change already persisted; losing one log row is
		// recoverable, failing the request here is not.
		log.Printf("failed to record transition for quadra %s: %v", id, err)
	}

	json.NewEncoder(w).Encode(map[string]string{
		"id":     feat.ID,
		"from":   string(from),
		"status": string(to),
		"color":  to.Color(),
	})
}

// GetPropertiesHandler returns the merged property view of one quadra.
func (h *Handlers) GetPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	feat, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Quadra not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load properties", http.StatusInternalServerError)
		return
	}

	propsJSON, err := feat.Props.MarshalJSON()
	if err != nil {
		http.Error(w, "Failed to encode properties", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	// Reserved fields lead, then the bag in its stored order.
	idb, _ := json.Marshal(feat.ID)
	nomeb, _ := json.Marshal(feat.Nome)
	statusb, _ := json.Marshal(string(feat.Status))
	body := []byte(`{"id":` + string(idb) + `,"nome":` + string(nomeb) + `,"status":` + string(statusb))
	if feat.Props.Len() > 0 {
		body = append(body, ',')
		body = append(body, propsJSON[1:len(propsJSON)-1]...)
	}
	body = append(body, '}')
	w.Write(body)
}

// PutPropertiesHandler replaces the override bag for one quadra. Reserved
// keys are rejected outright rather than silently dropped, so the editor
// learns about the mistake.
func (h *Handlers) PutPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		http.Error(w, "Properties must be a JSON object", http.StatusBadRequest)
		return
	}
	for k := range probe {
		if IsReservedKey(k) {
			http.Error(w, "Property key '"+k+"' is reserved", http.StatusBadRequest)
			return
		}
	}

	var props Properties
	if err := json.Unmarshal(body, &props); err != nil {
		http.Error(w, "Properties must be a JSON object", http.StatusBadRequest)
		return
	}

	if err := h.svc.SetOverrides(r.Context(), id, &props); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Quadra not found", http.StatusNotFound)
			return
		}
		log.Printf("failed to save overrides for quadra %s: %v", id, err)
		http.Error(w, "Failed to save properties", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type searchHit struct {
	ID            string      `json:"id"`
	Nome          string      `json:"nome"`
	Status        string      `json:"status"`
	Color         string      `json:"color"`
	Score         int         `json:"score"`
	MatchedFields []string    `json:"matched_fields"`
	Centroid      *[2]float64 `json:"centroid,omitempty"`
}

// SearchHandler scores the merged features against ?q= within ?territorio=.
func (h *Handlers) SearchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	territory := r.URL.Query().Get("territorio")

	results, err := h.svc.Search(r.Context(), query, territory)
	if err != nil {
		log.Printf("search failed: %v", err)
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}

	hits := make([]searchHit, 0, len(results))
	for _, res := range results {
		hit := searchHit{
			ID:            res.Feature.ID,
			Nome:          res.Feature.Nome,
			Status:        string(res.Feature.Status),
			Color:         res.Feature.Status.Color(),
			Score:         res.Score,
			MatchedFields: res.MatchedFields,
		}
		if c, ok := centroidOf(res.Feature.Geometry); ok {
			hit.Centroid = &c
		}
		hits = append(hits, hit)
	}

	json.NewEncoder(w).Encode(hits)
}

func centroidOf(g orb.Geometry) ([2]float64, bool) {
	switch t := g.(type) {
	case orb.Polygon:
		return geo.Centroid(t)
	case orb.MultiPolygon:
		if len(t) > 0 {
			return geo.Centroid(t[0])
		}
	}
	return [2]float64{}, false
}
