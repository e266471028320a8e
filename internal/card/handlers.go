package card

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/QuadraMap/QM-Backend/internal/db"
)

type Handlers struct {
	src    FeatureSource
	colors *ColorGenerator
}

func NewHandlers(src FeatureSource, colors *ColorGenerator) *Handlers {
	return &Handlers{src: src, colors: colors}
}

// cardResponse carries the card row plus its geometry and member snapshots
// as raw JSON, so clients don't get double-encoded strings.
type cardResponse struct {
	Card
	Geometry json.RawMessage `json:"geometry"`
	Quadras  json.RawMessage `json:"quadras"`
}

func toResponse(c Card) cardResponse {
	quadras := json.RawMessage(c.Quadras)
	if c.Quadras == "" {
		quadras = json.RawMessage("[]")
	}
	return cardResponse{
		Card:     c,
		Geometry: json.RawMessage(c.Geometry),
		Quadras:  quadras,
	}
}

func (h *Handlers) ListHandler(w http.ResponseWriter, r *http.Request) {
	var cards []Card
	if err := db.DB.Order("created_at").Find(&cards).Error; err != nil {
		log.Printf("failed to list cards: %v", err)
		http.Error(w, "Failed to load cards", http.StatusInternalServerError)
		return
	}

	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toResponse(c))
	}
	json.NewEncoder(w).Encode(out)
}

// CreateHandler builds (or rebuilds) a card. Rebuilding the same id keeps
// its color; a new id draws a fresh one avoiding colors already on the map.
func (h *Handlers) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in BuildInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var existing []Card
	if err := db.DB.Find(&existing).Error; err != nil {
		http.Error(w, "Failed to load cards", http.StatusInternalServerError)
		return
	}

	// Members may not already belong to a different card.
	unavailable := ComputeUnavailableIDs(existing, in.ID)
	for _, qid := range in.QuadraIDs {
		if _, taken := unavailable[qid]; taken {
			http.Error(w, fmt.Sprintf("Quadra %s already belongs to a card", qid), http.StatusConflict)
			return
		}
	}

	fill := ChooseFill(existing, in.ID, h.colors)

	card, err := BuildCard(r.Context(), h.src, in, fill)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("failed to build card %s: %v", in.ID, err)
		http.Error(w, "Failed to build card", http.StatusInternalServerError)
		return
	}

	if err := db.DB.Save(card).Error; err != nil {
		log.Printf("failed to save card %s: %v", card.CardID, err)
		http.Error(w, "Failed to save card", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toResponse(*card))
}

func (h *Handlers) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res := db.DB.Delete(&Card{}, "card_id = ?", id)
	if res.Error != nil {
		log.Printf("failed to delete card %s: %v", id, res.Error)
		http.Error(w, "Failed to delete card", http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "Card not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnavailableHandler returns the quadra ids already claimed by cards.
// ?exclude=<cardID> leaves one card's members out, for rebuild flows.
func (h *Handlers) UnavailableHandler(w http.ResponseWriter, r *http.Request) {
	var cards []Card
	if err := db.DB.Find(&cards).Error; err != nil {
		http.Error(w, "Failed to load cards", http.StatusInternalServerError)
		return
	}

	var except []string
	if ex := r.URL.Query().Get("exclude"); ex != "" {
		except = append(except, ex)
	}

	set := ComputeUnavailableIDs(cards, except...)
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	json.NewEncoder(w).Encode(map[string][]string{"unavailable": ids})
}
