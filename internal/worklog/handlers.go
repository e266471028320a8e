package worklog

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

const recentLimit = 20

type Handlers struct {
	svc  Service
	city string
}

func NewHandlers(svc Service, city string) *Handlers {
	return &Handlers{svc: svc, city: city}
}

// ListHandler returns the folded per-quadra summaries.
func (h *Handlers) ListHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Entries(r.Context())
	if err != nil {
		log.Printf("failed to load log entries: %v", err)
		http.Error(w, "Failed to load logs", http.StatusInternalServerError)
		return
	}
	logs := FoldLogs(entries)
	if logs == nil {
		logs = []QuadraLog{}
	}
	json.NewEncoder(w).Encode(logs)
}

// QuadrasHandler returns folded summaries narrowed by ?filter=.
func (h *Handlers) QuadrasHandler(w http.ResponseWriter, r *http.Request) {
	filter := Filter(r.URL.Query().Get("filter"))
	switch filter {
	case "", FilterAll, FilterCompleted, FilterInProgress:
	default:
		http.Error(w, "Unknown filter", http.StatusBadRequest)
		return
	}

	entries, err := h.svc.Entries(r.Context())
	if err != nil {
		http.Error(w, "Failed to load logs", http.StatusInternalServerError)
		return
	}
	logs := FilterLogs(FoldLogs(entries), filter)
	if logs == nil {
		logs = []QuadraLog{}
	}
	json.NewEncoder(w).Encode(logs)
}

// RecentHandler returns quadras currently being worked, most recently
// started first. This backs the "recent territories" view.
func (h *Handlers) RecentHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Entries(r.Context())
	if err != nil {
		http.Error(w, "Failed to load logs", http.StatusInternalServerError)
		return
	}

	logs := FilterLogs(FoldLogs(entries), FilterInProgress)
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Start.After(*logs[j].Start)
	})
	if len(logs) > recentLimit {
		logs = logs[:recentLimit]
	}
	if logs == nil {
		logs = []QuadraLog{}
	}
	json.NewEncoder(w).Encode(logs)
}

// DeleteHandler removes every entry for one quadra, resetting its history.
func (h *Handlers) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	quadraID := chi.URLParam(r, "quadraId")

	n, err := h.svc.DeleteForQuadra(r.Context(), quadraID)
	if err != nil {
		log.Printf("failed to delete logs for quadra %s: %v", quadraID, err)
		http.Error(w, "Failed to delete logs", http.StatusInternalServerError)
		return
	}
	if n == 0 {
		http.Error(w, "No logs for this quadra", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportPDFHandler streams the assignment register. ?ano= picks the service
// year printed on the sheet; it defaults to the current year.
func (h *Handlers) ExportPDFHandler(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := now.Year()
	if raw := r.URL.Query().Get("ano"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2200 {
			http.Error(w, "Invalid year", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	entries, err := h.svc.Entries(r.Context())
	if err != nil {
		http.Error(w, "Failed to load logs", http.StatusInternalServerError)
		return
	}

	data, err := BuildRegister(FoldLogs(entries), h.city, year)
	if err != nil {
		log.Printf("failed to render register: %v", err)
		http.Error(w, "Failed to render PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", RegisterFilename(year, now)))
	w.Write(data)
}
