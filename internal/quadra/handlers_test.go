package quadra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// recordingLog captures transitions instead of writing to the database.
type recordingLog struct {
	calls []string
	nomes []string
}

func (r *recordingLog) Record(_ context.Context, quadraID, nome, number, from, to string) error {
	r.calls = append(r.calls, quadraID+":"+from+">"+to)
	r.nomes = append(r.nomes, nome)
	return nil
}

func testRouter(t *testing.T) (*chi.Mux, *recordingLog) {
	t.Helper()
	svc, _ := newTestService(t)
	logs := &recordingLog{}
	h := NewHandlers(svc, logs)

	r := chi.NewRouter()
	r.Get("/", h.ListHandler)
	r.Post("/", h.CreateHandler)
	r.Get("/search", h.SearchHandler)
	r.Post("/{id}/advance", h.AdvanceHandler)
	r.Get("/{id}/properties", h.GetPropertiesHandler)
	r.Put("/{id}/properties", h.PutPropertiesHandler)
	return r, logs
}

// TestAdvanceHandler cycles a quadra and records the transition.
func TestAdvanceHandler(t *testing.T) {
	r, logs := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/q1/advance", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != string(StatusInProgress) {
		t.Errorf("status = %q, want em_andamento", body["status"])
	}
	if len(logs.calls) != 1 || logs.calls[0] != "q1:nao_iniciado>em_andamento" {
		t.Errorf("recorded = %v", logs.calls)
	}
	if len(logs.nomes) != 1 || logs.nomes[0] != "Quadra 1" {
		t.Errorf("recorded nome = %v, want the quadra's name", logs.nomes)
	}
}

func TestAdvanceHandlerUnknown(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/ghost/advance", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestPutPropertiesReserved rejects override bodies touching reserved keys.
func TestPutPropertiesReserved(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/q1/properties",
		strings.NewReader(`{"status":"concluido"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestPropertiesRoundTripHTTP saves overrides and reads the merged view.
func TestPropertiesRoundTripHTTP(t *testing.T) {
	r, _ := testRouter(t)

	put := httptest.NewRequest(http.MethodPut, "/q1/properties",
		strings.NewReader(`{"rua":"Rua Nova","quadra":"88"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, put)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body.String())
	}

	get := httptest.NewRequest(http.MethodGet, "/q1/properties", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, get)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	var merged map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &merged); err != nil {
		t.Fatal(err)
	}
	if merged["rua"] != "Rua Nova" || merged["quadra"] != "88" {
		t.Errorf("merged = %v", merged)
	}
	if merged["id"] != "q1" || merged["nome"] != "Quadra 1" {
		t.Errorf("reserved fields missing: %v", merged)
	}
}

// TestSearchHandler exercises the query endpoint end to end.
func TestSearchHandler(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/search?q=1&territorio=todos", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var hits []searchHit
	if err := json.Unmarshal(rec.Body.Bytes(), &hits); err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 || hits[0].ID != "q1" || hits[0].Score != 100 {
		t.Errorf("hits = %v", hits)
	}
	if hits[0].Centroid == nil {
		t.Error("expected a centroid on the hit")
	}
}

// TestCreateHandlerDuplicate returns 409 for an id already on the map.
func TestCreateHandlerDuplicate(t *testing.T) {
	r, _ := testRouter(t)

	body := `{"type":"Feature","properties":{"id":"q1"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

// TestListHandler returns the collection as GeoJSON.
func TestListHandler(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &fc); err != nil {
		t.Fatal(err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 2 {
		t.Errorf("collection = %s / %d features", fc.Type, len(fc.Features))
	}
}
