package quadra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/QuadraMap/QM-Backend/internal/kv"
)

// SnapshotKey is where the full feature collection lives in the kv store.
const SnapshotKey = "quadras-snapshot"

func overrideKey(id string) string {
	return fmt.Sprintf("polygon-%s-properties", id)
}

var (
	ErrNotFound    = errors.New("quadra: not found")
	ErrDuplicateID = errors.New("quadra: id already exists")
)

type featureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// Service owns the in-memory feature set and keeps the kv snapshot in sync.
// All reads hand out clones; callers never see the canonical features.
type Service struct {
	mu       sync.RWMutex
	store    kv.Store
	features []*Feature
	index    map[string]*Feature
}

func NewService(store kv.Store) *Service {
	return &Service{
		store: store,
		index: make(map[string]*Feature),
	}
}

// Load restores the snapshot from the kv store, falling back to the dataset
// file on first boot. The dataset is then snapshotted so later edits are
// never clobbered by a restart.
func (s *Service) Load(ctx context.Context, datasetPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Get(ctx, SnapshotKey)
	if errors.Is(err, kv.ErrNotFound) {
		data, err = os.ReadFile(datasetPath)
		if err != nil {
			return fmt.Errorf("read dataset: %w", err)
		}
		log.Printf("no snapshot found, seeding from %s", datasetPath)
	} else if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse feature collection: %w", err)
	}

	s.features = fc.Features
	s.index = make(map[string]*Feature, len(fc.Features))
	for _, f := range fc.Features {
		if f.ID == "" {
			return fmt.Errorf("feature without id in dataset")
		}
		if _, dup := s.index[f.ID]; dup {
			return fmt.Errorf("duplicate feature id %q in dataset", f.ID)
		}
		s.index[f.ID] = f
	}

	return s.persistLocked(ctx)
}

// persistLocked writes the snapshot. Caller holds the write lock.
func (s *Service) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(featureCollection{Type: "FeatureCollection", Features: s.features})
	if err != nil {
		return err
	}
	return s.store.Set(ctx, SnapshotKey, data)
}

// All returns every feature with its override bag merged in, snapshot order.
func (s *Service) All(ctx context.Context) ([]*Feature, error) {
	s.mu.RLock()
	base := make([]*Feature, len(s.features))
	for i, f := range s.features {
		base[i] = f.Clone()
	}
	s.mu.RUnlock()

	for _, f := range base {
		if err := s.applyOverrides(ctx, f); err != nil {
			return nil, err
		}
	}
	return base, nil
}

// Get returns one merged feature by id.
func (s *Service) Get(ctx context.Context, id string) (*Feature, error) {
	s.mu.RLock()
	f, ok := s.index[id]
	if !ok {
		s.mu.RUnlock()
		return nil, ErrNotFound
	}
	clone := f.Clone()
	s.mu.RUnlock()

	if err := s.applyOverrides(ctx, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

func (s *Service) applyOverrides(ctx context.Context, f *Feature) error {
	data, err := s.store.Get(ctx, overrideKey(f.ID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		// A flaky kv read degrades to "no overrides" rather than failing
		// the whole listing.
		log.Printf("treating unreadable overrides for %s as absent: %v", f.ID, err)
		return nil
	}

	var over Properties
	if err := json.Unmarshal(data, &over); err != nil {
		// A corrupt override bag shouldn't take the whole map down.
		log.Printf("ignoring corrupt overrides for %s: %v", f.ID, err)
		return nil
	}
	for _, k := range over.Keys() {
		v, _ := over.Get(k)
		if err := f.Props.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Overrides returns the stored override bag for a quadra, empty if none.
func (s *Service) Overrides(ctx context.Context, id string) (*Properties, error) {
	s.mu.RLock()
	_, ok := s.index[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	data, err := s.store.Get(ctx, overrideKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return NewProperties(), nil
	}
	if err != nil {
		return nil, err
	}
	var over Properties
	if err := json.Unmarshal(data, &over); err != nil {
		return nil, err
	}
	return &over, nil
}

// SetOverrides replaces the override bag for a quadra. Reserved keys were
// already refused at the Properties layer.
func (s *Service) SetOverrides(ctx context.Context, id string, props *Properties) error {
	s.mu.RLock()
	_, ok := s.index[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	if props.Len() == 0 {
		return s.store.Delete(ctx, overrideKey(id))
	}
	data, err := json.Marshal(props)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, overrideKey(id), data)
}

// PruneOverrides deletes override bags whose quadra is no longer in the
// collection, so a dataset swap doesn't leave orphaned keys behind. It
// reports how many bags were removed.
func (s *Service) PruneOverrides(ctx context.Context) (int, error) {
	keys, err := s.store.Keys(ctx, "polygon-")
	if err != nil {
		return 0, fmt.Errorf("list override keys: %w", err)
	}

	s.mu.RLock()
	live := make(map[string]struct{}, len(s.index))
	for id := range s.index {
		live[id] = struct{}{}
	}
	s.mu.RUnlock()

	pruned := 0
	for _, key := range keys {
		id := strings.TrimSuffix(strings.TrimPrefix(key, "polygon-"), "-properties")
		if _, ok := live[id]; ok {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			return pruned, fmt.Errorf("delete %s: %w", key, err)
		}
		pruned++
	}
	return pruned, nil
}

// Advance moves a quadra one step along the status cycle and persists the
// snapshot. It reports the transition so callers can record it.
func (s *Service) Advance(ctx context.Context, id string) (from, to Status, f *Feature, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	feat, ok := s.index[id]
	if !ok {
		return "", "", nil, ErrNotFound
	}

	from = feat.Status
	to = from.Next()
	feat.Status = to

	if err := s.persistLocked(ctx); err != nil {
		feat.Status = from
		return "", "", nil, err
	}
	return from, to, feat.Clone(), nil
}

// Create adds a new feature to the snapshot. Status defaults to
// nao_iniciado when absent.
func (s *Service) Create(ctx context.Context, f *Feature) error {
	if f.ID == "" {
		return fmt.Errorf("quadra: id is required")
	}
	if f.Geometry == nil {
		return fmt.Errorf("quadra: geometry is required")
	}
	if !f.Status.Valid() {
		f.Status = StatusNotStarted
	}
	if f.Props == nil {
		f.Props = NewProperties()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.index[f.ID]; dup {
		return ErrDuplicateID
	}
	s.features = append(s.features, f)
	s.index[f.ID] = f

	if err := s.persistLocked(ctx); err != nil {
		s.features = s.features[:len(s.features)-1]
		delete(s.index, f.ID)
		return err
	}
	return nil
}

// Search runs the scorer over the merged feature set.
func (s *Service) Search(ctx context.Context, query, territory string) ([]SearchResult, error) {
	merged, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return Search(merged, query, territory), nil
}
