package card

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/paulmach/orb"
	geojson "github.com/paulmach/orb/geojson"

	"github.com/QuadraMap/QM-Backend/internal/geo"
	"github.com/QuadraMap/QM-Backend/internal/quadra"
)

// FeatureSource supplies merged quadra features to the builder. Satisfied
// by the quadra service.
type FeatureSource interface {
	Get(ctx context.Context, id string) (*quadra.Feature, error)
}

// ValidationError covers bad build input: blank id or name, empty selection.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "card: " + e.Msg
}

type BuildInput struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Bairro    string   `json:"bairro"`
	QuadraIDs []string `json:"quadra_ids"`
}

// MemberSnapshot is the frozen view of one quadra as it looked when the
// card was built.
type MemberSnapshot struct {
	ID         string          `json:"id"`
	Nome       string          `json:"nome"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

// BuildCard assembles a card from its selected quadras. One member keeps
// its geometry verbatim; more than one is folded into a union, skipping
// members whose geometry refuses to merge. fill comes from the caller so
// color policy (reuse vs fresh) stays out of the builder.
func BuildCard(ctx context.Context, src FeatureSource, in BuildInput, fill string) (*Card, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, &ValidationError{Msg: "id is required"}
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Msg: "name is required"}
	}
	if len(in.QuadraIDs) == 0 {
		return nil, &ValidationError{Msg: "at least one quadra must be selected"}
	}

	var (
		members   []*quadra.Feature
		ids       []string
		names     []string
		snapshots []MemberSnapshot
	)
	for _, qid := range in.QuadraIDs {
		f, err := src.Get(ctx, qid)
		if err != nil {
			if errors.Is(err, quadra.ErrNotFound) {
				return nil, &ValidationError{Msg: fmt.Sprintf("quadra %s does not exist", qid)}
			}
			return nil, err
		}
		snap, err := snapshotOf(f)
		if err != nil {
			return nil, fmt.Errorf("snapshot quadra %s: %w", f.ID, err)
		}
		members = append(members, f)
		ids = append(ids, f.ID)
		names = append(names, f.Nome)
		snapshots = append(snapshots, snap)
	}

	merged := members[0].Geometry
	for _, m := range members[1:] {
		next, err := geo.Union(merged, m.Geometry)
		if err != nil {
			// A quadra that won't merge is left out of the shape but
			// stays in the member list; the card is still usable.
			log.Printf("card %s: skipping quadra %s in union: %v", in.ID, m.ID, err)
			continue
		}
		merged = next
	}

	raw, err := geojson.NewGeometry(merged).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode card geometry: %w", err)
	}
	quadrasJSON, err := json.Marshal(snapshots)
	if err != nil {
		return nil, fmt.Errorf("encode member snapshots: %w", err)
	}

	return &Card{
		CardID:       in.ID,
		Name:         in.Name,
		Bairro:       strings.TrimSpace(in.Bairro),
		Status:       statusOf(members),
		TotalQuadras: len(members),
		QuadraIDs:    ids,
		QuadraNames:  names,
		FillColor:    fill,
		StrokeColor:  StrokeFor(fill),
		Quadras:      string(quadrasJSON),
		Geometry:     string(raw),
	}, nil
}

func snapshotOf(f *quadra.Feature) (MemberSnapshot, error) {
	geom, err := geojson.NewGeometry(f.Geometry).MarshalJSON()
	if err != nil {
		return MemberSnapshot{}, err
	}
	props, err := f.Props.MarshalJSON()
	if err != nil {
		return MemberSnapshot{}, err
	}
	return MemberSnapshot{
		ID:         f.ID,
		Nome:       f.Nome,
		Geometry:   geom,
		Properties: props,
	}, nil
}

// statusOf rolls member statuses up to the card: done only when every
// member is done, untouched only when none has moved.
func statusOf(members []*quadra.Feature) string {
	completed, notStarted := 0, 0
	for _, m := range members {
		switch m.Status {
		case quadra.StatusCompleted:
			completed++
		case quadra.StatusNotStarted:
			notStarted++
		}
	}
	switch {
	case completed == len(members):
		return string(quadra.StatusCompleted)
	case notStarted == len(members):
		return string(quadra.StatusNotStarted)
	default:
		return string(quadra.StatusInProgress)
	}
}

// GeometryOf decodes a card's stored geometry back into orb form.
func GeometryOf(c *Card) (orb.Geometry, error) {
	g, err := geojson.UnmarshalGeometry([]byte(c.Geometry))
	if err != nil {
		return nil, err
	}
	return g.Geometry(), nil
}
