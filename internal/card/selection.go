package card

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a toggle against a quadra already claimed by a card.
var ErrUnavailable = errors.New("card: quadra already belongs to a card")

// Selection is an ordered set of quadra ids being grouped into a card.
// Order matters: the union folds members in selection order and the
// snapshot keeps it.
type Selection struct {
	order []string
	has   map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{has: make(map[string]struct{})}
}

// Toggle adds id to the selection, or removes it if already selected.
// Quadras in the unavailable set cannot be selected; deselecting them is
// allowed so a stale client can always back out.
func (s *Selection) Toggle(id string, unavailable map[string]struct{}) (selected bool, err error) {
	if _, ok := s.has[id]; ok {
		delete(s.has, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false, nil
	}

	if _, taken := unavailable[id]; taken {
		return false, fmt.Errorf("%w: %s", ErrUnavailable, id)
	}
	s.has[id] = struct{}{}
	s.order = append(s.order, id)
	return true, nil
}

func (s *Selection) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Selection) Len() int {
	return len(s.order)
}

// ComputeUnavailableIDs collects every quadra id claimed by any card in
// cards, excluding cards whose id appears in except. Rebuilding a card must
// not treat its own members as taken.
func ComputeUnavailableIDs(cards []Card, except ...string) map[string]struct{} {
	skip := make(map[string]struct{}, len(except))
	for _, id := range except {
		skip[id] = struct{}{}
	}

	out := make(map[string]struct{})
	for _, c := range cards {
		if _, ok := skip[c.CardID]; ok {
			continue
		}
		for _, qid := range c.QuadraIDs {
			out[qid] = struct{}{}
		}
	}
	return out
}
