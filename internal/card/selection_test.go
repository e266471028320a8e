package card

import (
	"errors"
	"reflect"
	"testing"
)

// TestToggleAddRemove toggles the same id twice and ends empty.
func TestToggleAddRemove(t *testing.T) {
	s := NewSelection()

	selected, err := s.Toggle("q1", nil)
	if err != nil || !selected {
		t.Fatalf("first toggle: selected=%v err=%v", selected, err)
	}
	selected, err = s.Toggle("q1", nil)
	if err != nil || selected {
		t.Fatalf("second toggle: selected=%v err=%v", selected, err)
	}
	if s.Len() != 0 {
		t.Errorf("selection not empty: %v", s.IDs())
	}
}

// TestToggleKeepsOrder checks ids come back in selection order after a
// removal in the middle.
func TestToggleKeepsOrder(t *testing.T) {
	s := NewSelection()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.Toggle(id, nil); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Toggle("b", nil); err != nil {
		t.Fatal(err)
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("ids = %v, want [a c]", got)
	}
}

// TestToggleUnavailable refuses to select a claimed quadra but still lets
// an already-selected one be removed.
func TestToggleUnavailable(t *testing.T) {
	s := NewSelection()
	if _, err := s.Toggle("q1", nil); err != nil {
		t.Fatal(err)
	}

	unavailable := map[string]struct{}{"q1": {}, "q2": {}}

	if _, err := s.Toggle("q2", unavailable); !errors.Is(err, ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
	selected, err := s.Toggle("q1", unavailable)
	if err != nil || selected {
		t.Errorf("deselect of claimed quadra: selected=%v err=%v", selected, err)
	}
}

func TestComputeUnavailableIDs(t *testing.T) {
	cards := []Card{
		{CardID: "c1", QuadraIDs: []string{"q1", "q2"}},
		{CardID: "c2", QuadraIDs: []string{"q3"}},
	}

	got := ComputeUnavailableIDs(cards)
	if len(got) != 3 {
		t.Fatalf("got %v, want 3 ids", got)
	}

	got = ComputeUnavailableIDs(cards, "c1")
	if _, ok := got["q1"]; ok {
		t.Error("excluded card's members should not be unavailable")
	}
	if _, ok := got["q3"]; !ok {
		t.Error("other cards' members must stay unavailable")
	}
}
