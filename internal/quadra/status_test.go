package quadra

import "testing"

// TestStatusCycle walks the full cycle back to the starting state.
func TestStatusCycle(t *testing.T) {
	s := StatusNotStarted
	steps := []Status{StatusInProgress, StatusCompleted, StatusNotStarted}
	for i, want := range steps {
		s = s.Next()
		if s != want {
			t.Fatalf("step %d: got %q, want %q", i, s, want)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]Status{
		"nao_iniciado": StatusNotStarted,
		"em_andamento": StatusInProgress,
		"concluido":    StatusCompleted,
		"":             StatusNotStarted,
		"garbage":      StatusNotStarted,
	}
	for raw, want := range cases {
		if got := NormalizeStatus(raw); got != want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestStatusColor(t *testing.T) {
	if StatusCompleted.Color() != "#22c55e" {
		t.Error("concluido should render green")
	}
	if StatusInProgress.Color() != "#ef4444" {
		t.Error("em_andamento should render red")
	}
	if StatusNotStarted.Color() != "#9ca3af" {
		t.Error("nao_iniciado should render gray")
	}
}

// TestNextFromUnknown keeps a corrupt status from wedging the cycle.
func TestNextFromUnknown(t *testing.T) {
	if got := Status("???").Next(); got != StatusInProgress {
		t.Errorf("Next from unknown = %q, want %q", got, StatusInProgress)
	}
}
