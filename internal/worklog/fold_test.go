package worklog

import (
	"testing"
	"time"
)

func at(day int) time.Time {
	return time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC)
}

func entry(quadraID string, day int, from, to string) Entry {
	return Entry{
		QuadraID:     quadraID,
		QuadraNome:   "Quadra " + quadraID,
		QuadraNumber: quadraID,
		FromStatus:   from,
		ToStatus:     to,
		CreatedAt:    at(day),
	}
}

// TestFoldStartAndFinish stamps start on the first em_andamento and finish
// on concluido.
func TestFoldStartAndFinish(t *testing.T) {
	logs := FoldLogs([]Entry{
		entry("q1", 1, statusNotStarted, statusInProgress),
		entry("q1", 5, statusInProgress, statusCompleted),
	})
	if len(logs) != 1 {
		t.Fatalf("got %d logs", len(logs))
	}
	lg := logs[0]
	if lg.Start == nil || !lg.Start.Equal(at(1)) {
		t.Errorf("start = %v, want day 1", lg.Start)
	}
	if lg.Finish == nil || !lg.Finish.Equal(at(5)) {
		t.Errorf("finish = %v, want day 5", lg.Finish)
	}
	if lg.QuadraNome != "Quadra q1" {
		t.Errorf("nome = %q, want it carried through the fold", lg.QuadraNome)
	}
}

// TestFoldFirstStartWins keeps the original start when the quadra re-enters
// em_andamento without a reset in between.
func TestFoldFirstStartWins(t *testing.T) {
	logs := FoldLogs([]Entry{
		entry("q1", 1, statusNotStarted, statusInProgress),
		entry("q1", 2, statusInProgress, statusCompleted),
		entry("q1", 3, statusCompleted, statusNotStarted),
		entry("q1", 4, statusNotStarted, statusInProgress),
	})
	if lg := logs[0]; lg.Start == nil || !lg.Start.Equal(at(1)) {
		t.Errorf("start = %v, want the original day 1", lg.Start)
	}
}

// TestFoldFinishOverwrites lets a later completion replace the finish date.
func TestFoldFinishOverwrites(t *testing.T) {
	logs := FoldLogs([]Entry{
		entry("q1", 1, statusNotStarted, statusInProgress),
		entry("q1", 2, statusInProgress, statusCompleted),
		entry("q1", 3, statusCompleted, statusNotStarted),
		entry("q1", 4, statusNotStarted, statusInProgress),
		entry("q1", 8, statusInProgress, statusCompleted),
	})
	if lg := logs[0]; lg.Finish == nil || !lg.Finish.Equal(at(8)) {
		t.Errorf("finish = %v, want day 8", lg.Finish)
	}
}

// TestFoldReset clears both dates when work is abandoned from em_andamento.
func TestFoldReset(t *testing.T) {
	logs := FoldLogs([]Entry{
		entry("q1", 1, statusNotStarted, statusInProgress),
		entry("q1", 2, statusInProgress, statusNotStarted),
	})
	if lg := logs[0]; lg.Start != nil || lg.Finish != nil {
		t.Errorf("expected cleared dates, got start=%v finish=%v", lg.Start, lg.Finish)
	}
}

// TestFoldCompletedCyclePreservesDates keeps the record when the cycle
// wraps from concluido back to nao_iniciado.
func TestFoldCompletedCyclePreservesDates(t *testing.T) {
	logs := FoldLogs([]Entry{
		entry("q1", 1, statusNotStarted, statusInProgress),
		entry("q1", 2, statusInProgress, statusCompleted),
		entry("q1", 3, statusCompleted, statusNotStarted),
	})
	lg := logs[0]
	if lg.Start == nil || lg.Finish == nil {
		t.Errorf("cycle wrap erased dates: start=%v finish=%v", lg.Start, lg.Finish)
	}
}

// TestFoldOrder preserves first-appearance order across quadras.
func TestFoldOrder(t *testing.T) {
	logs := FoldLogs([]Entry{
		entry("q2", 1, statusNotStarted, statusInProgress),
		entry("q1", 2, statusNotStarted, statusInProgress),
		entry("q2", 3, statusInProgress, statusCompleted),
	})
	if len(logs) != 2 || logs[0].QuadraID != "q2" || logs[1].QuadraID != "q1" {
		t.Errorf("order = %v", logs)
	}
}

func TestFilterLogs(t *testing.T) {
	start, finish := at(1), at(2)
	logs := []QuadraLog{
		{QuadraID: "done", Start: &start, Finish: &finish},
		{QuadraID: "working", Start: &start},
		{QuadraID: "untouched"},
	}

	if got := FilterLogs(logs, FilterAll); len(got) != 3 {
		t.Errorf("all: got %d", len(got))
	}
	if got := FilterLogs(logs, FilterCompleted); len(got) != 1 || got[0].QuadraID != "done" {
		t.Errorf("completed: got %v", got)
	}
	if got := FilterLogs(logs, FilterInProgress); len(got) != 1 || got[0].QuadraID != "working" {
		t.Errorf("in_progress: got %v", got)
	}
}

// TestBuildRegister smoke-tests the PDF path: non-empty output with the
// %PDF magic.
func TestBuildRegister(t *testing.T) {
	start, finish := at(1), at(20)
	logs := []QuadraLog{
		{QuadraID: "q1", QuadraNumber: "1", Start: &start, Finish: &finish},
		{QuadraID: "q2", QuadraNumber: "2", Start: &start},
		{QuadraID: "q3", QuadraNumber: "3"},
	}

	data, err := BuildRegister(logs, "Dormentes", 2026)
	if err != nil {
		t.Fatalf("BuildRegister: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		t.Errorf("output does not look like a PDF (%d bytes)", len(data))
	}
}

func TestRegisterFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	want := "registro-designacao-territorio-2026-2026-08-29.pdf"
	if got := RegisterFilename(2026, now); got != want {
		t.Errorf("filename = %q, want %q", got, want)
	}
}
