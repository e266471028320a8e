package worklog

import "time"

// Status strings as they appear on the wire. Kept local so this package
// doesn't depend on the quadra package.
const (
	statusNotStarted = "nao_iniciado"
	statusInProgress = "em_andamento"
	statusCompleted  = "concluido"
)

type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterInProgress Filter = "in_progress"
)

// QuadraLog is the per-quadra work summary derived from raw transitions.
type QuadraLog struct {
	QuadraID     string     `json:"quadra_id"`
	QuadraNome   string     `json:"quadra_nome"`
	QuadraNumber string     `json:"quadra_number"`
	Start        *time.Time `json:"start,omitempty"`
	Finish       *time.Time `json:"finish,omitempty"`
}

// FoldLogs replays transitions in order and derives one summary per quadra,
// in order of first appearance. The rules:
//
//   - the first move into em_andamento stamps the start date
//   - every move into concluido stamps (or overwrites) the finish date
//   - em_andamento back to nao_iniciado is a reset and clears both dates
//   - concluido back to nao_iniciado keeps the dates; the work happened,
//     restarting the cycle shouldn't erase the record
func FoldLogs(entries []Entry) []QuadraLog {
	byID := make(map[string]*QuadraLog)
	var order []string

	for _, e := range entries {
		lg, ok := byID[e.QuadraID]
		if !ok {
			lg = &QuadraLog{QuadraID: e.QuadraID, QuadraNome: e.QuadraNome, QuadraNumber: e.QuadraNumber}
			byID[e.QuadraID] = lg
			order = append(order, e.QuadraID)
		}
		// Later entries may carry an updated name or number.
		if e.QuadraNome != "" {
			lg.QuadraNome = e.QuadraNome
		}
		if e.QuadraNumber != "" {
			lg.QuadraNumber = e.QuadraNumber
		}

		switch e.ToStatus {
		case statusInProgress:
			if lg.Start == nil {
				t := e.CreatedAt
				lg.Start = &t
			}
		case statusCompleted:
			t := e.CreatedAt
			lg.Finish = &t
		case statusNotStarted:
			if e.FromStatus == statusInProgress {
				lg.Start = nil
				lg.Finish = nil
			}
		}
	}

	out := make([]QuadraLog, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

// FilterLogs narrows folded summaries: completed means a finish date exists,
// in_progress means started but not finished.
func FilterLogs(logs []QuadraLog, f Filter) []QuadraLog {
	if f == "" || f == FilterAll {
		return logs
	}
	var out []QuadraLog
	for _, lg := range logs {
		switch f {
		case FilterCompleted:
			if lg.Finish != nil {
				out = append(out, lg)
			}
		case FilterInProgress:
			if lg.Start != nil && lg.Finish == nil {
				out = append(out, lg)
			}
		}
	}
	return out
}
