package quadra

// Status is the work state of a quadra on the map.
type Status string

const (
	StatusNotStarted Status = "nao_iniciado"
	StatusInProgress Status = "em_andamento"
	StatusCompleted  Status = "concluido"
)

// Next cycles nao_iniciado -> em_andamento -> concluido -> nao_iniciado.
func (s Status) Next() Status {
	switch s {
	case StatusNotStarted:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	case StatusCompleted:
		return StatusNotStarted
	default:
		return StatusInProgress
	}
}

// Color is the display color clients paint the quadra with.
func (s Status) Color() string {
	switch s {
	case StatusCompleted:
		return "#22c55e"
	case StatusInProgress:
		return "#ef4444"
	default:
		return "#9ca3af"
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// NormalizeStatus maps unknown or missing values to nao_iniciado so a
// hand-edited dataset can't put a quadra into an unreachable state.
func NormalizeStatus(raw string) Status {
	s := Status(raw)
	if s.Valid() {
		return s
	}
	return StatusNotStarted
}
