package mutation

// State состояние мутации позиции
type State int

const (
	StateIdle State = iota
	StatePending
	StateConfirmed
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// key мутация принадлежит позиции в рамках поколения Store (identity)
type key struct {
	itemID string
	gen    uint64
}

// transitions допустимые переходы; Pending эксклюзивен
var transitions = map[State][]State{
	StateIdle:       {StatePending},
	StatePending:    {StateConfirmed, StateRolledBack},
	StateConfirmed:  {StatePending},
	StateRolledBack: {StatePending},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
