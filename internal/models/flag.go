package models

// CartFlag remote "cart enabled" flag as last observed for an identity.
type CartFlag int

const (
	// FlagUnknown the remote store did not give an unambiguous answer; mutations are blocked.
	FlagUnknown CartFlag = iota
	FlagEnabled
	FlagDisabled
)

// FlagFromBool converts an explicit boolean answer.
func FlagFromBool(enabled bool) CartFlag {
	if enabled {
		return FlagEnabled
	}
	return FlagDisabled
}

func (f CartFlag) String() string {
	switch f {
	case FlagEnabled:
		return "enabled"
	case FlagDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}
