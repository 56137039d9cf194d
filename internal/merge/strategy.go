package merge

// Strategy defines the precedence policy applied when a category exists in
// both trees.
type Strategy string

const (
	// StrategyTimestamp takes whichever side is strictly newer and surfaces
	// exact ties as conflicts. This is the default.
	StrategyTimestamp Strategy = "timestamp-based"

	// StrategyLocalWins always takes the local side, even when the remote is
	// objectively newer. Never produces conflicts.
	StrategyLocalWins Strategy = "local-wins"

	// StrategyRemoteWins always takes the remote side. Never produces
	// conflicts.
	StrategyRemoteWins Strategy = "remote-wins"
)

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = StrategyTimestamp

// IsValid returns true if the strategy is recognized.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyTimestamp, StrategyLocalWins, StrategyRemoteWins:
		return true
	default:
		return false
	}
}

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategyTimestamp:
		return "Take whichever side is strictly newer; surface ties as conflicts"
	case StrategyLocalWins:
		return "Always take the local version"
	case StrategyRemoteWins:
		return "Always take the remote version"
	default:
		return "Unknown strategy"
	}
}

// AllStrategies returns all supported merge strategies.
func AllStrategies() []Strategy {
	return []Strategy{StrategyTimestamp, StrategyLocalWins, StrategyRemoteWins}
}
