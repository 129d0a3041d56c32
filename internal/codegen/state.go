package codegen

//go:generate go tool stringer -type=State -trimprefix=State -output=state_string.go

// State is the lifecycle state of a generation unit.
type State int

const (
	StateNotStarted State = iota
	StateGenerating
	StateDone
	StateFailed
)
