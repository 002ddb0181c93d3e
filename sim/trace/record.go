// Package trace provides per-tick recording for the ideal flow scheduler.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// TickRecord captures the scheduling decision made in one quantum.
type TickRecord struct {
	Tick           int64   `yaml:"tick"`
	Clock          float64 `yaml:"clock"` // simulation time at the end of the quantum, seconds
	FlowIndex      int     `yaml:"flow"`
	Sent           int64   `yaml:"sent"` // payload bytes deducted this tick
	RemainingAfter int64   `yaml:"remaining_after"`
	Completed      bool    `yaml:"completed"`
}

// ArrivalRecord captures a flow joining the active set.
type ArrivalRecord struct {
	FlowIndex int     `yaml:"flow"`
	Clock     float64 `yaml:"clock"`
}
