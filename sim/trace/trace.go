package trace

import (
	"fmt"
	"io"
)

// TraceLevel controls the verbosity of tick tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTicks captures every quantum's selection and every arrival.
	TraceLevelTicks TraceLevel = "ticks"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelTicks: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether the config asks for any recording.
func (c TraceConfig) Enabled() bool {
	return c.Level != "" && c.Level != TraceLevelNone
}

// SimulationTrace collects records during a simulation run.
// Payload and TotalBytes are set by the simulator so summaries can be checked
// against the link and the input.
type SimulationTrace struct {
	Config     TraceConfig     `yaml:"-"`
	Payload    int64           `yaml:"payload"`     // bytes a full frame carries
	TotalBytes int64           `yaml:"total_bytes"` // sum of all flow sizes
	Arrivals   []ArrivalRecord `yaml:"arrivals"`
	Ticks      []TickRecord    `yaml:"ticks"`
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:   config,
		Arrivals: make([]ArrivalRecord, 0),
		Ticks:    make([]TickRecord, 0),
	}
}

// RecordArrival appends an arrival record.
func (st *SimulationTrace) RecordArrival(record ArrivalRecord) {
	st.Arrivals = append(st.Arrivals, record)
}

// RecordTick appends a tick record.
func (st *SimulationTrace) RecordTick(record TickRecord) {
	st.Ticks = append(st.Ticks, record)
}

// Print writes one line per arrival and tick in recording order.
func (st *SimulationTrace) Print(w io.Writer) error {
	for _, a := range st.Arrivals {
		if _, err := fmt.Fprintf(w, "Arrival: flow %d at %f\n", a.FlowIndex, a.Clock); err != nil {
			return err
		}
	}
	for _, r := range st.Ticks {
		done := ""
		if r.Completed {
			done = " (completed)"
		}
		if _, err := fmt.Fprintf(w, "Tick %d at %f: flow %d sent %d, %d remaining%s\n",
			r.Tick, r.Clock, r.FlowIndex, r.Sent, r.RemainingAfter, done); err != nil {
			return err
		}
	}
	return nil
}
