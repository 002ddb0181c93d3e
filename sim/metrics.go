// Collects per-flow completion times and run-wide statistics for reporting.

package sim

import (
	"fmt"
	"io"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/pfabric-eval/idealfct/sim/trace"
)

// FlowResult is the terminal record of one flow.
type FlowResult struct {
	Index          int     `yaml:"index"`
	Size           int64   `yaml:"size"`
	StartTime      float64 `yaml:"start_time"`
	Frames         int64   `yaml:"frames"`
	CompletionTime float64 `yaml:"completion_time"` // seconds; NaN if the flow never completed
}

// Results aggregates the outcome of a simulation run for final reporting.
type Results struct {
	CompletionTimes []float64    `yaml:"completion_times"` // input order, seconds
	Flows           []FlowResult `yaml:"flows"`
	Ticks           int64        `yaml:"ticks"`
	Makespan        float64      `yaml:"makespan"` // clock at the last tick, seconds
	Quantum         float64      `yaml:"quantum"`
	Payload         int64        `yaml:"payload"`
	// Trace is set only when the run recorded ticks.
	Trace *trace.SimulationTrace `yaml:"trace,omitempty"`
}

// Summary holds distribution statistics over completion times, in seconds.
type Summary struct {
	Count int     `yaml:"count"`
	Mean  float64 `yaml:"mean"`
	Min   float64 `yaml:"min"`
	P50   float64 `yaml:"p50"`
	P90   float64 `yaml:"p90"`
	P99   float64 `yaml:"p99"`
	Max   float64 `yaml:"max"`
}

// completed returns the completion times of finished flows, sorted ascending.
func (r *Results) completed() []float64 {
	out := make([]float64, 0, len(r.CompletionTimes))
	for _, ct := range r.CompletionTimes {
		if !math.IsNaN(ct) {
			out = append(out, ct)
		}
	}
	slices.Sort(out)
	return out
}

// Summarize computes completion-time statistics. Zero-valued for a run with no flows.
func (r *Results) Summarize() Summary {
	data := r.completed()
	if len(data) == 0 {
		return Summary{}
	}
	return Summary{
		Count: len(data),
		Mean:  stat.Mean(data, nil),
		Min:   data[0],
		P50:   stat.Quantile(0.50, stat.Empirical, data, nil),
		P90:   stat.Quantile(0.90, stat.Empirical, data, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, data, nil),
		Max:   data[len(data)-1],
	}
}

// Print writes the completion times in the log format downstream FCT scrapers read,
// preceded by the tick lines when the run was traced.
func (r *Results) Print(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Time quantum: %f\n", r.Quantum); err != nil {
		return err
	}
	if r.Trace != nil {
		if err := r.Trace.Print(w); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "All flows completed"); err != nil {
		return err
	}
	for i, ct := range r.CompletionTimes {
		if _, err := fmt.Fprintf(w, "Flow %d completion time: %f\n", i, ct); err != nil {
			return err
		}
	}
	return nil
}

// report is the YAML document written by WriteYAML.
type report struct {
	Results Results `yaml:",inline"`
	Summary Summary `yaml:"summary"`
}

// WriteYAML writes the results and their summary as a YAML document.
func (r *Results) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report{Results: *r, Summary: r.Summarize()}); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return enc.Close()
}
