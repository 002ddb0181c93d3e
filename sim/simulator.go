// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/pfabric-eval/idealfct/sim/trace"
)

// SimConfig groups everything that parameterizes a run besides the flows themselves.
type SimConfig struct {
	Link      LinkConfig
	ActiveSet string            // "heap" (default) or "scan"
	Trace     trace.TraceConfig // zero value disables tracing
}

// DefaultSimConfig returns the reference link with a heap-backed active set and no tracing.
func DefaultSimConfig() SimConfig {
	return SimConfig{Link: DefaultLinkConfig()}
}

// Simulator is the core object that holds simulation time, the flow arena, and the tick loop.
type Simulator struct {
	Clock float64 // seconds; advances by exactly one quantum per tick
	Ticks int64
	Link  LinkConfig
	// Flows is the arena of every flow in input order. It is never reordered or filtered.
	Flows []*Flow
	// Active holds the flows eligible for service that still have bytes remaining.
	Active ActiveSet
	// Trace is nil unless SimConfig.Trace enables recording.
	Trace *trace.SimulationTrace

	// Pending holds flows whose StartTime has not been reached yet.
	Pending *ArrivalQueue

	quantum float64
	payload int64
}

// validateFlowSpecs rejects the whole input before any simulation work is done.
func validateFlowSpecs(specs []FlowSpec) error {
	for i, s := range specs {
		if s.Size <= 0 {
			return &InvalidInputError{Index: i, Value: fmt.Sprint(s.Size), Reason: "flow size must be positive"}
		}
		if math.IsNaN(s.StartTime) || math.IsInf(s.StartTime, 0) || s.StartTime < 0 {
			return &InvalidInputError{Index: i, Value: fmt.Sprint(s.StartTime), Reason: "start time must be finite and non-negative"}
		}
	}
	return nil
}

// NewSimulator validates cfg and specs and returns a simulator at clock 0.
func NewSimulator(cfg SimConfig, specs []FlowSpec) (*Simulator, error) {
	if err := cfg.Link.Validate(); err != nil {
		return nil, fmt.Errorf("link config: %w", err)
	}
	if !IsValidActiveSet(cfg.ActiveSet) {
		return nil, fmt.Errorf("unknown active set %q (valid: %v)", cfg.ActiveSet, ValidActiveSetNames())
	}
	if !trace.IsValidTraceLevel(string(cfg.Trace.Level)) {
		return nil, fmt.Errorf("unknown trace level %q", cfg.Trace.Level)
	}
	if err := validateFlowSpecs(specs); err != nil {
		return nil, err
	}

	s := &Simulator{
		Link:    cfg.Link,
		Flows:   make([]*Flow, len(specs)),
		Active:  NewActiveSet(cfg.ActiveSet),
		quantum: cfg.Link.Quantum(),
		payload: cfg.Link.Payload(),
	}
	for i, spec := range specs {
		s.Flows[i] = NewFlow(i, spec)
	}
	if cfg.Trace.Enabled() {
		s.Trace = trace.NewSimulationTrace(cfg.Trace)
		s.Trace.Payload = s.payload
		s.Trace.TotalBytes = s.RemainingBytes()
	}
	s.Pending = NewArrivalQueue(s.Flows)
	return s, nil
}

// Quantum returns the tick length in seconds.
func (sim *Simulator) Quantum() float64 { return sim.quantum }

// Payload returns the flow bytes served per tick.
func (sim *Simulator) Payload() int64 { return sim.payload }

// Done reports whether every flow has completed.
func (sim *Simulator) Done() bool {
	return sim.Active.Len() == 0 && sim.Pending.Len() == 0
}

// RemainingBytes sums RemainingSize over all flows that have not completed.
func (sim *Simulator) RemainingBytes() int64 {
	var total int64
	for _, f := range sim.Flows {
		total += f.RemainingSize
	}
	return total
}

// admitArrivals moves every pending flow whose StartTime has been reached into the active set.
func (sim *Simulator) admitArrivals() {
	for f := sim.Pending.DequeueArrived(sim.Clock); f != nil; f = sim.Pending.DequeueArrived(sim.Clock) {
		sim.Active.Add(f)
		if sim.Trace != nil {
			sim.Trace.RecordArrival(trace.ArrivalRecord{FlowIndex: f.Index, Clock: sim.Clock})
		}
		logrus.Debugf("[tick %07d] flow %d arrived (%d bytes)", sim.Ticks, f.Index, f.TotalSize)
	}
}

// Step serves one quantum: advance the clock, send one frame of the flow with the
// least remaining bytes, and retire it if it finished. Returns false without touching
// the clock once every flow has completed.
func (sim *Simulator) Step() bool {
	sim.admitArrivals()
	if sim.Active.Len() == 0 {
		next := sim.Pending.Peek()
		if next == nil {
			return false
		}
		// Link idle until the next arrival.
		sim.Clock = next.StartTime
		sim.admitArrivals()
	}

	sim.Clock += sim.quantum
	sim.Ticks++

	f := sim.Active.Min()
	sent := f.sendFrame(sim.payload, sim.Clock)
	sim.Active.Update(f)

	logrus.Tracef("[tick %07d] clock=%f flow=%d sent=%d remaining=%d", sim.Ticks, sim.Clock, f.Index, sent, f.RemainingSize)
	if sim.Trace != nil {
		sim.Trace.RecordTick(trace.TickRecord{
			Tick:           sim.Ticks,
			Clock:          sim.Clock,
			FlowIndex:      f.Index,
			Sent:           sent,
			RemainingAfter: f.RemainingSize,
			Completed:      f.IsDone(),
		})
	}
	if f.IsDone() {
		ct, _ := f.CompletionTime()
		logrus.Debugf("[tick %07d] flow %d completed after %f sec", sim.Ticks, f.Index, ct)
	}
	return true
}

// Run steps until every flow has completed and returns the collected results.
// The loop terminates after at most ceil(total bytes / payload) serving ticks.
func (sim *Simulator) Run() *Results {
	logrus.Infof("Time quantum: %f", sim.quantum)
	for sim.Step() {
	}
	logrus.Infof("All flows completed at %f sec after %d ticks", sim.Clock, sim.Ticks)
	return sim.Results()
}

// Results snapshots the per-flow outcomes in input order.
// Completion times of flows still in flight are reported as NaN.
func (sim *Simulator) Results() *Results {
	r := &Results{
		CompletionTimes: make([]float64, len(sim.Flows)),
		Flows:           make([]FlowResult, len(sim.Flows)),
		Ticks:           sim.Ticks,
		Makespan:        sim.Clock,
		Quantum:         sim.quantum,
		Payload:         sim.payload,
		Trace:           sim.Trace,
	}
	for i, f := range sim.Flows {
		ct, ok := f.CompletionTime()
		if !ok {
			ct = math.NaN()
		}
		r.CompletionTimes[i] = ct
		r.Flows[i] = FlowResult{
			Index:          f.Index,
			Size:           f.TotalSize,
			StartTime:      f.StartTime,
			Frames:         f.FramesSent,
			CompletionTime: ct,
		}
	}
	return r
}

// ScheduleFlows runs a complete simulation over specs.
func ScheduleFlows(cfg SimConfig, specs []FlowSpec) (*Results, error) {
	s, err := NewSimulator(cfg, specs)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}

// Schedule computes ideal completion times, in input order, for flows of the given
// sizes that all start at time 0 on link.
func Schedule(link LinkConfig, sizes []int64) ([]float64, error) {
	specs := make([]FlowSpec, len(sizes))
	for i, size := range sizes {
		specs[i] = FlowSpec{Size: size}
	}
	r, err := ScheduleFlows(SimConfig{Link: link}, specs)
	if err != nil {
		return nil, err
	}
	return r.CompletionTimes, nil
}
