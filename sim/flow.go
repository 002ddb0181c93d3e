// Defines the Flow struct that models one transfer across the shared link.
// Tracks total and remaining bytes, arrival time, and the recorded completion time.

package sim

import (
	"fmt"
)

// FlowState represents the lifecycle state of a flow.
type FlowState string

const (
	StateActive    FlowState = "active"
	StateCompleted FlowState = "completed"
)

// FlowSpec is the input description of one flow.
type FlowSpec struct {
	Size      int64   // total bytes to transfer (must be > 0)
	StartTime float64 // seconds at which the flow becomes eligible (0 in the reference scenario)
}

// Flow is one transfer across the shared link, tracked from creation until its last byte is sent.
type Flow struct {
	Index int // position in the simulation input; breaks ties between equal remaining sizes

	TotalSize     int64   // fixed at creation
	RemainingSize int64   // non-increasing, 0 <= RemainingSize <= TotalSize
	StartTime     float64 // seconds

	State          FlowState // active, completed
	FramesSent     int64     // quanta consumed by this flow so far
	completionTime float64   // valid only in StateCompleted

	heapIndex int // position in a heapActiveSet, -1 when not held by one
}

// NewFlow creates an active flow with all of its bytes remaining.
func NewFlow(index int, spec FlowSpec) *Flow {
	return &Flow{
		Index:         index,
		TotalSize:     spec.Size,
		RemainingSize: spec.Size,
		StartTime:     spec.StartTime,
		State:         StateActive,
		heapIndex:     -1,
	}
}

// IsDone reports whether every byte of the flow has been sent.
func (f *Flow) IsDone() bool {
	return f.RemainingSize == 0
}

// CompletionTime returns the elapsed time from StartTime to the flow's last frame.
// The second return value is false while the flow is still active.
func (f *Flow) CompletionTime() (float64, bool) {
	if f.State != StateCompleted {
		return 0, false
	}
	return f.completionTime, true
}

// sendFrame deducts up to one frame's payload and, on the transition to zero
// remaining bytes, records the completion time. Returns the bytes deducted.
// The flow must be active with RemainingSize in (0, TotalSize].
func (f *Flow) sendFrame(payload int64, now float64) int64 {
	if f.State == StateCompleted {
		panic(fmt.Sprintf("sendFrame: flow %d already completed", f.Index))
	}
	if f.RemainingSize <= 0 || f.RemainingSize > f.TotalSize {
		panic(fmt.Sprintf("sendFrame: flow %d remaining size %d outside (0, %d]", f.Index, f.RemainingSize, f.TotalSize))
	}
	sent := min(payload, f.RemainingSize)
	f.RemainingSize -= sent
	f.FramesSent++
	if f.IsDone() {
		f.completionTime = now - f.StartTime
		f.State = StateCompleted
	}
	return sent
}

// This method returns a human-readable string representation of a Flow.
func (f Flow) String() string {
	return fmt.Sprintf("Flow: (Index: %d, State: %s, Remaining: %d/%d, StartTime: %g)", f.Index, f.State, f.RemainingSize, f.TotalSize, f.StartTime)
}
