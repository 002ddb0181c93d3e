package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTicks    int
	BytesSent     int64
	Completions   int
	PartialFrames int         // ticks that sent less than the link payload
	FramesPerFlow map[int]int // flow index → quanta it was served
	Preemptions   int         // ticks whose flow differs from the previous tick's unfinished flow
	Drained       bool        // BytesSent equals the trace's TotalBytes
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		FramesPerFlow: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	prev := -1
	for _, r := range st.Ticks {
		summary.TotalTicks++
		summary.BytesSent += r.Sent
		summary.FramesPerFlow[r.FlowIndex]++
		if r.Completed {
			summary.Completions++
		}
		if r.Sent < st.Payload {
			summary.PartialFrames++
		}
		if prev != -1 && prev != r.FlowIndex {
			summary.Preemptions++
		}
		prev = r.FlowIndex
		if r.Completed {
			prev = -1
		}
	}
	summary.Drained = summary.BytesSent == st.TotalBytes

	return summary
}
