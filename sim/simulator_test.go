package sim

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfabric-eval/idealfct/sim/trace"
)

func TestSchedule_ReferenceScenarios(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int64
		want  []float64
	}{
		{"one full frame", []int64{1466}, []float64{nQuanta(1)}},
		{"two equal flows, lower index first", []int64{1466, 1466}, []float64{nQuanta(1), nQuanta(2)}},
		{"exactly two payloads", []int64{2932}, []float64{nQuanta(2)}},
		// flow 1 needs ceil(5000/1466) = 4 frames after waiting one tick for flow 0
		{"small flow preempts large", []int64{1000, 5000}, []float64{nQuanta(1), nQuanta(5)}},
		{"one byte past a payload", []int64{1467}, []float64{nQuanta(2)}},
		{"empty", []int64{}, []float64{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// WHEN the reference link schedules the flows
			got, err := Schedule(DefaultLinkConfig(), tc.sizes)

			// THEN completion times are bit-identical to the accumulated quanta
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSchedule_ApproximateReferenceValues(t *testing.T) {
	got, err := Schedule(DefaultLinkConfig(), []int64{1466, 1466})
	require.NoError(t, err)
	assert.InDelta(t, 1.2e-4, got[0], 1e-12)
	assert.InDelta(t, 2.4e-4, got[1], 1e-12)
}

func TestSimulator_Empty_ClockNeverAdvances(t *testing.T) {
	// GIVEN no flows
	s := mustNewSimulator(t, "", nil)

	// WHEN the simulation runs
	r := s.Run()

	// THEN nothing happened
	assert.Equal(t, 0.0, s.Clock)
	assert.Equal(t, int64(0), s.Ticks)
	assert.Empty(t, r.CompletionTimes)
	assert.False(t, s.Step())
}

func TestSchedule_InvalidInput_NamesOffendingElement(t *testing.T) {
	tests := []struct {
		name      string
		sizes     []int64
		wantIndex int
	}{
		{"zero", []int64{100, 0, 200}, 1},
		{"negative", []int64{-1}, 0},
		{"last", []int64{1, 2, 3, -4}, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Schedule(DefaultLinkConfig(), tc.sizes)

			assert.Nil(t, got)
			require.ErrorIs(t, err, ErrInvalidInput)
			var invalid *InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tc.wantIndex, invalid.Index)
		})
	}
}

func TestNewSimulator_RejectsBadConfig(t *testing.T) {
	_, err := NewSimulator(SimConfig{Link: LinkConfig{FrameSize: 100, FrameOverhead: 200, LinkCapacity: 1}}, testSpecs(1))
	assert.Error(t, err)

	_, err = NewSimulator(SimConfig{Link: DefaultLinkConfig(), ActiveSet: "fifo"}, testSpecs(1))
	assert.Error(t, err)

	_, err = NewSimulator(SimConfig{Link: DefaultLinkConfig(), Trace: trace.TraceConfig{Level: "verbose"}}, testSpecs(1))
	assert.Error(t, err)

	_, err = NewSimulator(DefaultSimConfig(), []FlowSpec{{Size: 10, StartTime: math.NaN()}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSimulator_Determinism_IdenticalRuns(t *testing.T) {
	// GIVEN a fixed input
	sizes := testRandomSizes(42, 60, 50_000)

	// WHEN scheduled twice
	first, err := Schedule(DefaultLinkConfig(), sizes)
	require.NoError(t, err)
	second, err := Schedule(DefaultLinkConfig(), sizes)
	require.NoError(t, err)

	// THEN the outputs are bit-identical
	assert.Equal(t, first, second)
}

func TestSimulator_HeapAndScan_IdenticalResults(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		sizes := testRandomSizes(seed, 50, 30_000)
		specs := testSpecs(sizes...)

		heapRun := mustNewSimulator(t, "heap", specs).Run()
		scanRun := mustNewSimulator(t, "scan", specs).Run()

		assert.Equal(t, heapRun.CompletionTimes, scanRun.CompletionTimes, "seed %d", seed)
		assert.Equal(t, heapRun.Ticks, scanRun.Ticks, "seed %d", seed)
	}
}

func TestSimulator_MonotonicDrain(t *testing.T) {
	// GIVEN a simulator over mixed sizes
	sizes := testRandomSizes(11, 25, 10_000)
	s := mustNewSimulator(t, "", testSpecs(sizes...))
	before := s.RemainingBytes()

	// WHEN stepping tick by tick
	for !s.Done() {
		// record what the selected flow can send this tick
		s.admitArrivals()
		want := min(s.Payload(), s.Active.Min().RemainingSize)

		require.True(t, s.Step())

		// THEN the total remaining drops by exactly min(payload, remaining of selected)
		after := s.RemainingBytes()
		require.Equal(t, want, before-after, "tick %d", s.Ticks)
		before = after
	}
	assert.Equal(t, int64(0), before)
}

func TestSimulator_Terminates_WithinFrameBound(t *testing.T) {
	sizes := testRandomSizes(5, 30, 40_000)
	s := mustNewSimulator(t, "", testSpecs(sizes...))
	s.Run()

	var frames int64
	for _, size := range sizes {
		frames += (size + s.Payload() - 1) / s.Payload()
	}
	assert.Equal(t, frames, s.Ticks, "every tick serves exactly one frame of one flow")
	assert.Equal(t, nQuanta(int(frames)), s.Clock)
}

func TestSimulator_SmallerFlowNeverFinishesLater(t *testing.T) {
	// GIVEN distinct sizes
	sizes := testRandomSizes(9, 40, 100_000)
	got, err := Schedule(DefaultLinkConfig(), sizes)
	require.NoError(t, err)

	// THEN size order implies completion order
	for i := range sizes {
		for j := range sizes {
			if sizes[i] < sizes[j] {
				assert.LessOrEqual(t, got[i], got[j], "flow %d (%d B) vs flow %d (%d B)", i, sizes[i], j, sizes[j])
			}
		}
	}
}

func TestSimulator_TieBreakLaw_LowerIndexFinishesFirst(t *testing.T) {
	// GIVEN several identical sizes interleaved with others
	sizes := []int64{4000, 2932, 9000, 2932, 2932, 4000}
	got, err := Schedule(DefaultLinkConfig(), sizes)
	require.NoError(t, err)

	// THEN among equal sizes completion follows index order
	assert.Less(t, got[1], got[3])
	assert.Less(t, got[3], got[4])
	assert.Less(t, got[0], got[5])

	// AND the full order is the stable sort by size
	order := []int{0, 1, 2, 3, 4, 5}
	slices.SortStableFunc(order, func(a, b int) int { return int(sizes[a] - sizes[b]) })
	for k := 1; k < len(order); k++ {
		assert.Less(t, got[order[k-1]], got[order[k]])
	}
}

func TestSimulator_ResultsInInputOrder(t *testing.T) {
	got, err := Schedule(DefaultLinkConfig(), []int64{5000, 1000})
	require.NoError(t, err)
	assert.Equal(t, []float64{nQuanta(5), nQuanta(1)}, got)
}

func TestSimulator_StaggeredArrival_PreemptsAtFrameBoundary(t *testing.T) {
	// GIVEN a large flow at t=0 and a one-frame flow arriving after two quanta
	q := DefaultLinkConfig().Quantum()
	specs := []FlowSpec{
		{Size: 1466 * 5},
		{Size: 1466, StartTime: nQuanta(2)},
	}

	// WHEN scheduled
	r, err := ScheduleFlows(DefaultSimConfig(), specs)
	require.NoError(t, err)

	// THEN the small flow is served on the very next tick and the large one resumes
	assert.InDelta(t, q, r.CompletionTimes[1], 1e-15)
	assert.Equal(t, nQuanta(6), r.CompletionTimes[0])
	assert.Equal(t, int64(6), r.Ticks)
}

func TestSimulator_StaggeredArrival_IdleLinkJumpsToArrival(t *testing.T) {
	// GIVEN a single flow arriving at t=1s
	r, err := ScheduleFlows(DefaultSimConfig(), []FlowSpec{{Size: 2932, StartTime: 1}})
	require.NoError(t, err)

	// THEN its completion time is measured from its arrival
	assert.InDelta(t, 2*DefaultLinkConfig().Quantum(), r.CompletionTimes[0], 1e-12)
	assert.Equal(t, int64(2), r.Ticks)
	assert.InDelta(t, 1+2*DefaultLinkConfig().Quantum(), r.Makespan, 1e-12)
}

func TestSimulator_AllZeroStartTimes_MatchesPlainSchedule(t *testing.T) {
	sizes := testRandomSizes(3, 20, 20_000)
	plain, err := Schedule(DefaultLinkConfig(), sizes)
	require.NoError(t, err)

	r, err := ScheduleFlows(DefaultSimConfig(), testSpecs(sizes...))
	require.NoError(t, err)
	assert.Equal(t, plain, r.CompletionTimes)
}

func TestSimulator_CustomLink(t *testing.T) {
	// GIVEN a 1Gb/s link with 9000-byte jumbo frames
	link := LinkConfig{FrameSize: 9000, FrameOverhead: 34, LinkCapacity: LinkCapacityFromMbps(1000)}

	got, err := Schedule(link, []int64{8966, 8967})

	require.NoError(t, err)
	q := link.Quantum()
	assert.Equal(t, []float64{q, q + q + q}, got)
}

func TestSimulator_Trace_RecordsEveryTick(t *testing.T) {
	// GIVEN tracing enabled
	cfg := DefaultSimConfig()
	cfg.Trace = trace.TraceConfig{Level: trace.TraceLevelTicks}
	s, err := NewSimulator(cfg, testSpecs(1000, 5000))
	require.NoError(t, err)

	// WHEN run
	s.Run()

	// THEN each tick is recorded with its selection
	require.NotNil(t, s.Trace)
	require.Len(t, s.Trace.Ticks, 5)
	assert.Len(t, s.Trace.Arrivals, 2)
	assert.Equal(t, 0, s.Trace.Ticks[0].FlowIndex)
	assert.Equal(t, int64(1000), s.Trace.Ticks[0].Sent)
	assert.True(t, s.Trace.Ticks[0].Completed)
	for _, rec := range s.Trace.Ticks[1:] {
		assert.Equal(t, 1, rec.FlowIndex)
	}

	summary := trace.Summarize(s.Trace)
	assert.Equal(t, int64(6000), summary.BytesSent)
	assert.Equal(t, 2, summary.Completions)
	assert.Equal(t, map[int]int{0: 1, 1: 4}, summary.FramesPerFlow)
	assert.True(t, summary.Drained)
}

func TestSimulator_Trace_PartialFramesAgainstLinkPayload(t *testing.T) {
	// GIVEN two flows that each fit in less than one frame
	cfg := DefaultSimConfig()
	cfg.Trace = trace.TraceConfig{Level: trace.TraceLevelTicks}
	s, err := NewSimulator(cfg, testSpecs(1000, 1000))
	require.NoError(t, err)

	// WHEN run
	results := s.Run()

	// THEN both frames are partial relative to the link payload and every byte is accounted for
	require.Same(t, s.Trace, results.Trace)
	assert.Equal(t, s.Payload(), s.Trace.Payload)
	assert.Equal(t, int64(2000), s.Trace.TotalBytes)
	summary := trace.Summarize(s.Trace)
	assert.Equal(t, 2, summary.PartialFrames)
	assert.Equal(t, int64(2000), summary.BytesSent)
	assert.True(t, summary.Drained)
}

func TestSimulator_Trace_DisabledByDefault(t *testing.T) {
	s := mustNewSimulator(t, "", testSpecs(1466))
	s.Run()
	assert.Nil(t, s.Trace)
}
