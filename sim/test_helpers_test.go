package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// testRandomSizes returns n flow sizes in [1, maxSize] from a fixed seed.
// Sizes are drawn from a small set of multiples so ties are common.
func testRandomSizes(seed int64, n int, maxSize int64) []int64 {
	rng := rand.New(rand.NewSource(seed))
	sizes := make([]int64, n)
	for i := range sizes {
		if rng.Intn(3) == 0 {
			sizes[i] = 1466 * int64(1+rng.Intn(4))
		} else {
			sizes[i] = 1 + rng.Int63n(maxSize)
		}
	}
	return sizes
}

// testSpecs wraps sizes as flows that all start at time 0.
func testSpecs(sizes ...int64) []FlowSpec {
	specs := make([]FlowSpec, len(sizes))
	for i, s := range sizes {
		specs[i] = FlowSpec{Size: s}
	}
	return specs
}

// mustNewSimulator builds a simulator on the default link or fails the test.
func mustNewSimulator(t *testing.T, activeSet string, specs []FlowSpec) *Simulator {
	t.Helper()
	cfg := DefaultSimConfig()
	cfg.ActiveSet = activeSet
	s, err := NewSimulator(cfg, specs)
	require.NoError(t, err)
	return s
}

// nQuanta returns the clock after n ticks, accumulated the same way the simulator does.
func nQuanta(n int) float64 {
	q := DefaultLinkConfig().Quantum()
	clock := 0.0
	for i := 0; i < n; i++ {
		clock += q
	}
	return clock
}
