package sim

import "fmt"

const (
	DefaultFrameSize     = 1500        // standard MTU, bytes
	DefaultFrameOverhead = 34          // Ethernet + IP header, bytes
	DefaultLinkCapacity  = 100e6 / 8.0 // 100Mb/s in bytes per second
)

// LinkConfig groups the physical parameters of the shared output link.
// It is passed by value and never mutated by the simulator.
type LinkConfig struct {
	FrameSize     int64   // bytes per full frame on the wire (must be > 0)
	FrameOverhead int64   // header bytes per frame (must be in [0, FrameSize))
	LinkCapacity  float64 // bytes per second (must be > 0)
}

// DefaultLinkConfig returns the 100Mb/s, 1500-byte MTU link of the reference scenario.
func DefaultLinkConfig() LinkConfig {
	return LinkConfig{
		FrameSize:     DefaultFrameSize,
		FrameOverhead: DefaultFrameOverhead,
		LinkCapacity:  DefaultLinkCapacity,
	}
}

// LinkCapacityFromMbps converts a link rate in Mb/s to bytes per second.
func LinkCapacityFromMbps(mbps float64) float64 {
	return mbps * 1e6 / 8.0
}

// Payload returns the flow bytes carried by one frame.
func (c LinkConfig) Payload() int64 {
	return c.FrameSize - c.FrameOverhead
}

// Quantum returns the time in seconds to serialize one full frame at link rate.
// The full frame size is used even though only the payload is deducted from a flow.
func (c LinkConfig) Quantum() float64 {
	return float64(c.FrameSize) / c.LinkCapacity
}

// Validate reports the first parameter that would make the tick loop ill-defined.
func (c LinkConfig) Validate() error {
	if c.FrameSize <= 0 {
		return fmt.Errorf("frame size must be positive, got %d", c.FrameSize)
	}
	if c.FrameOverhead < 0 || c.FrameOverhead >= c.FrameSize {
		return fmt.Errorf("frame overhead must be in [0, %d), got %d", c.FrameSize, c.FrameOverhead)
	}
	if !(c.LinkCapacity > 0) {
		return fmt.Errorf("link capacity must be positive, got %v", c.LinkCapacity)
	}
	return nil
}

func (c LinkConfig) String() string {
	return fmt.Sprintf("LinkConfig(frame=%dB, overhead=%dB, capacity=%.0fB/s)", c.FrameSize, c.FrameOverhead, c.LinkCapacity)
}
