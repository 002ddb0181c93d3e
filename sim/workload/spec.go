package workload

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/pfabric-eval/idealfct/sim"
)

// FlowWorkload is the top-level workload configuration.
// Loaded from YAML via LoadFlowWorkload(path).
type FlowWorkload struct {
	Version       string      `yaml:"version"`
	Link          *LinkSpec   `yaml:"link,omitempty"`
	Flows         []FlowEntry `yaml:"flows,omitempty"`
	SearchBuckets *BucketSpec `yaml:"search_buckets,omitempty"`
}

// LinkSpec overrides the reference link. Zero fields keep the default.
type LinkSpec struct {
	FrameSize     int64   `yaml:"frame_size,omitempty"`
	FrameOverhead *int64  `yaml:"frame_overhead,omitempty"` // pointer: 0 is a valid overhead
	LinkRateMbps  float64 `yaml:"link_rate_mbps,omitempty"`
}

// FlowEntry describes one flow. Size accepts plain byte counts or human sizes ("3MB").
type FlowEntry struct {
	Size      Size    `yaml:"size"`
	StartTime float64 `yaml:"start_time,omitempty"`
}

// BucketSpec appends NFlows search flows cycling through SearchBuckets().
type BucketSpec struct {
	NFlows int `yaml:"nflows"`
}

// Size is a flow size in bytes that decodes from either an integer or a human-readable string.
type Size int64

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: flow size must be a scalar", value.Line)
	}
	n, err := ParseSize(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid flow size %q: %w", value.Line, value.Value, err)
	}
	*s = Size(n)
	return nil
}

// LoadFlowWorkload reads and parses a YAML workload file.
// Uses strict field checking so typos cause errors.
func LoadFlowWorkload(path string) (*FlowWorkload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload %s: %w", path, err)
	}
	w, err := ParseFlowWorkload(data)
	if err != nil {
		return nil, fmt.Errorf("workload %s: %w", path, err)
	}
	return w, nil
}

// ParseFlowWorkload decodes and validates a YAML workload document.
func ParseFlowWorkload(data []byte) (*FlowWorkload, error) {
	var w FlowWorkload
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&w); err != nil {
		return nil, fmt.Errorf("parsing workload YAML: %w", err)
	}
	if w.Version == "" {
		w.Version = "1"
	}
	if w.Version != "1" {
		return nil, fmt.Errorf("unsupported workload version %q", w.Version)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Validate checks every flow and the link override.
// Flow errors are *sim.InvalidInputError naming the offending entry.
func (w *FlowWorkload) Validate() error {
	if w.SearchBuckets != nil && w.SearchBuckets.NFlows < 0 {
		return fmt.Errorf("search_buckets.nflows must be non-negative, got %d", w.SearchBuckets.NFlows)
	}
	for i, f := range w.Flows {
		if f.Size <= 0 {
			return &sim.InvalidInputError{Index: i, Value: strconv.FormatInt(int64(f.Size), 10), Reason: "flow size must be positive"}
		}
		if f.StartTime < 0 {
			return &sim.InvalidInputError{Index: i, Value: strconv.FormatFloat(f.StartTime, 'g', -1, 64), Reason: "start time must be non-negative"}
		}
	}
	if err := w.LinkConfig(sim.DefaultLinkConfig()).Validate(); err != nil {
		return fmt.Errorf("link: %w", err)
	}
	return nil
}

// LinkConfig applies the workload's link overrides to base.
func (w *FlowWorkload) LinkConfig(base sim.LinkConfig) sim.LinkConfig {
	if w.Link == nil {
		return base
	}
	if w.Link.FrameSize != 0 {
		base.FrameSize = w.Link.FrameSize
	}
	if w.Link.FrameOverhead != nil {
		base.FrameOverhead = *w.Link.FrameOverhead
	}
	if w.Link.LinkRateMbps != 0 {
		base.LinkCapacity = sim.LinkCapacityFromMbps(w.Link.LinkRateMbps)
	}
	return base
}

// FlowSpecs returns the explicit flows followed by any bucketed search flows.
func (w *FlowWorkload) FlowSpecs() []sim.FlowSpec {
	specs := make([]sim.FlowSpec, 0, len(w.Flows))
	for _, f := range w.Flows {
		specs = append(specs, sim.FlowSpec{Size: int64(f.Size), StartTime: f.StartTime})
	}
	if w.SearchBuckets != nil {
		for _, size := range BucketFlows(w.SearchBuckets.NFlows) {
			specs = append(specs, sim.FlowSpec{Size: size})
		}
	}
	logrus.Debugf("workload: %d flows", len(specs))
	return specs
}
