// Package sim provides the ideal flow scheduler used as the flow-completion-time
// baseline for pFabric evaluations.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - config.go: LinkConfig, the immutable physical parameters (frame size, overhead, capacity)
//   - flow.go: Flow lifecycle (active → completed) and per-frame accounting
//   - active_set.go: the active set and its minimum-remaining-size selection
//   - simulator.go: the tick loop that serves one frame per quantum
//
// # Model
//
// A single output link serves a fixed set of flows. Each quantum (the time to
// serialize one full frame at link rate) the flow with the least remaining work
// sends one frame's payload. Ties go to the lowest original index. The result is
// the shortest-remaining-processing-time schedule at frame granularity, which is
// the lower bound real schedulers are normalized against.
//
// Sub-packages:
//   - sim/trace/: opt-in per-tick recording
//   - sim/workload/: flow workloads (YAML specs, CLI sizes, search-flow buckets)
//   - sim/fct/: completion-time scraping and normalization
package sim
