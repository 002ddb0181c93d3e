package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/pfabric-eval/idealfct/sim"
	"github.com/pfabric-eval/idealfct/sim/trace"
	"github.com/pfabric-eval/idealfct/sim/workload"
)

var (
	// CLI flags shared by simulation commands
	logLevel      string  // Log verbosity level
	frameSize     int64   // Bytes per full frame (MTU)
	frameOverhead int64   // Ethernet + IP header bytes per frame
	linkRateMbps  float64 // Link capacity in Mb/s
	activeSet     string  // Active-set implementation: heap or scan
	outputFormat  string  // text or yaml

	// CLI flags for run
	workloadPath string // YAML workload file
	traceLevel   string // Tick trace level

	// CLI flags for buckets
	nflows int // Number of search flows
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "idealfct",
	Short: "Ideal flow-completion-time simulator for a single shared link",
}

// setupLogging applies --log; exits on an unknown level.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// linkFromFlags builds the link config from CLI flags.
func linkFromFlags() sim.LinkConfig {
	return sim.LinkConfig{
		FrameSize:     frameSize,
		FrameOverhead: frameOverhead,
		LinkCapacity:  sim.LinkCapacityFromMbps(linkRateMbps),
	}
}

// writeResults prints results in the selected output format.
func writeResults(w io.Writer, r *sim.Results) error {
	switch outputFormat {
	case "text":
		return r.Print(w)
	case "yaml":
		return r.WriteYAML(w)
	default:
		return fmt.Errorf("unknown output format %q (valid: text, yaml)", outputFormat)
	}
}

// runCmd executes the simulation over sizes given as arguments and/or a workload file
var runCmd = &cobra.Command{
	Use:   "run [flow sizes...]",
	Short: "Run the ideal scheduler over a set of flows",
	Example: `  idealfct run 1466 1466 5000
  idealfct run 3MB 10MB --output yaml
  idealfct run --workload flows.yaml --trace ticks`,
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		sizes, err := workload.ParseSizes(args)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		specs := make([]sim.FlowSpec, 0, len(sizes))
		for _, size := range sizes {
			specs = append(specs, sim.FlowSpec{Size: size})
		}

		link := linkFromFlags()
		if workloadPath != "" {
			w, err := workload.LoadFlowWorkload(workloadPath)
			if err != nil {
				logrus.Fatalf("unable to read workload; %v", err)
			}
			// Explicitly set flags win over the workload file.
			base := link
			link = w.LinkConfig(link)
			if cmd.Flags().Changed("frame-size") {
				link.FrameSize = base.FrameSize
			}
			if cmd.Flags().Changed("frame-overhead") {
				link.FrameOverhead = base.FrameOverhead
			}
			if cmd.Flags().Changed("link-rate-mbps") {
				link.LinkCapacity = base.LinkCapacity
			}
			specs = append(specs, w.FlowSpecs()...)
		}

		cfg := sim.SimConfig{
			Link:      link,
			ActiveSet: activeSet,
			Trace:     trace.TraceConfig{Level: trace.TraceLevel(traceLevel)},
		}
		logrus.Infof("Starting simulation with %d flows on %v", len(specs), link)

		startTime := time.Now()
		s, err := sim.NewSimulator(cfg, specs)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		results := s.Run()
		logrus.Infof("Simulation took %v", time.Since(startTime))

		if err := writeResults(os.Stdout, results); err != nil {
			logrus.Fatalf("writing results: %v", err)
		}
		if s.Trace != nil {
			summary := trace.Summarize(s.Trace)
			logrus.Infof("Trace: %d ticks, %d bytes sent, %d partial frames, %d preemptions, drained=%v",
				summary.TotalTicks, summary.BytesSent, summary.PartialFrames, summary.Preemptions, summary.Drained)
		}

		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Link configs
	rootCmd.PersistentFlags().Int64Var(&frameSize, "frame-size", sim.DefaultFrameSize, "Bytes per full frame (MTU)")
	rootCmd.PersistentFlags().Int64Var(&frameOverhead, "frame-overhead", sim.DefaultFrameOverhead, "Ethernet + IP header bytes per frame")
	rootCmd.PersistentFlags().Float64Var(&linkRateMbps, "link-rate-mbps", 100, "Link capacity in Mb/s")
	rootCmd.PersistentFlags().StringVar(&activeSet, "active-set", "heap", "Active-set implementation (heap, scan)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "text", "Output format (text, yaml)")

	runCmd.Flags().StringVar(&workloadPath, "workload", "", "YAML workload file (flows are appended after positional sizes)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Tick trace level (none, ticks)")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(bucketsCmd)
	rootCmd.AddCommand(evaluateCmd)
}
