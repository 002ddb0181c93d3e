package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/pfabric-eval/idealfct/sim"
	"github.com/pfabric-eval/idealfct/sim/workload"
)

// bucketsCmd computes the ideal baseline for the search flows of one host
var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "Ideal completion times for the pFabric search-flow size buckets",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if nflows <= 0 {
			logrus.Fatalf("--nflows must be positive, got %d", nflows)
		}
		sizes := workload.BucketFlows(nflows)
		for i, size := range sizes {
			logrus.Debugf("flow %d: bucket %d, %s", i, i%workload.NumSearchBuckets, workload.FormatSize(size))
		}
		specs := make([]sim.FlowSpec, len(sizes))
		for i, size := range sizes {
			specs[i] = sim.FlowSpec{Size: size}
		}

		results, err := sim.ScheduleFlows(sim.SimConfig{Link: linkFromFlags(), ActiveSet: activeSet}, specs)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if outputFormat == "text" {
			for i, ct := range results.CompletionTimes {
				fmt.Printf("Flow %d (%s) completion time - %fsec\n", i, workload.FormatSize(sizes[i]), ct)
			}
			return
		}
		if err := writeResults(os.Stdout, results); err != nil {
			logrus.Fatalf("writing results: %v", err)
		}
	},
}

func init() {
	bucketsCmd.Flags().IntVar(&nflows, "nflows", workload.NumSearchBuckets, "Number of search flows (flow i uses bucket i % 8)")
}
