package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pfabric-eval/idealfct/sim/fct"
)

var (
	baselineFiles []string // one log per size bucket, in bucket order
	resultFiles   []string // host-major: all flows of host 0, then host 1, ...
	numHosts      int
)

// evaluateCmd scrapes completion times from logs and reports the mean normalized FCT
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Normalize measured completion times against a baseline and print the mean",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if numHosts <= 0 {
			logrus.Fatalf("--hosts must be positive, got %d", numHosts)
		}
		if len(resultFiles) == 0 || len(resultFiles)%numHosts != 0 {
			logrus.Fatalf("got %d result files, need a positive multiple of --hosts=%d", len(resultFiles), numHosts)
		}

		baseline, err := fct.ReadFiles(baselineFiles)
		if err != nil {
			logrus.Fatalf("reading baseline: %v", err)
		}
		logrus.Infof("Baseline: %v", baseline)

		all, err := fct.ReadFiles(resultFiles)
		if err != nil {
			logrus.Fatalf("reading results: %v", err)
		}
		perHost := len(all) / numHosts
		hostFCTs := make([][]float64, numHosts)
		for h := range hostFCTs {
			hostFCTs[h] = all[h*perHost : (h+1)*perHost]
		}
		logrus.Infof("Host FCT matrix: %v", hostFCTs)

		mean, err := fct.MeanNormalized(hostFCTs, baseline)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		fmt.Printf("Mean FCT: %f\n", mean)
	},
}

func init() {
	evaluateCmd.Flags().StringSliceVar(&baselineFiles, "baseline", nil, "Baseline logs, one per size bucket")
	evaluateCmd.Flags().StringSliceVar(&resultFiles, "results", nil, "Result logs, grouped by host")
	evaluateCmd.Flags().IntVar(&numHosts, "hosts", 1, "Number of hosts the result logs are split across")
}
