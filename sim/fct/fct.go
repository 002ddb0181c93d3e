// Package fct extracts flow completion times from traffic-generator logs and
// normalizes them against the ideal baseline.
package fct

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// ErrNoCompletionTime is returned when a line does not carry a "- <float>sec" suffix.
var ErrNoCompletionTime = errors.New("no completion time")

// ParseLine extracts the completion time from a line of the form "... - <float>sec".
// The number is the text between the first '-' and the following "sec".
func ParseLine(line string) (float64, error) {
	_, rest, ok := strings.Cut(line, "-")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoCompletionTime, line)
	}
	if i := strings.Index(rest, "-"); i >= 0 {
		rest = rest[:i]
	}
	num, _, ok := strings.Cut(rest, "sec")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoCompletionTime, line)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrNoCompletionTime, line, err)
	}
	return v, nil
}

// ReadFile returns the completion time reported on the last non-empty line of a log file.
func ReadFile(path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logrus.Warnf("Error closing file %s: %v", path, closeErr)
		}
	}()

	logrus.Debugf("Reading file %s", path)
	var last string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := ParseLine(last)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ReadFiles reads one completion time per path, in order.
func ReadFiles(paths []string) ([]float64, error) {
	out := make([]float64, len(paths))
	for i, p := range paths {
		v, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Normalize divides each completion time by the baseline of its size bucket:
// fcts[i] / baseline[i % len(baseline)].
func Normalize(fcts, baseline []float64) ([]float64, error) {
	if len(baseline) == 0 {
		return nil, errors.New("normalize: empty baseline")
	}
	for i, b := range baseline {
		if !(b > 0) {
			return nil, fmt.Errorf("normalize: baseline %d is %v, must be positive", i, b)
		}
	}
	out := make([]float64, len(fcts))
	for i, v := range fcts {
		out[i] = v / baseline[i%len(baseline)]
	}
	return out, nil
}

// PerFlowMean averages a host × flow matrix down each flow column.
// Every host must report the same number of flows.
func PerFlowMean(hostFCTs [][]float64) ([]float64, error) {
	if len(hostFCTs) == 0 {
		return nil, errors.New("per-flow mean: no hosts")
	}
	nflows := len(hostFCTs[0])
	column := make([]float64, len(hostFCTs))
	out := make([]float64, nflows)
	for f := 0; f < nflows; f++ {
		for h, row := range hostFCTs {
			if len(row) != nflows {
				return nil, fmt.Errorf("per-flow mean: host %d has %d flows, host 0 has %d", h, len(row), nflows)
			}
			column[h] = row[f]
		}
		out[f] = stat.Mean(column, nil)
	}
	return out, nil
}

// MeanNormalized computes the average normalized FCT of one setup: average each flow
// across hosts, normalize against the per-bucket baseline, then average the flows.
func MeanNormalized(hostFCTs [][]float64, baseline []float64) (float64, error) {
	perFlow, err := PerFlowMean(hostFCTs)
	if err != nil {
		return 0, err
	}
	logrus.Debugf("Average FCT per flow: %v", perFlow)
	normalized, err := Normalize(perFlow, baseline)
	if err != nil {
		return 0, err
	}
	if len(normalized) == 0 {
		return 0, errors.New("mean normalized: no flows")
	}
	logrus.Debugf("Normalized FCT per flow: %v", normalized)
	return stat.Mean(normalized, nil), nil
}
