package workload

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	units "github.com/docker/go-units"

	"github.com/pfabric-eval/idealfct/sim"
)

var (
	errNotASize = errors.New("not a size")
	errNotWhole = errors.New("not a whole number of bytes")
	errTooLarge = errors.New("size overflows int64")
)

// ParseSize converts one flow size to bytes. The value is either a plain integer or a
// human-readable size ("3MB", "2.5kB"; decimal units). Sizes that do not come out to a
// whole number of bytes ("1.5", "1.0005kB") are rejected rather than truncated.
func ParseSize(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if _, err := units.FromHumanSize(s); err != nil {
		return 0, errNotASize
	}

	// FromHumanSize goes through float64 and truncates; redo the product exactly.
	numEnd := strings.IndexFunc(s, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
	if numEnd < 0 {
		numEnd = len(s)
	}
	value, ok := new(big.Rat).SetString(s[:numEnd])
	if !ok {
		return 0, errNotASize
	}
	multiplier, err := units.FromHumanSize("1" + s[numEnd:])
	if err != nil {
		return 0, errNotASize
	}
	value.Mul(value, new(big.Rat).SetInt64(multiplier))
	if !value.IsInt() {
		return 0, errNotWhole
	}
	if !value.Num().IsInt64() {
		return 0, errTooLarge
	}
	return value.Num().Int64(), nil
}

// ParseSizes converts command-line flow sizes to bytes with ParseSize.
// The first malformed or non-positive element is reported as a *sim.InvalidInputError.
func ParseSizes(args []string) ([]int64, error) {
	sizes := make([]int64, len(args))
	for i, arg := range args {
		n, err := ParseSize(arg)
		if err != nil {
			return nil, &sim.InvalidInputError{Index: i, Value: arg, Reason: err.Error()}
		}
		if n <= 0 {
			return nil, &sim.InvalidInputError{Index: i, Value: arg, Reason: "flow size must be positive"}
		}
		sizes[i] = n
	}
	return sizes, nil
}

// FormatSize renders a byte count the way reports show it, e.g. "3.162MB".
func FormatSize(n int64) string {
	return units.HumanSizeWithPrecision(float64(n), 4)
}
