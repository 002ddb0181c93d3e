package workload

import "math"

// searchBucketExponents are log10 sizes of the search-flow buckets in the pFabric evaluation.
var searchBucketExponents = []float64{6.5, 6.6, 6.7, 6.8, 6.9, 7, 7.1, 7.2}

// NumSearchBuckets is the number of distinct search-flow sizes.
var NumSearchBuckets = len(searchBucketExponents)

// SearchBuckets returns the search-flow sizes in bytes, 10^6.5 through 10^7.2,
// truncated to whole bytes.
func SearchBuckets() []int64 {
	sizes := make([]int64, len(searchBucketExponents))
	for i, e := range searchBucketExponents {
		sizes[i] = int64(math.Pow(10, e))
	}
	return sizes
}

// BucketFlows returns n flow sizes where flow i uses bucket i % NumSearchBuckets.
func BucketFlows(n int) []int64 {
	buckets := SearchBuckets()
	sizes := make([]int64, n)
	for i := range sizes {
		sizes[i] = buckets[i%len(buckets)]
	}
	return sizes
}
