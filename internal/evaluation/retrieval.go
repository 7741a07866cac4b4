package evaluation

// MRR calculates the reciprocal rank of the first relevant result. Only the
// first hit matters; further relevant items are ignored (paper-standard MRR).
// Returns 0 if no result is relevant.
func MRR(results []RetrievalResult) float64 {
	for i, r := range results {
		if r.IsRelevant {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// HitAtK returns 1 if any of the first k results is relevant, 0 otherwise.
// k beyond the list length is safe.
func HitAtK(results []RetrievalResult, k int) float64 {
	if k > len(results) {
		k = len(results)
	}
	for i := 0; i < k; i++ {
		if results[i].IsRelevant {
			return 1.0
		}
	}
	return 0
}

// PrecisionAtK returns the fraction of the first k results marked relevant.
// The denominator is min(k, len(results)). Returns 0 for an empty list or
// k == 0.
func PrecisionAtK(results []RetrievalResult, k int) float64 {
	if len(results) == 0 || k == 0 {
		return 0
	}
	if k > len(results) {
		k = len(results)
	}

	relevant := 0
	for i := 0; i < k; i++ {
		if results[i].IsRelevant {
			relevant++
		}
	}

	return float64(relevant) / float64(k)
}
