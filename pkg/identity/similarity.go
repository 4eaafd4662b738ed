package identity

import "math"

// mseScale is the mean squared error treated as "completely different".
const mseScale = 0.5

// Pearson returns the correlation coefficient of a and b.
// When either vector is constant the coefficient is undefined; Pearson then
// returns 1 for identical vectors and 0 otherwise.
func Pearson(a, b Vector) float64 {
	n := float64(len(a))
	var sumA, sumB float64
	for i := range a {
		sumA += float64(a[i])
		sumB += float64(b[i])
	}
	meanA, meanB := sumA/n, sumB/n

	var cov, varA, varB float64
	for i := range a {
		da := float64(a[i]) - meanA
		db := float64(b[i]) - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		if equal(a, b) {
			return 1
		}
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// MSE returns the mean squared element-wise difference.
func MSE(a, b Vector) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum / float64(len(a))
}

// Similarity averages correlation with a normalized MSE term:
//
//	mseNorm    = 1 - min(1, mse/0.5)
//	similarity = clamp((corr + mseNorm) / 2, 0, 1)
//
// Correlation tolerates uniform brightness shifts; the MSE term penalizes
// magnitude differences.
func Similarity(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}
	if len(a) == 0 {
		return 0, ErrEmptyVector
	}

	corr := Pearson(a, b)
	mseNorm := 1 - math.Min(1, MSE(a, b)/mseScale)
	s := (corr + mseNorm) / 2

	switch {
	case math.IsNaN(s), s < 0:
		return 0, nil
	case s > 1:
		return 1, nil
	}
	return s, nil
}

func equal(a, b Vector) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
