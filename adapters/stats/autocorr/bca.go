package autocorr

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"bootdw/domain/serialcorr"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// BCaInterval builds the bias-corrected-accelerated confidence interval from
// the bootstrap replicate set, the observed statistic, and the jackknife
// leave-one-out statistics. confidence is the two-sided coverage, e.g. 0.95.
//
// When all leave-one-out statistics are identical the acceleration term is
// numerically degenerate; the builder falls back explicitly to the plain
// bias-corrected (a = 0) percentile interval and flags it on the diagnostics
// rather than dividing by zero.
func BCaInterval(replicates []float64, observed float64, jackknife []float64, confidence float64) (serialcorr.Interval, serialcorr.BCaDiagnostics) {
	z0 := biasConstant(replicates, observed)
	a, degenerate := accelerationConstant(jackknife)

	diag := serialcorr.BCaDiagnostics{
		Z0:           z0,
		Acceleration: a,
		Degenerate:   degenerate,
	}

	alpha := (1 - confidence) / 2
	lowerP := adjustedPercentile(z0, a, alpha)
	upperP := adjustedPercentile(z0, a, 1-alpha)

	sorted := append([]float64(nil), replicates...)
	sort.Float64s(sorted)

	return serialcorr.Interval{
		Lower: interpolatedQuantile(sorted, lowerP),
		Upper: interpolatedQuantile(sorted, upperP),
	}, diag
}

// BCaPValue tests H0: rho = 0 by inverting the BCa percentile map at zero:
// it finds the nominal tail level whose adjusted interval endpoint touches 0
// and reads the p-value off the tail(s) selected by the alternative.
func BCaPValue(replicates []float64, diag serialcorr.BCaDiagnostics, alt serialcorr.Alternative) float64 {
	b := len(replicates)
	below := 0
	for _, r := range replicates {
		if r < 0 {
			below++
		}
	}
	p0 := clampProportion(float64(below)/float64(b), b)
	u := stdNormal.Quantile(p0)

	// Invert w = z0 + (z0+zAlpha)/(1 - a*(z0+zAlpha)) at w = u.
	den := 1 + diag.Acceleration*(u-diag.Z0)
	s := u - diag.Z0
	if den > 0 {
		s = (u - diag.Z0) / den
	}
	alphaBelow := stdNormal.CDF(s - diag.Z0)

	switch alt {
	case serialcorr.AltGreater:
		return alphaBelow
	case serialcorr.AltLess:
		return 1 - alphaBelow
	default:
		return capped(2 * minF(alphaBelow, 1-alphaBelow))
	}
}

// biasConstant computes z0 = Phi^-1(proportion of replicates < observed).
// The proportion is clamped to [1/(B+1), B/(B+1)] so a boundary case yields a
// large finite correction instead of an infinite one.
func biasConstant(replicates []float64, observed float64) float64 {
	b := len(replicates)
	below := 0
	for _, r := range replicates {
		if r < observed {
			below++
		}
	}
	return stdNormal.Quantile(clampProportion(float64(below)/float64(b), b))
}

// accelerationConstant computes
// a = sum((mean-theta_i)^3) / (6 * (sum((mean-theta_i)^2))^(3/2))
// over the jackknife statistics. The second return marks the degenerate
// zero-variance case where the caller must use the bias-corrected fallback.
func accelerationConstant(jackknife []float64) (float64, bool) {
	n := len(jackknife)
	if n == 0 {
		return 0, true
	}

	mean := 0.0
	for _, t := range jackknife {
		mean += t
	}
	mean /= float64(n)

	sumSq := 0.0
	sumCube := 0.0
	for _, t := range jackknife {
		d := mean - t
		sumSq += d * d
		sumCube += d * d * d
	}

	if sumSq == 0 {
		return 0, true
	}
	return sumCube / (6 * math.Pow(sumSq, 1.5)), false
}

// adjustedPercentile maps a nominal tail probability through the BCa
// correction: Phi(z0 + (z0+zAlpha)/(1 - a*(z0+zAlpha))).
func adjustedPercentile(z0, a, alpha float64) float64 {
	zAlpha := stdNormal.Quantile(alpha)
	num := z0 + zAlpha
	den := 1 - a*num
	if den <= 0 {
		// Outside the monotone region of the correction; saturate the tail.
		if num > 0 {
			return 1
		}
		return 0
	}
	return stdNormal.CDF(z0 + num/den)
}

// interpolatedQuantile reads percentile p from sorted order statistics with
// linear interpolation between neighbours.
func interpolatedQuantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func clampProportion(p float64, b int) float64 {
	lo := 1 / float64(b+1)
	hi := float64(b) / float64(b+1)
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}
