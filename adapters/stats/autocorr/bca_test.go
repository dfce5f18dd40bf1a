package autocorr

import (
	"math"
	"sort"
	"testing"

	"bootdw/domain/serialcorr"
)

func symmetricReplicates(center float64, n int) []float64 {
	out := make([]float64, 0, n)
	for i := 0; i < n/2; i++ {
		offset := 0.001 * float64(i+1)
		out = append(out, center-offset, center+offset)
	}
	return out
}

func TestBCaInterval_SymmetricCaseMatchesPercentile(t *testing.T) {
	// Symmetric replicates around the observed value and symmetric jackknife
	// statistics give z0 ~ 0 and a ~ 0, so BCa must collapse to the plain
	// percentile interval.
	replicates := symmetricReplicates(0.5, 200)
	jackknife := []float64{0.48, 0.49, 0.50, 0.51, 0.52}

	interval, diag := BCaInterval(replicates, 0.5, jackknife, 0.95)

	if diag.Degenerate {
		t.Fatal("symmetric jackknife should not be degenerate")
	}
	if math.Abs(diag.Z0) > 0.05 {
		t.Errorf("expected z0 near 0, got %f", diag.Z0)
	}
	if math.Abs(diag.Acceleration) > 1e-9 {
		t.Errorf("expected acceleration near 0, got %f", diag.Acceleration)
	}

	sorted := append([]float64(nil), replicates...)
	sort.Float64s(sorted)
	plainLower := interpolatedQuantile(sorted, 0.025)
	plainUpper := interpolatedQuantile(sorted, 0.975)

	if math.Abs(interval.Lower-plainLower) > 0.01 {
		t.Errorf("lower bound: BCa %f vs percentile %f", interval.Lower, plainLower)
	}
	if math.Abs(interval.Upper-plainUpper) > 0.01 {
		t.Errorf("upper bound: BCa %f vs percentile %f", interval.Upper, plainUpper)
	}
}

func TestBCaInterval_DegenerateJackknifeFallsBack(t *testing.T) {
	replicates := symmetricReplicates(0.3, 100)
	jackknife := []float64{0.3, 0.3, 0.3, 0.3} // zero jackknife variance

	interval, diag := BCaInterval(replicates, 0.3, jackknife, 0.95)

	if !diag.Degenerate {
		t.Fatal("identical jackknife statistics must flag the degenerate fallback")
	}
	if diag.Acceleration != 0 {
		t.Errorf("fallback must force a=0, got %f", diag.Acceleration)
	}
	if interval.Lower >= interval.Upper {
		t.Errorf("interval bounds out of order: [%f, %f]", interval.Lower, interval.Upper)
	}
	if math.IsNaN(interval.Lower) || math.IsNaN(interval.Upper) {
		t.Errorf("fallback produced NaN bounds: [%f, %f]", interval.Lower, interval.Upper)
	}
}

func TestBCaInterval_BoundsOrderedAndInsideRange(t *testing.T) {
	replicates := []float64{0.1, 0.2, 0.25, 0.3, 0.32, 0.4, 0.45, 0.5, 0.55, 0.6,
		0.61, 0.63, 0.7, 0.72, 0.8, 0.82, 0.85, 0.9, 0.95, 1.0}
	jackknife := []float64{0.4, 0.45, 0.5, 0.52, 0.6, 0.41, 0.47}

	interval, _ := BCaInterval(replicates, 0.5, jackknife, 0.95)
	if interval.Lower > interval.Upper {
		t.Fatalf("bounds out of order: [%f, %f]", interval.Lower, interval.Upper)
	}
	if interval.Lower < 0.1 || interval.Upper > 1.0 {
		t.Errorf("bounds outside replicate range: [%f, %f]", interval.Lower, interval.Upper)
	}
}

func TestBCaPValue_FarFromZeroIsSmall(t *testing.T) {
	// Replicate distribution well above zero: strong evidence against rho=0
	replicates := symmetricReplicates(0.6, 200)
	diag := serialcorr.BCaDiagnostics{Z0: 0, Acceleration: 0}

	greater := BCaPValue(replicates, diag, serialcorr.AltGreater)
	if greater > 0.05 {
		t.Errorf("expected small one-sided p-value, got %f", greater)
	}

	less := BCaPValue(replicates, diag, serialcorr.AltLess)
	if less < 0.95 {
		t.Errorf("expected large opposite-tail p-value, got %f", less)
	}

	twoSided := BCaPValue(replicates, diag, serialcorr.AltTwoSided)
	if math.Abs(twoSided-2*greater) > 1e-12 {
		t.Errorf("two-sided should double the smaller tail: %f vs 2*%f", twoSided, greater)
	}
}

func TestBCaPValue_CenteredOnZeroIsLarge(t *testing.T) {
	replicates := symmetricReplicates(0, 200)
	diag := serialcorr.BCaDiagnostics{Z0: 0, Acceleration: 0}

	p := BCaPValue(replicates, diag, serialcorr.AltTwoSided)
	if p < 0.5 {
		t.Errorf("replicates centred on zero should give a large p-value, got %f", p)
	}
	if p > 1 {
		t.Errorf("p-value above 1: %f", p)
	}
}

func TestInterpolatedQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	cases := []struct {
		p        float64
		expected float64
	}{
		{0, 1},
		{0.25, 2},
		{0.5, 3},
		{0.625, 3.5},
		{1, 5},
	}
	for _, c := range cases {
		if got := interpolatedQuantile(sorted, c.p); math.Abs(got-c.expected) > 1e-12 {
			t.Errorf("p=%f: expected %f, got %f", c.p, c.expected, got)
		}
	}
}

func TestClampProportion(t *testing.T) {
	if got := clampProportion(0, 199); got != 1.0/200 {
		t.Errorf("expected lower clamp 1/200, got %f", got)
	}
	if got := clampProportion(1, 199); got != 199.0/200 {
		t.Errorf("expected upper clamp 199/200, got %f", got)
	}
	if got := clampProportion(0.4, 199); got != 0.4 {
		t.Errorf("interior proportion must pass through, got %f", got)
	}
}
