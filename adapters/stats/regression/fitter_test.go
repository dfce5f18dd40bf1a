package regression

import (
	"math"
	"testing"

	"bootdw/domain/core"
)

func TestFitOLS_RecoversKnownCoefficients(t *testing.T) {
	// y = 2 + 3x, no noise
	design := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}}
	response := []float64{2, 5, 8, 11, 14, 17}

	model, err := FitOLS(response, design)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(model.Coefficients[0]-2) > 1e-9 {
		t.Errorf("intercept: expected 2, got %f", model.Coefficients[0])
	}
	if math.Abs(model.Coefficients[1]-3) > 1e-9 {
		t.Errorf("slope: expected 3, got %f", model.Coefficients[1])
	}
	for i, r := range model.Residuals {
		if math.Abs(r) > 1e-9 {
			t.Errorf("residual %d should be ~0, got %f", i, r)
		}
	}
	if model.NumObs != 6 || model.NumCovariates != 1 {
		t.Errorf("dimensions: got n=%d k=%d", model.NumObs, model.NumCovariates)
	}
}

func TestFitOLS_InterceptOnly(t *testing.T) {
	response := []float64{1, 2, 3, 4}

	model, err := FitOLS(response, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(model.Coefficients[0]-2.5) > 1e-9 {
		t.Errorf("intercept should be the mean 2.5, got %f", model.Coefficients[0])
	}
}

func TestFitOLS_CollinearColumns(t *testing.T) {
	// Second column is twice the first
	design := [][]float64{{1, 2}, {2, 4}, {3, 6}, {4, 8}, {5, 10}}
	response := []float64{1, 2, 3, 4, 5}

	_, err := FitOLS(response, design)
	if !core.IsSingularDesign(err) {
		t.Fatalf("expected singular design error, got %v", err)
	}
}

func TestFitOLS_ConstantCovariateCollinearWithIntercept(t *testing.T) {
	design := [][]float64{{1}, {1}, {1}, {1}, {1}}
	response := []float64{1, 2, 1, 3, 2}

	_, err := FitOLS(response, design)
	if !core.IsSingularDesign(err) {
		t.Fatalf("expected singular design error, got %v", err)
	}
}

func TestFitOLS_TooFewObservations(t *testing.T) {
	design := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	response := []float64{1, 2, 3}

	_, err := FitOLS(response, design)
	if !core.IsSingularDesign(err) {
		t.Fatalf("expected singular design error for n < k+2, got %v", err)
	}
}

func TestFitOLS_RaggedDesign(t *testing.T) {
	design := [][]float64{{1, 2}, {3}, {4, 5}, {6, 7}, {8, 9}}
	response := []float64{1, 2, 3, 4, 5}

	_, err := FitOLS(response, design)
	if !core.IsSingularDesign(err) {
		t.Fatalf("expected singular design error for ragged design, got %v", err)
	}
}

func TestFitOLS_NeverReturnsNonFinite(t *testing.T) {
	// Badly scaled but full rank
	design := [][]float64{{1e8}, {2e8}, {3e8}, {4e8}, {5e8}, {6e8}}
	response := []float64{1, 2, 1, 3, 2, 4}

	model, err := FitOLS(response, design)
	if err != nil {
		// A singular verdict is acceptable; non-finite output is not.
		if !core.IsSingularDesign(err) {
			t.Fatalf("unexpected error kind: %v", err)
		}
		return
	}
	for j, c := range model.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			t.Errorf("coefficient %d is non-finite: %f", j, c)
		}
	}
}

func TestDropObservation(t *testing.T) {
	response := []float64{1, 2, 3, 4}
	design := [][]float64{{10}, {20}, {30}, {40}}

	y, x := DropObservation(response, design, 1)
	if len(y) != 3 || len(x) != 3 {
		t.Fatalf("expected 3 rows after drop, got %d and %d", len(y), len(x))
	}
	if y[0] != 1 || y[1] != 3 || y[2] != 4 {
		t.Errorf("unexpected response after drop: %v", y)
	}
	if x[1][0] != 30 {
		t.Errorf("unexpected design after drop: %v", x)
	}

	// Originals must be untouched
	if len(response) != 4 || response[1] != 2 {
		t.Errorf("drop mutated the original response: %v", response)
	}
}

func TestDropObservation_EmptyDesign(t *testing.T) {
	y, x := DropObservation([]float64{1, 2, 3}, nil, 0)
	if len(y) != 2 || x != nil {
		t.Errorf("expected 2 responses and nil design, got %v and %v", y, x)
	}
}
