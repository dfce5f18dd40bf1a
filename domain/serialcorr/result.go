package serialcorr

import (
	"encoding/json"
	"fmt"
)

// TestResult is the sole externally visible artifact of one test invocation.
// It is assembled once and treated as immutable; the With* helpers return
// modified copies so downstream consumers can never mutate a shared value.
//
// PValue is nil for the classical DW test, which only produces a statistic.
type TestResult struct {
	Method             Method            `json:"method"`
	Statistic          float64           `json:"statistic"`
	PValue             *float64          `json:"p_value,omitempty"`
	Alternative        Alternative       `json:"alternative"`
	ConfidenceInterval *Interval         `json:"confidence_interval,omitempty"`
	NumBootstrap       int               `json:"n_bootstrap"`
	Seed               int64             `json:"seed"`
	NullSummary        *ReplicateSummary `json:"null_summary,omitempty"`
	BCa                *BCaDiagnostics   `json:"bca,omitempty"`
}

// NewTestResult assembles the base result. Bootstrap-specific fields are
// attached through the With* helpers.
func NewTestResult(method Method, alternative Alternative, statistic float64, nBootstrap int, seed int64) TestResult {
	return TestResult{
		Method:       method,
		Statistic:    statistic,
		Alternative:  alternative,
		NumBootstrap: nBootstrap,
		Seed:         seed,
	}
}

// WithPValue returns a copy with the p-value attached.
func (r TestResult) WithPValue(p float64) TestResult {
	r.PValue = &p
	return r
}

// WithConfidenceInterval returns a copy with the confidence bounds attached.
func (r TestResult) WithConfidenceInterval(lower, upper float64) TestResult {
	r.ConfidenceInterval = &Interval{Lower: lower, Upper: upper}
	return r
}

// WithNullSummary returns a copy with the replicate-distribution summary.
func (r TestResult) WithNullSummary(s ReplicateSummary) TestResult {
	r.NullSummary = &s
	return r
}

// WithBCaDiagnostics returns a copy with the BCa constants attached.
func (r TestResult) WithBCaDiagnostics(d BCaDiagnostics) TestResult {
	r.BCa = &d
	return r
}

// Validate checks internal consistency of an assembled result.
func (r TestResult) Validate() error {
	if _, err := ParseMethod(string(r.Method)); err != nil {
		return err
	}
	if _, err := ParseAlternative(string(r.Alternative)); err != nil {
		return err
	}
	if r.PValue != nil && (*r.PValue < 0 || *r.PValue > 1) {
		return fmt.Errorf("p-value %v outside [0,1]", *r.PValue)
	}
	if r.ConfidenceInterval != nil && r.ConfidenceInterval.Lower > r.ConfidenceInterval.Upper {
		return fmt.Errorf("confidence interval lower bound %v exceeds upper bound %v",
			r.ConfidenceInterval.Lower, r.ConfidenceInterval.Upper)
	}
	if r.Method.IsBootstrap() && r.NumBootstrap < 1 {
		return fmt.Errorf("bootstrap method %s with replicate count %d", r.Method, r.NumBootstrap)
	}
	return nil
}

// EncodeResult serializes a result for external formatting collaborators.
// Field values survive an encode/decode round trip exactly.
func EncodeResult(r TestResult) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeResult reconstructs a result from its serialized form.
func DecodeResult(data []byte) (TestResult, error) {
	var r TestResult
	if err := json.Unmarshal(data, &r); err != nil {
		return TestResult{}, fmt.Errorf("decode test result: %w", err)
	}
	return r, nil
}
