package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"bootdw/adapters/stats/autocorr"
	"bootdw/domain/core"
	"bootdw/domain/serialcorr"
	"bootdw/ports"
)

// BatteryService runs a battery of serial-correlation tests over one dataset
// with a complete audit trail (battery ID, fingerprint, persisted records).
type BatteryService struct {
	runner *autocorr.Runner
	repo   ports.ResultRepository // nil disables persistence
}

// BatteryRequest defines the inputs for a deterministic test battery
type BatteryRequest struct {
	DatasetKey   core.DatasetKey
	Response     []float64
	Design       [][]float64
	Methods      []serialcorr.Method // defaults to all four
	NumBootstrap int
	Alternative  serialcorr.Alternative
	Seed         int64
	BatteryID    core.BatteryID // optional, generated if empty
}

// BatteryResult contains the complete output of one battery run
type BatteryResult struct {
	BatteryID   core.BatteryID          `json:"battery_id"`
	DatasetKey  core.DatasetKey         `json:"dataset_key"`
	Results     []serialcorr.TestResult `json:"results"`
	Fingerprint core.Fingerprint        `json:"fingerprint"`
	RuntimeMs   int64                   `json:"runtime_ms"`
}

// NewBatteryService creates a battery service
func NewBatteryService(runner *autocorr.Runner, repo ports.ResultRepository) *BatteryService {
	return &BatteryService{runner: runner, repo: repo}
}

// RunBattery executes the requested methods concurrently. Each test owns its
// own deterministic stream keyed by (method, seed), so running methods on
// separate goroutines never perturbs their replicate sets; results come back
// in the request's method order and the fingerprint over them is stable
// across runs with equal inputs.
func (s *BatteryService) RunBattery(ctx context.Context, req BatteryRequest) (*BatteryResult, error) {
	startTime := time.Now()

	methods := req.Methods
	if len(methods) == 0 {
		methods = serialcorr.Methods()
	}

	batteryID := req.BatteryID
	if batteryID == "" {
		batteryID = core.BatteryID(core.NewID())
	}

	results := make([]serialcorr.TestResult, len(methods))
	g, gctx := errgroup.WithContext(ctx)
	for i, method := range methods {
		g.Go(func() error {
			result, err := s.runner.Run(gctx, method, req.Response, req.Design, req.NumBootstrap, req.Alternative, req.Seed)
			if err != nil {
				return fmt.Errorf("method %s: %w", method, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fingerprint, err := batteryFingerprint(req.Seed, results)
	if err != nil {
		return nil, err
	}

	battery := &BatteryResult{
		BatteryID:   batteryID,
		DatasetKey:  req.DatasetKey,
		Results:     results,
		Fingerprint: fingerprint,
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}

	if s.repo != nil {
		if err := s.persist(ctx, battery); err != nil {
			return nil, fmt.Errorf("persisting battery %s: %w", batteryID, err)
		}
	}

	return battery, nil
}

func (s *BatteryService) persist(ctx context.Context, battery *BatteryResult) error {
	for _, result := range battery.Results {
		record := &ports.TestRecord{
			ID:         core.RecordID(core.NewID()),
			BatteryID:  battery.BatteryID,
			DatasetKey: battery.DatasetKey,
			Result:     result,
		}
		if err := s.repo.SaveRecord(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// batteryFingerprint hashes the seed and the serialized results in method
// order. Two batteries over identical inputs must produce equal fingerprints.
func batteryFingerprint(seed int64, results []serialcorr.TestResult) (core.Fingerprint, error) {
	content := fmt.Sprintf("seed=%d", seed)
	for _, result := range results {
		encoded, err := serialcorr.EncodeResult(result)
		if err != nil {
			return "", fmt.Errorf("fingerprint encoding: %w", err)
		}
		content += "|" + string(encoded)
	}
	return core.NewFingerprint([]byte(content)), nil
}
