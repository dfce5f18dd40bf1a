package ports

import (
	"context"

	"bootdw/domain/core"
	"bootdw/domain/serialcorr"
)

// TestRecord is a persisted test result with storage metadata.
type TestRecord struct {
	ID         core.RecordID         `db:"id" json:"id"`
	BatteryID  core.BatteryID        `db:"battery_id" json:"battery_id"`
	DatasetKey core.DatasetKey       `db:"dataset_key" json:"dataset_key"`
	Result     serialcorr.TestResult `json:"result"`
	CreatedAt  core.Timestamp        `db:"created_at" json:"created_at"`
}

// ResultRepository persists assembled test results. Implementations must not
// mutate the result value.
type ResultRepository interface {
	SaveRecord(ctx context.Context, record *TestRecord) error
	GetRecord(ctx context.Context, id core.RecordID) (*TestRecord, error)
	ListByBattery(ctx context.Context, batteryID core.BatteryID) ([]TestRecord, error)
}
