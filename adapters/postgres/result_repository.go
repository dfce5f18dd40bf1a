package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bootdw/domain/core"
	"bootdw/domain/serialcorr"
	"bootdw/ports"
)

// ResultRepositoryImpl implements ports.ResultRepository for PostgreSQL
type ResultRepositoryImpl struct {
	db *sqlx.DB
}

// NewResultRepository creates a new PostgreSQL result repository
func NewResultRepository(db *sqlx.DB) *ResultRepositoryImpl {
	return &ResultRepositoryImpl{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS test_results (
	id UUID PRIMARY KEY,
	battery_id UUID NOT NULL,
	dataset_key TEXT NOT NULL,
	method TEXT NOT NULL,
	result JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_test_results_battery ON test_results (battery_id);
`

// EnsureSchema creates the results table if it does not exist
func (r *ResultRepositoryImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// SaveRecord persists one assembled test result. The result value is stored
// as JSONB exactly as serialized, so reads reproduce every field.
func (r *ResultRepositoryImpl) SaveRecord(ctx context.Context, record *ports.TestRecord) error {
	if record.ID.String() == "" {
		record.ID = core.RecordID(uuid.New().String())
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = core.Now()
	}

	payload, err := serialcorr.EncodeResult(record.Result)
	if err != nil {
		return fmt.Errorf("encode result for storage: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO test_results (id, battery_id, dataset_key, method, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID.String(), record.BatteryID.String(), record.DatasetKey.String(),
		record.Result.Method.String(), payload, record.CreatedAt.Time())
	return err
}

// GetRecord retrieves a record by ID
func (r *ResultRepositoryImpl) GetRecord(ctx context.Context, id core.RecordID) (*ports.TestRecord, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, battery_id, dataset_key, result, created_at
		FROM test_results
		WHERE id = $1
	`, id.String())
	if err != nil {
		return nil, err
	}
	return row.toRecord()
}

// ListByBattery retrieves all records for one battery, oldest first
func (r *ResultRepositoryImpl) ListByBattery(ctx context.Context, batteryID core.BatteryID) ([]ports.TestRecord, error) {
	var rows []resultRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, battery_id, dataset_key, result, created_at
		FROM test_results
		WHERE battery_id = $1
		ORDER BY created_at ASC
	`, batteryID.String())
	if err != nil {
		return nil, err
	}

	records := make([]ports.TestRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// resultRow is the flat database projection of a TestRecord
type resultRow struct {
	ID         string          `db:"id"`
	BatteryID  string          `db:"battery_id"`
	DatasetKey string          `db:"dataset_key"`
	Result     json.RawMessage `db:"result"`
	CreatedAt  time.Time       `db:"created_at"`
}

func (row resultRow) toRecord() (*ports.TestRecord, error) {
	result, err := serialcorr.DecodeResult(row.Result)
	if err != nil {
		return nil, err
	}
	return &ports.TestRecord{
		ID:         core.RecordID(row.ID),
		BatteryID:  core.BatteryID(row.BatteryID),
		DatasetKey: core.DatasetKey(row.DatasetKey),
		Result:     result,
		CreatedAt:  core.NewTimestamp(row.CreatedAt),
	}, nil
}
