package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	BatteryID  ID
	RecordID   ID
	DatasetKey ID
)

// String conversions for domain IDs
func (id BatteryID) String() string  { return ID(id).String() }
func (id RecordID) String() string   { return ID(id).String() }
func (id DatasetKey) String() string { return ID(id).String() }

// ParseBatteryID parses a string into BatteryID
func ParseBatteryID(s string) (BatteryID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("battery ID cannot be empty")
	}
	return BatteryID(s), nil
}

// ParseRecordID parses a string into RecordID
func ParseRecordID(s string) (RecordID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("record ID cannot be empty")
	}
	return RecordID(s), nil
}
