// Package settings persists pricing preferences as versioned key-value records.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/calc3d/internal/pricing"
)

// Storage keys.
const (
	KeyPrintSettings    = "calc3d_settings"
	KeyMaterialSettings = "calc3d_material"
)

// Current schema versions. Bump a version whenever a required field is added,
// renamed or changes meaning; older records are then discarded on load.
const (
	// Version 2 replaced the waste rate with the profit percent.
	PrintSettingsVersion    = 2
	MaterialSettingsVersion = 1
)

// ErrNotFound is returned by a Store when no record exists for a key.
var ErrNotFound = errors.New("settings record not found")

// ErrSchemaMismatch marks a stored record that does not fit the current schema.
var ErrSchemaMismatch = errors.New("settings schema mismatch")

// Record is one stored preference object.
type Record struct {
	Key           string
	SchemaVersion int
	Payload       []byte
	UpdatedAt     time.Time
}

// Store is a key-value backend for settings records.
type Store interface {
	Get(ctx context.Context, key string) (Record, error)
	Put(ctx context.Context, rec Record) error
}

// NewRecord encodes value as the payload of a record.
func NewRecord(key string, version int, value any, now time.Time) (Record, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return Record{}, fmt.Errorf("encode %s: %w", key, err)
	}
	return Record{
		Key:           key,
		SchemaVersion: version,
		Payload:       payload,
		UpdatedAt:     now.UTC(),
	}, nil
}

// DefaultRecords returns a record for every key, holding its default value.
func DefaultRecords(now time.Time) ([]Record, error) {
	printRec, err := NewRecord(KeyPrintSettings, PrintSettingsVersion, pricing.DefaultPrintSettings(), now)
	if err != nil {
		return nil, err
	}
	materialRec, err := NewRecord(KeyMaterialSettings, MaterialSettingsVersion, pricing.DefaultMaterialSettings(), now)
	if err != nil {
		return nil, err
	}
	return []Record{printRec, materialRec}, nil
}
