package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/Simplici0/calc3d/internal/pricing"
)

// Repository loads and saves typed settings on top of a Store. Loading never
// fails: absent, outdated or unreadable records yield the defaults.
type Repository struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewRepository returns a Repository. A nil logger discards log output.
func NewRepository(store Store, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{store: store, logger: logger, now: time.Now}
}

// PrintSettings returns the stored pricing policy or the default one.
func (r *Repository) PrintSettings(ctx context.Context) pricing.PrintSettings {
	return load(ctx, r, KeyPrintSettings, PrintSettingsVersion, pricing.DefaultPrintSettings())
}

// MaterialSettings returns the stored spool settings or the default ones.
func (r *Repository) MaterialSettings(ctx context.Context) pricing.MaterialSettings {
	return load(ctx, r, KeyMaterialSettings, MaterialSettingsVersion, pricing.DefaultMaterialSettings())
}

// SavePrintSettings stores the pricing policy.
func (r *Repository) SavePrintSettings(ctx context.Context, s pricing.PrintSettings) error {
	return r.save(ctx, KeyPrintSettings, PrintSettingsVersion, s)
}

// SaveMaterialSettings stores the spool settings.
func (r *Repository) SaveMaterialSettings(ctx context.Context, s pricing.MaterialSettings) error {
	return r.save(ctx, KeyMaterialSettings, MaterialSettingsVersion, s)
}

// Reset overwrites every key with its default value.
func (r *Repository) Reset(ctx context.Context) error {
	records, err := DefaultRecords(r.now())
	if err != nil {
		return err
	}
	var errs []error
	for _, rec := range records {
		if err := r.store.Put(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Repository) save(ctx context.Context, key string, version int, value any) error {
	if err := validate(value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	rec, err := NewRecord(key, version, value, r.now())
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func load[T any](ctx context.Context, r *Repository, key string, version int, def T) T {
	rec, err := r.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def
	}
	if err != nil {
		r.logger.Warn("settings store unavailable, using defaults", zap.String("key", key), zap.Error(err))
		return def
	}

	value, err := Decode[T](rec, version)
	if err != nil {
		r.logger.Warn("discarding incompatible settings record",
			zap.String("key", key),
			zap.Int("stored_version", rec.SchemaVersion),
			zap.Int("current_version", version),
			zap.Error(err),
		)
		return def
	}
	return value
}

// Decode validates rec against the current schema version and the fields of T.
// Every field of T must be present and non-null in the payload; unknown fields
// are ignored. When T has a Validate method the decoded value must pass it.
// Failures wrap ErrSchemaMismatch.
func Decode[T any](rec Record, version int) (T, error) {
	var zero T
	if rec.SchemaVersion != version {
		return zero, fmt.Errorf("%w: version %d, want %d", ErrSchemaMismatch, rec.SchemaVersion, version)
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Payload, &raw); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if raw == nil {
		return zero, fmt.Errorf("%w: payload is not an object", ErrSchemaMismatch)
	}

	var nulls []string
	for k, v := range raw {
		if v == nil {
			nulls = append(nulls, k)
		}
	}
	if len(nulls) > 0 {
		sort.Strings(nulls)
		return zero, fmt.Errorf("%w: null fields %v", ErrSchemaMismatch, nulls)
	}

	var out T
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Result:   &out,
		Metadata: &md,
	})
	if err != nil {
		return zero, fmt.Errorf("build settings decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if len(md.Unset) > 0 {
		sort.Strings(md.Unset)
		return zero, fmt.Errorf("%w: missing fields %v", ErrSchemaMismatch, md.Unset)
	}
	if err := validate(out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return out, nil
}

type validator interface {
	Validate() error
}

func validate(value any) error {
	if v, ok := value.(validator); ok {
		return v.Validate()
	}
	return nil
}
