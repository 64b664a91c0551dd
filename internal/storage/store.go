package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"oneline/internal/core/model"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DataKey is the fixed key the app data blob lives under.
const DataKey = "the_line_data.json"

const corruptSuffix = ".corrupt"

var (
	// ErrNotFound is returned by a Blob when the key has never been written.
	ErrNotFound = errors.New("blob not found")
	// ErrCorrupt indicates the stored blob could not be decoded or validated.
	ErrCorrupt = errors.New("stored app data is corrupt")
)

// Blob is a minimal key-value backend.
type Blob interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
}

// Store persists AppData as a single JSON blob.
type Store struct {
	mu       sync.Mutex
	blobs    Blob
	key      string
	logger   *zap.Logger
	validate *validator.Validate
}

// NewStore creates a Store over the given backend.
func NewStore(blobs Blob, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		blobs:    blobs,
		key:      DataKey,
		logger:   logger.Named("store"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load returns the stored data. When nothing is stored the defaults are
// returned with a nil error; on read failure or corruption the defaults are
// returned together with the error.
func (store *Store) Load(ctx context.Context) (model.AppData, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, _, err := store.loadLocked(ctx)
	return data, err
}

// Save overwrites the stored blob.
func (store *Store) Save(ctx context.Context, data model.AppData) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.saveLocked(ctx, data)
}

// Update runs one load-mutate-save transaction. A corrupt blob is backed up
// and replaced by defaults; a failed read aborts without writing.
func (store *Store) Update(ctx context.Context, mutate func(*model.AppData) error) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, raw, err := store.loadLocked(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return err
		}
		if backupErr := store.blobs.Write(store.key+corruptSuffix, raw); backupErr != nil {
			return fmt.Errorf("back up corrupt data: %w", backupErr)
		}
		store.logger.Warn("replacing corrupt app data", zap.String("backup", store.key+corruptSuffix), zap.Error(err))
	}

	if err := mutate(&data); err != nil {
		return err
	}
	return store.saveLocked(ctx, data)
}

// AppendSegment inserts or replaces a segment and recomputes stats.
func (store *Store) AppendSegment(ctx context.Context, segment model.LineSegment) error {
	if err := store.validate.Struct(segment); err != nil {
		return fmt.Errorf("validate segment: %w", err)
	}
	return store.Update(ctx, func(data *model.AppData) error {
		data.PutSegment(segment)
		return nil
	})
}

// SetColorScheme stores the stroke colour.
func (store *Store) SetColorScheme(ctx context.Context, hex string) error {
	if err := store.validate.Var(hex, "required,hexcolor"); err != nil {
		return fmt.Errorf("validate color scheme: %w", err)
	}
	return store.Update(ctx, func(data *model.AppData) error {
		data.ColorScheme = hex
		return nil
	})
}

func (store *Store) loadLocked(ctx context.Context) (model.AppData, []byte, error) {
	if err := ctx.Err(); err != nil {
		return model.DefaultAppData(), nil, err
	}

	raw, err := store.blobs.Read(store.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.DefaultAppData(), nil, nil
		}
		store.logger.Warn("read app data", zap.Error(err))
		return model.DefaultAppData(), nil, fmt.Errorf("read app data: %w", err)
	}

	data, err := store.decode(raw)
	if err != nil {
		store.logger.Warn("decode app data", zap.Int("bytes", len(raw)), zap.Error(err))
		return model.DefaultAppData(), raw, err
	}
	return data, raw, nil
}

func (store *Store) decode(raw []byte) (model.AppData, error) {
	var data model.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.AppData{}, fmt.Errorf("%w: parse: %v", ErrCorrupt, err)
	}
	if err := store.validate.Struct(data); err != nil {
		return model.AppData{}, fmt.Errorf("%w: validate: %v", ErrCorrupt, err)
	}
	if data.LineSegments == nil {
		data.LineSegments = []model.LineSegment{}
	}
	if data.ColorScheme == "" {
		data.ColorScheme = model.DefaultColorScheme
	}
	return data, nil
}

func (store *Store) saveLocked(ctx context.Context, data model.AppData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	serialized, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal app data: %w", err)
	}
	if err := store.blobs.Write(store.key, serialized); err != nil {
		store.logger.Error("write app data", zap.Error(err))
		return fmt.Errorf("write app data: %w", err)
	}
	store.logger.Debug("app data saved",
		zap.Int("segments", len(data.LineSegments)),
		zap.Int("total_days", data.Stats.TotalDays),
	)
	return nil
}
