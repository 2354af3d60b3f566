package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"taskboard/model"
)

const (
	DefaultKeyPrefix = "taskboard:"
	DefaultTimeout   = 2 * time.Second

	snapshotKey       = "snapshot"
	sortPreferenceKey = "sort-preference"
)

// Persister serializes store state to a BlobStore. The snapshot and the sort
// preference live under separate keys so the preference can be read on its own.
type Persister struct {
	blobs   BlobStore
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

type PersisterOption func(*Persister)

func WithKeyPrefix(prefix string) PersisterOption {
	return func(p *Persister) { p.prefix = prefix }
}

// WithTimeout bounds each backend call.
func WithTimeout(d time.Duration) PersisterOption {
	return func(p *Persister) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) PersisterOption {
	return func(p *Persister) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPersister(blobs BlobStore, opts ...PersisterOption) *Persister {
	p := &Persister{
		blobs:   blobs,
		prefix:  DefaultKeyPrefix,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Persister) SnapshotKey() string       { return p.prefix + snapshotKey }
func (p *Persister) SortPreferenceKey() string { return p.prefix + sortPreferenceKey }

// Load reads the snapshot once at startup. It never fails: a missing or
// unreadable snapshot yields the defaults. When the snapshot is corrupt and
// the backend keeps backups, the newest decodable backup is restored.
// The returned message is non-empty when the user should hear about a recovery.
func (p *Persister) Load() (model.Snapshot, string) {
	ctx, cancel := p.context()
	defer cancel()

	key := p.SnapshotKey()
	data, err := p.blobs.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.logger.Warn("snapshot read failed, starting empty", zap.String("key", key), zap.Error(err))
		}
		return model.NewSnapshot(), ""
	}

	snap, err := DecodeSnapshot(data)
	if err == nil {
		return snap, ""
	}
	if !isCorruptError(err) {
		p.logger.Warn("snapshot decode failed, starting empty", zap.String("key", key), zap.Error(err))
		return model.NewSnapshot(), ""
	}
	p.logger.Warn("corrupt snapshot", zap.String("key", key), zap.Error(err))
	return p.recover(ctx, key)
}

func (p *Persister) recover(ctx context.Context, key string) (model.Snapshot, string) {
	r, ok := p.blobs.(Recoverer)
	if !ok {
		return model.NewSnapshot(), "Corrupt data discarded; started with an empty board"
	}

	rec, err := r.Recover(ctx, key, func(data []byte) bool {
		_, err := DecodeSnapshot(data)
		return err == nil
	})
	moved := ""
	if rec.CorruptPath != "" {
		moved = fmt.Sprintf(" (bad file moved to %s)", filepath.Base(rec.CorruptPath))
	}
	if err != nil {
		if !errors.Is(err, ErrNoValidBackup) {
			p.logger.Warn("backup recovery failed", zap.String("key", key), zap.Error(err))
		}
		return model.NewSnapshot(), "Corrupt data without a valid backup; started with an empty board" + moved
	}

	snap, err := DecodeSnapshot(rec.Data)
	if err != nil {
		return model.NewSnapshot(), "Corrupt data discarded; started with an empty board" + moved
	}
	p.logger.Info("snapshot restored from backup", zap.String("key", key), zap.String("backup", rec.BackupPath))
	return snap, fmt.Sprintf("Recovered corrupt data from %s%s", filepath.Base(rec.BackupPath), moved)
}

// SaveSnapshot writes the persistable state. selectedTaskIds and searchQuery
// are not part of model.Snapshot and never reach storage.
func (p *Persister) SaveSnapshot(snap model.Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	ctx, cancel := p.context()
	defer cancel()
	return p.blobs.Set(ctx, p.SnapshotKey(), data)
}

func (p *Persister) SaveSortPreference(pref model.SortPreference) error {
	data, err := EncodeSortPreference(pref)
	if err != nil {
		return fmt.Errorf("encode sort preference: %w", err)
	}
	ctx, cancel := p.context()
	defer cancel()
	return p.blobs.Set(ctx, p.SortPreferenceKey(), data)
}

// LoadSortPreference returns ErrNotFound when no preference was saved and a
// decode error when the stored value is unusable.
func (p *Persister) LoadSortPreference() (model.SortPreference, error) {
	ctx, cancel := p.context()
	defer cancel()
	data, err := p.blobs.Get(ctx, p.SortPreferenceKey())
	if err != nil {
		return model.SortPreference{}, err
	}
	return DecodeSortPreference(data)
}

// Clear removes both the snapshot and the sort preference.
func (p *Persister) Clear() error {
	ctx, cancel := p.context()
	defer cancel()
	return errors.Join(
		p.blobs.Remove(ctx, p.SnapshotKey()),
		p.blobs.Remove(ctx, p.SortPreferenceKey()),
	)
}

func (p *Persister) Close() error {
	return p.blobs.Close()
}

func (p *Persister) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), p.timeout)
}
