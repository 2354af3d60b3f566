package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("blob not found")
	// ErrQuotaExceeded is returned by Set when the backend has no room for the value.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrNoValidBackup is returned by Recover when no backup decodes.
	ErrNoValidBackup = errors.New("no valid backup found")
)

// BlobStore is an opaque key-value store holding serialized documents.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Recovery describes a value restored by a Recoverer.
type Recovery struct {
	Data        []byte
	BackupPath  string
	CorruptPath string
}

// Recoverer is implemented by backends that keep backups of previous values.
// Recover moves the unreadable value aside and restores the newest backup
// accepted by valid. When none is accepted it returns ErrNoValidBackup along
// with the corrupt path, if any.
type Recoverer interface {
	Recover(ctx context.Context, key string, valid func([]byte) bool) (Recovery, error)
}
