package store

import (
	"context"
	"fmt"
	"path/filepath"
)

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options selects and configures a BlobStore backend.
type Options struct {
	Driver     string
	DataDir    string
	MaxBackups int
	Redis      RedisConfig
}

// Open builds the backend named by opts.Driver. File-based backends live
// under opts.DataDir.
func Open(ctx context.Context, opts Options) (BlobStore, error) {
	switch opts.Driver {
	case "", DriverFile:
		return NewFileStore(opts.DataDir, opts.MaxBackups), nil
	case DriverBolt:
		return OpenBolt(filepath.Join(opts.DataDir, "taskboard.db"), "")
	case DriverSQLite:
		return OpenSQLite(ctx, filepath.Join(opts.DataDir, "taskboard.sqlite"))
	case DriverRedis:
		client, err := NewRedisClient(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client), nil
	case DriverMemory:
		return NewMemoryStore(0), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
