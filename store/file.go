package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultMaxBackups is the number of rotating backups kept per key.
const DefaultMaxBackups = 10

var keyReplacer = strings.NewReplacer(":", "-", "/", "-", "\\", "-")

// FileStore keeps each key in its own JSON file under dir.
// Every write goes through a temporary file and an atomic rename. The previous
// value is kept as <file>.bak plus a rotating timestamped set.
type FileStore struct {
	dir        string
	maxBackups int
	now        func() time.Time
}

func NewFileStore(dir string, maxBackups int) *FileStore {
	if maxBackups < 0 {
		maxBackups = 0
	}
	return &FileStore{dir: dir, maxBackups: maxBackups, now: time.Now}
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, keyReplacer.Replace(key)+".json")
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	path := s.Path(key)
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := s.backup(path); err != nil {
		return err
	}
	return writeAtomic(path, value)
}

// Remove deletes the current value. Backups are left in place.
func (s *FileStore) Remove(_ context.Context, key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Recover(_ context.Context, key string, valid func([]byte) bool) (Recovery, error) {
	path := s.Path(key)
	corruptPath, err := s.moveCorruptFile(path)
	if err != nil {
		return Recovery{}, fmt.Errorf("move corrupt file: %w", err)
	}

	data, backupPath, err := loadLatestValidBackup(path, valid)
	if err != nil {
		return Recovery{CorruptPath: corruptPath}, err
	}
	if err := writeAtomic(path, data); err != nil {
		return Recovery{CorruptPath: corruptPath}, fmt.Errorf("restore backup: %w", err)
	}
	return Recovery{Data: data, BackupPath: backupPath, CorruptPath: corruptPath}, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func (s *FileStore) backup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := os.WriteFile(path+".bak", data, 0o644); err != nil {
		return err
	}
	if s.maxBackups == 0 {
		return nil
	}

	timestamp := s.now().UTC().Format("20060102-150405.000000000")
	rotatingPath := fmt.Sprintf("%s.bak.%s", path, timestamp)
	if err := os.WriteFile(rotatingPath, data, 0o644); err != nil {
		return err
	}
	return s.pruneRotatingBackups(path)
}

func (s *FileStore) pruneRotatingBackups(path string) error {
	files, err := filepath.Glob(path + ".bak.*")
	if err != nil {
		return err
	}
	if len(files) <= s.maxBackups {
		return nil
	}

	sort.Strings(files)
	for _, old := range files[:len(files)-s.maxBackups] {
		if err := os.Remove(old); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// loadLatestValidBackup tries .bak first, then rotating backups newest first.
func loadLatestValidBackup(path string, valid func([]byte) bool) ([]byte, string, error) {
	candidates := make([]string, 0, 12)
	latest := path + ".bak"
	if _, err := os.Stat(latest); err == nil {
		candidates = append(candidates, latest)
	}
	rotating, err := filepath.Glob(path + ".bak.*")
	if err != nil {
		return nil, "", err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(rotating)))
	candidates = append(candidates, rotating...)

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		if valid != nil && !valid(data) {
			continue
		}
		return data, candidate, nil
	}
	return nil, "", ErrNoValidBackup
}

func (s *FileStore) moveCorruptFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	timestamp := s.now().UTC().Format("20060102-150405")
	corruptPath := filepath.Join(filepath.Dir(path), fmt.Sprintf("%s.corrupt-%s%s", name, timestamp, ext))
	if err := os.Rename(path, corruptPath); err != nil {
		return "", err
	}
	return corruptPath, nil
}
