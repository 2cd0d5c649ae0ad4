package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/julianstephens/standup/internal/constants"
)

const (
	jsonExt    = ".json"
	journalExt = ".md"
	tempDir    = ".tmp"
)

// DiskStore keeps one file per unit under a base directory. Journal units are
// plain Markdown (journal/<date>.md); every other unit is a JSON file.
type DiskStore struct {
	path string
	d    *diskv.Diskv
}

func NewDiskStore(path string) *DiskStore {
	return &DiskStore{path: path}
}

func (s *DiskStore) Init() error {
	if err := os.MkdirAll(s.path, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	s.open()
	return nil
}

func (s *DiskStore) Load() error {
	if s.d != nil {
		return nil
	}
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}
	if err != nil {
		return fmt.Errorf("failed to stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.path)
	}
	s.open()
	return nil
}

func (s *DiskStore) open() {
	s.d = diskv.New(diskv.Options{
		BasePath:          s.path,
		TempDir:           filepath.Join(s.path, tempDir),
		AdvancedTransform: unitToPath,
		InverseTransform:  pathToUnit,
		CacheSizeMax:      1024 * 1024, // 1MB
		PathPerm:          0700,
		FilePerm:          0600,
	})
}

func (s *DiskStore) Close() error {
	s.d = nil
	return nil
}

func (s *DiskStore) Read(key string) ([]byte, error) {
	if s.d == nil {
		return nil, ErrNotLoaded
	}
	data, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return data, nil
}

func (s *DiskStore) Write(key string, data []byte) error {
	if s.d == nil {
		return ErrNotLoaded
	}
	return s.d.Write(key, data)
}

func (s *DiskStore) Has(key string) (bool, error) {
	if s.d == nil {
		return false, ErrNotLoaded
	}
	return s.d.Has(key), nil
}

func (s *DiskStore) Keys(prefix string) ([]string, error) {
	if s.d == nil {
		return nil, ErrNotLoaded
	}
	done := make(chan struct{})
	defer close(done)

	var keys []string
	for key := range s.d.KeysPrefix(prefix, done) {
		if strings.HasPrefix(key, tempDir) {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *DiskStore) GetConfigPath() string {
	return s.path
}

// unitToPath maps "journal/2026-10-19" to journal/2026-10-19.md and "tasks" to tasks.json.
func unitToPath(key string) *diskv.PathKey {
	parts := strings.Split(key, "/")
	name := parts[len(parts)-1]
	if strings.HasPrefix(key, constants.UnitJournalPrefix) {
		name += journalExt
	} else {
		name += jsonExt
	}
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: name,
	}
}

func pathToUnit(pathKey *diskv.PathKey) string {
	name := strings.TrimSuffix(strings.TrimSuffix(pathKey.FileName, jsonExt), journalExt)
	if len(pathKey.Path) == 0 {
		return name
	}
	return strings.Join(pathKey.Path, "/") + "/" + name
}
