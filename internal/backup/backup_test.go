package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/standup/internal/constants"
	sqlitestore "github.com/julianstephens/standup/internal/storage/sqlite"
)

// setupTestDB creates an initialized standup database holding one unit.
func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "standup.db")
	s := sqlitestore.NewStore(dbPath)
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	if err := s.Write("tasks", []byte("v1")); err != nil {
		t.Fatalf("failed to write unit: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	return dbPath
}

func readUnit(t *testing.T, dbPath, key string) string {
	t.Helper()
	s := sqlitestore.NewStore(dbPath)
	if err := s.Load(); err != nil {
		t.Fatalf("failed to load %s: %v", dbPath, err)
	}
	defer s.Close()
	data, err := s.Read(key)
	if err != nil {
		t.Fatalf("failed to read %s: %v", key, err)
	}
	return string(data)
}

func writeUnit(t *testing.T, dbPath, key, value string) {
	t.Helper()
	s := sqlitestore.NewStore(dbPath)
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Write(key, []byte(value)); err != nil {
		t.Fatal(err)
	}
}

// steppingManager returns a manager whose clock advances a minute per backup.
func steppingManager(dbPath string) *Manager {
	m := NewManager(dbPath)
	ts := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		ts = ts.Add(time.Minute)
		return ts
	}
	return m
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := steppingManager(dbPath)

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if filepath.Dir(path) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written to %s, want the backups directory", path)
	}
	if got := filepath.Base(path); got != "standup-20261019-0801.db" {
		t.Errorf("backup name = %s", got)
	}
	if got := readUnit(t, path, "tasks"); got != "v1" {
		t.Errorf("backup unit = %q, want v1", got)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("Create() expected error for missing database")
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := steppingManager(dbPath)

	for i := 0; i < constants.MaxBackups+5; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backup %d is newer than backup %d", i, i-1)
		}
	}
	// The five oldest were pruned.
	if got := filepath.Base(backups[len(backups)-1].Path); got != "standup-20261019-0806.db" {
		t.Errorf("oldest remaining backup = %s", got)
	}
}

func TestList(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := steppingManager(dbPath)

	backups, err := mgr.List()
	if err != nil || len(backups) != 0 {
		t.Fatalf("List() before any backup = %v, %v", backups, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatal(err)
		}
	}
	// Foreign files are ignored.
	_ = os.WriteFile(filepath.Join(mgr.Dir(), "notes.txt"), []byte("x"), 0600)
	_ = os.WriteFile(filepath.Join(mgr.Dir(), "standup-garbage.db"), []byte("x"), 0600)

	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Size == 0 || b.Timestamp.IsZero() {
			t.Errorf("incomplete backup info: %+v", b)
		}
	}
}

func TestParseStamp(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
		ok   bool
	}{
		{name: "minute", file: "standup-20261019-0830.db", want: "2026-10-19 08:30:00", ok: true},
		{name: "second", file: "standup-20261019-083015.db", want: "2026-10-19 08:30:15", ok: true},
		{name: "counter", file: "standup-20261019-083015-3.db", want: "2026-10-19 08:30:15", ok: true},
		{name: "wrong prefix", file: "backup-20261019-0830.db", ok: false},
		{name: "wrong suffix", file: "standup-20261019-0830.bak", ok: false},
		{name: "garbage", file: "standup-yesterday.db", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseStamp(tt.file)
			if ok != tt.ok {
				t.Fatalf("parseStamp(%s) ok = %v, want %v", tt.file, ok, tt.ok)
			}
			if ok && got.Format("2006-01-02 15:04:05") != tt.want {
				t.Errorf("parseStamp(%s) = %v, want %s", tt.file, got, tt.want)
			}
		})
	}
}

func TestUniqueNamesWithinMinute(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixed := time.Date(2026, 10, 19, 8, 30, 15, 0, time.UTC)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
		if seen[path] {
			t.Errorf("duplicate backup name %s", filepath.Base(path))
		}
		seen[path] = true
	}
	if !seen[filepath.Join(mgr.Dir(), "standup-20261019-083015-1.db")] {
		t.Errorf("expected a counter-suffixed name, got %v", seen)
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := steppingManager(dbPath)

	path, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	writeUnit(t, dbPath, "tasks", "v2")

	safety, err := mgr.Restore(path)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got := readUnit(t, dbPath, "tasks"); got != "v1" {
		t.Errorf("restored unit = %q, want v1", got)
	}
	if safety == "" {
		t.Fatal("Restore() did not report a safety backup")
	}
	if got := readUnit(t, safety, "tasks"); got != "v2" {
		t.Errorf("safety backup unit = %q, want v2", got)
	}

	backups, _ := mgr.List()
	if len(backups) != 2 {
		t.Errorf("expected 2 backups after restore, got %d", len(backups))
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("Restore() expected error for missing backup")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.db")
	if err := os.WriteFile(invalid, []byte("not a database at all, just some bytes"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(invalid); err == nil {
		t.Error("Restore() expected error for invalid backup")
	}
	if got := readUnit(t, dbPath, "tasks"); got != "v1" {
		t.Errorf("database changed after rejected restore: %q", got)
	}
}
