package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/standup/internal/backup"
	"github.com/julianstephens/standup/internal/config"
	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/keyring"
	"github.com/julianstephens/standup/internal/lock"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/storage/sqlite"
)

func newSQLiteContext(t *testing.T) (*Context, *sqlite.Store, func() string) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "standup.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx, out := newTestContext(t, store)
	return ctx, store, out.String
}

func TestInitCopiesFromSource(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "old")
	src := storage.NewDiskStore(srcPath)
	if err := src.Init(); err != nil {
		t.Fatal(err)
	}
	if err := src.Write(constants.UnitContext, []byte("# Me")); err != nil {
		t.Fatal(err)
	}
	if err := src.Write(constants.JournalUnit("2026-10-18"), []byte("# Sunday")); err != nil {
		t.Fatal(err)
	}

	dst := sqlite.NewStore(filepath.Join(dir, "standup.db"))
	t.Cleanup(func() { _ = dst.Close() })
	ctx, out := newTestContext(t, dst)
	ctx.Config = config.Default(filepath.Join(dir, "config"))

	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if !strings.Contains(out.String(), "Copied 2 units") {
		t.Errorf("output = %q", out.String())
	}
	if _, err := os.Stat(config.Path(ctx.Config.Dir)); err != nil {
		t.Errorf("default config not written: %v", err)
	}
	if _, err := os.Stat(lock.Path(ctx.Config.Dir)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("lockfile left behind: %v", err)
	}

	got, err := dst.Read(constants.UnitContext)
	if err != nil || string(got) != "# Me" {
		t.Errorf("context = %q, %v", got, err)
	}
}

func TestInitForce(t *testing.T) {
	ctx, store, _ := newSQLiteContext(t)
	if err := store.Write(constants.UnitContext, []byte("old")); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force error = %v", err)
	}
	if ok, err := store.Has(constants.UnitContext); err != nil || ok {
		t.Errorf("Has(context) after reset = %v, %v", ok, err)
	}
}

func TestInitForceRejectsSameSource(t *testing.T) {
	ctx, store, _ := newSQLiteContext(t)
	err := (&InitCmd{Force: true, Source: store.GetConfigPath()}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "same") {
		t.Errorf("error = %v", err)
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	ctx, _ := newTestContext(t, storage.NewMemoryStore())
	for _, cmd := range []interface{ Run(*Context) error }{&BackupCreateCmd{}, &BackupListCmd{}, &BackupRestoreCmd{File: "x.db"}} {
		if err := cmd.Run(ctx); !errors.Is(err, errBackupUnsupported) {
			t.Errorf("%T error = %v", cmd, err)
		}
	}
}

func TestBackupCreateListRestore(t *testing.T) {
	ctx, store, out := newSQLiteContext(t)
	if err := store.Write(constants.UnitContext, []byte("before")); err != nil {
		t.Fatal(err)
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create error = %v", err)
	}
	if !strings.Contains(out(), "✓ Backup created: "+constants.BackupFilePrefix) {
		t.Errorf("create output = %q", out())
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out(), "1 total") {
		t.Errorf("list output = %q", out())
	}

	backups, err := backup.NewManager(store.GetConfigPath()).List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("List() = %v, %v", backups, err)
	}
	if err := store.Write(constants.UnitContext, []byte("after")); err != nil {
		t.Fatal(err)
	}

	if err := (&BackupRestoreCmd{File: filepath.Base(backups[0].Path), Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore error = %v", err)
	}
	if !strings.Contains(out(), "Database restored successfully") {
		t.Errorf("restore output = %q", out())
	}
	got, err := store.Read(constants.UnitContext)
	if err != nil || string(got) != "before" {
		t.Errorf("context after restore = %q, %v", got, err)
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, store, out := newSQLiteContext(t)
	path, err := backup.NewManager(store.GetConfigPath()).Create()
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(constants.UnitContext, []byte("keep me")); err != nil {
		t.Fatal(err)
	}

	ctx.In = strings.NewReader("n\n")
	if err := (&BackupRestoreCmd{File: path}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out(), "Restore cancelled.") {
		t.Errorf("output = %q", out())
	}
	got, err := store.Read(constants.UnitContext)
	if err != nil || string(got) != "keep me" {
		t.Errorf("context = %q, %v", got, err)
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _, _ := newSQLiteContext(t)
	if err := (&BackupRestoreCmd{File: "standup-20260101-0000.db", Yes: true}).Run(ctx); err == nil {
		t.Error("expected missing backup to fail")
	}
}

func TestKeyCommands(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv(constants.APIKeyEnvVar, "")
	ctx, out := newTestContext(t, storage.NewMemoryStore())

	ctx.In = strings.NewReader("sk-test\n")
	if err := (&KeySetCmd{Secret: "api-key"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if v, err := keyring.Get(keyring.APIKey); err != nil || v != "sk-test" {
		t.Errorf("stored key = %q, %v", v, err)
	}

	out.Reset()
	if err := (&KeyStatusCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "API key is stored in keyring") {
		t.Errorf("status output = %q", out.String())
	}

	if err := (&KeyDeleteCmd{Secret: "api-key"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&KeyDeleteCmd{Secret: "api-key"}).Run(ctx); !errors.Is(err, keyring.ErrNotFound) {
		t.Errorf("second delete error = %v", err)
	}
}

func TestKeySetDatabase(t *testing.T) {
	gokeyring.MockInit()
	ctx, out := newTestContext(t, storage.NewMemoryStore())

	if err := (&KeySetCmd{Secret: "db", Value: "not a connection string"}).Run(ctx); err == nil {
		t.Error("expected invalid connection string to be rejected")
	}

	if err := (&KeySetCmd{Secret: "db", Value: "postgres://me:pw@localhost/standup"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "contains a password") {
		t.Errorf("output = %q", out.String())
	}
}

func TestDoctorHealthyStore(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv(constants.APIKeyEnvVar, "sk-test")
	ctx, _, out := newSQLiteContext(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Session.Start(); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor error = %v\n%s", err, out())
	}
	for _, want := range []string{"Storage reachable: OK", "Schema version: OK", "Data validation: OK", "All diagnostics passed!"} {
		if !strings.Contains(out(), want) {
			t.Errorf("output missing %q:\n%s", want, out())
		}
	}
}

func TestDoctorWarnsWithoutCredential(t *testing.T) {
	gokeyring.MockInit()
	t.Setenv(constants.APIKeyEnvVar, "")
	ctx, out := newTestContext(t, storage.NewMemoryStore())

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor error = %v", err)
	}
	if !strings.Contains(out.String(), "Model credential: WARNING") {
		t.Errorf("output = %q", out.String())
	}
}

func TestDoctorFailsOnCorruptUnit(t *testing.T) {
	gokeyring.MockInit()
	p := storage.NewMemoryStore()
	if err := p.Write(constants.UnitTasks, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	ctx, out := newTestContext(t, p)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail")
	}
	if !strings.Contains(out.String(), "Data validation: FAIL") {
		t.Errorf("output = %q", out.String())
	}
}
