package postgres

import (
	"errors"
	"os"
	"slices"
	"testing"

	"github.com/julianstephens/standup/internal/storage"
)

// Set POSTGRES_TEST_URL to a disposable database to run these.
func setupIntegration(t *testing.T) *Store {
	t.Helper()
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}
	s := New(connStr)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := s.GetDB().Exec("DELETE FROM units"); err != nil {
		t.Fatalf("failed to reset units: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestIntegrationReadWrite(t *testing.T) {
	s := setupIntegration(t)

	if _, err := s.Read("tasks"); !errors.Is(err, storage.ErrNotExist) {
		t.Fatalf("Read() missing unit error = %v", err)
	}
	if err := s.Write("tasks", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := s.Write("tasks", []byte("b")); err != nil {
		t.Fatal(err)
	}
	data, err := s.Read("tasks")
	if err != nil || string(data) != "b" {
		t.Errorf("Read() = %q, %v", data, err)
	}
	ok, err := s.Has("tasks")
	if err != nil || !ok {
		t.Errorf("Has() = %v, %v", ok, err)
	}
}

func TestIntegrationKeys(t *testing.T) {
	s := setupIntegration(t)
	for _, k := range []string{"journal/2026-10-19", "tasks", "journal/2026-10-18"} {
		if err := s.Write(k, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.Keys("journal/")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"journal/2026-10-18", "journal/2026-10-19"}
	if !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}
