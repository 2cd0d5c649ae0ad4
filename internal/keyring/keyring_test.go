package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	for _, s := range []Secret{APIKey, DBConnection} {
		t.Run(string(s), func(t *testing.T) {
			if err := Set(s, "value-"+string(s)); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := Get(s)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != "value-"+string(s) {
				t.Errorf("Get() = %q", got)
			}
		})
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := Set(APIKey, "  "); err == nil {
		t.Error("Set() with blank value should fail")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()
	if _, err := Get(APIKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(DBConnection, "postgres://me@localhost/standup"); err != nil {
		t.Fatal(err)
	}
	if err := Delete(DBConnection); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := Get(DBConnection); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := Delete(DBConnection); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

func TestUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))
	defer gokeyring.MockInit()

	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
	if _, err := Get(APIKey); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get() error = %v, want ErrKeyringUnavailable", err)
	}
}

func TestParseSecret(t *testing.T) {
	tests := map[string]Secret{
		"api-key":  APIKey,
		"OpenAI":   APIKey,
		"db":       DBConnection,
		"database": DBConnection,
	}
	for in, want := range tests {
		got, ok := ParseSecret(in)
		if !ok || got != want {
			t.Errorf("ParseSecret(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseSecret("password"); ok {
		t.Error("ParseSecret(password) should fail")
	}
}
