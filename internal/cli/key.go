package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/keyring"
	"github.com/julianstephens/standup/internal/storage/postgres"
)

type KeySetCmd struct {
	Secret string `arg:"" enum:"api-key,db" help:"Which secret to store (${enum})."`
	Value  string `arg:"" optional:"" help:"Secret value. Reads the first line of stdin when omitted."`
}

func (c *KeySetCmd) Run(ctx *Context) error {
	secret, _ := keyring.ParseSecret(c.Secret)
	value := strings.TrimSpace(c.Value)
	if value == "" {
		line, err := readLine(ctx.in())
		if err != nil {
			return err
		}
		value = line
	}

	if secret == keyring.DBConnection {
		if !IsPostgres(value) {
			return fmt.Errorf("connection string must be a valid PostgreSQL connection string")
		}
		if err := postgres.ValidateConnString(value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			ctx.warn("⚠️  Connection string contains a password. It will be stored as-is in the OS keyring.")
		}
	}

	if err := keyring.Set(secret, value); err != nil {
		return err
	}
	ctx.confirm(fmt.Sprintf("✓ %s stored in OS keyring", secret.Label()))
	return nil
}

func readLine(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}

type KeyDeleteCmd struct {
	Secret string `arg:"" enum:"api-key,db" help:"Which secret to delete (${enum})."`
}

func (c *KeyDeleteCmd) Run(ctx *Context) error {
	secret, _ := keyring.ParseSecret(c.Secret)
	if err := keyring.Delete(secret); err != nil {
		return err
	}
	ctx.confirm(fmt.Sprintf("✓ %s deleted from OS keyring", secret.Label()))
	return nil
}

type KeyStatusCmd struct{}

func (c *KeyStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.warn("❌ OS keyring is not available on this system")
	} else {
		ctx.println("✓ OS keyring is available")
		for _, s := range []keyring.Secret{keyring.APIKey, keyring.DBConnection} {
			if _, err := keyring.Get(s); err == nil {
				ctx.printf("✓ %s is stored in keyring\n", s.Label())
			} else {
				ctx.printf("ℹ No %s stored in keyring\n", s.Label())
			}
		}
	}
	if os.Getenv(constants.APIKeyEnvVar) != "" {
		ctx.printf("✓ %s is set in the environment\n", constants.APIKeyEnvVar)
	}
	return nil
}
