package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ohlcv_dashboard/internal/platform/config"
)

func runGenerate(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	cmd := &generateCmd{cost: bcrypt.MinCost}
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cmd.Execute(context.Background(), fs)
}

func TestGenerate_Defaults(t *testing.T) {
	out := filepath.Join(t.TempDir(), "creds.yml")

	status := runGenerate(t, "-o", out)
	require.Equal(t, subcommands.ExitSuccess, status)

	creds, err := config.LoadCredentials(out)
	require.NoError(t, err)

	user, ok := creds.Credentials.Usernames["fintra research"]
	require.True(t, ok)
	assert.Equal(t, "Fintra Research", user.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("xxxx")))
	assert.Equal(t, config.DefaultCookieName, creds.Cookie.Name)
	assert.Len(t, creds.Cookie.Key, 2*cookieKeyBytes)
	assert.InDelta(t, config.DefaultCookieExpiryDays, creds.Cookie.ExpiryDays, 1e-9)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestGenerate_CustomAccountOverwrites(t *testing.T) {
	out := filepath.Join(t.TempDir(), "creds.yml")
	require.Equal(t, subcommands.ExitSuccess, runGenerate(t, "-o", out))
	first, err := config.LoadCredentials(out)
	require.NoError(t, err)

	status := runGenerate(t, "-o", out, "-username", "alice", "-name", "Alice", "-password", "s3cret")
	require.Equal(t, subcommands.ExitSuccess, status)

	creds, err := config.LoadCredentials(out)
	require.NoError(t, err)
	assert.Len(t, creds.Credentials.Usernames, 1)
	user := creds.Credentials.Usernames["alice"]
	assert.Equal(t, "Alice", user.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")))
	assert.NotEqual(t, first.Cookie.Key, creds.Cookie.Key)
}

func TestGenerate_UsageErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "creds.yml")

	tests := []struct {
		name string
		args []string
	}{
		{"empty password", []string{"-o", out, "-password", ""}},
		{"empty username", []string{"-o", out, "-username", ""}},
		{"extra argument", []string{"-o", out, "surplus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, subcommands.ExitUsageError, runGenerate(t, tt.args...))
			_, err := os.Stat(out)
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}

func TestGenerate_UnwritableOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "creds.yml")

	assert.Equal(t, subcommands.ExitFailure, runGenerate(t, "-o", out))
}
