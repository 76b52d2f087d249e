package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"golang.org/x/crypto/bcrypt"

	"ohlcv_dashboard/internal/platform/config"
)

const (
	defaultUsername = "fintra research"
	defaultName     = "Fintra Research"
	defaultPassword = "xxxx"

	cookieKeyBytes = 32
)

type generateCmd struct {
	output   string
	username string
	name     string
	password string
	cost     int
}

func (*generateCmd) Name() string     { return "generate" }
func (*generateCmd) Synopsis() string { return "write a hashed credentials file" }
func (*generateCmd) Usage() string {
	return `generate [-o <file>] [-username <u>] [-name <display name>] [-password <p>]

  Hashes the password with bcrypt and writes the credentials file read by the
  dashboard server. An existing file is overwritten. A new random cookie key
  is generated on every run, which invalidates all issued session cookies.
`
}

func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", config.DefaultCredentialsFile, "Output file")
	f.StringVar(&c.username, "username", defaultUsername, "Login name")
	f.StringVar(&c.name, "name", defaultName, "Display name")
	f.StringVar(&c.password, "password", defaultPassword, "Plaintext password to hash")
}

func (c *generateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", f.Args())
		return subcommands.ExitUsageError
	}
	if c.username == "" || c.password == "" {
		fmt.Fprintln(os.Stderr, "Error: -username and -password must not be empty.")
		return subcommands.ExitUsageError
	}

	creds, err := c.build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := config.WriteCredentials(c.output, creds); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Credentials for %q written to %s\n", c.username, c.output)
	return subcommands.ExitSuccess
}

func (c *generateCmd) build() (*config.CredentialsFile, error) {
	cost := c.cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(c.password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	key, err := randomKey()
	if err != nil {
		return nil, fmt.Errorf("generate cookie key: %w", err)
	}

	name := c.name
	if name == "" {
		name = c.username
	}
	return &config.CredentialsFile{
		Credentials: config.Credentials{
			Usernames: map[string]config.UserEntry{
				c.username: {Name: name, Password: string(hash)},
			},
		},
		Cookie: config.CookieConfig{
			Name:       config.DefaultCookieName,
			Key:        key,
			ExpiryDays: config.DefaultCookieExpiryDays,
		},
	}, nil
}

func randomKey() (string, error) {
	b := make([]byte, cookieKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
