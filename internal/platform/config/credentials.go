package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCookieName       = "auth_cookie"
	DefaultCookieExpiryDays = 0.208
)

// ErrMissingCredentialsFile は認証情報ファイルが存在しない場合に返されます。
var ErrMissingCredentialsFile = errors.New("credentials file not found")

// CredentialsFile is the schema of the hashed credentials YAML file.
//
//	credentials:
//	  usernames:
//	    <username>:
//	      name: <display name>
//	      password: <bcrypt hash>
//	cookie:
//	  name: auth_cookie
//	  key: <signing key>
//	  expiry_days: 0.208
type CredentialsFile struct {
	Credentials Credentials  `yaml:"credentials"`
	Cookie      CookieConfig `yaml:"cookie"`
}

// Credentials maps usernames to their account entries.
type Credentials struct {
	Usernames map[string]UserEntry `yaml:"usernames"`
}

// UserEntry is one account in the credentials file.
type UserEntry struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"` // bcrypt hash, never plaintext
}

// CookieConfig configures the signed session cookie.
type CookieConfig struct {
	Name       string  `yaml:"name"`
	Key        string  `yaml:"key"`
	ExpiryDays float64 `yaml:"expiry_days"`
}

// Expiry returns the cookie lifetime as a duration.
func (c CookieConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryDays * 24 * float64(time.Hour))
}

// LoadCredentials は認証情報ファイルを読み込み、既定値を補完して検証します。
// ファイルが存在しない場合はErrMissingCredentialsFileを返します。
func LoadCredentials(path string) (*CredentialsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingCredentialsFile, path)
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var f CredentialsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	f.applyDefaults()

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *CredentialsFile) applyDefaults() {
	if f.Cookie.Name == "" {
		f.Cookie.Name = DefaultCookieName
	}
	if f.Cookie.ExpiryDays == 0 {
		f.Cookie.ExpiryDays = DefaultCookieExpiryDays
	}
}

// Validate checks that all required fields are set.
func (f *CredentialsFile) Validate() error {
	if len(f.Credentials.Usernames) == 0 {
		return fmt.Errorf("credentials.usernames must contain at least one user")
	}
	for username, u := range f.Credentials.Usernames {
		if username == "" {
			return fmt.Errorf("credentials.usernames contains an empty username")
		}
		if u.Name == "" {
			return fmt.Errorf("credentials.usernames.%s.name is required", username)
		}
		if _, err := bcrypt.Cost([]byte(u.Password)); err != nil {
			return fmt.Errorf("credentials.usernames.%s.password is not a bcrypt hash: %w", username, err)
		}
	}
	if f.Cookie.Key == "" {
		return fmt.Errorf("cookie.key is required")
	}
	if f.Cookie.ExpiryDays <= 0 {
		return fmt.Errorf("cookie.expiry_days must be positive")
	}
	return nil
}

// WriteCredentials はYAMLとしてファイルに書き出します。既存ファイルは上書きされます。
func WriteCredentials(path string, f *CredentialsFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
