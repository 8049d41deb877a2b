// Package app - credentials.go stores per-server login state: secrets in the
// OS keychain and extra request headers in a JSON file.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/imagej/ijc/internal/server"
)

// ProfileConfig holds the non-secret settings for one server.
// Persisted as JSON in ~/.config/ijc/servers/<host>.json.
type ProfileConfig struct {
	Headers map[string]string `json:"headers,omitempty"`
}

// Profile is everything the client applies to requests for one server.
type Profile struct {
	Credentials *server.Credentials
	Headers     map[string]string
}

// profilesDirFunc is the resolver for the profiles directory.
// Override in tests to use a temp directory.
var profilesDirFunc = defaultProfilesDir

func defaultProfilesDir() (string, error) {
	globalPath, err := GlobalConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(globalPath, ProfilesDir), nil
}

// ProfileKey names the profile of a server URL: its host[:port], or the
// trimmed URL when it has no host.
func ProfileKey(serverURL string) string {
	if u, err := url.Parse(serverURL); err == nil && u.Host != "" {
		return strings.ToLower(u.Host)
	}
	return strings.TrimRight(serverURL, "/")
}

func profileConfigPath(key string) (string, error) {
	dir, err := profilesDirFunc()
	if err != nil {
		return "", err
	}
	safe := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key)
	return filepath.Join(dir, safe+".json"), nil
}

// LoadProfileConfig reads the non-secret config for a server.
// Returns an empty config (not an error) if the file does not exist.
func LoadProfileConfig(serverURL string) (ProfileConfig, error) {
	key := ProfileKey(serverURL)
	path, err := profileConfigPath(key)
	if err != nil {
		return ProfileConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ProfileConfig{}, nil
		}
		return ProfileConfig{}, fmt.Errorf("reading profile %q: %w", key, err)
	}
	var cfg ProfileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ProfileConfig{}, fmt.Errorf("parsing profile %q: %w", key, err)
	}
	return cfg, nil
}

// SaveProfileConfig writes the non-secret config for a server.
func SaveProfileConfig(serverURL string, cfg ProfileConfig) error {
	path, err := profileConfigPath(ProfileKey(serverURL))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	return WriteFileAtomic(path, data, FilePerm)
}

// LoadCredentials reads a server's credentials from the OS keychain.
// Returns nil (not an error) if none are stored.
func LoadCredentials(serverURL string) (*server.Credentials, error) {
	key := ProfileKey(serverURL)
	secret, err := keyring.Get(KeychainService, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading keychain for %q: %w", key, err)
	}
	var cred server.Credentials
	if err := json.Unmarshal([]byte(secret), &cred); err != nil {
		return nil, fmt.Errorf("parsing keychain credentials for %q: %w", key, err)
	}
	return &cred, nil
}

// SaveCredentials writes a server's credentials to the OS keychain as JSON.
func SaveCredentials(serverURL string, cred *server.Credentials) error {
	if cred == nil {
		return DeleteCredentials(serverURL)
	}
	key := ProfileKey(serverURL)
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := keyring.Set(KeychainService, key, string(data)); err != nil {
		return fmt.Errorf("writing keychain for %q: %w", key, err)
	}
	return nil
}

// DeleteCredentials removes a server's credentials from the OS keychain.
func DeleteCredentials(serverURL string) error {
	key := ProfileKey(serverURL)
	err := keyring.Delete(KeychainService, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting keychain for %q: %w", key, err)
	}
	return nil
}

// LoadProfile assembles the full profile from config file + keychain.
func LoadProfile(serverURL string) (Profile, error) {
	cfg, err := LoadProfileConfig(serverURL)
	if err != nil {
		return Profile{}, err
	}
	cred, err := LoadCredentials(serverURL)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Credentials: cred, Headers: cfg.Headers}, nil
}

// DeleteProfile removes both the config file and the keychain entry.
func DeleteProfile(serverURL string) error {
	path, err := profileConfigPath(ProfileKey(serverURL))
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing profile: %w", err)
	}
	return DeleteCredentials(serverURL)
}
