// Package app - config.go resolves client settings from flags, environment
// and the optional config file.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/imagej/ijc/internal/server"
)

// Config keys. Flags of the same name are bound to them.
const (
	KeyServer    = "server"
	KeyFormat    = "format"
	KeyTimeout   = "timeout"
	KeyCacheSize = "cache-size"
	KeyLogLevel  = "log-level"
	KeyLogFile   = "log-file"
)

// Config is the resolved client configuration.
type Config struct {
	Server    string        `json:"server" yaml:"server"`
	Format    string        `json:"format" yaml:"format"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	CacheSize int           `json:"cacheSize" yaml:"cacheSize"`
	LogLevel  string        `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFile   string        `json:"logFile,omitempty" yaml:"logFile,omitempty"`
	// File is the config file that was read, if any.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// NewViper returns a viper instance with defaults and IJC_* environment
// lookup configured.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServer, DefaultServerURL)
	v.SetDefault(KeyFormat, DefaultConversionFormat)
	v.SetDefault(KeyTimeout, server.DefaultTimeout)
	v.SetDefault(KeyCacheSize, DefaultCacheSize)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// DotEnvFile is read from the working directory for IJC_* settings.
const DotEnvFile = ".env"

// LoadDotEnv reads IJC_* assignments from a dotenv file as defaults: the
// config file, the environment and flags all override them. A missing file
// is not an error.
func LoadDotEnv(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	env, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	for name, value := range env {
		if key, ok := envKey(name); ok {
			v.SetDefault(key, value)
		}
	}
	return nil
}

// envKey maps IJC_CACHE_SIZE to cache-size.
func envKey(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, EnvPrefix+"_")
	if !ok || rest == "" {
		return "", false
	}
	return strings.ReplaceAll(strings.ToLower(rest), "_", "-"), true
}

// LoadConfig reads the config file (explicit path, or config.yaml in the
// global config directory when present) and resolves every key.
func LoadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigFileName)
		if dir, err := GlobalConfigPath(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		Server:    strings.TrimRight(v.GetString(KeyServer), "/"),
		Format:    v.GetString(KeyFormat),
		Timeout:   v.GetDuration(KeyTimeout),
		CacheSize: v.GetInt(KeyCacheSize),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFile:   v.GetString(KeyLogFile),
		File:      v.ConfigFileUsed(),
	}
	if cfg.Server == "" {
		return Config{}, errors.New("no server configured")
	}
	if cfg.Format == "" {
		cfg.Format = DefaultConversionFormat
	}
	return cfg, nil
}

// ClientOptions builds server client options from the config and a profile.
func (c Config) ClientOptions(p Profile) server.Options {
	return server.Options{
		BaseURL:     c.Server,
		Timeout:     c.Timeout,
		Credentials: p.Credentials,
		Headers:     p.Headers,
	}
}
