// Package app - auth.go stores and removes a server's login.
package app

import (
	"fmt"
	"strings"

	"github.com/imagej/ijc/internal/server"
)

// LoginInput is what `ijc login` stores for a server.
type LoginInput struct {
	Server  string
	Token   string
	Headers map[string]string
}

// Login saves the bearer token in the keychain and the extra headers in the
// server's profile file.
func Login(in LoginInput) error {
	if strings.TrimSpace(in.Token) == "" && len(in.Headers) == 0 {
		return usageExit("nothing to store: pass --token or --header")
	}
	if in.Token != "" {
		if err := SaveCredentials(in.Server, &server.Credentials{BearerToken: in.Token}); err != nil {
			return exitText(1, err.Error(), true)
		}
	}
	if len(in.Headers) > 0 {
		cfg, err := LoadProfileConfig(in.Server)
		if err != nil {
			return exitText(1, err.Error(), true)
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(in.Headers))
		}
		for k, v := range in.Headers {
			cfg.Headers[k] = v
		}
		if err := SaveProfileConfig(in.Server, cfg); err != nil {
			return exitText(1, err.Error(), true)
		}
	}
	return okText(fmt.Sprintf("Logged in to %s", ProfileKey(in.Server)))
}

// Logout removes the stored token and headers of a server.
func Logout(serverURL string) error {
	if err := DeleteProfile(serverURL); err != nil {
		return exitText(1, err.Error(), true)
	}
	return okText(fmt.Sprintf("Logged out of %s", ProfileKey(serverURL)))
}

// ParseHeaders parses repeated "Name: value" or "Name=value" flags.
func ParseHeaders(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		if !ok {
			name, value, ok = strings.Cut(v, "=")
		}
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (want Name: value)", v)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}
