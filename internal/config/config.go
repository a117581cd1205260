// Package config holds xpboard settings: endpoints, timeouts, where state
// lives and how verbose the log is.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default endpoints of the campus platform.
const (
	DefaultSigninURL  = "https://adam-jerusalem.nd.edu/api/auth/signin"
	DefaultGraphQLURL = "https://adam-jerusalem.nd.edu/api/graphql-engine/v1/graphql"
	DefaultSiteURL    = "https://adam-jerusalem.nd.edu"
)

// Config contains process configuration.
type Config struct {
	// SigninURL is the credential exchange endpoint.
	SigninURL string `koanf:"signin_url"`

	// GraphQLURL is the query endpoint.
	GraphQLURL string `koanf:"graphql_url"`

	// SiteURL is opened by the dashboard's "open in browser" key.
	SiteURL string `koanf:"site_url"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `koanf:"timeout"`

	// StateDir holds the session store and the log file.
	StateDir string `koanf:"state_dir"`

	// Store selects the session backend: file or sqlite.
	Store string `koanf:"store"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Token, when set, is used instead of the stored credential.
	Token string `koanf:"token"`
}

// New returns a Config filled with defaults.
func New() *Config {
	return &Config{
		SigninURL:  DefaultSigninURL,
		GraphQLURL: DefaultGraphQLURL,
		SiteURL:    DefaultSiteURL,
		Timeout:    30 * time.Second,
		StateDir:   defaultStateDir(),
		Store:      "file",
		LogLevel:   "info",
	}
}

// defaultStateDir returns ~/.xpboard, or .xpboard when there is no home.
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xpboard"
	}
	return filepath.Join(home, ".xpboard")
}

// LogPath is the log file inside StateDir.
func (c *Config) LogPath() string {
	return filepath.Join(c.StateDir, "xpboard.log")
}
