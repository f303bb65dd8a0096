package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultConfigDir  = ".remindshield"
	DefaultPolicyFile = "policy.yaml"
	DefaultLogFile    = "audit.jsonl"
	DefaultPacksDir   = "packs"
	DefaultListenAddr = "127.0.0.1:8740"
)

type Config struct {
	ConfigDir  string
	PolicyPath string
	// LogPath is the JSONL audit mirror. Empty disables mirroring.
	LogPath  string
	PacksDir string
	Listen   string
	Debug    bool
}

// Options carries flag overrides. Zero values pick the defaults.
type Options struct {
	PolicyPath string
	LogPath    string
	NoLog      bool
	Listen     string
	Debug      bool
}

// Load resolves paths under ~/.remindshield, creating the directory (0700)
// when missing.
func Load(opts Options) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(homeDir, DefaultConfigDir), opts)
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(configDir string, opts Options) (*Config, error) {
	if err := ensureDir(configDir); err != nil {
		return nil, err
	}

	cfg := &Config{
		ConfigDir:  configDir,
		PolicyPath: filepath.Join(configDir, DefaultPolicyFile),
		LogPath:    filepath.Join(configDir, DefaultLogFile),
		PacksDir:   filepath.Join(configDir, DefaultPacksDir),
		Listen:     DefaultListenAddr,
		Debug:      opts.Debug,
	}

	if opts.PolicyPath != "" {
		cfg.PolicyPath = opts.PolicyPath
	}
	switch {
	case opts.NoLog:
		cfg.LogPath = ""
	case opts.LogPath != "":
		cfg.LogPath = opts.LogPath
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}

	return cfg, nil
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
