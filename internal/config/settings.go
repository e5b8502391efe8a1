// Package config resolves where the ledger lives and how it is written.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Defaults used when nothing is configured.
const (
	DefaultBackend    = "file"
	DefaultExportPath = "export.csv"
)

// Settings describes the storage layout for one ledger.
type Settings struct {
	DataDir    string
	Backend    string
	ExportPath string
	MaskKey    byte
}

// DefaultSettings returns the fallback layout: plain record files under
// the user's data directory.
func DefaultSettings() Settings {
	return Settings{
		DataDir:    defaultDataDir(),
		Backend:    DefaultBackend,
		ExportPath: DefaultExportPath,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".solari"
	}
	return filepath.Join(home, ".local", "share", "solari")
}

// Load resolves settings from Viper (config file or SOLARI_ env vars)
// over the defaults.
func Load() (Settings, error) {
	s := DefaultSettings()

	if v := viper.GetString("storage.dir"); v != "" {
		s.DataDir = ExpandPath(v)
	}
	if v := viper.GetString("storage.backend"); v != "" {
		s.Backend = v
	}
	if v := viper.GetInt("storage.mask_key"); v != 0 {
		if v < 0 || v > 255 {
			return Settings{}, fmt.Errorf("storage.mask_key must be between 0 and 255, got %d", v)
		}
		s.MaskKey = byte(v)
	}
	if v := viper.GetString("export.path"); v != "" {
		s.ExportPath = ExpandPath(v)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the backend name; everything else has a workable zero.
func (s Settings) Validate() error {
	switch s.Backend {
	case "file", "sqlite":
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q (want file or sqlite)", s.Backend)
	}
}

// SQLitePath returns the database location used by the sqlite backend.
func (s Settings) SQLitePath() string {
	return filepath.Join(s.DataDir, "solari.db")
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}
