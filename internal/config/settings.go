package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/fpt/go-fsorganizer-mcp/internal/pathutil"
	"github.com/fpt/go-fsorganizer-mcp/internal/repository"
	"github.com/pkg/errors"
)

// DefaultMaxFileSize is used when no max_file_size is configured anywhere.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Environment variables override file-based settings field by field.
const (
	EnvAllowedPaths      = "FILESYSTEM_ALLOWED_PATHS"
	EnvMaxFileSize       = "FILESYSTEM_MAX_FILE_SIZE"
	EnvAllowedExtensions = "FILESYSTEM_ALLOWED_EXTENSIONS"
)

// SizeString accepts either a JSON string ("10MB") or a bare integer byte
// count, preserving the raw value for ParseSize.
type SizeString string

func (s *SizeString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = SizeString(str)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*s = SizeString(strconv.FormatInt(n, 10))
		return nil
	}
	return errors.Errorf("max_file_size must be a string or an integer, got %s", string(data))
}

// Settings mirrors the on-disk JSON configuration document. All fields are
// optional; missing values fall back to defaults when resolved.
type Settings struct {
	AllowedPaths      []string   `json:"allowed_paths,omitempty"`
	MaxFileSize       SizeString `json:"max_file_size,omitempty"`
	AllowedExtensions []string   `json:"allowed_extensions,omitempty"`
}

// LoadSettings loads settings from the OS-keyed JSON file in configDir and
// applies environment overrides on top. A missing configuration file is not
// an error; an empty base configuration is used instead.
func LoadSettings(configDir string) (*Settings, error) {
	if configDir == "" {
		configDir = findConfigDir()
	}

	settings := &Settings{}

	configPath := filepath.Join(configDir, osConfigFileName())
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = filepath.Join(configDir, "default.json")
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, errors.Wrapf(err, "failed to parse settings file %s", configPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to read settings file %s", configPath)
	}

	applyEnvOverrides(settings)

	return settings, nil
}

// Resolve normalizes settings into the immutable runtime configuration:
// canonical absolute roots, a byte-count size limit, and a lowercased,
// deduplicated extension list. A malformed size string is a fatal error.
func (s *Settings) Resolve() (repository.FileSystemConfig, error) {
	var cfg repository.FileSystemConfig

	for _, p := range s.AllowedPaths {
		canonical, err := pathutil.Canonicalize(p)
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid allowed path %s", p)
		}
		cfg.AllowedPaths = append(cfg.AllowedPaths, canonical)
	}

	sizeStr := string(s.MaxFileSize)
	if sizeStr == "" {
		cfg.MaxFileSize = DefaultMaxFileSize
	} else {
		size, err := ParseSize(sizeStr)
		if err != nil {
			return cfg, err
		}
		cfg.MaxFileSize = size
	}

	seen := make(map[string]struct{}, len(s.AllowedExtensions))
	for _, ext := range s.AllowedExtensions {
		lowered := strings.ToLower(strings.TrimSpace(ext))
		if lowered == "" {
			continue
		}
		if _, ok := seen[lowered]; ok {
			continue
		}
		seen[lowered] = struct{}{}
		cfg.AllowedExtensions = append(cfg.AllowedExtensions, lowered)
	}
	sort.Strings(cfg.AllowedExtensions)

	return cfg, nil
}

// ParseSize parses a human-readable size: a bare integer byte count or an
// integer with a case-insensitive KB/MB/GB suffix (1024-based multipliers).
// Any other suffix is an error.
func ParseSize(sizeStr string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(sizeStr))

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "KB"):
		multiplier = 1 << 10
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1 << 20
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "GB"):
		multiplier = 1 << 30
		s = strings.TrimSuffix(s, "GB")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid size string %q", sizeStr)
	}

	return n * multiplier, nil
}

// applyEnvOverrides replaces whole fields with environment values when set.
func applyEnvOverrides(settings *Settings) {
	if paths := os.Getenv(EnvAllowedPaths); paths != "" {
		settings.AllowedPaths = filepath.SplitList(paths)
	}
	if size := os.Getenv(EnvMaxFileSize); size != "" {
		settings.MaxFileSize = SizeString(size)
	}
	if exts := os.Getenv(EnvAllowedExtensions); exts != "" {
		var parsed []string
		for _, e := range strings.Split(exts, ",") {
			if trimmed := strings.TrimSpace(e); trimmed != "" {
				parsed = append(parsed, trimmed)
			}
		}
		settings.AllowedExtensions = parsed
	}
}

// osConfigFileName returns the configuration file name keyed by the running
// operating system.
func osConfigFileName() string {
	switch runtime.GOOS {
	case "windows":
		return "windows.json"
	case "darwin":
		return "macos.json"
	case "linux":
		return "linux.json"
	default:
		return "default.json"
	}
}

// findConfigDir locates the configuration directory:
// 1. config/ in the current directory
// 2. config/ next to the executable
func findConfigDir() string {
	if info, err := os.Stat("config"); err == nil && info.IsDir() {
		return "config"
	}

	if exe, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exe), "config")
	}

	return "config"
}
