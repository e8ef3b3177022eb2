package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/qjebbs/go-jsons"
)

const (
	configFileName      = appName + ".json"
	localConfigFileName = "." + appName + ".json"
)

// GlobalConfig returns the path to the main config file for the user.
func GlobalConfig() string {
	if p := os.Getenv("VLIST_GLOBAL_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, configFileName)
	}
	return filepath.Join(home(), ".config", appName, configFileName)
}

// GlobalConfigData returns the path to the config file that vlist itself
// writes to. It takes precedence over GlobalConfig.
func GlobalConfigData() string {
	if p := os.Getenv("VLIST_GLOBAL_DATA"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, configFileName)
	}
	// return the path to the main data directory
	// for windows, it should be in `%LOCALAPPDATA%/vlist/`
	// for linux and macOS, it should be in `$HOME/.local/share/vlist/`
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, configFileName)
	}
	return filepath.Join(home(), ".local", "share", appName, configFileName)
}

// LocalConfig returns the project config path for workingDir.
func LocalConfig(workingDir string) string {
	return filepath.Join(workingDir, localConfigFileName)
}

// Paths returns every config file Load looks at, lowest precedence first.
func Paths(workingDir string) []string {
	return []string{
		GlobalConfig(),
		GlobalConfigData(),
		LocalConfig(workingDir),
	}
}

// Load reads and merges the global, data and project config files. Missing
// files are skipped.
func Load(workingDir string, debug bool) (*Config, error) {
	var readers []io.Reader
	for _, path := range Paths(workingDir) {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		readers = append(readers, bytes.NewReader(data))
	}

	cfg, err := loadFromReaders(readers)
	if err != nil {
		return nil, err
	}
	cfg.setDefaults(workingDir)
	cfg.dataConfigDir = GlobalConfigData()
	if debug {
		cfg.Options.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFromReaders(readers []io.Reader) (*Config, error) {
	if len(readers) == 0 {
		return &Config{raw: []byte("{}")}, nil
	}

	merged, err := jsons.Merge(readers)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configuration readers: %w", err)
	}

	return LoadReader(bytes.NewReader(merged))
}

// LoadReader decodes a single JSON config. Defaults are not applied.
func LoadReader(fd io.Reader) (*Config, error) {
	data, err := io.ReadAll(fd)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	config.raw = data
	return &config, nil
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.TempDir()
}
