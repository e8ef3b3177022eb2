package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	appName              = "vlist"
	defaultDataDirectory = ".vlist"

	DefaultItems      = 100000
	DefaultItemHeight = 1
	DefaultOverscan   = 5
)

// ListOptions configures the virtual list. Heights, when set, is a repeating
// pattern of per-item heights and switches the list to computed heights.
type ListOptions struct {
	Items      int    `json:"items,omitempty"`
	ItemHeight int    `json:"item_height,omitempty"`
	Heights    []int  `json:"heights,omitempty"`
	Overscan   *int   `json:"overscan,omitempty"`
	PrefixSums bool   `json:"prefix_sums,omitempty"`
	Filter     string `json:"filter,omitempty"`
}

type TUIOptions struct {
	DisableMouse     bool `json:"disable_mouse,omitempty"`
	DisableScrollbar bool `json:"disable_scrollbar,omitempty"`
}

type Options struct {
	TUI           *TUIOptions `json:"tui,omitempty"`
	Debug         bool        `json:"debug,omitempty"`
	DataDirectory string      `json:"data_directory,omitempty"` // Relative to the cwd
}

// Config holds the configuration for vlist.
type Config struct {
	List    *ListOptions `json:"list,omitempty"`
	Options *Options     `json:"options,omitempty"`

	// Internal
	workingDir    string `json:"-"`
	dataConfigDir string `json:"-"`
	raw           []byte `json:"-"`
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// Overscan returns the configured overscan, or the default when unset.
func (c *Config) Overscan() int {
	if c.List == nil || c.List.Overscan == nil {
		return DefaultOverscan
	}
	return max(0, *c.List.Overscan)
}

// LogFile is where the rotating log is written.
func (c *Config) LogFile() string {
	return filepath.Join(c.Options.DataDirectory, "logs", appName+".log")
}

// Get returns the value at key in the merged configuration, using gjson path
// syntax.
func (c *Config) Get(key string) gjson.Result {
	return gjson.GetBytes(c.raw, key)
}

// SetConfigField writes value at key into the data config file, creating it
// if needed.
func (c *Config) SetConfigField(key string, value any) error {
	// read the data
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.dataConfigDir), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.dataConfigDir, []byte(newValue), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DataConfigPath is the file SetConfigField writes to.
func (c *Config) DataConfigPath() string {
	return c.dataConfigDir
}

// Validate reports configuration values the list cannot work with.
func (c *Config) Validate() error {
	if c.List == nil {
		return nil
	}
	for i, h := range c.List.Heights {
		if h <= 0 {
			return fmt.Errorf("list.heights[%d]: height must be positive, got %d", i, h)
		}
	}
	if c.List.Overscan != nil && *c.List.Overscan < 0 {
		return fmt.Errorf("list.overscan: must not be negative, got %d", *c.List.Overscan)
	}
	return nil
}

func (c *Config) setDefaults(workingDir string) {
	c.workingDir = workingDir
	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.Options.TUI == nil {
		c.Options.TUI = &TUIOptions{}
	}
	if c.Options.DataDirectory == "" {
		c.Options.DataDirectory = filepath.Join(workingDir, defaultDataDirectory)
	} else if !filepath.IsAbs(c.Options.DataDirectory) {
		c.Options.DataDirectory = filepath.Join(workingDir, c.Options.DataDirectory)
	}
	if c.List == nil {
		c.List = &ListOptions{}
	}
	if c.List.Items <= 0 {
		c.List.Items = DefaultItems
	}
	if c.List.ItemHeight <= 0 {
		c.List.ItemHeight = DefaultItemHeight
	}
}
