package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"weekcal/internal/fsutil"
	"weekcal/internal/model"
	"weekcal/internal/timeline"
	"weekcal/internal/timeparse"
)

// TimelineConfig controls the visible window and drawing constants of the
// day timeline.
type TimelineConfig struct {
	StartHour        float64 `yaml:"start_hour" json:"start_hour"`
	EndHour          float64 `yaml:"end_hour" json:"end_hour"`
	TickHours        float64 `yaml:"tick_hours" json:"tick_hours"`
	BarHeight        float64 `yaml:"bar_height" json:"bar_height"`
	Spacing          float64 `yaml:"spacing" json:"spacing"`
	MarkerPadMinutes int     `yaml:"marker_pad_minutes" json:"marker_pad_minutes"`
}

// ParseConfig selects the time-entry policy.
type ParseConfig struct {
	// PMBias reads bare hours below 12 ("8") as afternoon/evening times.
	PMBias bool `yaml:"pm_bias" json:"pm_bias"`
}

// SnapshotConfig controls PNG captures of the timeline page.
type SnapshotConfig struct {
	Width          int `yaml:"width" json:"width"`
	Height         int `yaml:"height" json:"height"`
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the web API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// DataFile is the JSON task file loaded at start and saved at exit.
	// Relative paths are resolved against the config file directory.
	DataFile string `yaml:"data_file" json:"data_file"`

	// Listen is the HTTP listen address for `weekcal serve`.
	Listen string `yaml:"listen" json:"listen"`

	// WeekStart is "monday" (default) or "sunday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// DefaultColor is used for tasks entered without a color.
	DefaultColor string `yaml:"default_color" json:"default_color"`

	// Autosave is a cron schedule (e.g. "*/10 * * * *") for periodic saves
	// while serving. Empty disables autosave; the store is still saved on exit.
	Autosave string `yaml:"autosave" json:"autosave"`

	Timeline TimelineConfig `yaml:"timeline" json:"timeline"`
	Parse    ParseConfig    `yaml:"parse" json:"parse"`
	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`

	// BasicAuth, if set, protects every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataFile:     "tasks.json",
		Listen:       "127.0.0.1:8080",
		WeekStart:    "monday",
		LogLevel:     "info",
		DefaultColor: model.DefaultColor,
		Autosave:     "",
		Timeline: TimelineConfig{
			StartHour:        timeline.DefaultWindow.StartHour,
			EndHour:          timeline.DefaultWindow.EndHour,
			TickHours:        timeline.DefaultTickHours,
			BarHeight:        timeline.DefaultStyle.BarHeight,
			Spacing:          timeline.DefaultStyle.Spacing,
			MarkerPadMinutes: int(timeline.DefaultStyle.MarkerPad / time.Minute),
		},
		Parse: ParseConfig{PMBias: true},
		Snapshot: SnapshotConfig{
			Width:          1200,
			Height:         800,
			TimeoutSeconds: 30,
		},
	}
}

// Normalize fills in missing or invalid values with defaults so that
// partially filled files still behave.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.DataFile == "" {
		c.DataFile = def.DataFile
	}
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	switch strings.ToLower(c.WeekStart) {
	case "monday", "sunday":
		c.WeekStart = strings.ToLower(c.WeekStart)
	default:
		c.WeekStart = def.WeekStart
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.DefaultColor == "" {
		c.DefaultColor = def.DefaultColor
	}
	if c.Autosave != "" {
		if _, err := cron.ParseStandard(c.Autosave); err != nil {
			c.Autosave = ""
		}
	}

	w := timeline.Window{StartHour: c.Timeline.StartHour, EndHour: c.Timeline.EndHour}
	if !w.Valid() {
		c.Timeline.StartHour = def.Timeline.StartHour
		c.Timeline.EndHour = def.Timeline.EndHour
	}
	if c.Timeline.TickHours <= 0 {
		c.Timeline.TickHours = def.Timeline.TickHours
	}
	if c.Timeline.BarHeight <= 0 {
		c.Timeline.BarHeight = def.Timeline.BarHeight
	}
	if c.Timeline.Spacing < 0 {
		c.Timeline.Spacing = def.Timeline.Spacing
	}
	if c.Timeline.MarkerPadMinutes < 0 {
		c.Timeline.MarkerPadMinutes = def.Timeline.MarkerPadMinutes
	}

	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = def.Snapshot.Width
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = def.Snapshot.Height
	}
	if c.Snapshot.TimeoutSeconds <= 0 {
		c.Snapshot.TimeoutSeconds = def.Snapshot.TimeoutSeconds
	}
}

// Window returns the visible timeline window.
func (c *Config) Window() timeline.Window {
	return timeline.Window{StartHour: c.Timeline.StartHour, EndHour: c.Timeline.EndHour}
}

// Style returns the timeline drawing constants.
func (c *Config) Style() timeline.Style {
	return timeline.Style{
		BarHeight: c.Timeline.BarHeight,
		Spacing:   c.Timeline.Spacing,
		MarkerPad: time.Duration(c.Timeline.MarkerPadMinutes) * time.Minute,
	}
}

// FirstWeekday returns the weekday that starts a week.
func (c *Config) FirstWeekday() time.Weekday {
	if c.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// ParseOptions returns the time-entry policy.
func (c *Config) ParseOptions() timeparse.Options {
	return timeparse.Options{PMBias: c.Parse.PMBias}
}

// ResolveDataFile returns DataFile, made absolute relative to the directory
// of the config file at configPath.
func (c *Config) ResolveDataFile(configPath string) string {
	if filepath.IsAbs(c.DataFile) || configPath == "" {
		return c.DataFile
	}
	return filepath.Join(filepath.Dir(configPath), c.DataFile)
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there with 0600
// permissions and returned. Otherwise the file is read and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Still usable in memory; the caller decides whether to go on.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	// Start from defaults so keys absent from the file (notably booleans)
	// keep their default value.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, ".weekcal-config-*.tmp", 0o600)
}

// Save is a convenience wrapper around the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
