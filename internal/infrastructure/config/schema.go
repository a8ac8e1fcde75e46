package config

// Config represents the complete configuration for tooldeck.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" toml:"logging"`
	// Viewer controls the main document view geometry.
	Viewer ViewerConfig `mapstructure:"viewer" yaml:"viewer" toml:"viewer"`
	// Render controls the page rasterization pipeline.
	Render RenderConfig `mapstructure:"render" yaml:"render" toml:"render"`
	// Thumbnails controls the lazily rendered preview strip.
	Thumbnails ThumbnailsConfig `mapstructure:"thumbnails" yaml:"thumbnails" toml:"thumbnails"`
	// History controls the remembered view state store (disabled by default).
	History HistoryConfig `mapstructure:"history" yaml:"history" toml:"history"`
	// Server configures the HTTP control API.
	Server ServerConfig `mapstructure:"server" yaml:"server" toml:"server"`
	// Shortcuts maps viewer actions to key combinations.
	Shortcuts ShortcutsConfig `mapstructure:"shortcuts" yaml:"shortcuts" toml:"shortcuts"`
}

// LogFormat selects the log output encoding.
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string    `mapstructure:"level" yaml:"level" toml:"level"`
	Format LogFormat `mapstructure:"format" yaml:"format" toml:"format" jsonschema:"enum=console,enum=json"`
}

// ViewerConfig holds main view settings.
type ViewerConfig struct {
	// FitWidthPadding is subtracted from the viewport width by fit-to-width.
	FitWidthPadding float64 `mapstructure:"fit_width_padding" yaml:"fit_width_padding" toml:"fit_width_padding"`
	// PageGap is the vertical space between page surfaces.
	PageGap        float64 `mapstructure:"page_gap" yaml:"page_gap" toml:"page_gap"`
	ViewportWidth  float64 `mapstructure:"viewport_width" yaml:"viewport_width" toml:"viewport_width"`
	ViewportHeight float64 `mapstructure:"viewport_height" yaml:"viewport_height" toml:"viewport_height"`
}

// RenderConfig holds rasterization settings.
type RenderConfig struct {
	// MaxConcurrency bounds concurrent page renders. 0 means unbounded.
	MaxConcurrency int `mapstructure:"max_concurrency" yaml:"max_concurrency" toml:"max_concurrency"`
}

// ThumbnailsConfig holds preview strip settings.
type ThumbnailsConfig struct {
	Scale float64 `mapstructure:"scale" yaml:"scale" toml:"scale"`
	// VisibilityThreshold is the visible fraction of a slot that triggers its render.
	VisibilityThreshold float64 `mapstructure:"visibility_threshold" yaml:"visibility_threshold" toml:"visibility_threshold"`
	SlotGap             float64 `mapstructure:"slot_gap" yaml:"slot_gap" toml:"slot_gap"`
	StripHeight         float64 `mapstructure:"strip_height" yaml:"strip_height" toml:"strip_height"`
	StartExpanded       bool    `mapstructure:"start_expanded" yaml:"start_expanded" toml:"start_expanded"`
}

// HistoryConfig holds remembered view state settings.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	// DatabasePath defaults to the XDG data directory when empty.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path" toml:"database_path"`
	// RecentLimit caps the entries listed by `tooldeck history`.
	RecentLimit int `mapstructure:"recent_limit" yaml:"recent_limit" toml:"recent_limit"`
}

// ServerConfig holds control API settings.
type ServerConfig struct {
	Listen        string `mapstructure:"listen" yaml:"listen" toml:"listen"`
	EnableMetrics bool   `mapstructure:"enable_metrics" yaml:"enable_metrics" toml:"enable_metrics"`
}

// ShortcutsConfig defines key bindings as action → keys.
type ShortcutsConfig struct {
	Actions map[string][]string `mapstructure:"actions" yaml:"actions" toml:"actions"`
}

// GetKeyBindings returns an inverted map for O(1) key→action lookup.
// This is built from the action→keys structure in the config.
func (s *ShortcutsConfig) GetKeyBindings() map[string]string {
	keyToAction := make(map[string]string)
	for action, keys := range s.Actions {
		for _, key := range keys {
			keyToAction[key] = action
		}
	}
	return keyToAction
}
