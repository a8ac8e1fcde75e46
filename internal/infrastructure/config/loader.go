package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)

	// TOOLDECK_VIEWER_PAGE_GAP, TOOLDECK_SERVER_LISTEN, ...
	v.SetEnvPrefix("TOOLDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Shared with logging.NewFromEnv, which runs before the config is loaded.
	if err := v.BindEnv("logging.level", "TOOLDECK_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind TOOLDECK_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "TOOLDECK_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind TOOLDECK_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A default config file is written on first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	return m.apply()
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile, _ = GetConfigFile()
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		configDir, _ := GetConfigDir()
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			configDir,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

// apply unmarshals, normalizes and validates the viper state into m.config.
// Must be called with the write lock held.
func (m *Manager) apply() error {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	if err := ensureDatabasePath(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func ensureDatabasePath(config *Config) error {
	if config.History.DatabasePath != "" {
		return nil
	}
	dbPath, err := GetDatabaseFile()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	config.History.DatabasePath = dbPath
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	switch LogFormat(strings.ToLower(string(config.Logging.Format))) {
	case LogFormatJSON:
		config.Logging.Format = LogFormatJSON
	default:
		config.Logging.Format = LogFormatConsole
	}

	config.Server.Listen = strings.TrimSpace(config.Server.Listen)

	if len(config.Shortcuts.Actions) == 0 {
		config.Shortcuts.Actions = DefaultShortcutActions()
	}
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// Settings returns the effective settings keyed by their config names.
func (m *Manager) Settings() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viper.AllSettings()
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Created default configuration file: %s (TOML format)\n", configFile)
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Note: history.database_path is resolved in Load(), no default needed

	m.setLoggingDefaults(defaults)
	m.setViewerDefaults(defaults)
	m.setRenderDefaults(defaults)
	m.setThumbnailDefaults(defaults)
	m.setHistoryDefaults(defaults)
	m.setServerDefaults(defaults)
	m.setShortcutDefaults(defaults)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", string(defaults.Logging.Format))
}

func (m *Manager) setViewerDefaults(defaults *Config) {
	m.viper.SetDefault("viewer.fit_width_padding", defaults.Viewer.FitWidthPadding)
	m.viper.SetDefault("viewer.page_gap", defaults.Viewer.PageGap)
	m.viper.SetDefault("viewer.viewport_width", defaults.Viewer.ViewportWidth)
	m.viper.SetDefault("viewer.viewport_height", defaults.Viewer.ViewportHeight)
}

func (m *Manager) setRenderDefaults(defaults *Config) {
	m.viper.SetDefault("render.max_concurrency", defaults.Render.MaxConcurrency)
}

func (m *Manager) setThumbnailDefaults(defaults *Config) {
	m.viper.SetDefault("thumbnails.scale", defaults.Thumbnails.Scale)
	m.viper.SetDefault("thumbnails.visibility_threshold", defaults.Thumbnails.VisibilityThreshold)
	m.viper.SetDefault("thumbnails.slot_gap", defaults.Thumbnails.SlotGap)
	m.viper.SetDefault("thumbnails.strip_height", defaults.Thumbnails.StripHeight)
	m.viper.SetDefault("thumbnails.start_expanded", defaults.Thumbnails.StartExpanded)
}

func (m *Manager) setHistoryDefaults(defaults *Config) {
	m.viper.SetDefault("history.enabled", defaults.History.Enabled)
	m.viper.SetDefault("history.recent_limit", defaults.History.RecentLimit)
}

func (m *Manager) setServerDefaults(defaults *Config) {
	m.viper.SetDefault("server.listen", defaults.Server.Listen)
	m.viper.SetDefault("server.enable_metrics", defaults.Server.EnableMetrics)
}

// setShortcutDefaults registers one key per action so a config file that
// rebinds a single action keeps the defaults of the others.
func (m *Manager) setShortcutDefaults(defaults *Config) {
	for action, keys := range defaults.Shortcuts.Actions {
		m.viper.SetDefault("shortcuts.actions."+action, keys)
	}
}
