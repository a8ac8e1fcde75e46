package config

// Default configuration constants
const (
	// Viewer defaults
	defaultFitWidthPadding = 40.0
	defaultPageGap         = 10.0
	defaultViewportWidth   = 1200.0
	defaultViewportHeight  = 800.0

	// Thumbnail defaults
	defaultThumbnailScale      = 0.2
	defaultVisibilityThreshold = 0.1
	defaultSlotGap             = 8.0
	defaultStripHeight         = 800.0

	// History defaults
	defaultRecentLimit = 20 // entries

	// Server defaults
	defaultListenAddr = "127.0.0.1:7531"
)

// DefaultConfig returns the default configuration values for tooldeck.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: LogFormatConsole,
		},
		Viewer: ViewerConfig{
			FitWidthPadding: defaultFitWidthPadding,
			PageGap:         defaultPageGap,
			ViewportWidth:   defaultViewportWidth,
			ViewportHeight:  defaultViewportHeight,
		},
		Render: RenderConfig{
			MaxConcurrency: 0, // unbounded
		},
		Thumbnails: ThumbnailsConfig{
			Scale:               defaultThumbnailScale,
			VisibilityThreshold: defaultVisibilityThreshold,
			SlotGap:             defaultSlotGap,
			StripHeight:         defaultStripHeight,
			StartExpanded:       true,
		},
		History: HistoryConfig{
			Enabled:      false,
			DatabasePath: "", // resolved in Load()
			RecentLimit:  defaultRecentLimit,
		},
		Server: ServerConfig{
			Listen:        defaultListenAddr,
			EnableMetrics: true,
		},
		Shortcuts: ShortcutsConfig{
			Actions: DefaultShortcutActions(),
		},
	}
}

// DefaultShortcutActions returns the built-in key bindings, one entry per action.
func DefaultShortcutActions() map[string][]string {
	return map[string][]string{
		"open-documents":    {"o"},
		"close-active-tab":  {"ctrl+w", "x"},
		"zoom-in":           {"ctrl+plus", "ctrl+=", "+", "="},
		"zoom-out":          {"ctrl+minus", "-"},
		"reset-zoom":        {"ctrl+0", "0"},
		"fit-to-width":      {"w"},
		"previous-page":     {"left", "pgup", "k"},
		"next-page":         {"right", "pgdown", "j"},
		"toggle-thumbnails": {"t"},
		"next-tab":          {"tab"},
		"previous-tab":      {"shift+tab"},
		"quit":              {"q", "ctrl+c"},
	}
}
