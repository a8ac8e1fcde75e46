package config

import (
	"fmt"
	"net"
	"sort"
	"strings"

	domainvalidation "github.com/bnema/tooldeck/internal/domain/validation"
)

const (
	maxThumbnailScale = 5.0
	maxViewportSide   = 100000.0
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true,
	"error": true, "disabled": true, "off": true,
}

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateViewer(config)...)
	validationErrors = append(validationErrors, validateRender(config)...)
	validationErrors = append(validationErrors, validateThumbnails(config)...)
	validationErrors = append(validationErrors, validateHistory(config)...)
	validationErrors = append(validationErrors, validateServer(config)...)
	validationErrors = append(validationErrors, validateShortcuts(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateLogging(config *Config) []string {
	if !validLogLevels[config.Logging.Level] {
		return []string{fmt.Sprintf("logging.level %q is not one of trace, debug, info, warn, error, disabled", config.Logging.Level)}
	}
	return nil
}

func validateViewer(config *Config) []string {
	var validationErrors []string
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("viewer.fit_width_padding", config.Viewer.FitWidthPadding)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("viewer.page_gap", config.Viewer.PageGap)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateRange("viewer.viewport_width", config.Viewer.ViewportWidth, 1, maxViewportSide)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateRange("viewer.viewport_height", config.Viewer.ViewportHeight, 1, maxViewportSide)...)
	return validationErrors
}

func validateRender(config *Config) []string {
	if config.Render.MaxConcurrency < 0 {
		return []string{"render.max_concurrency must be non-negative (0 = unbounded)"}
	}
	return nil
}

func validateThumbnails(config *Config) []string {
	var validationErrors []string
	if config.Thumbnails.Scale <= 0 || config.Thumbnails.Scale > maxThumbnailScale {
		validationErrors = append(validationErrors,
			fmt.Sprintf("thumbnails.scale must be in (0, %g]", maxThumbnailScale))
	}
	if config.Thumbnails.VisibilityThreshold <= 0 || config.Thumbnails.VisibilityThreshold > 1 {
		validationErrors = append(validationErrors, "thumbnails.visibility_threshold must be in (0, 1]")
	}
	validationErrors = append(validationErrors,
		domainvalidation.ValidateNonNegative("thumbnails.slot_gap", config.Thumbnails.SlotGap)...)
	validationErrors = append(validationErrors,
		domainvalidation.ValidateRange("thumbnails.strip_height", config.Thumbnails.StripHeight, 1, maxViewportSide)...)
	return validationErrors
}

func validateHistory(config *Config) []string {
	if config.History.RecentLimit < 1 {
		return []string{"history.recent_limit must be at least 1"}
	}
	return nil
}

func validateServer(config *Config) []string {
	if _, _, err := net.SplitHostPort(config.Server.Listen); err != nil {
		return []string{fmt.Sprintf("server.listen %q must be host:port", config.Server.Listen)}
	}
	return nil
}

func validateShortcuts(config *Config) []string {
	var validationErrors []string

	actions := make([]string, 0, len(config.Shortcuts.Actions))
	for action := range config.Shortcuts.Actions {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	owner := make(map[string]string)
	for _, action := range actions {
		for _, key := range config.Shortcuts.Actions[action] {
			field := "shortcuts.actions." + action
			validationErrors = append(validationErrors, domainvalidation.ValidateShortcutKey(field, key)...)

			normalized := strings.TrimSpace(key)
			if prev, dup := owner[normalized]; dup && prev != action {
				validationErrors = append(validationErrors,
					fmt.Sprintf("%s: key %q is already bound to %s", field, key, prev))
				continue
			}
			owner[normalized] = action
		}
	}
	return validationErrors
}
