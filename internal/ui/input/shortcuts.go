// Package input maps host key presses and command names to viewer actions.
package input

import (
	"context"
	"slices"
	"strings"

	"github.com/bnema/tooldeck/internal/infrastructure/config"
	"github.com/bnema/tooldeck/internal/logging"
)

// Modifier represents keyboard modifier flags.
type Modifier uint

const (
	// ModNone indicates no modifier is pressed.
	ModNone Modifier = 0
	// ModShift indicates the Shift key is pressed.
	ModShift Modifier = 1 << iota
	// ModCtrl indicates the Control key is pressed.
	ModCtrl
	// ModAlt indicates the Alt key is pressed.
	ModAlt
)

// keyAliases normalizes key names to the names terminals report.
var keyAliases = map[string]string{
	"escape":     "esc",
	"return":     "enter",
	"space":      " ",
	"plus":       "+",
	"minus":      "-",
	"equal":      "=",
	"pageup":     "pgup",
	"page_up":    "pgup",
	"pagedown":   "pgdown",
	"page_down":  "pgdown",
	"arrowleft":  "left",
	"arrowright": "right",
	"arrowup":    "up",
	"arrowdown":  "down",
	"del":        "delete",
}

// KeyBinding represents a single key combination.
type KeyBinding struct {
	Key       string // normalized key name, e.g. "+", "tab", "pgdown", "t"
	Modifiers Modifier
}

// String renders the binding in canonical "ctrl+alt+shift+key" form.
func (b KeyBinding) String() string {
	var sb strings.Builder
	if b.Modifiers&ModCtrl != 0 {
		sb.WriteString("ctrl+")
	}
	if b.Modifiers&ModAlt != 0 {
		sb.WriteString("alt+")
	}
	if b.Modifiers&ModShift != 0 {
		sb.WriteString("shift+")
	}
	sb.WriteString(b.Key)
	return sb.String()
}

// Action is a viewer command. Its string form is the command name used by
// the control API and the config file.
type Action string

const (
	ActionOpenDocuments    Action = "open-documents"
	ActionCloseActiveTab   Action = "close-active-tab"
	ActionZoomIn           Action = "zoom-in"
	ActionZoomOut          Action = "zoom-out"
	ActionResetZoom        Action = "reset-zoom"
	ActionFitToWidth       Action = "fit-to-width"
	ActionPreviousPage     Action = "previous-page"
	ActionNextPage         Action = "next-page"
	ActionToggleThumbnails Action = "toggle-thumbnails"
	ActionNextTab          Action = "next-tab"
	ActionPreviousTab      Action = "previous-tab"
	ActionQuit             Action = "quit"
)

var allActions = []Action{
	ActionOpenDocuments,
	ActionCloseActiveTab,
	ActionZoomIn,
	ActionZoomOut,
	ActionResetZoom,
	ActionFitToWidth,
	ActionPreviousPage,
	ActionNextPage,
	ActionToggleThumbnails,
	ActionNextTab,
	ActionPreviousTab,
	ActionQuit,
}

// Actions lists every known action.
func Actions() []Action {
	return slices.Clone(allActions)
}

// ParseAction resolves a command name. Underscores are accepted for hyphens.
func ParseAction(name string) (Action, bool) {
	a := Action(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	if slices.Contains(allActions, a) {
		return a, true
	}
	return "", false
}

// ShortcutTable maps KeyBinding to Action.
type ShortcutTable map[KeyBinding]Action

// NewShortcutTable builds the table from configured action→keys bindings.
// Unparseable keys and unknown actions are logged and skipped.
func NewShortcutTable(ctx context.Context, cfg *config.ShortcutsConfig) ShortcutTable {
	log := logging.FromContext(ctx)
	table := make(ShortcutTable)
	if cfg == nil {
		return table
	}

	var parseErrors, unknownActions int
	for key, name := range cfg.GetKeyBindings() {
		action, ok := ParseAction(name)
		if !ok {
			unknownActions++
			log.Warn().Str("key", key).Str("action", name).Msg("unknown shortcut action")
			continue
		}
		binding, ok := ParseKeyString(key)
		if !ok {
			parseErrors++
			log.Warn().Str("key", key).Msg("failed to parse shortcut key")
			continue
		}
		table[binding] = action
		log.Trace().
			Str("key", binding.String()).
			Str("action", string(action)).
			Msg("shortcut registered")
	}

	log.Debug().
		Int("registered", len(table)).
		Int("parseErrors", parseErrors).
		Int("unknownActions", unknownActions).
		Msg("shortcuts built")

	return table
}

// Lookup finds the action bound to a key combination.
func (t ShortcutTable) Lookup(binding KeyBinding) (Action, bool) {
	action, ok := t[binding]
	return action, ok
}

// KeysFor lists the bindings of an action in canonical form, sorted.
func (t ShortcutTable) KeysFor(action Action) []string {
	var keys []string
	for b, a := range t {
		if a == action {
			keys = append(keys, b.String())
		}
	}
	slices.Sort(keys)
	return keys
}

// ParseKeyString converts a key string like "ctrl+plus" or a terminal key
// name like "shift+tab" to a KeyBinding. Returns false if it cannot be parsed.
func ParseKeyString(s string) (KeyBinding, bool) {
	if s == " " {
		return KeyBinding{Key: " "}, true
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return KeyBinding{}, false
	}
	if s == "+" {
		return KeyBinding{Key: "+"}, true
	}

	parts := strings.Split(s, "+")

	var modifiers Modifier
	var keyPart string

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		switch strings.ToLower(part) {
		case "ctrl", "control", "cmd", "meta":
			modifiers |= ModCtrl
		case "shift":
			modifiers |= ModShift
		case "alt", "option":
			modifiers |= ModAlt
		default:
			if keyPart != "" {
				return KeyBinding{}, false
			}
			keyPart = part
		}
	}

	// Allow parsing "ctrl++" where the key is "+".
	if keyPart == "" && strings.HasSuffix(s, "++") {
		keyPart = "+"
	}
	if keyPart == "" {
		return KeyBinding{}, false
	}

	// Treat uppercase single-letter keys as Shift+<letter>.
	if len(keyPart) == 1 && keyPart[0] >= 'A' && keyPart[0] <= 'Z' {
		modifiers |= ModShift
	}
	key := strings.ToLower(keyPart)
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}

	return KeyBinding{Key: key, Modifiers: modifiers}, true
}
