package types

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultShortcutBinding is the global shortcut used when no settings file exists.
const DefaultShortcutBinding = "CommandOrControl+Shift+N"

// shortcutPattern accepts zero or more modifiers joined by '+' and one key.
var shortcutPattern = regexp.MustCompile(`(?i)^((CommandOrControl|CmdOrCtrl|Command|Cmd|Control|Ctrl|Alt|Option|AltGr|Shift|Super|Meta)\+)*([A-Z0-9]|F([1-9]|1[0-9]|2[0-4])|Space|Tab|Enter|Escape|Up|Down|Left|Right|Home|End|PageUp|PageDown|Insert|Delete|Backspace)$`)

// Settings is the single settings document. It has no history: every save
// replaces the whole document.
type Settings struct {
	ReopenOnRestart bool   `json:"reopen_on_restart" yaml:"reopen_on_restart"`
	ShortcutBinding string `json:"shortcut_binding" yaml:"shortcut_binding"`
}

// DefaultSettings returns the document used when the settings file is
// missing or unreadable.
func DefaultSettings() Settings {
	return Settings{
		ReopenOnRestart: false,
		ShortcutBinding: DefaultShortcutBinding,
	}
}

// Validate checks the shortcut binding. Errors wrap ErrSettingsInvalid.
func (s Settings) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.ShortcutBinding,
			validation.Required,
			validation.Match(shortcutPattern).Error("must be modifiers and a key joined by '+', e.g. Ctrl+Shift+N"),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsInvalid, err)
	}
	return nil
}
