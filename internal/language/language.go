package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Canonical parses tag and returns its canonical BCP 47 form. Underscore
// separators ("en_us") are accepted because editors often pass locale names.
func Canonical(tag string) (string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	if cleaned == "" {
		return "", fmt.Errorf("language tag is empty")
	}
	parsed, err := language.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid language tag %q: %w", tag, err)
	}
	if parsed == language.Und {
		return "", fmt.Errorf("invalid language tag %q: undetermined", tag)
	}
	return parsed.String(), nil
}

// DisplayName returns the English name of tag, or the tag itself when it
// cannot be parsed.
func DisplayName(tag string) string {
	parsed, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return tag
	}
	if name := display.English.Tags().Name(parsed); name != "" {
		return name
	}
	return tag
}
