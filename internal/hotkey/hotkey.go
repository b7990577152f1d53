// Package hotkey parses and canonicalizes key-chord strings such as "Ctrl+Alt+T".
package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Modifier is a bit set of chord modifiers.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModWin
)

var modifierAliases = map[string]Modifier{
	"ALT":     ModAlt,
	"OPTION":  ModAlt,
	"CTRL":    ModCtrl,
	"CONTROL": ModCtrl,
	"SHIFT":   ModShift,
	"WIN":     ModWin,
	"WINDOWS": ModWin,
	"SUPER":   ModWin,
	"META":    ModWin,
}

var namedKeys = map[string]string{
	"SPACE":  "Space",
	"TAB":    "Tab",
	"ENTER":  "Enter",
	"RETURN": "Enter",
	"ESC":    "Esc",
	"ESCAPE": "Esc",
}

// Chord is one parsed key combination.
type Chord struct {
	Modifiers Modifier
	Key       string
}

// Parse converts a human readable combination into a Chord.
func Parse(combo string) (Chord, error) {
	trimmed := strings.TrimSpace(combo)
	if trimmed == "" {
		return Chord{}, fmt.Errorf("hotkey combination is empty")
	}

	parts := strings.Split(trimmed, "+")
	keyToken := strings.TrimSpace(parts[len(parts)-1])
	if keyToken == "" {
		return Chord{}, fmt.Errorf("hotkey key is missing in %q", combo)
	}

	var chord Chord
	for _, part := range parts[:len(parts)-1] {
		token := strings.ToUpper(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		mod, ok := modifierAliases[token]
		if !ok {
			return Chord{}, fmt.Errorf("unsupported modifier %q", strings.TrimSpace(part))
		}
		chord.Modifiers |= mod
	}

	key, err := parseKey(keyToken)
	if err != nil {
		return Chord{}, err
	}
	chord.Key = key
	return chord, nil
}

// String renders the chord in canonical Ctrl+Alt+Shift+Win+Key order.
func (c Chord) String() string {
	parts := make([]string, 0, 5)
	if c.Modifiers&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if c.Modifiers&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if c.Modifiers&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if c.Modifiers&ModWin != 0 {
		parts = append(parts, "Win")
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

// Normalize validates combo and returns its canonical form.
func Normalize(combo string) (string, error) {
	chord, err := Parse(combo)
	if err != nil {
		return "", err
	}
	return chord.String(), nil
}

func parseKey(token string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(token))

	if len(normalized) == 1 {
		ch := normalized[0]
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			return normalized, nil
		}
	}

	if name, ok := namedKeys[normalized]; ok {
		return name, nil
	}

	if strings.HasPrefix(normalized, "F") {
		if n, err := strconv.Atoi(normalized[1:]); err == nil && n >= 1 && n <= 24 {
			return "F" + strconv.Itoa(n), nil
		}
	}

	return "", fmt.Errorf("unsupported hotkey key %q", token)
}
