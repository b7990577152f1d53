// Package lang resolves language codes to the display names used in prompts and settings UI.
package lang

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Auto is the source-language sentinel for automatic detection.
const Auto = "auto"

// names maps the language codes offered by the settings panel to prompt display names.
var names = map[string]string{
	Auto:    "自动检测",
	"zh-CN": "中文",
	"zh-TW": "繁体中文",
	"en":    "英文",
	"ja":    "日文",
	"ko":    "韩文",
	"fr":    "法文",
	"de":    "德文",
	"es":    "西班牙文",
	"ru":    "俄文",
	"ar":    "阿拉伯文",
	"pt":    "葡萄牙文",
	"it":    "意大利文",
	"th":    "泰文",
	"vi":    "越南文",
}

// DisplayName returns the table's display name for code, or code unchanged
// when it is not in the table.
func DisplayName(code string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return code
}

// Known reports whether code is in the display-name table.
func Known(code string) bool {
	_, ok := names[code]
	return ok
}

// Codes returns the mapped language codes in sorted order.
func Codes() []string {
	return slices.Sorted(maps.Keys(names))
}

// Canonical rewrites code to the table's spelling of the same BCP 47 tag
// (zh_cn -> zh-CN, EN -> en, AUTO -> auto). Codes that are not a spelling of a
// table entry are returned trimmed but otherwise unchanged; en-US stays en-US.
func Canonical(code string) string {
	trimmed := strings.TrimSpace(code)
	if _, ok := names[trimmed]; ok {
		return trimmed
	}
	if strings.EqualFold(trimmed, Auto) {
		return Auto
	}
	normalized := strings.ReplaceAll(trimmed, "_", "-")
	if normalized == "" {
		return trimmed
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return trimmed
	}
	if _, ok := names[tag.String()]; ok {
		return tag.String()
	}
	return trimmed
}
