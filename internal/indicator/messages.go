package indicator

import (
	"os"
	"strings"
	"unicode/utf8"
)

type locale string

const (
	localeChinese locale = "zh"
	localeEnglish locale = "en"
)

const previewRunes = 80

type messages struct {
	done   string
	copied string
	empty  string
}

func resolveLocale(raw string) locale {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(raw, "en") {
		return localeEnglish
	}
	return localeChinese
}

func localeMessages(tag locale) messages {
	switch tag {
	case localeEnglish:
		return messages{
			done:   "Translation complete",
			copied: "Translation copied to clipboard",
			empty:  "No text was translated",
		}
	default:
		return messages{
			done:   "翻译完成",
			copied: "翻译结果已复制到剪贴板",
			empty:  "没有可翻译的内容",
		}
	}
}

// CompletionToast builds the toast shown after a translation finishes. The
// locale follows $LANG.
func CompletionToast(translated string, copied bool) Toast {
	msgs := localeMessages(resolveLocale(os.Getenv("LANG")))

	body := preview(translated)
	switch {
	case copied:
		body = msgs.copied
	case body == "":
		body = msgs.empty
	}
	return Toast{Summary: msgs.done, Body: body}
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewRunes]) + "…"
}
