package prompts

import (
	"strings"

	"github.com/HandyWote/Translater/internal/lang"
)

// Vars carries the settings that drive prompt composition.
type Vars struct {
	SourceLanguage          string
	TargetLanguage          string
	UseVisionForTranslation bool
}

// ComposeExtraction resolves an extraction template.
//
// Exactly one of the relay and vision-direct instructions is non-empty. The
// translation-only vision mode token collapses to an empty string.
func ComposeExtraction(template string, vars Vars) string {
	return compose(template, vars, strings.NewReplacer(
		TokenRelayInstruction, relayInstruction(vars),
		TokenVisionDirectInstruction, visionDirectInstruction(vars),
		TokenVisionModeInstruction, "",
	))
}

// ComposeTranslation resolves a translation template.
//
// Extraction-only instruction tokens collapse to empty strings so a translation
// prompt never carries image-reading instructions.
func ComposeTranslation(template string, vars Vars) string {
	return compose(template, vars, strings.NewReplacer(
		TokenVisionModeInstruction, visionModeInstruction(vars),
		TokenRelayInstruction, "",
		TokenVisionDirectInstruction, "",
	))
}

// compose substitutes language tokens, then instruction tokens, and repeats
// while the text changes: removing a collapsed token can splice the text
// around it into a new token ({{.Relay{{.VisionDirectInstruction}}Instruction}}).
// Inserted text never contains "{{.", so every pass that changes the text
// removes at least one token and the pass count is bounded by the template.
func compose(template string, vars Vars, instructions *strings.Replacer) string {
	languages := languageReplacer(vars)
	prompt := template
	for range strings.Count(template, tokenPrefix) + 1 {
		next := instructions.Replace(languages.Replace(prompt))
		if next == prompt {
			break
		}
		prompt = next
	}
	return strings.TrimSpace(prompt)
}

// Unresolved returns the recognized tokens still present in s.
func Unresolved(s string) []string {
	var out []string
	for _, token := range Tokens() {
		if strings.Contains(s, token) {
			out = append(out, token)
		}
	}
	return out
}

const tokenPrefix = "{{."

// languageReplacer runs before the instruction tokens: instruction text embeds
// already-resolved display names.
func languageReplacer(vars Vars) *strings.Replacer {
	return strings.NewReplacer(
		TokenSourceLanguage, lang.DisplayName(vars.SourceLanguage),
		TokenTargetLanguage, lang.DisplayName(vars.TargetLanguage),
	)
}

func relayInstruction(vars Vars) string {
	if vars.UseVisionForTranslation {
		return ""
	}
	return RelayMarker + "，请确保只返回原始文字 JSON，后续翻译流程会将其转换为" + lang.DisplayName(vars.TargetLanguage) + "。"
}

func visionDirectInstruction(vars Vars) string {
	if !vars.UseVisionForTranslation {
		return ""
	}
	return VisionDirectMarker + "：完成 JSON 输出后，直接给出按原始版式排布的" + lang.DisplayName(vars.TargetLanguage) + "翻译结果，不必再返回原文。"
}

func visionModeInstruction(vars Vars) string {
	target := lang.DisplayName(vars.TargetLanguage)
	if vars.UseVisionForTranslation {
		return "视觉直出模式开启：若输入仍包含原文，请直接输出对应的" + target + "译文，并保持与原文一致的排版。"
	}
	return "输入源自 OCR 流程，请只输出翻译后的" + target + "文本，不要重复或拼接原文。"
}
