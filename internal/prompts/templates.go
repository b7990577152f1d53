// Package prompts composes the instruction text sent to the vision and translation models.
//
// Templates carry literal placeholder tokens shaped like Go template actions
// ({{.SourceLanguage}}). They are substituted as plain strings, never executed,
// so unknown tokens and stray braces pass through untouched.
package prompts

// Placeholder tokens recognized in extraction and translation templates.
const (
	TokenSourceLanguage          = "{{.SourceLanguage}}"
	TokenTargetLanguage          = "{{.TargetLanguage}}"
	TokenRelayInstruction        = "{{.RelayInstruction}}"
	TokenVisionDirectInstruction = "{{.VisionDirectInstruction}}"
	TokenVisionModeInstruction   = "{{.VisionModeInstruction}}"
)

// DefaultExtractPrompt asks the vision model for scene context and the verbatim source text.
const DefaultExtractPrompt = `你是一个专业的视觉上下文分析专家，负责为高质量的翻译任务准备完整素材。请完成以下工作：

1. 背景描述：详细说明图像中出现的场景、主体、布局、风格以及任何可能影响理解的视觉线索。
2. 原文提取：逐项提取图像中的全部文字内容，保持{{.SourceLanguage}}原文的顺序与格式（包含换行、缩进、符号和大小写）。

输出要求：
- 将结果严格按照 JSON 结构输出，不要添加任何额外说明：
{
  "background": "...",
  "words": "..."
}
- "words" 字段必须只包含识别到的原文内容。

{{.RelayInstruction}}
{{.VisionDirectInstruction}}`

// DefaultTranslatePrompt asks the translation model to translate the extracted words.
const DefaultTranslatePrompt = `你是一个专业的翻译 AI，专门处理图像文本在特定语境下的翻译任务。你将收到一个 JSON 对象：
- "background" 字段提供场景参考；
- "words" 字段包含需要翻译的原始文本（语种：{{.SourceLanguage}}）。

请将 "words" 字段精准翻译为 {{.TargetLanguage}}，并保持原有的段落、换行与符号。遵循以下原则：
1. 仅翻译 "words" 字段，忽略 "background" 字段内容；
2. 依据 "background" 提供的语境选择合适的术语与表达；
3. 保持专有名词、数字与排版一致；
4. 输出中不得包含额外的说明或注释。

{{.VisionModeInstruction}}`

// Distinguishing phrases of the two mutually exclusive extraction instructions.
const (
	RelayMarker        = "当前未启用视觉直出模式"
	VisionDirectMarker = "已启用视觉直出模式"
)

const autoDetectedSource = "自动检测到的语言"

// Tokens returns every recognized placeholder token.
func Tokens() []string {
	return []string{
		TokenSourceLanguage,
		TokenTargetLanguage,
		TokenRelayInstruction,
		TokenVisionDirectInstruction,
		TokenVisionModeInstruction,
	}
}
