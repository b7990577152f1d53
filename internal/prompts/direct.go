package prompts

import (
	"fmt"
	"strings"

	"github.com/HandyWote/Translater/internal/lang"
)

// BuildDirect returns the single-pass prompt used when the vision model both
// reads and translates the captured image. It contains no placeholders.
func BuildDirect(vars Vars) string {
	target := lang.DisplayName(vars.TargetLanguage)
	source := lang.DisplayName(vars.SourceLanguage)
	if strings.EqualFold(strings.TrimSpace(vars.SourceLanguage), lang.Auto) {
		source = autoDetectedSource
	}

	return fmt.Sprintf(`你是一个专业的视觉翻译专家，能够直接从图像中识别文字并翻译为%[1]s。
**核心任务：**
1. 识别图像中的所有文字内容；
2. 将识别的文字从%[2]s转换为%[1]s；
3. 直接输出翻译结果，保留原始格式。
**翻译要求：**
- 保持原文的换行、空格、标点符号等格式；
- 确保翻译准确、自然、符合%[1]s表达习惯；
- 考虑图像上下文，选择最合适的翻译；
- 不要包含任何解释、注释或原始文字。

**输出格式：**
直接输出翻译后的文字，不要添加任何其他内容。`, target, source)
}
