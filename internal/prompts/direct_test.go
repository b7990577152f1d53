package prompts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDirectAutoSourceUsesGenericPhrase(t *testing.T) {
	got := BuildDirect(Vars{SourceLanguage: "auto", TargetLanguage: "en"})

	require.Contains(t, got, "将识别的文字从自动检测到的语言转换为英文")
	require.NotContains(t, got, "auto")
	require.Empty(t, Unresolved(got))
}

func TestBuildDirectNamedSource(t *testing.T) {
	got := BuildDirect(Vars{SourceLanguage: "ja", TargetLanguage: "zh-CN"})

	require.Contains(t, got, "并翻译为中文")
	require.Contains(t, got, "将识别的文字从日文转换为中文")
	require.Contains(t, got, "符合中文表达习惯")
	require.NotContains(t, got, "自动检测到的语言")
}

func TestBuildDirectUnmappedCodesPassThrough(t *testing.T) {
	got := BuildDirect(Vars{SourceLanguage: "tlh", TargetLanguage: "xx-unknown"})
	require.Contains(t, got, "将识别的文字从tlh转换为xx-unknown")
}

func TestBuildDirectIgnoresVisionFlag(t *testing.T) {
	vars := Vars{SourceLanguage: "ko", TargetLanguage: "en"}
	withVision := vars
	withVision.UseVisionForTranslation = true
	require.Equal(t, BuildDirect(vars), BuildDirect(withVision))
}
