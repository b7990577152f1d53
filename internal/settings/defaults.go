package settings

import (
	"slices"

	"github.com/HandyWote/Translater/internal/prompts"
)

const (
	DefaultAPIBaseURL     = "https://open.bigmodel.cn/api/paas/v4"
	DefaultTranslateModel = "glm-4.5-flash"
	DefaultVisionModel    = "glm-4v-flash"
	DefaultTheme          = "system"
	DefaultHotkey         = "Alt+T"
	DefaultSourceLanguage = "auto"
	DefaultTargetLanguage = "zh-CN"
)

// SchemaVersion is the newest settings layout this package writes. Older
// records are accepted as-is; keys they lack take their defaults.
const SchemaVersion = 3

// Wire keys.
const (
	KeyAPIKeyOverride          = "apiKeyOverride"
	KeyAPIBaseURL              = "apiBaseUrl"
	KeyVisionAPIKeyOverride    = "visionApiKeyOverride"
	KeyVisionAPIBaseURL        = "visionApiBaseUrl"
	KeyAutoCopyResult          = "autoCopyResult"
	KeyKeepWindowOnTop         = "keepWindowOnTop"
	KeyShowToastOnComplete     = "showToastOnComplete"
	KeyEnableStreamOutput      = "enableStreamOutput"
	KeyUseVisionForTranslation = "useVisionForTranslation"
	KeyTheme                   = "theme"
	KeyHotkeyCombination       = "hotkeyCombination"
	KeySourceLanguage          = "sourceLanguage"
	KeyTargetLanguage          = "targetLanguage"
	KeyTranslateModel          = "translateModel"
	KeyVisionModel             = "visionModel"
	KeyExtractPrompt           = "extractPrompt"
	KeyTranslatePrompt         = "translatePrompt"
)

// Kind is the wire type of a settings field.
type Kind string

const (
	KindString Kind = "string"
	KindBool   Kind = "bool"
)

// Field describes one settings key and the schema version that introduced it.
type Field struct {
	Key   string
	Kind  Kind
	Since int
}

var fields = []Field{
	{Key: KeyAPIKeyOverride, Kind: KindString, Since: 1},
	{Key: KeyAutoCopyResult, Kind: KindBool, Since: 1},
	{Key: KeyKeepWindowOnTop, Kind: KindBool, Since: 1},
	{Key: KeyTheme, Kind: KindString, Since: 1},
	{Key: KeyShowToastOnComplete, Kind: KindBool, Since: 1},
	{Key: KeyHotkeyCombination, Kind: KindString, Since: 1},
	{Key: KeyTargetLanguage, Kind: KindString, Since: 1},

	{Key: KeyExtractPrompt, Kind: KindString, Since: 2},
	{Key: KeyTranslatePrompt, Kind: KindString, Since: 2},
	{Key: KeyAPIBaseURL, Kind: KindString, Since: 2},
	{Key: KeyTranslateModel, Kind: KindString, Since: 2},
	{Key: KeyVisionModel, Kind: KindString, Since: 2},
	{Key: KeyEnableStreamOutput, Kind: KindBool, Since: 2},

	{Key: KeyVisionAPIBaseURL, Kind: KindString, Since: 3},
	{Key: KeyVisionAPIKeyOverride, Kind: KindString, Since: 3},
	{Key: KeyUseVisionForTranslation, Kind: KindBool, Since: 3},
	{Key: KeySourceLanguage, Kind: KindString, Since: 3},
}

// Fields returns the settings catalogue in schema order.
func Fields() []Field {
	return slices.Clone(fields)
}

// LookupField returns the catalogue entry for key.
func LookupField(key string) (Field, bool) {
	i := slices.IndexFunc(fields, func(f Field) bool { return f.Key == key })
	if i < 0 {
		return Field{}, false
	}
	return fields[i], true
}

// Default returns the canonical defaults. The vision endpoint defaults to the
// general endpoint.
func Default() Settings {
	return Settings{
		APIKeyOverride:       "",
		APIBaseURL:           DefaultAPIBaseURL,
		VisionAPIKeyOverride: "",
		VisionAPIBaseURL:     DefaultAPIBaseURL,

		AutoCopyResult:          true,
		KeepWindowOnTop:         false,
		ShowToastOnComplete:     true,
		EnableStreamOutput:      true,
		UseVisionForTranslation: true,

		Theme:             DefaultTheme,
		HotkeyCombination: DefaultHotkey,

		SourceLanguage: DefaultSourceLanguage,
		TargetLanguage: DefaultTargetLanguage,

		TranslateModel: DefaultTranslateModel,
		VisionModel:    DefaultVisionModel,

		ExtractPrompt:   prompts.DefaultExtractPrompt,
		TranslatePrompt: prompts.DefaultTranslatePrompt,
	}
}
