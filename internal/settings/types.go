// Package settings converts persisted or transmitted settings records into the
// canonical, fully defaulted Settings value and back.
package settings

// Settings is the canonical desktop configuration. Every field is always set
// after Normalize; values are compared with ==.
type Settings struct {
	APIKeyOverride       string `json:"apiKeyOverride" mapstructure:"apiKeyOverride"`
	APIBaseURL           string `json:"apiBaseUrl" mapstructure:"apiBaseUrl"`
	VisionAPIKeyOverride string `json:"visionApiKeyOverride" mapstructure:"visionApiKeyOverride"`
	VisionAPIBaseURL     string `json:"visionApiBaseUrl" mapstructure:"visionApiBaseUrl"`

	AutoCopyResult          bool `json:"autoCopyResult" mapstructure:"autoCopyResult"`
	KeepWindowOnTop         bool `json:"keepWindowOnTop" mapstructure:"keepWindowOnTop"`
	ShowToastOnComplete     bool `json:"showToastOnComplete" mapstructure:"showToastOnComplete"`
	EnableStreamOutput      bool `json:"enableStreamOutput" mapstructure:"enableStreamOutput"`
	UseVisionForTranslation bool `json:"useVisionForTranslation" mapstructure:"useVisionForTranslation"`

	Theme             string `json:"theme" mapstructure:"theme"`
	HotkeyCombination string `json:"hotkeyCombination" mapstructure:"hotkeyCombination"`

	SourceLanguage string `json:"sourceLanguage" mapstructure:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage" mapstructure:"targetLanguage"`

	TranslateModel string `json:"translateModel" mapstructure:"translateModel"`
	VisionModel    string `json:"visionModel" mapstructure:"visionModel"`

	ExtractPrompt   string `json:"extractPrompt" mapstructure:"extractPrompt"`
	TranslatePrompt string `json:"translatePrompt" mapstructure:"translatePrompt"`
}

// Record is the untyped wire shape used for persistence and transmission.
type Record = map[string]any

// Warning is a non-fatal load problem. Settings problems never block startup.
type Warning struct {
	Message string
}
