package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HandyWote/Translater/internal/prompts"
	"github.com/HandyWote/Translater/internal/settings"
)

func TestBuildModes(t *testing.T) {
	tests := []struct {
		name       string
		edits      settings.Record
		src        Source
		wantMode   Mode
		wantStages []Stage
	}{
		{
			name:       "vision direct",
			edits:      settings.Record{settings.KeyUseVisionForTranslation: true},
			src:        SourceScreenshot,
			wantMode:   ModeVisionDirect,
			wantStages: []Stage{StageDirect},
		},
		{
			name:       "relay",
			edits:      settings.Record{settings.KeyUseVisionForTranslation: false},
			src:        SourceScreenshot,
			wantMode:   ModeRelay,
			wantStages: []Stage{StageExtract, StageTranslate},
		},
		{
			name:       "text ignores vision flag",
			edits:      settings.Record{settings.KeyUseVisionForTranslation: true},
			src:        SourceText,
			wantMode:   ModeText,
			wantStages: []Stage{StageTranslate},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := Build(settings.Normalize(tc.edits), tc.src, Keys{API: "sk"})
			require.Equal(t, tc.wantMode, plan.Mode)

			stages := make([]Stage, 0, len(plan.Steps))
			for _, step := range plan.Steps {
				stages = append(stages, step.Stage)
				require.Empty(t, prompts.Unresolved(step.Prompt))
				require.NotEmpty(t, step.Prompt)
			}
			require.Equal(t, tc.wantStages, stages)
		})
	}
}

func TestBuildRelayEndpoints(t *testing.T) {
	s := settings.Normalize(settings.Record{
		settings.KeyUseVisionForTranslation: false,
		settings.KeyAPIBaseURL:              "https://text.example",
		settings.KeyVisionAPIBaseURL:        "https://vision.example",
		settings.KeyAPIKeyOverride:          "sk-text",
		settings.KeyTranslateModel:          "text-model",
		settings.KeyVisionModel:             "vision-model",
	})

	plan := Build(s, SourceScreenshot, Keys{})
	require.Len(t, plan.Steps, 2)

	extract := plan.Steps[0]
	require.True(t, extract.WantsImage)
	require.Equal(t, Endpoint{BaseURL: "https://vision.example", APIKey: "sk-text", Model: "vision-model"}, extract.Endpoint)
	require.Contains(t, extract.Prompt, prompts.RelayMarker)

	translate := plan.Steps[1]
	require.False(t, translate.WantsImage)
	require.Equal(t, Endpoint{BaseURL: "https://text.example", APIKey: "sk-text", Model: "text-model"}, translate.Endpoint)
	require.Contains(t, translate.Prompt, "输入源自 OCR 流程")
	require.NoError(t, plan.Validate())
}

func TestBuildKeyResolutionOrder(t *testing.T) {
	tests := []struct {
		name       string
		edits      settings.Record
		keys       Keys
		wantText   string
		wantVision string
	}{
		{name: "settings override wins", edits: settings.Record{settings.KeyAPIKeyOverride: "sk-settings"}, keys: Keys{API: "sk-env"}, wantText: "sk-settings", wantVision: "sk-settings"},
		{name: "runtime key fallback", keys: Keys{API: "sk-env"}, wantText: "sk-env", wantVision: "sk-env"},
		{name: "vision override", edits: settings.Record{settings.KeyVisionAPIKeyOverride: "vk"}, keys: Keys{API: "sk-env"}, wantText: "sk-env", wantVision: "vk"},
		{name: "runtime vision key", keys: Keys{API: "sk-env", Vision: "vk-env"}, wantText: "sk-env", wantVision: "vk-env"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			edits := settings.Record{settings.KeyUseVisionForTranslation: false}
			for k, v := range tc.edits {
				edits[k] = v
			}
			plan := Build(settings.Normalize(edits), SourceScreenshot, tc.keys)
			require.Equal(t, tc.wantVision, plan.Steps[0].Endpoint.APIKey)
			require.Equal(t, tc.wantText, plan.Steps[1].Endpoint.APIKey)
		})
	}
}

func TestPlanValidateMissingKey(t *testing.T) {
	plan := Build(settings.Default(), SourceScreenshot, Keys{})
	err := plan.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingAPIKey))
	require.Contains(t, err.Error(), "direct step")
}

func TestBuildStreamFlag(t *testing.T) {
	plan := Build(settings.Normalize(settings.Record{settings.KeyEnableStreamOutput: false}), SourceText, Keys{})
	require.False(t, plan.Stream)
	require.True(t, Build(settings.Default(), SourceText, Keys{}).Stream)
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("")
	require.NoError(t, err)
	require.Equal(t, SourceScreenshot, src)

	src, err = ParseSource(" TEXT ")
	require.NoError(t, err)
	require.Equal(t, SourceText, src)

	_, err = ParseSource("audio")
	require.Error(t, err)
}
