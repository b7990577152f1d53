// Package pipeline turns canonical settings into the request plan handed to the
// translation backend. It performs no network calls.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HandyWote/Translater/internal/prompts"
	"github.com/HandyWote/Translater/internal/settings"
)

// ErrMissingAPIKey reports a step with no usable credential.
var ErrMissingAPIKey = errors.New("api key is not configured")

// Source is the kind of input a translation request starts from.
type Source string

const (
	SourceScreenshot Source = "screenshot"
	SourceText       Source = "text"
)

// Mode is the request shape chosen from Source and settings.
type Mode string

const (
	ModeVisionDirect Mode = "vision-direct"
	ModeRelay        Mode = "relay"
	ModeText         Mode = "text"
)

// Stage names one backend call.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTranslate Stage = "translate"
	StageDirect    Stage = "direct"
)

// Endpoint is the complete credential/endpoint tuple for one call.
type Endpoint struct {
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
}

// Step is one backend call with its composed prompt.
type Step struct {
	Stage      Stage    `json:"stage"`
	Endpoint   Endpoint `json:"endpoint"`
	Prompt     string   `json:"prompt"`
	WantsImage bool     `json:"wantsImage"`
}

// Plan is the ordered list of backend calls for one request.
type Plan struct {
	Mode   Mode   `json:"mode"`
	Stream bool   `json:"stream"`
	Steps  []Step `json:"steps"`
}

// Keys are process-level credentials used when settings carry no override.
type Keys struct {
	API    string
	Vision string
}

// Build composes the plan for one request. It never fails; missing
// credentials are reported by Plan.Validate.
func Build(s settings.Settings, src Source, keys Keys) Plan {
	vars := Vars(s)
	translate := Endpoint{
		BaseURL: s.APIBaseURL,
		APIKey:  resolveKey(s.APIKeyOverride, keys.API),
		Model:   s.TranslateModel,
	}
	vision := Endpoint{
		BaseURL: s.VisionAPIBaseURL,
		APIKey:  resolveKey(s.VisionAPIKeyOverride, keys.Vision, translate.APIKey),
		Model:   s.VisionModel,
	}

	plan := Plan{Stream: s.EnableStreamOutput}
	switch {
	case src == SourceText:
		plan.Mode = ModeText
		plan.Steps = []Step{{
			Stage:    StageTranslate,
			Endpoint: translate,
			Prompt:   prompts.ComposeTranslation(s.TranslatePrompt, vars),
		}}
	case s.UseVisionForTranslation:
		plan.Mode = ModeVisionDirect
		plan.Steps = []Step{{
			Stage:      StageDirect,
			Endpoint:   vision,
			Prompt:     prompts.BuildDirect(vars),
			WantsImage: true,
		}}
	default:
		plan.Mode = ModeRelay
		plan.Steps = []Step{
			{
				Stage:      StageExtract,
				Endpoint:   vision,
				Prompt:     prompts.ComposeExtraction(s.ExtractPrompt, vars),
				WantsImage: true,
			},
			{
				Stage:    StageTranslate,
				Endpoint: translate,
				Prompt:   prompts.ComposeTranslation(s.TranslatePrompt, vars),
			},
		}
	}
	return plan
}

// Validate reports the first step that cannot be sent.
func (p Plan) Validate() error {
	for _, step := range p.Steps {
		if strings.TrimSpace(step.Endpoint.APIKey) == "" {
			return fmt.Errorf("%s step: %w", step.Stage, ErrMissingAPIKey)
		}
	}
	return nil
}

// Vars extracts the prompt variables carried by s.
func Vars(s settings.Settings) prompts.Vars {
	return prompts.Vars{
		SourceLanguage:          s.SourceLanguage,
		TargetLanguage:          s.TargetLanguage,
		UseVisionForTranslation: s.UseVisionForTranslation,
	}
}

// ParseSource accepts the CLI/bridge spelling of a Source.
func ParseSource(raw string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SourceScreenshot:
		return SourceScreenshot, nil
	case SourceText:
		return SourceText, nil
	default:
		return "", fmt.Errorf("unknown source %q (want screenshot or text)", raw)
	}
}

func resolveKey(candidates ...string) string {
	for _, c := range candidates {
		if key := strings.TrimSpace(c); key != "" {
			return key
		}
	}
	return ""
}
