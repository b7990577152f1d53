package settings

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tidwall/gjson"

	"github.com/HandyWote/Translater/internal/hotkey"
	"github.com/HandyWote/Translater/internal/lang"
)

// Normalize converts an arbitrary record into canonical Settings. It never
// fails: missing, blank, or mistyped fields take their defaults.
func Normalize(raw Record) Settings {
	d := Default()

	s := Settings{
		APIKeyOverride: trimmedString(raw, KeyAPIKeyOverride, d.APIKeyOverride),
		APIBaseURL:     baseURL(raw, KeyAPIBaseURL, d.APIBaseURL),

		AutoCopyResult:          boolField(raw, KeyAutoCopyResult, d.AutoCopyResult),
		KeepWindowOnTop:         boolField(raw, KeyKeepWindowOnTop, d.KeepWindowOnTop),
		ShowToastOnComplete:     boolField(raw, KeyShowToastOnComplete, d.ShowToastOnComplete),
		EnableStreamOutput:      boolField(raw, KeyEnableStreamOutput, d.EnableStreamOutput),
		UseVisionForTranslation: boolField(raw, KeyUseVisionForTranslation, d.UseVisionForTranslation),

		Theme:             trimmedString(raw, KeyTheme, d.Theme),
		HotkeyCombination: hotkeyField(raw, KeyHotkeyCombination, d.HotkeyCombination),

		SourceLanguage: languageField(raw, KeySourceLanguage, d.SourceLanguage),
		TargetLanguage: languageField(raw, KeyTargetLanguage, d.TargetLanguage),

		TranslateModel: trimmedString(raw, KeyTranslateModel, d.TranslateModel),
		VisionModel:    trimmedString(raw, KeyVisionModel, d.VisionModel),

		ExtractPrompt:   verbatimString(raw, KeyExtractPrompt, d.ExtractPrompt),
		TranslatePrompt: verbatimString(raw, KeyTranslatePrompt, d.TranslatePrompt),
	}

	// The vision endpoint inherits from the already normalized general one.
	s.VisionAPIBaseURL = baseURL(raw, KeyVisionAPIBaseURL, s.APIBaseURL)
	s.VisionAPIKeyOverride = trimmedString(raw, KeyVisionAPIKeyOverride, d.VisionAPIKeyOverride)

	return s
}

// NormalizeJSON normalizes a JSON document. Invalid JSON or a non-object root
// yields Default().
func NormalizeJSON(data []byte) Settings {
	if !gjson.ValidBytes(data) {
		return Default()
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Default()
	}
	raw, _ := doc.Value().(map[string]any)
	return Normalize(raw)
}

// Denormalize returns the wire record for s. Every catalogue key is present.
func Denormalize(s Settings) Record {
	out := make(Record, len(fields))
	if err := mapstructure.Decode(s, &out); err != nil {
		// Settings only holds strings and bools.
		panic(fmt.Sprintf("settings: denormalize: %v", err))
	}
	return out
}

// Apply overlays edits onto s and renormalizes. Blank or mistyped edits reset
// their field to its default.
func Apply(s Settings, edits Record) Settings {
	rec := Denormalize(s)
	maps.Copy(rec, edits)
	return Normalize(rec)
}

// ParseValue converts command-line text into the wire type of key.
func ParseValue(key, value string) (any, error) {
	f, ok := LookupField(key)
	if !ok {
		return nil, fmt.Errorf("unknown settings key %q", key)
	}
	if f.Kind == KindBool {
		return Truthy(value), nil
	}
	return value, nil
}

// Truthy reports the boolean meaning of a loosely typed value. false, zero,
// NaN, nil, and blank strings are false. Strings accepted by
// strconv.ParseBool use its result; any other non-blank string is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return false
		}
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		return true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Truthy(string(x))
		}
		return f != 0 && !math.IsNaN(f)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}

// NormalizeBaseURL trims whitespace and trailing slashes.
func NormalizeBaseURL(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}

func boolField(raw Record, key string, fallback bool) bool {
	v, ok := raw[key]
	if !ok || v == nil {
		return fallback
	}
	return Truthy(v)
}

func stringField(raw Record, key string) (string, bool) {
	v, ok := raw[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func trimmedString(raw Record, key, fallback string) string {
	v, ok := stringField(raw, key)
	if !ok {
		return fallback
	}
	return strings.TrimSpace(v)
}

// languageField canonicalizes spellings of known codes (zh_cn -> zh-CN).
func languageField(raw Record, key, fallback string) string {
	v, ok := stringField(raw, key)
	if !ok {
		return fallback
	}
	return lang.Canonical(v)
}

func verbatimString(raw Record, key, fallback string) string {
	v, ok := stringField(raw, key)
	if !ok {
		return fallback
	}
	return v
}

func baseURL(raw Record, key, fallback string) string {
	v, ok := stringField(raw, key)
	if !ok {
		return fallback
	}
	normalized := NormalizeBaseURL(v)
	if !validBaseURL(normalized) {
		return fallback
	}
	return normalized
}

func validBaseURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func hotkeyField(raw Record, key, fallback string) string {
	v, ok := stringField(raw, key)
	if !ok {
		return fallback
	}
	combo, err := hotkey.Normalize(v)
	if err != nil {
		return fallback
	}
	return combo
}
