package round

import "strings"

// Language is a selectable practice language.
type Language struct {
	Code       string // BCP-47, e.g. "es-ES"
	Name       string
	NativeName string
	// Voice optionally pins a remote voice for this language.
	Voice string
}

// Label renders the language for menus, e.g. "Spanish (Español)".
func (l Language) Label() string {
	if l.NativeName == "" || l.NativeName == l.Name {
		return l.Name
	}
	return l.Name + " (" + l.NativeName + ")"
}

// BaseCode returns the primary language subtag, e.g. "es" for "es-ES".
func (l Language) BaseCode() string {
	return BaseLanguage(l.Code)
}

// BaseLanguage returns the primary subtag of a BCP-47 tag.
func BaseLanguage(code string) string {
	code = strings.ReplaceAll(code, "_", "-")
	if i := strings.IndexByte(code, '-'); i >= 0 {
		return strings.ToLower(code[:i])
	}
	return strings.ToLower(code)
}

// DefaultLanguages is the built-in language catalogue.
var DefaultLanguages = []Language{
	{Code: "en-US", Name: "English", NativeName: "English"},
	{Code: "es-ES", Name: "Spanish", NativeName: "Español"},
	{Code: "fr-FR", Name: "French", NativeName: "Français"},
	{Code: "de-DE", Name: "German", NativeName: "Deutsch"},
	{Code: "it-IT", Name: "Italian", NativeName: "Italiano"},
	{Code: "ja-JP", Name: "Japanese", NativeName: "日本語"},
	{Code: "zh-CN", Name: "Chinese", NativeName: "中文 (简体)"},
	{Code: "ko-KR", Name: "Korean", NativeName: "한국어"},
	{Code: "pt-BR", Name: "Portuguese", NativeName: "Português"},
}

// GeminiVoices are the prebuilt Gemini TTS voices offered in settings.
var GeminiVoices = []string{"Kore", "Puck", "Charon", "Fenrir", "Zephyr"}

// OpenAIVoices are the OpenAI speech voices offered in settings.
var OpenAIVoices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// VoicesFor returns the remote voices available for a backend.
func VoicesFor(b Backend) []string {
	switch b {
	case BackendGemini:
		return GeminiVoices
	case BackendOpenAI:
		return OpenAIVoices
	default:
		return nil
	}
}

// FindLanguage looks up a language by code in catalogue.
func FindLanguage(catalogue []Language, code string) (Language, bool) {
	for _, l := range catalogue {
		if strings.EqualFold(l.Code, code) {
			return l, true
		}
	}
	return Language{}, false
}
