package speech

import (
	"slices"
	"strings"

	"github.com/abhisek/polyglot/internal/round"
)

// Voice is a voice reported by a local engine.
type Voice struct {
	Name    string
	Lang    string
	ID      string // handed back to the engine to select the voice
	Default bool
}

// ScoredVoice is a candidate voice with its match score.
type ScoredVoice struct {
	Voice
	Score int
}

// qualityTags mark vendor voices that sound noticeably better.
var qualityTags = []string{"premium", "enhanced", "neural", "google"}

func normalizeLang(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "_", "-"))
}

// matchesLanguage reports whether v can speak lang, exactly or by prefix.
func matchesLanguage(v Voice, lang string) (exact, prefix bool) {
	vl, want := normalizeLang(v.Lang), normalizeLang(lang)
	if vl == "" || want == "" {
		return false, false
	}
	exact = vl == want
	prefix = exact || round.BaseLanguage(vl) == round.BaseLanguage(want)
	return exact, prefix
}

// ScoreVoice scores how well v fits lang: exact language +4, quality tag
// +3, language prefix +2, engine default +1.
func ScoreVoice(v Voice, lang string) int {
	exact, prefix := matchesLanguage(v, lang)
	score := 0
	if exact {
		score += 4
	}
	name := strings.ToLower(v.Name)
	for _, tag := range qualityTags {
		if strings.Contains(name, tag) {
			score += 3
			break
		}
	}
	if prefix {
		score += 2
	}
	if v.Default {
		score++
	}
	return score
}

// RankVoices returns the voices able to speak lang, best first. Ties keep
// the engine's order.
func RankVoices(voices []Voice, lang string) []ScoredVoice {
	var out []ScoredVoice
	for _, v := range voices {
		if _, ok := matchesLanguage(v, lang); !ok {
			continue
		}
		out = append(out, ScoredVoice{Voice: v, Score: ScoreVoice(v, lang)})
	}
	slices.SortStableFunc(out, func(a, b ScoredVoice) int {
		return b.Score - a.Score
	})
	return out
}

// ChooseVoice picks the voice for lang. A preferred voice wins when it is
// installed, whatever its language.
func ChooseVoice(voices []Voice, lang, preferred string) (Voice, bool) {
	if preferred != "" {
		for _, v := range voices {
			if strings.EqualFold(v.Name, preferred) || strings.EqualFold(v.ID, preferred) {
				return v, true
			}
		}
	}
	ranked := RankVoices(voices, lang)
	if len(ranked) == 0 {
		return Voice{}, false
	}
	return ranked[0].Voice, true
}

// remoteVoice resolves the prebuilt voice for a remote backend: the
// requested voice if the backend offers it, else the language's pinned
// voice, else the backend's first voice.
func remoteVoice(backend round.Backend, req Request) string {
	available := round.VoicesFor(backend)
	for _, candidate := range []string{req.Voice, req.Language.Voice} {
		for _, v := range available {
			if candidate != "" && strings.EqualFold(v, candidate) {
				return v
			}
		}
	}
	if len(available) == 0 {
		return req.Voice
	}
	return available[0]
}
