package speech

import (
	"strings"

	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
)

// BestVoice picks a voice id for the language using a ranked fallback chain.
// Nepali prefers a Nepali-tagged voice, then Hindi, then any Hindi/English
// India voice. English prefers a local engine voice, then any English voice.
// An empty result leaves the engine default in place.
func BestVoice(voices []speechmodel.Voice, language speechmodel.Language) string {
	if len(voices) == 0 {
		return ""
	}

	if language == speechmodel.LanguageNepali {
		if v, ok := findVoice(voices, func(v speechmodel.Voice) bool {
			return localeHas(v, "ne") || nameHas(v, "nepali")
		}); ok {
			return v.ID
		}
		if v, ok := findVoice(voices, func(v speechmodel.Voice) bool {
			return localeHas(v, "hi") || nameHas(v, "hindi")
		}); ok {
			return v.ID
		}
		if v, ok := findVoice(voices, func(v speechmodel.Voice) bool {
			return localeHas(v, "hi-IN") || localeHas(v, "en-IN")
		}); ok {
			return v.ID
		}
		return ""
	}

	if v, ok := findVoice(voices, func(v speechmodel.Voice) bool {
		return localeHas(v, "en") && v.Local
	}); ok {
		return v.ID
	}
	if v, ok := findVoice(voices, func(v speechmodel.Voice) bool {
		return localeHas(v, "en")
	}); ok {
		return v.ID
	}
	return ""
}

func findVoice(voices []speechmodel.Voice, match func(speechmodel.Voice) bool) (speechmodel.Voice, bool) {
	for _, v := range voices {
		if match(v) {
			return v, true
		}
	}
	return speechmodel.Voice{}, false
}

func localeHas(v speechmodel.Voice, tag string) bool {
	return strings.Contains(strings.ToLower(v.Locale), strings.ToLower(tag))
}

func nameHas(v speechmodel.Voice, fragment string) bool {
	return strings.Contains(strings.ToLower(v.Name), fragment)
}
