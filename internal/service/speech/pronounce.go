package speech

import (
	"regexp"
	"strings"

	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
)

var (
	boldPattern       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern     = regexp.MustCompile(`\*(.*?)\*`)
	codePattern       = regexp.MustCompile("`(.*?)`")
	linkPattern       = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	headingPattern    = regexp.MustCompile(`#+\s`)
	blockquotePattern = regexp.MustCompile(`>\s`)
	newlinePattern    = regexp.MustCompile(`\n+`)
	spacePattern      = regexp.MustCompile(`\s+`)

	digitRunPattern = regexp.MustCompile(`\d+`)
	// Four whitespace-delimited tokens that contain no sentence or comma
	// punctuation; a light phrase break is inserted after each group.
	phrasePattern      = regexp.MustCompile(`([^\s।,]+\s[^\s।,]+\s[^\s।,]+\s[^\s।,]+)`)
	doubleCommaPattern = regexp.MustCompile(`,(\s*,)+`)
)

// CleanTextForSpeech strips markdown markup and, for Nepali, inserts
// pronunciation pauses so the synthesis engine enunciates clearly.
func CleanTextForSpeech(text string, language speechmodel.Language) string {
	cleaned := boldPattern.ReplaceAllString(text, "$1")
	cleaned = italicPattern.ReplaceAllString(cleaned, "$1")
	cleaned = codePattern.ReplaceAllString(cleaned, "$1")
	cleaned = linkPattern.ReplaceAllString(cleaned, "$1")
	cleaned = headingPattern.ReplaceAllString(cleaned, "")
	cleaned = blockquotePattern.ReplaceAllString(cleaned, "")
	cleaned = newlinePattern.ReplaceAllString(cleaned, " ")
	cleaned = spacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if language != speechmodel.LanguageNepali {
		return cleaned
	}

	// Pause after the Devanagari danda and after commas.
	cleaned = strings.ReplaceAll(cleaned, "।", "।. ")
	cleaned = strings.ReplaceAll(cleaned, ",", ", ")

	// Digit sequences are spelled out digit by digit.
	cleaned = digitRunPattern.ReplaceAllStringFunc(cleaned, func(run string) string {
		return strings.Join(strings.Split(run, ""), " ")
	})

	// Light phrase break every four tokens, then collapse doubled commas
	// the insertion may have produced next to existing punctuation.
	cleaned = phrasePattern.ReplaceAllString(cleaned, "$1, ")
	cleaned = doubleCommaPattern.ReplaceAllString(cleaned, ",")

	return strings.TrimSpace(spacePattern.ReplaceAllString(cleaned, " "))
}
