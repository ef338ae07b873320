package usecase

import (
	"regexp"
	"strings"
)

// minSpeechLength is the shortest cleaned reply worth synthesizing
const minSpeechLength = 10

var (
	skiMarkerPattern   = regexp.MustCompile(`SKI:`)
	markdownNoiseRegex = regexp.MustCompile(`[*#]`)
)

// CleanTextForSpeech strips recommendation markers and markdown emphasis.
// Returns "" when what remains is too short to be worth speaking.
func CleanTextForSpeech(text string) string {
	cleaned := skiMarkerPattern.ReplaceAllString(text, "")
	cleaned = markdownNoiseRegex.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) < minSpeechLength {
		return ""
	}
	return cleaned
}
