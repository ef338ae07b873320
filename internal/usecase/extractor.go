package usecase

import (
	"regexp"
	"strings"

	"github.com/skiconcierge/backend/internal/domain"
)

// skiLinePattern matches "SKI: <name> - <description>" advisor lines.
// The name stops at the first hyphen or newline; the description runs to end of line.
var skiLinePattern = regexp.MustCompile(`(?i)SKI:\s*([^-\n]+)\s*-\s*([^\n]+)`)

// ExtractRecommendations pulls at most MaxRecommendations name/description
// pairs out of an advisor reply, in the order they appear.
// Empty names or descriptions after trimming are kept as-is.
func ExtractRecommendations(text string) []domain.Recommendation {
	matches := skiLinePattern.FindAllStringSubmatch(text, domain.MaxRecommendations)

	recommendations := make([]domain.Recommendation, 0, len(matches))
	for _, match := range matches {
		recommendations = append(recommendations, domain.Recommendation{
			Name:        strings.TrimSpace(match[1]),
			Description: strings.TrimSpace(match[2]),
		})
	}

	return recommendations
}
