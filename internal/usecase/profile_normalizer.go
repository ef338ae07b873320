package usecase

import (
	"fmt"
	"strings"

	"github.com/skiconcierge/backend/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Substrings that route a free-text terrain preference to a catalog category.
// Checked in order; anything else lands in all-mountain.
var terrainKeywords = []struct {
	category string
	keywords []string
}{
	{category: domain.TerrainPowder, keywords: []string{"powder", "deep"}},
	{category: domain.TerrainCarving, keywords: []string{"carving", "groomed"}},
}

// analysisAliases maps keys the analyzer tends to emit onto profile keys
var analysisAliases = map[string]string{
	"budget":    domain.ProfileBudgetRange,
	"skill":     domain.ProfileSkillLevel,
	"terrain":   domain.ProfileTerrainPreference,
	"frequency": domain.ProfileSkiingFrequency,
}

// placeholderValues are answers that mean "not provided"
var placeholderValues = map[string]bool{
	"":        true,
	"unknown": true,
}

// profileLabels is used when rendering the profile into the system prompt
var profileLabels = map[string]string{
	domain.ProfileSkillLevel:        "Skill level",
	domain.ProfileTerrainPreference: "Terrain preference",
	domain.ProfileBudgetRange:       "Budget",
	domain.ProfileSkiingFrequency:   "Skiing frequency",
	domain.ProfilePhysicalStats:     "Physical stats",
	domain.ProfileCurrentSkis:       "Current skis",
	domain.ProfileSpecificNeeds:     "Specific needs",
}

// TerrainCategory normalizes a free-text terrain preference to a catalog key
func TerrainCategory(terrainPreference string) string {
	lower := strings.ToLower(terrainPreference)
	for _, rule := range terrainKeywords {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	return domain.TerrainAllMountain
}

// NormalizeAnalysis keeps the usable facts from a profile analysis.
// Unknown keys, placeholder answers and questions_to_ask are dropped.
func NormalizeAnalysis(raw map[string]string) map[string]string {
	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		key = strings.ToLower(strings.TrimSpace(key))
		if alias, ok := analysisAliases[key]; ok {
			key = alias
		}
		if !domain.IsProfileKey(key) {
			continue
		}

		value = strings.TrimSpace(value)
		if placeholderValues[strings.ToLower(value)] {
			continue
		}
		fields[key] = value
	}
	return fields
}

// ProfileSummary renders the known profile facts as a bullet list.
// Returns "" for an empty profile.
func ProfileSummary(profile domain.UserProfile) string {
	// Casers are stateful, so one per call.
	titleCaser := cases.Title(language.English)

	var b strings.Builder
	for _, key := range domain.ProfileKeys {
		value, ok := profile[key]
		if !ok || value == "" {
			continue
		}
		if key == domain.ProfileSkillLevel || key == domain.ProfileTerrainPreference {
			value = titleCaser.String(value)
		}
		fmt.Fprintf(&b, "- %s: %s\n", profileLabels[key], value)
	}
	return b.String()
}
