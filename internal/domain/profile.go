package domain

import "strings"

// Profile keys collected over a conversation
const (
	ProfileSkillLevel        = "skill_level"
	ProfileTerrainPreference = "terrain_preference"
	ProfileBudgetRange       = "budget_range"
	ProfileSkiingFrequency   = "skiing_frequency"
	ProfilePhysicalStats     = "physical_stats"
	ProfileCurrentSkis       = "current_skis"
	ProfileSpecificNeeds     = "specific_needs"
)

// ProfileKeys lists every accepted profile key in display order
var ProfileKeys = []string{
	ProfileSkillLevel,
	ProfileTerrainPreference,
	ProfileBudgetRange,
	ProfileSkiingFrequency,
	ProfilePhysicalStats,
	ProfileCurrentSkis,
	ProfileSpecificNeeds,
}

// SkillLevels are the recognised skill levels, lowest first
var SkillLevels = []string{"beginner", "intermediate", "advanced", "expert"}

// IsProfileKey reports whether key is one of ProfileKeys
func IsProfileKey(key string) bool {
	for _, k := range ProfileKeys {
		if k == key {
			return true
		}
	}
	return false
}

// IsSkillLevel reports whether s names a recognised skill level, ignoring case
func IsSkillLevel(s string) bool {
	normalized := NormalizeSkillLevel(s)
	for _, level := range SkillLevels {
		if level == normalized {
			return true
		}
	}
	return false
}

// NormalizeSkillLevel lowercases and trims a skill level
func NormalizeSkillLevel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// UserProfile is the free-form key/value state of one conversation.
// Keys are only ever added or overwritten, never removed individually.
type UserProfile map[string]string

// Merge copies non-empty values from fields into p
func (p UserProfile) Merge(fields map[string]string) {
	for key, value := range fields {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if key == ProfileSkillLevel {
			value = NormalizeSkillLevel(value)
		}
		p[key] = value
	}
}

// Clone returns an independent copy of p; a nil profile clones to an empty one
func (p UserProfile) Clone() UserProfile {
	out := make(UserProfile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// SkillLevel returns the stored skill level (lowercase) or ""
func (p UserProfile) SkillLevel() string {
	return p[ProfileSkillLevel]
}

// TerrainPreference returns the stored terrain preference or ""
func (p UserProfile) TerrainPreference() string {
	return p[ProfileTerrainPreference]
}

// CanMatch reports whether both inputs the catalog matcher needs are present
func (p UserProfile) CanMatch() bool {
	return p.SkillLevel() != "" && p.TerrainPreference() != ""
}
