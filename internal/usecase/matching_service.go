package usecase

import (
	"github.com/skiconcierge/backend/internal/domain"
	"go.uber.org/zap"
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	EnableDebugLogging bool
}

// MatchingService looks up catalog skis for a skill level and terrain preference
type MatchingService struct {
	catalog            domain.Catalog
	enableDebugLogging bool
}

// NewMatchingService creates a matching service over a read-only catalog
func NewMatchingService(catalog domain.Catalog, config MatchConfig) *MatchingService {
	if catalog == nil {
		catalog = domain.Catalog{}
	}
	return &MatchingService{
		catalog:            catalog,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Match returns up to MaxRecommendations catalog entries in declaration order.
// Terrain is routed to powder, carving or all-mountain; a category without the
// requested skill level falls back to all-mountain. Unknown input yields an
// empty list, never an error. Returned entries carry no retailer links.
// The skill level is trimmed as well as lowercased, so " beginner " matches.
func (s *MatchingService) Match(skillLevel, terrainPreference string) []domain.Recommendation {
	level := domain.NormalizeSkillLevel(skillLevel)
	category := TerrainCategory(terrainPreference)

	entries := s.catalog.Lookup(category, level)
	fellBack := false
	if len(entries) == 0 {
		entries = s.catalog.Lookup(domain.TerrainAllMountain, level)
		fellBack = category != domain.TerrainAllMountain
	}

	if len(entries) > domain.MaxRecommendations {
		entries = entries[:domain.MaxRecommendations]
	}

	out := make([]domain.Recommendation, 0, len(entries))
	for _, entry := range entries {
		rec := entry.Clone()
		rec.Retailers = nil
		out = append(out, rec)
	}

	if s.enableDebugLogging {
		zap.L().Debug("catalog match",
			zap.String("skill_level", level),
			zap.String("terrain_preference", terrainPreference),
			zap.String("category", category),
			zap.Bool("fell_back", fellBack),
			zap.Int("results", len(out)),
		)
	}

	return out
}

// Catalog exposes the underlying catalog
func (s *MatchingService) Catalog() domain.Catalog {
	return s.catalog
}
