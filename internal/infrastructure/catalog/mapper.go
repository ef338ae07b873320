package catalog

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/skiconcierge/backend/internal/domain"
)

// skiRecord is one catalog entry as written in YAML
type skiRecord struct {
	Name        string      `yaml:"name"`
	PriceRange  string      `yaml:"price_range"`
	Description string      `yaml:"description"`
	Specs       *specRecord `yaml:"specs"`
}

type specRecord struct {
	Length string `yaml:"length"`
	Waist  string `yaml:"waist"`
	Radius string `yaml:"radius"`
}

// catalogFile is terrain category -> skill level -> skis
type catalogFile map[string]map[string][]skiRecord

// MapToRecommendation converts a catalog record to our domain Recommendation
func MapToRecommendation(record skiRecord) domain.Recommendation {
	rec := domain.Recommendation{
		Name:        strings.TrimSpace(record.Name),
		Description: strings.TrimSpace(record.Description),
		PriceRange:  strings.TrimSpace(record.PriceRange),
	}

	if record.Specs != nil {
		rec.Specs = &domain.Specs{
			Length: record.Specs.Length,
			Waist:  record.Specs.Waist,
			Radius: record.Specs.Radius,
		}
	}

	return rec
}

// mapToCatalog normalizes keys and converts every record.
// Two keys that normalize to the same terrain or skill level are an error;
// each pair maps to exactly one ordered list from the document.
func mapToCatalog(file catalogFile) (domain.Catalog, error) {
	catalog := make(domain.Catalog, len(file))
	seenTerrain := make(map[string]string, len(file))

	for rawTerrain, levels := range file {
		terrain := normalizeTerrain(rawTerrain)
		if prev, ok := seenTerrain[terrain]; ok {
			return nil, eris.Errorf("terrain keys %q and %q both normalize to %q", prev, rawTerrain, terrain)
		}
		seenTerrain[terrain] = rawTerrain

		catalog[terrain] = make(map[string][]domain.Recommendation, len(levels))
		seenSkill := make(map[string]string, len(levels))

		for rawSkill, records := range levels {
			skill := domain.NormalizeSkillLevel(rawSkill)
			if prev, ok := seenSkill[skill]; ok {
				return nil, eris.Errorf("%s: skill keys %q and %q both normalize to %q", terrain, prev, rawSkill, skill)
			}
			seenSkill[skill] = rawSkill

			entries := make([]domain.Recommendation, 0, len(records))
			for _, record := range records {
				entries = append(entries, MapToRecommendation(record))
			}
			catalog[terrain][skill] = entries
		}
	}

	return catalog, nil
}

func normalizeTerrain(terrain string) string {
	return strings.ToLower(strings.TrimSpace(terrain))
}
