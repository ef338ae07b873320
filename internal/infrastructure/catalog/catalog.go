package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/skiconcierge/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed skis.yaml
var defaultCatalog []byte

// Default returns the catalog shipped with the binary
func Default() (domain.Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog document from disk.
// An empty path returns the shipped catalog.
func Load(path string) (domain.Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogInvalid, eris.Wrapf(err, "read catalog %s", path))
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
// Keys are normalized before validation, so All_Mountain and all_mountain are the same category.
func Parse(data []byte) (domain.Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogInvalid, eris.Wrap(err, "decode catalog"))
	}

	skis, err := mapToCatalog(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogInvalid, err)
	}

	if err := validate(skis); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogInvalid, err)
	}

	return skis, nil
}

func validate(skis domain.Catalog) error {
	if len(skis) == 0 {
		return eris.New("catalog has no terrain categories")
	}
	if _, ok := skis[domain.TerrainAllMountain]; !ok {
		return eris.Errorf("catalog is missing the %s category", domain.TerrainAllMountain)
	}

	for terrain, levels := range skis {
		for skill, entries := range levels {
			if !domain.IsSkillLevel(skill) {
				return eris.Errorf("%s: unknown skill level %q", terrain, skill)
			}
			for i, entry := range entries {
				if entry.Name == "" {
					return eris.Errorf("%s/%s[%d]: ski has no name", terrain, skill, i)
				}
			}
		}
	}
	return nil
}
