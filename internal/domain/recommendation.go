package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MaxRecommendations caps every recommendation list handed to callers
const MaxRecommendations = 3

// Terrain categories used as the first catalog key
const (
	TerrainAllMountain = "all_mountain"
	TerrainPowder      = "powder"
	TerrainCarving     = "carving"
)

// Recommendation is a single suggested ski
type Recommendation struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	PriceRange  string        `json:"priceRange,omitempty"`
	Specs       *Specs        `json:"specs,omitempty"`
	Retailers   RetailerLinks `json:"retailers,omitempty"`
}

// Specs holds the published dimensions of a ski
type Specs struct {
	Length string `json:"length,omitempty"`
	Waist  string `json:"waist,omitempty"`
	Radius string `json:"radius,omitempty"`
}

// Clone returns a copy that shares no mutable state with r
func (r Recommendation) Clone() Recommendation {
	out := r
	if r.Specs != nil {
		specs := *r.Specs
		out.Specs = &specs
	}
	if r.Retailers != nil {
		out.Retailers = append(RetailerLinks(nil), r.Retailers...)
	}
	return out
}

// Catalog maps terrain category -> skill level -> skis in declaration order
type Catalog map[string]map[string][]Recommendation

// Lookup returns the entries for a category and skill level, or nil
func (c Catalog) Lookup(category, skillLevel string) []Recommendation {
	bySkill, ok := c[category]
	if !ok {
		return nil
	}
	return bySkill[skillLevel]
}

// RetailerLink is one outbound shopping link
type RetailerLink struct {
	Name string
	URL  string
}

// RetailerLinks is an ordered retailer name -> URL mapping.
// It marshals to a JSON object whose keys keep slice order.
type RetailerLinks []RetailerLink

// Get returns the URL for a retailer name
func (l RetailerLinks) Get(name string) (string, bool) {
	for _, link := range l {
		if link.Name == name {
			return link.URL, true
		}
	}
	return "", false
}

// Names returns the retailer names in order
func (l RetailerLinks) Names() []string {
	names := make([]string, 0, len(l))
	for _, link := range l {
		names = append(names, link.Name)
	}
	return names
}

// MarshalJSON writes the links as an object, preserving order
func (l RetailerLinks) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, link := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(link.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(link.URL)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of retailer -> URL in document order
func (l *RetailerLinks) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("retailer links: expected object, got %v", tok)
	}

	var links RetailerLinks
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("retailer links: unexpected key %v", keyTok)
		}
		var url string
		if err := dec.Decode(&url); err != nil {
			return err
		}
		links = append(links, RetailerLink{Name: name, URL: url})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*l = links
	return nil
}
