package usecase

import (
	"net/url"

	"github.com/skiconcierge/backend/internal/domain"
)

// Retailer display names, in link order
const (
	RetailerREI         = "REI"
	RetailerBackcountry = "Backcountry"
	RetailerEvo         = "Evo"
)

// SearchTerm turns a product name into a query value: spaces become '+',
// every other reserved character is percent-encoded.
func SearchTerm(name string) string {
	return url.QueryEscape(name)
}

// BuildRetailerLinks returns the REI, Backcountry and Evo search URLs for a ski
func BuildRetailerLinks(name string) domain.RetailerLinks {
	term := SearchTerm(name)
	return domain.RetailerLinks{
		{Name: RetailerREI, URL: "https://www.rei.com/search?q=" + term},
		{Name: RetailerBackcountry, URL: "https://www.backcountry.com/search?q=" + term},
		{Name: RetailerEvo, URL: "https://www.evo.com/search?text=" + term},
	}
}

// WithRetailerLinks caps the list and attaches shopping links to each entry.
// The input slice is not modified.
func WithRetailerLinks(recommendations []domain.Recommendation) []domain.Recommendation {
	if len(recommendations) > domain.MaxRecommendations {
		recommendations = recommendations[:domain.MaxRecommendations]
	}

	out := make([]domain.Recommendation, 0, len(recommendations))
	for _, rec := range recommendations {
		linked := rec.Clone()
		linked.Retailers = BuildRetailerLinks(rec.Name)
		out = append(out, linked)
	}
	return out
}
