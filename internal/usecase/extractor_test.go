package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/skiconcierge/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRecommendations(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []domain.Recommendation
	}{
		{
			name: "keeps the first three lines in order",
			text: "Here are my picks:\n" +
				"SKI: Atomic Bent 100 - Great all-mountain powder ski\n" +
				"SKI: K2 Mindbender 99Ti - Versatile charger\n" +
				"SKI: Volkl Kendo 88 - Precise carver\n" +
				"SKI: Nordica Enforcer 94 - Another one",
			want: []domain.Recommendation{
				{Name: "Atomic Bent 100", Description: "Great all-mountain powder ski"},
				{Name: "K2 Mindbender 99Ti", Description: "Versatile charger"},
				{Name: "Volkl Kendo 88", Description: "Precise carver"},
			},
		},
		{
			name: "no marker lines",
			text: "I'd love to help, tell me your budget!",
			want: []domain.Recommendation{},
		},
		{
			name: "empty text",
			text: "",
			want: []domain.Recommendation{},
		},
		{
			name: "lowercase prefix",
			text: "ski: Foo - Bar",
			want: []domain.Recommendation{{Name: "Foo", Description: "Bar"}},
		},
		{
			name: "mixed case prefix without space",
			text: "Ski:Head Kore 85-Light and versatile",
			want: []domain.Recommendation{{Name: "Head Kore 85", Description: "Light and versatile"}},
		},
		{
			name: "description keeps later hyphens",
			text: "SKI: Blizzard Rustler 10 - Playful all-mountain ski - great in trees",
			want: []domain.Recommendation{
				{Name: "Blizzard Rustler 10", Description: "Playful all-mountain ski - great in trees"},
			},
		},
		{
			name: "name stops at the first hyphen",
			text: "SKI: Dynastar M-Pro 90 - Race-inspired",
			want: []domain.Recommendation{{Name: "Dynastar M", Description: "Pro 90 - Race-inspired"}},
		},
		{
			name: "blank name is kept",
			text: "SKI:  - Bar",
			want: []domain.Recommendation{{Name: "", Description: "Bar"}},
		},
		{
			name: "blank description is kept",
			text: "SKI: Foo -   ",
			want: []domain.Recommendation{{Name: "Foo", Description: ""}},
		},
		{
			name: "marker inside markdown",
			text: "1. **SKI: Salomon QST 98 - Backcountry-ready**",
			want: []domain.Recommendation{{Name: "Salomon QST 98", Description: "Backcountry-ready**"}},
		},
		{
			name: "line without hyphen is skipped",
			text: "SKI: Just a name\nSKI: Real One - Real description",
			want: []domain.Recommendation{{Name: "Real One", Description: "Real description"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRecommendations(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRecommendations_CapInvariant(t *testing.T) {
	for n := 0; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d lines", n), func(t *testing.T) {
			var b strings.Builder
			b.WriteString("Intro paragraph.\n")
			for i := 0; i < n; i++ {
				fmt.Fprintf(&b, "SKI: Model %d - Description %d\n", i, i)
			}

			got := ExtractRecommendations(b.String())

			want := min(n, domain.MaxRecommendations)
			require.Len(t, got, want)
			for i, rec := range got {
				assert.Equal(t, fmt.Sprintf("Model %d", i), rec.Name)
				assert.Equal(t, fmt.Sprintf("Description %d", i), rec.Description)
				assert.Nil(t, rec.Specs)
				assert.Empty(t, rec.PriceRange)
				assert.Nil(t, rec.Retailers)
			}
		})
	}
}

func TestExtractRecommendations_Idempotent(t *testing.T) {
	text := "SKI: Atomic Bent 100 - Great powder ski\nSKI: K2 Mindbender 99Ti - Versatile"

	first := ExtractRecommendations(text)
	second := ExtractRecommendations(text)

	assert.Equal(t, first, second)
}
