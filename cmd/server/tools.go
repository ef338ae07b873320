package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/skiconcierge/backend/internal/infrastructure/catalog"
	"github.com/skiconcierge/backend/internal/usecase"
	"github.com/spf13/cobra"
)

var (
	matchSkill   string
	matchTerrain string
	matchCatalog string
)

var matchCmd = &cobra.Command{
	Use:         "match",
	Short:       "Look skis up in the catalog by skill level and terrain",
	Annotations: map[string]string{offlineAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		skis, err := catalog.Load(matchCatalog)
		if err != nil {
			return err
		}

		matcher := usecase.NewMatchingService(skis, usecase.MatchConfig{})
		recommendations := usecase.WithRetailerLinks(matcher.Match(matchSkill, matchTerrain))
		return writeJSON(cmd.OutOrStdout(), recommendations)
	},
}

var extractCmd = &cobra.Command{
	Use:         "extract",
	Short:       "Extract SKI: recommendations from advisor text on stdin",
	Annotations: map[string]string{offlineAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return eris.Wrap(err, "read stdin")
		}

		recommendations := usecase.WithRetailerLinks(usecase.ExtractRecommendations(string(text)))
		return writeJSON(cmd.OutOrStdout(), recommendations)
	},
}

var linksCmd = &cobra.Command{
	Use:         "links NAME",
	Short:       "Print retailer search links for a ski name",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{offlineAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), usecase.BuildRetailerLinks(args[0]))
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func init() {
	matchCmd.Flags().StringVar(&matchSkill, "skill", "", "skill level (beginner, intermediate, advanced, expert)")
	matchCmd.Flags().StringVar(&matchTerrain, "terrain", "", "terrain preference, free text")
	matchCmd.Flags().StringVar(&matchCatalog, "catalog", "", "catalog YAML path (default: shipped catalog)")
	_ = matchCmd.MarkFlagRequired("skill")

	rootCmd.AddCommand(matchCmd, extractCmd, linksCmd)
}
