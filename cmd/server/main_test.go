package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/skiconcierge/backend/config"
	"github.com/skiconcierge/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "match", "extract", "links"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "skiconcierge", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "", flag.DefValue)
}

// execute runs the root command with args and returns stdout
func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestLinksCommand(t *testing.T) {
	out := execute(t, "", "links", "Völkl Deacon 79")

	var links domain.RetailerLinks
	require.NoError(t, json.Unmarshal([]byte(out), &links))
	url, ok := links.Get("REI")
	assert.True(t, ok)
	assert.Equal(t, "https://www.rei.com/search?q=V%C3%B6lkl+Deacon+79", url)
}

func TestExtractCommand(t *testing.T) {
	out := execute(t, "Here you go!\nSKI: Head Kore 85 - Light\nno marker here\n", "extract")

	var recs []domain.Recommendation
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Head Kore 85", recs[0].Name)
	assert.Equal(t, "Light", recs[0].Description)
	assert.Len(t, recs[0].Retailers, 3)
}

func TestMatchCommand(t *testing.T) {
	out := execute(t, "", "match", "--skill", "advanced", "--terrain", "deep powder")

	var recs []domain.Recommendation
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "DPS Wailer 106", recs[0].Name)
}

func TestBuildService(t *testing.T) {
	c := &config.Config{
		Anthropic: config.AnthropicConfig{APIKey: "test-key", MaxRetries: 0},
		Session:   config.SessionConfig{Store: "memory", TTL: time.Hour},
		Speech:    config.SpeechConfig{Enabled: true, APIKey: "speech-key"},
		Matching:  config.MatchingConfig{FallbackToCatalog: true},
		RateLimit: config.RateLimitConfig{LLM: 60},
	}

	service, closeFn, err := buildService(context.Background(), c)
	require.NoError(t, err)
	defer closeFn()

	recs := service.RecommendFromCatalog("intermediate", "powder")
	require.Len(t, recs, 1)
	assert.Equal(t, "Blizzard Black Pearl 97", recs[0].Name)

	session, err := service.CreateSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
}

func TestBuildService_BadCatalog(t *testing.T) {
	c := &config.Config{
		Session:  config.SessionConfig{Store: "memory"},
		Matching: config.MatchingConfig{CatalogPath: "/nonexistent/skis.yaml"},
	}

	_, _, err := buildService(context.Background(), c)
	assert.ErrorIs(t, err, domain.ErrCatalogInvalid)
}
