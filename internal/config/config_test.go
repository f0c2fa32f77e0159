package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Journals, 21)
	assert.Equal(t, 500, cfg.Scoring.MinWords)
	assert.Equal(t, 15000, cfg.Detection.MaxChars)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	t.Setenv("HARVEST_ROOT", "")
	t.Setenv("LOG_LEVEL", "")

	path := writeConfig(t, `
logging:
  level: debug
http:
  delay: 250ms
  retries: 2
paths:
  root: /tmp/harvest
sites:
  - name: arxiv
    baseUrl: https://arxiv.org
    listing:
      scanner: selector
      urlTemplate: "{base}/list/cs.AI/{year}?page={page}"
      selector: 'a[href*="/abs/"]'
      hrefPrefix: /abs/
    pagination:
      years: [2024]
      pages: 3
    fields:
      - name: title
        start: "<title>"
        end: "</title>"
        stripTags: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTP.Delay)
	assert.Equal(t, 2, cfg.HTTP.Retries)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "/tmp/harvest", cfg.Paths.Root)
	require.Len(t, cfg.Sites, 1)
	assert.Equal(t, "selector", cfg.Sites[0].Listing.Scanner)
	assert.True(t, cfg.Sites[0].Fields[0].StripTags)
	assert.Len(t, cfg.Journals, 21)
}

func TestLoadKeepsExplicitZeros(t *testing.T) {
	t.Setenv("HARVEST_ROOT", "")
	t.Setenv("LOG_LEVEL", "")

	path := writeConfig(t, `
http:
  retries: 0
  delay: 0s
scoring:
  maxPerCategory: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.HTTP.Retries)
	assert.Equal(t, time.Duration(0), cfg.HTTP.Delay)
	assert.Equal(t, 0, cfg.Scoring.MaxPerCategory)
	assert.Equal(t, time.Second, cfg.HTTP.Backoff, "absent keys keep their defaults")
	assert.Equal(t, 500, cfg.Scoring.MinWords)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HARVEST_ROOT", "/srv/articles")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ZEROGPT_API_KEY", "detect-key")
	t.Setenv("SEMANTIC_API_KEY", "semantic-key")
	t.Setenv("CROSSREF_MAILTO", "ops@example.org")
	t.Setenv("HARVEST_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/articles", cfg.Paths.Root)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "detect-key", cfg.Detection.APIKey)
	assert.Equal(t, "semantic-key", cfg.Semantic.APIKey)
	assert.Equal(t, "ops@example.org", cfg.Crossref.Mailto)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadSites(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Sites = append(cfg.Sites, cfg.Sites[0])
	assert.ErrorContains(t, cfg.Validate(), "duplicate site")

	cfg = Default()
	cfg.Sites[0].Fields[0].End = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Sites[0].Fields[0].Offset = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Sites[0].Listing.URLTemplate = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Paths.Root = ""
	assert.Error(t, cfg.Validate())
}

func TestSiteLookup(t *testing.T) {
	t.Parallel()

	cfg := Default()
	site, err := cfg.Site("NCOMMS")
	require.NoError(t, err)
	assert.Equal(t, "Nature Communications", site.Journal)

	_, err = cfg.Site("unknown")
	assert.Error(t, err)
}

func TestYearRangeList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{2020, 2021, 2022}, YearRange{Start: 2020, End: 2022}.List())
	assert.Nil(t, YearRange{Start: 2022, End: 2020}.List())
}
