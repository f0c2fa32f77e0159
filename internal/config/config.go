package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/extract"
)

// Config holds every setting of the harvester.
type Config struct {
	Logging   LoggingConfig    `yaml:"logging"`
	HTTP      HTTPConfig       `yaml:"http"`
	Paths     PathsConfig      `yaml:"paths"`
	Years     YearRange        `yaml:"years"`
	Journals  []domain.Journal `yaml:"journals"`
	Sites     []SiteConfig     `yaml:"sites"`
	Scoring   ScoringConfig    `yaml:"scoring"`
	Detection DetectionConfig  `yaml:"detection"`
	Semantic  SemanticConfig   `yaml:"semantic"`
	Crossref  CrossrefConfig   `yaml:"crossref"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTPConfig tunes the Fetcher.
type HTTPConfig struct {
	UserAgent  string        `yaml:"userAgent"`
	Timeout    time.Duration `yaml:"timeout"`
	Retries    int           `yaml:"retries"`
	Backoff    time.Duration `yaml:"backoff"`
	MaxBackoff time.Duration `yaml:"maxBackoff"`
	Delay      time.Duration `yaml:"delay"`
}

// PathsConfig locates outputs.
type PathsConfig struct {
	Root        string `yaml:"root"`
	Progress    string `yaml:"progress"`
	Texts       string `yaml:"texts"`
	Ledger      string `yaml:"ledger"`
	MetricsFile string `yaml:"metricsFile"`
}

// YearRange bounds the catalog-level passes (counts, metadata).
type YearRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// List expands the range into individual years.
func (y YearRange) List() []int {
	if y.End < y.Start {
		return nil
	}
	years := make([]int, 0, y.End-y.Start+1)
	for yr := y.Start; yr <= y.End; yr++ {
		years = append(years, yr)
	}
	return years
}

// SiteConfig describes one publisher search interface.
type SiteConfig struct {
	Name       string              `yaml:"name"`
	Journal    string              `yaml:"journal"`
	BaseURL    string              `yaml:"baseUrl"`
	Listing    ListingConfig       `yaml:"listing"`
	Pagination PaginationConfig    `yaml:"pagination"`
	Fields     []extract.FieldSpec `yaml:"fields"`
	Text       TextConfig          `yaml:"text"`
}

// ListingConfig tells the paginator how to find item anchors.
type ListingConfig struct {
	Scanner        string `yaml:"scanner"`
	URLTemplate    string `yaml:"urlTemplate"`
	ItemStart      string `yaml:"itemStart"`
	ItemEnd        string `yaml:"itemEnd"`
	Selector       string `yaml:"selector"`
	HrefPrefix     string `yaml:"hrefPrefix"`
	IDTemplate     string `yaml:"idTemplate"`
	DetailTemplate string `yaml:"detailTemplate"`
}

// PaginationConfig bounds the coordinate space.
type PaginationConfig struct {
	Years   []int `yaml:"years"`
	Volumes int   `yaml:"volumes"`
	Pages   int   `yaml:"pages"`
}

// TextConfig selects how full text is pulled out of a detail page.
type TextConfig struct {
	Mode     string `yaml:"mode"`
	Selector string `yaml:"selector"`
}

// ScoringConfig bounds the readability passes.
type ScoringConfig struct {
	MinWords       int            `yaml:"minWords"`
	MaxPerCategory int            `yaml:"maxPerCategory"`
	Budgets        map[string]int `yaml:"budgets"`
	DOIResolver    string         `yaml:"doiResolver"`
	SaveTexts      bool           `yaml:"saveTexts"`
}

// DetectionConfig describes the AI-detection endpoint.
type DetectionConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
	MaxChars int    `yaml:"maxChars"`
}

// SemanticConfig describes the semantic metadata endpoint.
type SemanticConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
	Fields   string `yaml:"fields"`
	PageSize int    `yaml:"pageSize"`
}

// CrossrefConfig describes the bibliographic catalog used for expected counts.
type CrossrefConfig struct {
	Endpoint string `yaml:"endpoint"`
	Mailto   string `yaml:"mailto"`
}

// Env carries the environment overrides.
type Env struct {
	ConfigPath     string `envconfig:"HARVEST_CONFIG"`
	Root           string `envconfig:"HARVEST_ROOT"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	DetectionKey   string `envconfig:"ZEROGPT_API_KEY"`
	SemanticKey    string `envconfig:"SEMANTIC_API_KEY"`
	CrossrefMailto string `envconfig:"CROSSREF_MAILTO"`
}

// Load reads the YAML file at path (or $HARVEST_CONFIG), merges it over the
// defaults and applies environment overrides.
func Load(path string) (Config, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = env.ConfigPath
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		fileCfg, err := Parse(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return Config{}, fmt.Errorf("merge config %s: %w", path, err)
		}
		if err := applyExplicitZeros(&cfg, raw); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// zeroable lists the numeric knobs where zero is meaningful. mergo skips zero
// values of the file when overriding defaults, so these are decoded again as
// pointers and set whenever the key is present.
type zeroable struct {
	HTTP struct {
		Retries *int           `yaml:"retries"`
		Backoff *time.Duration `yaml:"backoff"`
		Delay   *time.Duration `yaml:"delay"`
	} `yaml:"http"`
	Scoring struct {
		MinWords       *int `yaml:"minWords"`
		MaxPerCategory *int `yaml:"maxPerCategory"`
	} `yaml:"scoring"`
}

func applyExplicitZeros(cfg *Config, raw []byte) error {
	var z zeroable
	if err := yaml.Unmarshal(raw, &z); err != nil {
		return err
	}
	if z.HTTP.Retries != nil {
		cfg.HTTP.Retries = *z.HTTP.Retries
	}
	if z.HTTP.Backoff != nil {
		cfg.HTTP.Backoff = *z.HTTP.Backoff
	}
	if z.HTTP.Delay != nil {
		cfg.HTTP.Delay = *z.HTTP.Delay
	}
	if z.Scoring.MinWords != nil {
		cfg.Scoring.MinWords = *z.Scoring.MinWords
	}
	if z.Scoring.MaxPerCategory != nil {
		cfg.Scoring.MaxPerCategory = *z.Scoring.MaxPerCategory
	}
	return nil
}

func (c *Config) applyEnv(env Env) {
	if env.Root != "" {
		c.Paths.Root = env.Root
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.DetectionKey != "" {
		c.Detection.APIKey = env.DetectionKey
	}
	if env.SemanticKey != "" {
		c.Semantic.APIKey = env.SemanticKey
	}
	if env.CrossrefMailto != "" {
		c.Crossref.Mailto = env.CrossrefMailto
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Paths.Root == "" {
		return fmt.Errorf("config: paths.root is empty")
	}

	names := map[string]struct{}{}
	for i, site := range c.Sites {
		if site.Name == "" {
			return fmt.Errorf("config: site %d has no name", i)
		}
		if _, ok := names[site.Name]; ok {
			return fmt.Errorf("config: duplicate site %s", site.Name)
		}
		names[site.Name] = struct{}{}

		if site.Listing.URLTemplate == "" {
			return fmt.Errorf("config: site %s has no listing.urlTemplate", site.Name)
		}
		if site.Pagination.Pages <= 0 {
			return fmt.Errorf("config: site %s needs pagination.pages > 0", site.Name)
		}
		if _, err := extract.New(site.Fields); err != nil {
			return fmt.Errorf("config: site %s: %w", site.Name, err)
		}
	}

	for _, j := range c.Journals {
		if j.Name == "" || j.ISSN == "" {
			return fmt.Errorf("config: journal entries need name and issn")
		}
	}
	return nil
}

// Site returns the named site configuration.
func (c Config) Site(name string) (SiteConfig, error) {
	for _, site := range c.Sites {
		if strings.EqualFold(site.Name, name) {
			return site, nil
		}
	}
	return SiteConfig{}, fmt.Errorf("site %s is not configured", name)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		HTTP: HTTPConfig{
			UserAgent:  "ArticleAnalysis/1.0",
			Timeout:    15 * time.Second,
			Retries:    5,
			Backoff:    time.Second,
			MaxBackoff: 30 * time.Second,
			Delay:      time.Second,
		},
		Paths: PathsConfig{
			Root:     "Articles_Data",
			Progress: "progress.json",
			Texts:    "Articles_Data/texts",
			Ledger:   "Articles_Data/ledger.db",
		},
		Years:    YearRange{Start: 2020, End: 2025},
		Journals: DefaultJournals(),
		Sites:    []SiteConfig{defaultNatureSite()},
		Scoring: ScoringConfig{
			MinWords:       500,
			MaxPerCategory: 5,
			DOIResolver:    "https://doi.org",
		},
		Detection: DetectionConfig{
			Endpoint: "https://api.zerogpt.com/api/detect/detectText",
			MaxChars: 15000,
		},
		Semantic: SemanticConfig{
			Endpoint: "https://api.semanticscholar.org/graph/v1/paper/search",
			Fields:   "title,url,year,venue,authors,externalIds,abstract",
			PageSize: 100,
		},
		Crossref: CrossrefConfig{
			Endpoint: "https://api.crossref.org",
		},
	}
}

func defaultNatureSite() SiteConfig {
	return SiteConfig{
		Name:    "ncomms",
		Journal: "Nature Communications",
		BaseURL: "https://www.nature.com",
		Listing: ListingConfig{
			Scanner:        "marker",
			URLTemplate:    "{base}/search?order=relevance&date_range={year}-{year}&journal=ncomms&volume={volume}&page={page}",
			ItemStart:      "/articles/s",
			ItemEnd:        `"`,
			IDTemplate:     "10.1038/s{key}",
			DetailTemplate: "{base}/articles/s{key}",
		},
		Pagination: PaginationConfig{Years: []int{2012}, Volumes: 9, Pages: 20},
		Fields: []extract.FieldSpec{
			{Name: "authors", Start: `"authors"`, End: `"`, Offset: 3},
			{Name: "email", Start: `"email":`, End: `"`, Offset: 1},
			{Name: "title", Start: "<title>", End: "</title>", StripTags: true},
			{Name: "date", Start: "datePublished", End: `"`, Offset: 3},
			{Name: "subjects", Start: `"subjects":"`, End: `"`, Multi: true, Separator: ","},
		},
		Text: TextConfig{Mode: "selector", Selector: "div.main-content"},
	}
}
