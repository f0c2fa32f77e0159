package app

import (
	"errors"
	"fmt"
	"log/slog"

	"JournalHarvester/internal/aggregate"
	"JournalHarvester/internal/config"
	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/infrastructure/checkpoint"
	"JournalHarvester/internal/infrastructure/detector"
	"JournalHarvester/internal/infrastructure/fetcher"
	"JournalHarvester/internal/infrastructure/parser"
	"JournalHarvester/internal/infrastructure/scholar"
	"JournalHarvester/internal/infrastructure/storage"
	"JournalHarvester/internal/infrastructure/text"
	"JournalHarvester/internal/logging"
	"JournalHarvester/internal/metrics"
	"JournalHarvester/internal/ports"
	"JournalHarvester/internal/progress"
	"JournalHarvester/internal/readability"
	"JournalHarvester/internal/scanner"
	"JournalHarvester/internal/usecase"
)

// Application wires configs to use cases. One Application serves one command.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	fetcher  *fetcher.Fetcher
	registry *scanner.Registry
	store    *checkpoint.Store
	tracker  *progress.Tracker
	metrics  *metrics.Recorder
	ledger   *storage.SQLiteLedger
}

// New builds the shared adapters. The ledger database is opened here when
// paths.ledger is set.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	rec := metrics.New()
	f := fetcher.New(fetcher.Options{
		UserAgent:  cfg.HTTP.UserAgent,
		Timeout:    cfg.HTTP.Timeout,
		Retries:    cfg.HTTP.Retries,
		Backoff:    cfg.HTTP.Backoff,
		MaxBackoff: cfg.HTTP.MaxBackoff,
		Delay:      cfg.HTTP.Delay,
	}, baseLogger.With("component", "fetcher"), rec)

	registry := scanner.NewRegistry()
	registry.Register(parser.NewMarkerScanner())
	registry.Register(parser.NewSelectorScanner())

	a := &Application{
		cfg:      cfg,
		logger:   baseLogger,
		fetcher:  f,
		registry: registry,
		store:    checkpoint.NewStore(cfg.Paths.Root),
		tracker:  progress.NewTracker(cfg.Paths.Progress, baseLogger.With("component", "progress")),
		metrics:  rec,
	}

	if cfg.Paths.Ledger != "" {
		ledger, err := storage.OpenSQLiteLedger(cfg.Paths.Ledger)
		if err != nil {
			return nil, fmt.Errorf("open ledger: %w", err)
		}
		a.ledger = ledger
	}
	return a, nil
}

// Close flushes the metrics textfile and closes the ledger.
func (a *Application) Close() error {
	var errs []error
	if path := a.cfg.Paths.MetricsFile; path != "" {
		if err := a.metrics.WriteFile(path); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close ledger: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Config returns the loaded configuration.
func (a *Application) Config() config.Config {
	return a.cfg
}

// Logger returns the base logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// Corpus exposes the corpus-level tables under the data root.
func (a *Application) Corpus() *checkpoint.Store {
	return a.store
}

// Ledger returns the run ledger, or an error when none is configured.
func (a *Application) Ledger() (ports.Ledger, error) {
	if a.ledger == nil {
		return nil, fmt.Errorf("no ledger configured (paths.ledger)")
	}
	return a.ledger, nil
}

// Harvester returns the accumulator of the named site.
func (a *Application) Harvester(siteName string) (*usecase.Harvester, config.SiteConfig, error) {
	site, err := a.cfg.Site(siteName)
	if err != nil {
		return nil, config.SiteConfig{}, err
	}

	recordParser, err := parser.NewRecordParser(site.Fields, site.Journal)
	if err != nil {
		return nil, site, fmt.Errorf("site %s: %w", site.Name, err)
	}

	h := usecase.NewHarvester(usecase.HarvestDeps{
		Site:     site.Name,
		Listing:  parser.NewStrategySource(a.registry, a.fetcher, site, a.logger.With("component", "source", "site", site.Name)),
		Fetcher:  a.fetcher,
		Parser:   recordParser,
		Store:    a.store,
		Ledger:   a.ledgerPort(),
		Progress: a.tracker,
		Metrics:  a.metrics,
		Logger:   a.logger.With("component", "harvest", "site", site.Name),
	})
	return h, site, nil
}

// Scorer returns the readability component. An empty site name selects the
// whole-body extraction used for DOI landing pages.
func (a *Application) Scorer(siteName string) (*usecase.Scorer, error) {
	texts, err := a.textSource(siteName)
	if err != nil {
		return nil, err
	}
	return usecase.NewScorer(usecase.ScoringDeps{
		Store:    a.store,
		Corpus:   a.store,
		Texts:    texts,
		Ledger:   a.ledgerPort(),
		Progress: a.tracker,
		Metrics:  a.metrics,
		Logger:   a.logger.With("component", "scorer"),
	}), nil
}

// DetectionPass returns the AI-detection component of the named site.
func (a *Application) DetectionPass(siteName string) (*usecase.DetectionPass, error) {
	if a.cfg.Detection.APIKey == "" {
		return nil, fmt.Errorf("detection needs an API key (ZEROGPT_API_KEY)")
	}
	texts, err := a.textSource(siteName)
	if err != nil {
		return nil, err
	}

	client := detector.New(detector.Options{
		Endpoint: a.cfg.Detection.Endpoint,
		APIKey:   a.cfg.Detection.APIKey,
		MaxChars: a.cfg.Detection.MaxChars,
	}, a.fetcher.HTTPClient(), a.fetcher.Limiter(), a.logger.With("component", "detector"))

	return usecase.NewDetectionPass(usecase.DetectionDeps{
		Store:    a.store,
		Texts:    texts,
		Detector: client,
		Ledger:   a.ledgerPort(),
		Progress: a.tracker,
		Metrics:  a.metrics,
		Logger:   a.logger.With("component", "detect"),
	}), nil
}

// Catalog returns the expected-count and metadata component.
func (a *Application) Catalog() *usecase.Catalog {
	httpClient := a.fetcher.HTTPClient()
	limiter := a.fetcher.Limiter()

	return usecase.NewCatalog(usecase.CatalogDeps{
		Counts: scholar.NewCrossrefClient(scholar.CrossrefOptions{
			Endpoint: a.cfg.Crossref.Endpoint,
			Mailto:   a.cfg.Crossref.Mailto,
		}, httpClient, limiter),
		Papers: scholar.NewSemanticClient(scholar.SemanticOptions{
			Endpoint: a.cfg.Semantic.Endpoint,
			APIKey:   a.cfg.Semantic.APIKey,
			Fields:   a.cfg.Semantic.Fields,
			PageSize: a.cfg.Semantic.PageSize,
		}, httpClient, limiter, a.logger.With("component", "semantic")),
		Corpus:   a.store,
		Progress: a.tracker,
		Logger:   a.logger.With("component", "catalog"),
	})
}

// Aggregator returns the corpus file merger.
func (a *Application) Aggregator() *aggregate.Aggregator {
	return aggregate.New(a.logger.With("component", "aggregate"))
}

// Journals returns the shared journal table.
func (a *Application) Journals() []domain.Journal {
	return a.cfg.Journals
}

// MetadataBudget returns the per-journal budget of the metadata scoring pass.
func (a *Application) MetadataBudget() *readability.Budget {
	return readability.NewBudget(a.cfg.Scoring.MaxPerCategory, a.cfg.Scoring.Budgets)
}

func (a *Application) textSource(siteName string) (*text.Source, error) {
	mode, selector := text.ModeBody, ""
	if siteName != "" {
		site, err := a.cfg.Site(siteName)
		if err != nil {
			return nil, err
		}
		mode, selector = site.Text.Mode, site.Text.Selector
	}

	extractor, err := text.NewExtractor(mode, selector)
	if err != nil {
		return nil, fmt.Errorf("text extraction: %w", err)
	}
	return text.NewSource(
		a.fetcher,
		extractor,
		text.NewArchive(a.cfg.Paths.Texts),
		a.cfg.Scoring.SaveTexts,
		a.logger.With("component", "text"),
	), nil
}

// ledgerPort avoids handing a typed nil to the use cases.
func (a *Application) ledgerPort() ports.Ledger {
	if a.ledger == nil {
		return nil
	}
	return a.ledger
}

// Plan builds the coordinate plan of site. years overrides the configured
// pagination years; from, in year:page or year:volume:page form, sets the
// starting coordinate.
func Plan(site config.SiteConfig, years []int, from string) (scanner.Plan, error) {
	plan := scanner.Plan{
		Years:   site.Pagination.Years,
		Volumes: site.Pagination.Volumes,
		Pages:   site.Pagination.Pages,
	}
	if len(years) > 0 {
		plan.Years = years
	}
	if from != "" {
		start, err := domain.ParseCoordinate(from)
		if err != nil {
			return scanner.Plan{}, err
		}
		plan.Start = start
	}
	if err := plan.Validate(); err != nil {
		return scanner.Plan{}, fmt.Errorf("site %s: %w", site.Name, err)
	}
	return plan, nil
}
