package text

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/infrastructure/checkpoint"
	"JournalHarvester/internal/ports"
)

// Archive stores extracted article text as {dir}/{doi with / replaced}.txt.
// A nil *Archive stores nothing.
type Archive struct {
	dir string
}

// NewArchive returns an archive rooted at dir; an empty dir disables it.
func NewArchive(dir string) *Archive {
	if dir == "" {
		return nil
	}
	return &Archive{dir: dir}
}

// Path returns the file holding the text of id.
func (a *Archive) Path(id string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(id)
	return filepath.Join(a.dir, name+".txt")
}

// Load returns the stored text of id; ok is false when none is stored.
func (a *Archive) Load(id string) (string, bool, error) {
	if a == nil {
		return "", false, nil
	}
	data, err := os.ReadFile(a.Path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load text %s: %w", id, err)
	}
	return string(data), true, nil
}

// Save writes text for id atomically.
func (a *Archive) Save(id, text string) error {
	if a == nil {
		return nil
	}
	return checkpoint.WriteFileAtomic(a.Path(id), []byte(text))
}

// Source resolves the full text of an article: the archive first, then the
// article URL (or its PDF) through the Fetcher.
type Source struct {
	fetcher   ports.Fetcher
	extractor Extractor
	archive   *Archive
	save      bool
	logger    *slog.Logger
}

var _ ports.TextSource = (*Source)(nil)

// NewSource wires the text source. When save is true, fetched text is written
// to the archive.
func NewSource(fetcher ports.Fetcher, extractor Extractor, archive *Archive, save bool, logger *slog.Logger) *Source {
	return &Source{
		fetcher:   fetcher,
		extractor: extractor,
		archive:   archive,
		save:      save,
		logger:    logger,
	}
}

// Text returns the cleaned text of article.
func (s *Source) Text(ctx context.Context, article domain.ArticleRecord) (string, error) {
	if stored, ok, err := s.archive.Load(article.ID); err != nil {
		return "", err
	} else if ok {
		s.debug("text from archive", "id", article.ID)
		return stored, nil
	}

	if article.URL == "" {
		return "", fmt.Errorf("article %s has no url", article.ID)
	}

	page, err := s.fetcher.Get(ctx, s.extractor.SourceURL(article.URL))
	if err != nil {
		return "", err
	}

	text, err := s.extractor.Extract(page.Body, page.URL)
	if err != nil {
		return "", fmt.Errorf("extract text of %s: %w", article.ID, err)
	}

	if s.save {
		if err := s.archive.Save(article.ID, text); err != nil && s.logger != nil {
			s.logger.Warn("archive text failed", "id", article.ID, "error", err)
		}
	}
	return text, nil
}

func (s *Source) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
