// Package aggregate concatenates per-coordinate checkpoint tables into
// corpus-wide files.
package aggregate

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/infrastructure/checkpoint"
)

// Output file names under the root.
const (
	ScoresFile   = "scores_all.csv"
	SubjectsFile = "subjects_all.csv"
)

// Request selects the partitions to aggregate. No years means every
// articles_* partition.
type Request struct {
	Root  string
	Years []int
	Sort  bool
}

// Summary describes one written corpus file.
type Summary struct {
	Kind   string
	Output string
	Files  int
	Rows   int
}

type table struct {
	kind   string
	output string
	sep    rune
}

var tables = []table{
	{kind: domain.KindScores, output: ScoresFile, sep: checkpoint.Tab},
	{kind: domain.KindSubjects, output: SubjectsFile, sep: checkpoint.Comma},
}

// Aggregator merges checkpoint tables.
type Aggregator struct {
	logger *slog.Logger
}

// New returns an Aggregator; logger may be nil.
func New(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate writes scores_all.csv and subjects_all.csv under req.Root. The
// first file's header is kept; any other header is an error. Without Sort the
// files are taken in directory listing order. A kind whose matched files are
// all empty writes no output.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) ([]Summary, error) {
	fsys := os.DirFS(req.Root)

	summaries := make([]Summary, 0, len(tables))
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		files, err := doublestar.Glob(fsys, Pattern(t.kind, req.Years))
		if err != nil {
			return summaries, fmt.Errorf("match %s files: %w", t.kind, err)
		}
		if req.Sort {
			sort.Strings(files)
		}

		header, rows, err := concat(fsys, files, t.sep)
		if err != nil {
			return summaries, err
		}

		out := filepath.Join(req.Root, t.output)
		if header == nil {
			a.info("no rows to aggregate", "kind", t.kind, "files", len(files))
			summaries = append(summaries, Summary{Kind: t.kind, Output: out, Files: len(files)})
			continue
		}
		if err := checkpoint.WriteTable(out, t.sep, header, rows); err != nil {
			return summaries, err
		}

		a.info("aggregated", "kind", t.kind, "files", len(files), "rows", len(rows), "output", out)
		summaries = append(summaries, Summary{Kind: t.kind, Output: out, Files: len(files), Rows: len(rows)})
	}
	return summaries, nil
}

// Pattern returns the doublestar pattern of kind files in the given years.
func Pattern(kind string, years []int) string {
	partition := "articles_*"
	switch len(years) {
	case 0:
	case 1:
		partition = "articles_" + strconv.Itoa(years[0])
	default:
		parts := make([]string, 0, len(years))
		for _, y := range years {
			parts = append(parts, strconv.Itoa(y))
		}
		partition = "articles_{" + strings.Join(parts, ",") + "}"
	}
	return path.Join(partition, kind+"_*.csv")
}

func concat(fsys fs.FS, files []string, sep rune) ([]string, [][]string, error) {
	var (
		header []string
		rows   [][]string
	)
	for _, name := range files {
		fileHeader, fileRows, err := readTable(fsys, name, sep)
		if err != nil {
			return nil, nil, err
		}
		if fileHeader == nil {
			continue
		}
		if header == nil {
			header = fileHeader
		} else if strings.Join(header, "\x00") != strings.Join(fileHeader, "\x00") {
			return nil, nil, fmt.Errorf("aggregate %s: header %v differs from %v", name, fileHeader, header)
		}
		rows = append(rows, fileRows...)
	}
	return header, rows, nil
}

func readTable(fsys fs.FS, name string, sep rune) ([]string, [][]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = sep
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}
	return header, rows, nil
}

func (a *Aggregator) info(msg string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Info(msg, args...)
	}
}
