// Package checkpoint persists per-coordinate tables as delimited text files.
// Every file is rendered in memory and swapped in with a rename, so a present
// file always holds a fully processed coordinate.
package checkpoint

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"JournalHarvester/internal/domain"
	"JournalHarvester/internal/ports"
)

// Column layouts of the checkpoint kinds.
var (
	ArticleHeader   = []string{"doi", "title", "authors", "email", "url", "date", "journal"}
	SubjectHeader   = []string{"doi", "subject"}
	ScoreHeader     = []string{"doi", "fk_idx", "cole_idx", "flesch_ease", "smog_idx", "ari_idx", "words", "date"}
	DetectionHeader = []string{"doi", "isHuman", "fk_prct", "ai_words", "txt_words"}
)

// Separators per kind. Score-like tables are tab separated.
const (
	Comma = ','
	Tab   = '\t'
)

// Store lays out checkpoint files as {root}/articles_{year}/{kind}_{coord}.csv.
type Store struct {
	root string
}

var (
	_ ports.CheckpointStore = (*Store)(nil)
	_ ports.CorpusStore     = (*Store)(nil)
)

// NewStore returns a store rooted at root. Directories are created lazily.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the directory holding the year partitions.
func (s *Store) Root() string {
	return s.root
}

// PartitionDir returns the directory of one year.
func (s *Store) PartitionDir(year int) string {
	return filepath.Join(s.root, fmt.Sprintf("articles_%d", year))
}

// Path returns the file of kind for coord.
func (s *Store) Path(kind string, coord domain.Coordinate) string {
	return filepath.Join(s.PartitionDir(coord.Year), fmt.Sprintf("%s_%s.csv", kind, coord.Name()))
}

// Exists reports whether the kind file of coord is present.
func (s *Store) Exists(kind string, coord domain.Coordinate) bool {
	info, err := os.Stat(s.Path(kind, coord))
	return err == nil && !info.IsDir()
}

// ArticlesExist reports whether coord was already harvested.
func (s *Store) ArticlesExist(coord domain.Coordinate) bool {
	return s.Exists(domain.KindArticles, coord)
}

// WriteArticles writes the subjects table, then the article table. The article
// file is the marker of a finished coordinate, so it goes last. Both files are
// staged before either is renamed; when the article rename fails the fresh
// subjects file is removed again.
func (s *Store) WriteArticles(coord domain.Coordinate, records []domain.ArticleRecord) (path string, err error) {
	subjects := make([][]string, 0, len(records))
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		for _, tag := range r.Tags() {
			subjects = append(subjects, []string{tag.ParentID, tag.Tag})
		}
		rows = append(rows, []string{r.ID, r.Title, r.Authors, r.Email, r.URL, r.Date, r.Journal})
	}

	subjectsPath := s.Path(domain.KindSubjects, coord)
	path = s.Path(domain.KindArticles, coord)

	subjectsData, err := renderTable(subjectsPath, Comma, SubjectHeader, subjects)
	if err != nil {
		return "", err
	}
	articleData, err := renderTable(path, Comma, ArticleHeader, rows)
	if err != nil {
		return "", err
	}

	subjectsTmp, err := stageFile(subjectsPath, subjectsData)
	if err != nil {
		return "", err
	}
	articleTmp, err := stageFile(path, articleData)
	if err != nil {
		_ = os.Remove(subjectsTmp)
		return "", err
	}

	if err := os.Rename(subjectsTmp, subjectsPath); err != nil {
		_ = os.Remove(subjectsTmp)
		_ = os.Remove(articleTmp)
		return "", fmt.Errorf("rename %s: %w", subjectsPath, err)
	}
	if err := os.Rename(articleTmp, path); err != nil {
		_ = os.Remove(articleTmp)
		_ = os.Remove(subjectsPath)
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}

// ReadArticles loads the article table of coord and re-attaches its subjects.
func (s *Store) ReadArticles(coord domain.Coordinate) ([]domain.ArticleRecord, error) {
	rows, err := ReadTable(s.Path(domain.KindArticles, coord), Comma, ArticleHeader)
	if err != nil {
		return nil, err
	}

	subjects := map[string][]string{}
	if s.Exists(domain.KindSubjects, coord) {
		tagRows, err := ReadTable(s.Path(domain.KindSubjects, coord), Comma, SubjectHeader)
		if err != nil {
			return nil, err
		}
		for _, row := range tagRows {
			subjects[row[0]] = append(subjects[row[0]], row[1])
		}
	}

	records := make([]domain.ArticleRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.ArticleRecord{
			ID:       row[0],
			Title:    row[1],
			Authors:  row[2],
			Email:    row[3],
			URL:      row[4],
			Date:     row[5],
			Journal:  row[6],
			Subjects: subjects[row[0]],
		})
	}
	return records, nil
}

// ArticleCoordinates lists the coordinates of a year that have an article
// table, sorted by volume then page.
func (s *Store) ArticleCoordinates(year int) ([]domain.Coordinate, error) {
	entries, err := os.ReadDir(s.PartitionDir(year))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list partition %d: %w", year, err)
	}

	prefix := domain.KindArticles + "_"
	var coords []domain.Coordinate
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".csv") {
			continue
		}
		coord, err := domain.ParseCoordinateName(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".csv"))
		if err != nil || coord.Year != year {
			continue
		}
		coords = append(coords, coord)
	}

	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Volume != coords[j].Volume {
			return coords[i].Volume < coords[j].Volume
		}
		return coords[i].Page < coords[j].Page
	})
	return coords, nil
}

// WriteScores writes the tab-separated scores table of coord.
func (s *Store) WriteScores(coord domain.Coordinate, scores []domain.ScoreRecord) (string, error) {
	rows := make([][]string, 0, len(scores))
	for _, sc := range scores {
		rows = append(rows, []string{
			sc.ID,
			formatFloat(sc.FleschKincaid),
			formatFloat(sc.ColemanLiau),
			formatFloat(sc.FleschReadingEase),
			formatFloat(sc.SMOG),
			formatFloat(sc.ARI),
			strconv.Itoa(sc.Words),
			sc.Date,
		})
	}

	path := s.Path(domain.KindScores, coord)
	if err := WriteTable(path, Tab, ScoreHeader, rows); err != nil {
		return "", err
	}
	return path, nil
}

// WriteDetections writes the tab-separated detection table of coord. Nil
// verdict fields become empty cells.
func (s *Store) WriteDetections(coord domain.Coordinate, detections []domain.Detection) (string, error) {
	rows := make([][]string, 0, len(detections))
	for _, d := range detections {
		rows = append(rows, []string{
			d.ID,
			optionalBool(d.IsHuman),
			optionalFloat(d.FakePercentage),
			optionalInt(d.AIWords),
			optionalInt(d.TextWords),
		})
	}

	path := s.Path(domain.KindDetections, coord)
	if err := WriteTable(path, Tab, DetectionHeader, rows); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCorpus writes a corpus-level table directly under the root.
func (s *Store) WriteCorpus(name string, sep rune, header []string, rows [][]string) (string, error) {
	path := filepath.Join(s.root, name)
	if err := WriteTable(path, sep, header, rows); err != nil {
		return "", err
	}
	return path, nil
}

// ReadCorpus reads a corpus-level table written by WriteCorpus.
func (s *Store) ReadCorpus(name string, sep rune, header []string) ([][]string, error) {
	return ReadTable(filepath.Join(s.root, name), sep, header)
}

// CorpusExists reports whether the corpus-level table name is present.
func (s *Store) CorpusExists(name string) bool {
	info, err := os.Stat(filepath.Join(s.root, name))
	return err == nil && !info.IsDir()
}

// WriteTable renders header and rows and atomically replaces path.
func WriteTable(path string, sep rune, header []string, rows [][]string) error {
	data, err := renderTable(path, sep, header, rows)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

func renderTable(path string, sep rune, header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = sep
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

// ReadTable reads a table written by WriteTable and checks its header.
func ReadTable(path string, sep rune, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = sep
	r.FieldsPerRecord = len(header)

	got, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %s: empty file", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.Join(got, ",") != strings.Join(header, ",") {
		return nil, fmt.Errorf("read %s: unexpected header %v", path, got)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// WriteFileAtomic writes data to a temporary file next to path, syncs it and
// renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := stageFile(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// stageFile writes data to a synced temporary file in the directory of path
// and returns its name. The caller renames or removes it.
func stageFile(path string, data []byte) (name string, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	return tmp.Name(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
