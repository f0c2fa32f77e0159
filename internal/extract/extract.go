// Package extract slices field values out of raw HTML/JSON text using literal
// start and end markers. All marker knowledge lives in FieldSpec values so a
// markup change only touches configuration.
package extract

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"JournalHarvester/internal/domain"
)

const defaultSeparator = ";"

// FieldSpec declares how one field is located in the raw text.
type FieldSpec struct {
	Name      string `yaml:"name"`
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
	Offset    int    `yaml:"offset"`
	Multi     bool   `yaml:"multi"`
	Separator string `yaml:"separator"`
	StripTags bool   `yaml:"stripTags"`
	Trim      bool   `yaml:"trim"`
}

// BoundaryError reports a start marker whose end marker could not be found.
type BoundaryError struct {
	Field  string
	Marker string
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("field %s: end marker %q not found", e.Field, e.Marker)
}

func (e *BoundaryError) Unwrap() error {
	return domain.ErrMissingBoundary
}

// Fields is the outcome of one extraction.
type Fields struct {
	Values  map[string]string
	Lists   map[string][]string
	Missing []string
}

// Get returns the scalar value of a field, empty when absent.
func (f Fields) Get(name string) string {
	return f.Values[name]
}

// List returns the split values of a multi-valued field.
func (f Fields) List(name string) []string {
	return f.Lists[name]
}

// Extractor applies a fixed list of field specs.
type Extractor struct {
	specs  []FieldSpec
	policy *bluemonday.Policy
}

// New validates the specs and builds an Extractor.
func New(specs []FieldSpec) (*Extractor, error) {
	seen := make(map[string]struct{}, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("field spec %d: name is empty", i)
		}
		if _, ok := seen[spec.Name]; ok {
			return nil, fmt.Errorf("field spec %s: duplicate name", spec.Name)
		}
		seen[spec.Name] = struct{}{}
		if spec.Start == "" || spec.End == "" {
			return nil, fmt.Errorf("field spec %s: start and end markers are required", spec.Name)
		}
		if spec.Offset < 0 {
			return nil, fmt.Errorf("field spec %s: negative offset %d", spec.Name, spec.Offset)
		}
	}

	return &Extractor{
		specs:  append([]FieldSpec(nil), specs...),
		policy: bluemonday.StrictPolicy(),
	}, nil
}

// Extract evaluates every spec against text. A missing start marker yields an
// empty value; a missing end marker fails the whole record.
func (e *Extractor) Extract(text string) (Fields, error) {
	fields := Fields{
		Values: make(map[string]string, len(e.specs)),
		Lists:  map[string][]string{},
	}

	for _, spec := range e.specs {
		raw, found, err := Slice(text, spec.Start, spec.End, spec.Offset)
		if err != nil {
			return Fields{}, &BoundaryError{Field: spec.Name, Marker: spec.End}
		}
		if !found {
			fields.Values[spec.Name] = ""
			fields.Missing = append(fields.Missing, spec.Name)
			continue
		}

		value := e.clean(spec, raw)
		fields.Values[spec.Name] = value
		if spec.Multi {
			fields.Lists[spec.Name] = split(value, spec.Separator)
		}
	}

	return fields, nil
}

func (e *Extractor) clean(spec FieldSpec, value string) string {
	if spec.StripTags {
		value = html.UnescapeString(e.policy.Sanitize(value))
	}
	if spec.Trim || spec.StripTags {
		value = strings.TrimSpace(value)
	}
	return value
}

// Slice returns the text between the end of the first start marker (plus
// offset) and the next end marker. found is false when start is absent; a
// non-nil error means start was found but the end boundary was not.
func Slice(text, start, end string, offset int) (value string, found bool, err error) {
	idx := strings.Index(text, start)
	if idx < 0 {
		return "", false, nil
	}

	from := idx + len(start) + offset
	if from > len(text) {
		return "", true, domain.ErrMissingBoundary
	}

	stop := strings.Index(text[from:], end)
	if stop < 0 {
		return "", true, domain.ErrMissingBoundary
	}

	return text[from : from+stop], true, nil
}

// Anchors scans text in document order and returns the value between every
// start/end marker pair. Scanning stops at the first start marker that has no
// end marker after it.
func Anchors(text, start, end string) []string {
	if start == "" || end == "" {
		return nil
	}

	var out []string
	rest := text
	for {
		idx := strings.Index(rest, start)
		if idx < 0 {
			return out
		}
		rest = rest[idx+len(start):]

		stop := strings.Index(rest, end)
		if stop < 0 {
			return out
		}
		out = append(out, rest[:stop])
		rest = rest[stop+len(end):]
	}
}

func split(value, sep string) []string {
	if sep == "" {
		sep = defaultSeparator
	}

	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
