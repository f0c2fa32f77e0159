package domain

// ArticleRecord is one article extracted from a detail page. Records are never
// updated in place; reprocessing a coordinate derives new records.
type ArticleRecord struct {
	ID       string
	Title    string
	Authors  string
	Email    string
	Date     string
	URL      string
	Journal  string
	Subjects []string
}

// SubjectTag is one row of the companion subjects table.
type SubjectTag struct {
	ParentID string
	Tag      string
}

// Tags flattens the record subjects into companion rows.
func (a ArticleRecord) Tags() []SubjectTag {
	tags := make([]SubjectTag, 0, len(a.Subjects))
	for _, s := range a.Subjects {
		tags = append(tags, SubjectTag{ParentID: a.ID, Tag: s})
	}
	return tags
}

// ListingItem is an entry discovered on a listing page.
type ListingItem struct {
	ID  string
	URL string
}

// Page is a successfully fetched HTTP body.
type Page struct {
	URL         string
	Status      int
	ContentType string
	Body        string
}

// ScoreRecord holds readability metrics derived from an article's full text.
type ScoreRecord struct {
	ID                string
	Journal           string
	FleschKincaid     float64
	ColemanLiau       float64
	FleschReadingEase float64
	SMOG              float64
	ARI               float64
	Words             int
	Date              string
}

// Detection is the verdict of the AI-detection endpoint. Nil fields mean the
// endpoint did not return a usable value.
type Detection struct {
	ID             string
	IsHuman        *bool
	FakePercentage *float64
	AIWords        *int
	TextWords      *int
}
