package domain

// Journal is an entry of the shared journal/ISSN table.
type Journal struct {
	Name string `yaml:"name"`
	ISSN string `yaml:"issn"`
}

// MetadataRecord is one paper returned by the semantic metadata endpoint.
type MetadataRecord struct {
	Journal            string
	Title              string
	Year               int
	Subject            string
	Authors            string
	CorrespondingEmail string
	DOI                string
	URL                string
	Abstract           string
}

// ExpectedCount is the catalog's theoretical article count for a journal-year.
type ExpectedCount struct {
	Journal       string
	Year          int
	ExpectedCount int
}

// RetrievalStat compares retrieved metadata against the expected count.
type RetrievalStat struct {
	Journal        string
	Year           int
	ExpectedCount  int
	RetrievedCount int
	CompletionRate float64
}
