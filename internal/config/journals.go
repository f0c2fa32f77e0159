package config

import "JournalHarvester/internal/domain"

// DefaultJournals is the shared journal/ISSN table used by the catalog count,
// metadata and readability passes.
func DefaultJournals() []domain.Journal {
	return []domain.Journal{
		{Name: "Nature", ISSN: "0028-0836"},
		{Name: "Science", ISSN: "0036-8075"},
		{Name: "Cell", ISSN: "0092-8674"},
		{Name: "Nature Biotechnology", ISSN: "1546-1696"},
		{Name: "Nature Climate Change", ISSN: "1758-6798"},
		{Name: "Trends in Ecology & Evolution", ISSN: "0169-5347"},
		{Name: "Nature Communications", ISSN: "2041-1723"},
		{Name: "Nature Ecology & Evolution", ISSN: "2397-334X"},
		{Name: "Science Advances", ISSN: "2375-2548"},
		{Name: "Annual Review of Ecology, Evolution, and Systematics", ISSN: "1543-592X"},
		{Name: "Molecular Biology and Evolution", ISSN: "0737-4038"},
		{Name: "Proceedings of the National Academy of Sciences (PNAS)", ISSN: "0027-8424"},
		{Name: "Ecology Letters", ISSN: "1461-023X"},
		{Name: "Molecular Ecology", ISSN: "0962-1083"},
		{Name: "Ecography", ISSN: "1600-0587"},
		{Name: "Conservation Biology", ISSN: "0888-8892"},
		{Name: "Functional Ecology", ISSN: "0269-8463"},
		{Name: "Ecological Applications", ISSN: "1051-0761"},
		{Name: "Scientific Reports", ISSN: "2045-2322"},
		{Name: "PLOS One", ISSN: "1932-6203"},
		{Name: "PeerJ", ISSN: "2167-8359"},
	}
}
