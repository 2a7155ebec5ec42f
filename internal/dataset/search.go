package dataset

import (
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve"
)

// descriptionIndex is an in-memory full-text index over activity names and
// descriptions. It backs the keyword-search capability; the canonical query
// path stays the substring filters in store.go.
type descriptionIndex struct {
	index   bleve.Index
	records []ActivityRecord
}

type indexedActivity struct {
	City        string `json:"city"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func newDescriptionIndex(records []ActivityRecord) (*descriptionIndex, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, err
	}
	for i, a := range records {
		doc := indexedActivity{City: a.City, Name: a.Name, Category: a.Category, Description: a.Description}
		if err := idx.Index(strconv.Itoa(i), doc); err != nil {
			return nil, fmt.Errorf("index activity %q: %w", a.Name, err)
		}
	}
	return &descriptionIndex{index: idx, records: records}, nil
}

// SearchDescriptions runs a full-text match over activity names and
// descriptions and returns up to limit records ranked by relevance.
func (s *Store) SearchDescriptions(query string, limit int) ([]ActivityRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := s.search.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("description search: %w", err)
	}
	var out []ActivityRecord
	for _, hit := range res.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= len(s.search.records) {
			continue
		}
		out = append(out, s.search.records[i])
	}
	return out, nil
}
