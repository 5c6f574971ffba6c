package catalog

import (
	"fmt"
	"net/url"
)

// Entry is a suggested source ready to serve to clients.
type Entry struct {
	Category    string   `json:"category"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Mapper converts catalog config entries to serveable entries
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapEntries flattens the categorised config into a single list,
// skipping entries whose URL does not parse.
func (m *Mapper) MapEntries(config CatalogConfig) ([]Entry, error) {
	var entries []Entry

	for _, category := range config.Categories {
		for _, src := range category.Sources {
			if src.URL == "" {
				continue
			}
			parsed, err := url.Parse(src.URL)
			if err != nil || parsed.Host == "" {
				continue
			}

			entries = append(entries, Entry{
				Category:    category.Name,
				Name:        src.Name,
				URL:         src.URL,
				Description: src.Description,
				Keywords:    src.Keywords,
			})
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no valid sources found in catalog config")
	}

	return entries, nil
}
