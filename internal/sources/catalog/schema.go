package catalog

// CatalogConfig represents the top-level structure of catalog.yaml: a
// flat list of suggested sources grouped by category.
type CatalogConfig struct {
	Categories []CategoryProps `yaml:"categories"`
}

// CategoryProps is one named group of suggested sources.
type CategoryProps struct {
	Name    string        `yaml:"name"`
	Sources []SourceProps `yaml:"sources"`
}

// SourceProps contains the properties of a suggested source.
type SourceProps struct {
	Name        string   `yaml:"name"`
	URL         string   `yaml:"url"`
	Description string   `yaml:"description,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
}
