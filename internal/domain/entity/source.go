package entity

// Source is a named feed endpoint to poll. Sources are statically
// configured; the registry, not the store, is their system of record.
type Source struct {
	Name    string `yaml:"name"`
	FeedURL string `yaml:"feed_url"`
}

// Validate checks that the source has a name and a well-formed feed URL.
func (s *Source) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "Name", Message: "source name is required"}
	}
	if err := ValidateURL(s.FeedURL); err != nil {
		return err
	}
	return nil
}
