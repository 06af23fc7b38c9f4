package research

// Item is one researched story or tip supplied to the prompt builder.
// Items are read-only once returned.
type Item struct {
	Headline      string   `json:"headline"`
	SourceName    string   `json:"source_name"`
	SourceURL     string   `json:"source_url,omitempty"`
	Summary       string   `json:"summary"`
	KeyPoints     []string `json:"key_points,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	Category      string   `json:"category,omitempty"`
}

// Topic is a suggested newsletter angle from the topic scan.
type Topic struct {
	Topic       string   `json:"topic"`
	Description string   `json:"description"`
	Relevance   string   `json:"relevance"`
	SourcesHint []string `json:"sources_hint,omitempty"`
}
