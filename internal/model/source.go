package model

// SourceType identifies how a source is fetched.
type SourceType string

const (
	SourceAPI SourceType = "api" // structured JSON endpoint with HTML fallback
	SourceRSS SourceType = "rss" // syndication feed
)

// Source trust tiers. Tier 1 sources are official and their events are
// always classified as confirmed outbreaks.
const (
	TierOfficial  = 1
	TierSecondary = 2
)

// Source is an information source configuration.
type Source struct {
	Name string
	URL  string
	Tier int
	Type SourceType
}
