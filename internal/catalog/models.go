// Package catalog holds the normalized show records the rest of tvfinder
// works with. Records are transient: fetched per user action and dropped on
// the next one.
package catalog

// DefaultImageURL is substituted whenever the catalog has no image for a
// show or season.
const DefaultImageURL = "https://tinyurl.com/tv-missing"

// Show is a television series returned by a search.
type Show struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Image   string `json:"image"`
}

// Season is a numbered grouping of episodes belonging to one show.
type Season struct {
	ID           int    `json:"id"`
	Number       int    `json:"number"`
	EpisodeCount int    `json:"episodeCount"`
	Image        string `json:"image"`
}

// Episode is a single installment. Number is 0 for specials the catalog
// leaves unnumbered.
type Episode struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season"`
	Number int    `json:"number"`
}

// IsSpecial reports whether the episode has no number within its season.
func (e Episode) IsSpecial() bool {
	return e.Number == 0
}

// SeasonEpisodes pairs a season with its episodes in catalog order.
type SeasonEpisodes struct {
	Season   Season    `json:"season"`
	Episodes []Episode `json:"episodes"`
}

// ImageOrDefault returns url, or DefaultImageURL when url is empty.
func ImageOrDefault(url string) string {
	if url == "" {
		return DefaultImageURL
	}
	return url
}
