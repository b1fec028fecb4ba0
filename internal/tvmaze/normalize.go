package tvmaze

import (
	"github.com/tvfinder/tvfinder/internal/catalog"
)

// NormalizeShow converts a search result into a catalog.Show. index is the
// item's position in the response and is only used for error reporting.
func NormalizeShow(index int, r SearchResult) (catalog.Show, error) {
	if r.Show == nil {
		return catalog.Show{}, missing("show", index, "show")
	}
	p := r.Show
	if !p.ID.usable() || p.ID.Value == 0 {
		return catalog.Show{}, missing("show", index, "id")
	}
	if !p.Name.usable() {
		return catalog.Show{}, missing("show", index, "name")
	}
	// summary is commonly null in the catalog; only a missing key is malformed.
	if !p.Summary.Present {
		return catalog.Show{}, missing("show", index, "summary")
	}

	return catalog.Show{
		ID:      p.ID.Value,
		Name:    p.Name.Value,
		Summary: p.Summary.Value,
		Image:   imageURL(p.Image),
	}, nil
}

// NormalizeSeason converts a season payload into a catalog.Season.
func NormalizeSeason(index int, p SeasonPayload) (catalog.Season, error) {
	if !p.ID.usable() || p.ID.Value == 0 {
		return catalog.Season{}, missing("season", index, "id")
	}
	if !p.Number.usable() {
		return catalog.Season{}, missing("season", index, "number")
	}

	return catalog.Season{
		ID:           p.ID.Value,
		Number:       p.Number.Value,
		EpisodeCount: p.EpisodeOrder.Value,
		Image:        imageURL(p.Image),
	}, nil
}

// NormalizeEpisode converts an episode payload into a catalog.Episode.
// seasonNumber fills in the season when the payload omits it, which the
// per-season endpoint is allowed to do.
func NormalizeEpisode(index int, p EpisodePayload, seasonNumber int) (catalog.Episode, error) {
	if !p.ID.usable() || p.ID.Value == 0 {
		return catalog.Episode{}, missing("episode", index, "id")
	}
	if !p.Name.usable() {
		return catalog.Episode{}, missing("episode", index, "name")
	}

	season := seasonNumber
	if p.Season.usable() {
		season = p.Season.Value
	}

	return catalog.Episode{
		ID:     p.ID.Value,
		Name:   p.Name.Value,
		Season: season,
		Number: p.Number.Value,
	}, nil
}

func imageURL(img *Image) string {
	if img == nil {
		return catalog.DefaultImageURL
	}
	return catalog.ImageOrDefault(img.Medium)
}

func missing(entity string, index int, field string) error {
	return &MalformedResponseError{Entity: entity, Index: index, Field: field}
}
