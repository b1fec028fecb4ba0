package tvmaze

import "encoding/json"

// field records whether a key appeared in a payload, and whether it was
// null, so the normalizer can tell "absent" from "empty".
type field[T any] struct {
	Value   T
	Present bool
	Null    bool
}

func (f *field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if string(data) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// usable reports whether the field carries a non-null value.
func (f field[T]) usable() bool {
	return f.Present && !f.Null
}

// Image is the nested image object the catalog attaches to shows and seasons.
type Image struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// SearchResult is one item of GET /search/shows.
type SearchResult struct {
	Score float64      `json:"score"`
	Show  *ShowPayload `json:"show"`
}

// ShowPayload is the show object embedded in search results.
type ShowPayload struct {
	ID      field[int]    `json:"id"`
	Name    field[string] `json:"name"`
	Summary field[string] `json:"summary"`
	Image   *Image        `json:"image"`
}

// SeasonPayload is one item of GET /shows/{id}/seasons.
type SeasonPayload struct {
	ID           field[int] `json:"id"`
	Number       field[int] `json:"number"`
	EpisodeOrder field[int] `json:"episodeOrder"`
	Image        *Image     `json:"image"`
}

// EpisodePayload is one item of GET /shows/{id}/episodes and
// GET /seasons/{id}/episodes.
type EpisodePayload struct {
	ID     field[int]    `json:"id"`
	Name   field[string] `json:"name"`
	Season field[int]    `json:"season"`
	Number field[int]    `json:"number"`
}
