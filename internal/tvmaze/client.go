package tvmaze

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/tvfinder/tvfinder/internal/catalog"
	"github.com/tvfinder/tvfinder/internal/config"
)

// Client is a read-only TVMaze API client. It never retries; each call is a
// single GET.
type Client struct {
	http   *resty.Client
	config config.CatalogConfig
	logger zerolog.Logger
}

// NewClient creates a new TVMaze client.
func NewClient(cfg config.CatalogConfig, logger zerolog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	r := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		r.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.Timeout > 0 {
		r.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	}

	c := &Client{
		http:   r,
		config: cfg,
		logger: logger,
	}

	r.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.logger.Debug().
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("latency", resp.Time()).
			Int("bytes", len(resp.Body())).
			Msg("catalog response")
		return nil
	})

	return c
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tvmaze"
}

// SearchShows returns the shows matching term, in catalog order. The term
// is passed through as-is; an empty term is the catalog's business.
func (c *Client) SearchShows(ctx context.Context, term string) ([]catalog.Show, error) {
	params := url.Values{}
	params.Set("q", term)

	var raw []SearchResult
	if err := c.get(ctx, "/search/shows", params, &raw); err != nil {
		return nil, err
	}

	shows := make([]catalog.Show, 0, len(raw))
	for i, r := range raw {
		show, err := NormalizeShow(i, r)
		if err != nil {
			return nil, err
		}
		shows = append(shows, show)
	}

	c.logger.Debug().
		Str("term", term).
		Int("results", len(shows)).
		Msg("show search completed")

	return shows, nil
}

// ListSeasons returns the seasons of a show ordered as the catalog returns
// them.
func (c *Client) ListSeasons(ctx context.Context, showID int) ([]catalog.Season, error) {
	var raw []SeasonPayload
	if err := c.get(ctx, fmt.Sprintf("/shows/%d/seasons", showID), nil, &raw); err != nil {
		return nil, err
	}

	seasons := make([]catalog.Season, 0, len(raw))
	for i, p := range raw {
		season, err := NormalizeSeason(i, p)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}
	return seasons, nil
}

// ListEpisodesForSeason returns the episodes of one season.
func (c *Client) ListEpisodesForSeason(ctx context.Context, season catalog.Season) ([]catalog.Episode, error) {
	var raw []EpisodePayload
	if err := c.get(ctx, fmt.Sprintf("/seasons/%d/episodes", season.ID), nil, &raw); err != nil {
		return nil, err
	}
	return normalizeEpisodes(raw, season.Number)
}

// ListEpisodes returns every episode of a show as one flat list.
func (c *Client) ListEpisodes(ctx context.Context, showID int) ([]catalog.Episode, error) {
	var raw []EpisodePayload
	if err := c.get(ctx, fmt.Sprintf("/shows/%d/episodes", showID), nil, &raw); err != nil {
		return nil, err
	}
	return normalizeEpisodes(raw, 0)
}

// ListSeasonEpisodes fetches the seasons of a show and then each season's
// episodes, one request at a time and in season order. The first failure
// aborts the walk.
func (c *Client) ListSeasonEpisodes(ctx context.Context, showID int) ([]catalog.SeasonEpisodes, error) {
	seasons, err := c.ListSeasons(ctx, showID)
	if err != nil {
		return nil, err
	}

	groups := make([]catalog.SeasonEpisodes, 0, len(seasons))
	for _, season := range seasons {
		episodes, err := c.ListEpisodesForSeason(ctx, season)
		if err != nil {
			return nil, err
		}
		groups = append(groups, catalog.SeasonEpisodes{Season: season, Episodes: episodes})
	}

	c.logger.Debug().
		Int("showId", showID).
		Int("seasons", len(groups)).
		Msg("season listing completed")

	return groups, nil
}

// Ping verifies the catalog is reachable.
func (c *Client) Ping(ctx context.Context) error {
	var raw json.RawMessage
	return c.get(ctx, "/shows/1", nil, &raw)
}

func normalizeEpisodes(raw []EpisodePayload, seasonNumber int) ([]catalog.Episode, error) {
	episodes := make([]catalog.Episode, 0, len(raw))
	for i, p := range raw {
		episode, err := NormalizeEpisode(i, p, seasonNumber)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, episode)
	}
	return episodes, nil
}

// get performs a GET against the catalog and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("catalog request failed")
		return &NetworkError{URL: c.config.BaseURL + path, Err: err}
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		c.logger.Warn().Int("status", code).Str("url", resp.Request.URL).Msg("catalog returned non-success status")
		return &NetworkError{URL: resp.Request.URL, Status: code}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &MalformedResponseError{Entity: path, Err: err}
	}

	return nil
}
