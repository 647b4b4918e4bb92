// Package anilist implements the media catalog client against the AniList
// GraphQL API. It is the only component that talks to the catalog; the
// navigation layer sees it through the nav.Catalog interface.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anipixel/anipixel/core/config"
	"github.com/anipixel/anipixel/core/logger"
	"github.com/anipixel/anipixel/core/nav"
)

// ErrNotFound reports that a detail lookup returned no media record.
var ErrNotFound = errors.New("anilist: media not found")

// APIError surfaces the GraphQL error array of an otherwise well-formed
// response.
type APIError struct {
	Messages []string
}

func (e *APIError) Error() string {
	return "anilist: api error: " + strings.Join(e.Messages, "; ")
}

// Client issues the five catalog query shapes against the AniList API.
type Client struct {
	url     string
	perPage int
	http    *http.Client
	log     *slog.Logger
}

// NewClient builds a catalog client. httpClient may be nil, in which case a
// default client with a bounded timeout is used.
func NewClient(cfg config.AniListConfig, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 5
	}
	return &Client{
		url:     cfg.APIURL,
		perPage: perPage,
		http:    httpClient,
		log:     log,
	}
}

// List fetches one page of the given list kind. The page number is echoed
// into the result because the API does not return it.
func (c *Client) List(ctx context.Context, kind nav.ListKind, page int, query string) (nav.ListPage, error) {
	doc, genre, ok := listQuery(kind)
	if !ok {
		return nav.ListPage{}, fmt.Errorf("anilist: no query for list kind %q", kind)
	}

	vars := map[string]any{"page": page, "perPage": c.perPage}
	if genre != "" {
		vars["genre"] = genre
	}
	if kind == nav.KindSearch {
		vars["search"] = query
	}

	res, err := c.post(ctx, doc, vars)
	if err != nil {
		return nav.ListPage{}, err
	}
	if res.Data.Page == nil {
		return nav.ListPage{}, fmt.Errorf("anilist: response missing Page for %q list", kind)
	}

	items := make([]nav.Item, 0, len(res.Data.Page.Media))
	for _, m := range res.Data.Page.Media {
		items = append(items, nav.Item{ID: m.ID, Title: m.Title.Display()})
	}

	c.log.DebugContext(ctx, "list fetched",
		slog.String("event", "fetch.list"),
		slog.String("kind", kind.String()),
		slog.Int("page", page),
		slog.Int("count", len(items)),
		slog.Bool("has_next", res.Data.Page.PageInfo.HasNextPage),
	)

	return nav.ListPage{
		Items:       items,
		HasNextPage: res.Data.Page.PageInfo.HasNextPage,
		Page:        page,
	}, nil
}

// Detail fetches the full record of a single media entry. A well-formed
// response without a Media record yields ErrNotFound.
func (c *Client) Detail(ctx context.Context, id int) (*nav.Detail, error) {
	res, err := c.post(ctx, detailQuery, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	m := res.Data.Media
	if m == nil {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	c.log.DebugContext(ctx, "detail fetched",
		slog.String("event", "fetch.detail"),
		slog.Int("item_id", id),
	)

	return &nav.Detail{
		ID:       m.ID,
		Title:    m.Title.Display(),
		CoverURL: m.CoverImage.ExtraLarge,
		Genres:   m.Genres,
		Score:    m.AverageScore,
	}, nil
}

func (c *Client) post(ctx context.Context, query string, vars map[string]any) (*gqlResponse, error) {
	payload, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("anilist: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("anilist: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anilist: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("anilist: status %d: %s", resp.StatusCode, logger.SanitizeLimit(string(body), 256))
	}

	var res gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("anilist: decode response: %w", err)
	}

	if len(res.Errors) > 0 {
		msgs := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			msgs = append(msgs, e.Message)
		}
		apiErr := &APIError{Messages: msgs}
		c.log.WarnContext(ctx, "api error array",
			slog.String("event", "fetch.api_error"),
			slog.String("err", apiErr.Error()),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
		return nil, apiErr
	}
	return &res, nil
}
