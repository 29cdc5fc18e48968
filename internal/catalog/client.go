package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"server/internal/domain"
)

const defaultTimeout = 15 * time.Second

type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// HTTPClient talks to the TMDB-compatible metadata API.
type HTTPClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("catalog api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{apiKey: opts.APIKey, baseURL: baseURL, client: client}, nil
}

var _ Client = (*HTTPClient)(nil)

// FetchPage requests one listing page. Trending strategies map to the
// /trending/{type}/{window} endpoints, everything else to /{type}/{list}.
func (c *HTTPClient) FetchPage(ctx context.Context, mediaType domain.MediaType, sortBy domain.SortBy, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	endpoint, err := listingPath(mediaType, sortBy)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded listResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	out := &Page{Page: decoded.Page, TotalPages: decoded.TotalPages}
	for _, item := range decoded.Results {
		out.Items = append(out.Items, item.toDomain())
	}
	return out, nil
}

func listingPath(mediaType domain.MediaType, sortBy domain.SortBy) (string, error) {
	switch sortBy {
	case domain.SortPopular, domain.SortTopRated:
		return fmt.Sprintf("/%s/%s", mediaType, sortBy), nil
	case domain.SortTrendingDay:
		return fmt.Sprintf("/trending/%s/day", mediaType), nil
	case domain.SortTrendingWeek:
		return fmt.Sprintf("/trending/%s/week", mediaType), nil
	case domain.SortUpcoming:
		// TV has no upcoming list; the closest equivalent is on_the_air.
		if mediaType == domain.MediaTypeTV {
			return "/tv/on_the_air", nil
		}
		return "/movie/upcoming", nil
	case domain.SortNowPlaying:
		if mediaType == domain.MediaTypeTV {
			return "/tv/airing_today", nil
		}
		return "/movie/now_playing", nil
	default:
		return "", fmt.Errorf("unsupported sort strategy %q", sortBy)
	}
}
