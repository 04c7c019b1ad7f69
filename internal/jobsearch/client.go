package jobsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jhunter/agent/internal/jobs"
)

const (
	searchPath     = "/api/v1/search"
	requestTimeout = 30 * time.Second

	unknownTitle       = "Unknown Title"
	unknownCompany     = "Unknown Company"
	noDescription      = "No description available."
	defaultSourceLabel = "api"
)

// Client talks to the job board aggregation API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(baseURL string, logger *zap.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("job search base url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}, nil
}

type searchResponse struct {
	Jobs []map[string]any `json:"jobs"`
}

// Search queries the board for listings matching the query and location,
// restricted to postings from the last recencyDays days. Listings without a
// URL are dropped since nothing downstream can act on them.
func (c *Client) Search(ctx context.Context, query, location string, recencyDays int) ([]*jobs.Listing, error) {
	endpoint, err := url.Parse(c.baseURL + searchPath)
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}

	params := endpoint.Query()
	params.Set("search_term", query)
	params.Set("location", location)
	params.Set("hours_old", strconv.Itoa(recencyDays*24))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job search api returned status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	listings := make([]*jobs.Listing, 0, len(payload.Jobs))
	for _, record := range payload.Jobs {
		listing, err := c.decodeListing(record, location)
		if err != nil {
			c.logger.Debug("skipping malformed listing", zap.Error(err))
			continue
		}
		if listing.URL == "" {
			c.logger.Debug("skipping listing without url", zap.String("title", listing.Title))
			continue
		}
		listings = append(listings, listing)
	}

	c.logger.Debug("job search finished",
		zap.String("query", query),
		zap.Int("returned", len(payload.Jobs)),
		zap.Int("usable", len(listings)),
	)

	return listings, nil
}

// decodeListing tolerates the schema drift of upstream boards: fields may
// be missing or carry the wrong type, so decoding is weakly typed and gaps
// are filled with explicit placeholders.
func (c *Client) decodeListing(record map[string]any, fallbackLocation string) (*jobs.Listing, error) {
	var listing jobs.Listing

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &listing,
	})
	if err != nil {
		return nil, fmt.Errorf("build listing decoder: %w", err)
	}
	if err := decoder.Decode(record); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	if strings.TrimSpace(listing.Title) == "" {
		listing.Title = unknownTitle
	}
	if strings.TrimSpace(listing.Company) == "" {
		listing.Company = unknownCompany
	}
	if strings.TrimSpace(listing.Description) == "" {
		listing.Description = noDescription
	}
	if strings.TrimSpace(listing.Location) == "" {
		listing.Location = fallbackLocation
	}
	if strings.TrimSpace(listing.Source) == "" {
		listing.Source = defaultSourceLabel
	}
	listing.URL = strings.TrimSpace(listing.URL)

	return &listing, nil
}
