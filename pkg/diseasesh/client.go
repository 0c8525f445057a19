package diseasesh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ilyalavrinov/covidboard/pkg/covid"
)

const (
	DefaultBaseURL  = "https://disease.sh/v3/covid-19"
	DefaultLastDays = 30
)

// Client reads COVID-19 statistics from the disease.sh API. It never retries;
// every deadline comes from the caller's context or the injected http.Client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	lastDays   int
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLastDays limits the historical series; 0 asks for the whole history.
func WithLastDays(days int) Option {
	return func(c *Client) {
		if days >= 0 {
			c.lastDays = days
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		lastDays:   DefaultLastDays,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadRegion performs the three requests a dashboard needs, one after another.
// The first failure aborts the load.
func (c *Client) LoadRegion(ctx context.Context, region covid.Region) (covid.RegionData, error) {
	logger.Debugw("Loading region",
		"region", region)

	countries, err := c.Countries(ctx)
	if err != nil {
		return covid.RegionData{}, err
	}
	snapshot, err := c.Snapshot(ctx, region)
	if err != nil {
		return covid.RegionData{}, err
	}
	history, err := c.Historical(ctx, region)
	if err != nil {
		return covid.RegionData{}, err
	}

	logger.Debugw("Region loaded",
		"region", region,
		"countries", len(countries),
		"days", history.Cases.Len())
	return covid.RegionData{
		Region:    region,
		Snapshot:  snapshot,
		History:   history,
		Countries: countries,
	}, nil
}

func (c *Client) Countries(ctx context.Context) (covid.CountryList, error) {
	endpoint := "/countries"
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	var entries []countryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("%w: %s", ErrMalformed, err)}
	}
	return toCountryList(entries), nil
}

func (c *Client) Snapshot(ctx context.Context, region covid.Region) (covid.Snapshot, error) {
	endpoint := "/all"
	if !region.IsGlobal() {
		endpoint = "/countries/" + url.PathEscape(string(region))
	}
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return covid.Snapshot{}, err
	}
	var payload snapshotPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return covid.Snapshot{}, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("%w: %s", ErrMalformed, err)}
	}
	s, err := payload.toSnapshot(region)
	if err != nil {
		return covid.Snapshot{}, &FetchError{Endpoint: endpoint, Err: err}
	}
	return s, nil
}

func (c *Client) Historical(ctx context.Context, region covid.Region) (covid.HistoricalSeries, error) {
	endpoint := "/historical/all"
	if !region.IsGlobal() {
		endpoint = "/historical/" + url.PathEscape(string(region))
	}
	endpoint += "?lastdays=" + c.lastDaysParam()

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return covid.HistoricalSeries{}, err
	}
	h, err := parseHistorical(body, region)
	if err != nil {
		return covid.HistoricalSeries{}, &FetchError{Endpoint: endpoint, Err: err}
	}
	return h, nil
}

func (c *Client) lastDaysParam() string {
	if c.lastDays == 0 {
		return "all"
	}
	return strconv.Itoa(c.lastDays)
}

type errorPayload struct {
	Message string `json:"message"`
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	u := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Errorw("Request failed",
			"url", u,
			"err", err)
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		var msg errorPayload
		_ = json.Unmarshal(body, &msg)
		return nil, &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %s", ErrNotFound, msg.Message)}
	case resp.StatusCode >= 300:
		if len(body) > 4<<10 {
			body = body[:4<<10]
		}
		return nil, &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected response: %s", string(body))}
	}

	logger.Debugw("Request done",
		"url", u,
		"bytes", len(body))
	return body, nil
}
