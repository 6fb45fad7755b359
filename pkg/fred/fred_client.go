package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const defaultBaseUrl = "https://api.stlouisfed.org/fred"

type Client struct {
	HttpClient *http.Client
	ApiKey     string
	BaseUrl    string
}

func NewClient(httpClient *http.Client, apiKey string) *Client {
	return &Client{
		HttpClient: httpClient,
		ApiKey:     apiKey,
		BaseUrl:    defaultBaseUrl,
	}
}

type observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type observationsResponse struct {
	Observations []observation `json:"observations"`
}

// SeriesValues returns the most recent n observations of a series,
// oldest first. FRED reports missing values as "." - those are dropped.
func (c *Client) SeriesValues(ctx context.Context, seriesId string, n int) ([]float64, error) {
	query := url.Values{}
	query.Set("series_id", seriesId)
	query.Set("api_key", c.ApiKey)
	query.Set("file_type", "json")
	query.Set("sort_order", "desc")
	query.Set("limit", strconv.Itoa(n))
	requestUrl := fmt.Sprintf("%s/series/observations?%s", c.BaseUrl, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, err
	}

	response, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fred returned status %d: %s", response.StatusCode, string(responseBytes))
	}

	var responseJson observationsResponse
	if err := json.Unmarshal(responseBytes, &responseJson); err != nil {
		return nil, fmt.Errorf("failed to parse fred response for %s: %w", seriesId, err)
	}

	values := []float64{}
	// response is newest first - walk backwards to return oldest first
	for i := len(responseJson.Observations) - 1; i >= 0; i-- {
		obs := responseJson.Observations[i]
		if obs.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("unparseable observation %q in series %s: %w", obs.Value, seriesId, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("series %s returned no usable observations", seriesId)
	}

	return values, nil
}

// Latest returns the newest observation of a series.
func (c *Client) Latest(ctx context.Context, seriesId string) (float64, error) {
	values, err := c.SeriesValues(ctx, seriesId, 1)
	if err != nil {
		return 0, err
	}
	return values[len(values)-1], nil
}
