package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseUrl = "https://finnhub.io/api/v1"

// minRequestInterval is a hard floor between requests, not a retry
// backoff - finnhub's free tier throttles aggressively.
const minRequestInterval = 500 * time.Millisecond

type Client struct {
	HttpClient *http.Client
	ApiKey     string
	BaseUrl    string
	limiter    *rate.Limiter
}

func NewClient(httpClient *http.Client, apiKey string) *Client {
	return &Client{
		HttpClient: httpClient,
		ApiKey:     apiKey,
		BaseUrl:    defaultBaseUrl,
		limiter:    rate.NewLimiter(rate.Every(minRequestInterval), 1),
	}
}

// NewsItem is one article as finnhub returns it.
type NewsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Id       int64  `json:"id"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	Url      string `json:"url"`
}

// CompanyNews fetches articles for one symbol over [from, to]. Each call
// waits on the client's rate limiter before going out.
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]NewsItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("from", from.Format(time.DateOnly))
	query.Set("to", to.Format(time.DateOnly))
	query.Set("token", c.ApiKey)
	requestUrl := fmt.Sprintf("%s/company-news?%s", c.BaseUrl, query.Encode())

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
	if response.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("finnhub rate limit exceeded")
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub returned status %d: %s", response.StatusCode, string(responseBytes))
	}

	var items []NewsItem
	if err := json.Unmarshal(responseBytes, &items); err != nil {
		return nil, fmt.Errorf("failed to parse finnhub response: %w", err)
	}

	return items, nil
}

// RecommendationTrend is one month of analyst recommendation counts for
// a symbol, as finnhub reports it.
type RecommendationTrend struct {
	Symbol     string `json:"symbol"`
	Period     string `json:"period"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// RecommendationTrends fetches analyst recommendation counts, newest
// period first.
func (c *Client) RecommendationTrends(ctx context.Context, symbol string) ([]RecommendationTrend, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("token", c.ApiKey)
	requestUrl := fmt.Sprintf("%s/stock/recommendation?%s", c.BaseUrl, query.Encode())

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
		return nil, fmt.Errorf("finnhub returned status %d: %s", response.StatusCode, string(responseBytes))
	}

	var trends []RecommendationTrend
	if err := json.Unmarshal(responseBytes, &trends); err != nil {
		return nil, fmt.Errorf("failed to parse finnhub response: %w", err)
	}

	return trends, nil
}
