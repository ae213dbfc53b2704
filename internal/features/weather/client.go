package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/xyz-asif/skycast/internal/pkg/logger"
	"github.com/xyz-asif/skycast/internal/pkg/metrics"
	apperrors "github.com/xyz-asif/skycast/pkg/errors"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultGeoURL  = "https://api.openweathermap.org/geo/1.0"

	msgWeatherFailed     = "Failed to fetch weather data"
	msgSuggestionsFailed = "Failed to fetch location suggestions"

	maxErrorBody = 64 << 10
)

type ClientConfig struct {
	APIKey  string
	BaseURL string
	GeoURL  string
	Timeout time.Duration
}

// Client talks to the OpenWeatherMap current, forecast and geocoding APIs.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	geoURL     string
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.GeoURL == "" {
		cfg.GeoURL = DefaultGeoURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		geoURL:     strings.TrimRight(cfg.GeoURL, "/"),
	}
}

// Current fetches current conditions for a place query (q) or coordinates (lat, lon).
func (c *Client) Current(ctx context.Context, params url.Values) (*CurrentResponse, error) {
	var out CurrentResponse
	if err := c.get(ctx, "weather", c.baseURL, withUnits(params), msgWeatherFailed, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Forecast(ctx context.Context, params url.Values) (*ForecastResponse, error) {
	var out ForecastResponse
	if err := c.get(ctx, "forecast", c.baseURL, withUnits(params), msgWeatherFailed, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Geocode(ctx context.Context, query string, limit int) ([]GeoLocation, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var out []GeoLocation
	if err := c.get(ctx, "direct", c.geoURL, params, msgSuggestionsFailed, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint, base string, params url.Values, failMsg string, out interface{}) (err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstream(endpoint, err, time.Since(start)) }()

	params.Set("appid", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", base, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upErr := upstreamError(resp, failMsg)
		logger.L().Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("message", upErr.Message).
			Msg("weather provider returned an error")
		return upErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// upstreamError carries the provider's status and message, falling back to
// failMsg when the body has none.
func upstreamError(resp *http.Response, failMsg string) *apperrors.AppError {
	message := failMsg
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var pe providerError
	if json.Unmarshal(body, &pe) == nil && strings.TrimSpace(pe.Message) != "" {
		message = pe.Message
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusBadRequest
	}
	return apperrors.Upstream(status, message)
}

func withUnits(params url.Values) url.Values {
	params.Set("units", "metric")
	return params
}
