package weather

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/xyz-asif/skycast/pkg/errors"
)

const (
	minQueryLength = 2
	maxSuggestions = 5
)

// Provider is the upstream weather API. *Client implements it.
type Provider interface {
	Current(ctx context.Context, params url.Values) (*CurrentResponse, error)
	Forecast(ctx context.Context, params url.Values) (*ForecastResponse, error)
	Geocode(ctx context.Context, query string, limit int) ([]GeoLocation, error)
}

type Service struct {
	provider Provider
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// ByLocation returns current conditions and forecast for a place name.
func (s *Service) ByLocation(ctx context.Context, name string) (*WeatherView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidArgument("Location is required")
	}

	return s.fetch(ctx, func() url.Values {
		return url.Values{"q": {name}}
	})
}

// ByCoordinates returns current conditions and forecast for a coordinate pair.
func (s *Service) ByCoordinates(ctx context.Context, lat, lon float64) (*WeatherView, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, apperrors.InvalidArgument("Coordinates out of range")
	}

	return s.fetch(ctx, func() url.Values {
		return url.Values{
			"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
			"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
		}
	})
}

// SuggestLocations geocodes a partial place name. Queries shorter than two
// characters are rejected without calling the provider.
func (s *Service) SuggestLocations(ctx context.Context, query string) ([]LocationSuggestion, error) {
	if utf8.RuneCountInString(query) < minQueryLength {
		return nil, apperrors.InvalidArgument("Query too short")
	}

	locations, err := s.provider.Geocode(ctx, query, maxSuggestions)
	if err != nil {
		return nil, err
	}
	if len(locations) > maxSuggestions {
		locations = locations[:maxSuggestions]
	}

	suggestions := make([]LocationSuggestion, 0, len(locations))
	for _, loc := range locations {
		suggestions = append(suggestions, LocationSuggestion{
			Name:        loc.Name,
			Country:     loc.Country,
			State:       loc.State,
			Lat:         loc.Lat,
			Lon:         loc.Lon,
			DisplayName: displayName(loc),
		})
	}
	return suggestions, nil
}

// fetch issues the forecast call only after the current-weather call succeeded.
func (s *Service) fetch(ctx context.Context, params func() url.Values) (*WeatherView, error) {
	current, err := s.provider.Current(ctx, params())
	if err != nil {
		return nil, err
	}

	forecast, err := s.provider.Forecast(ctx, params())
	if err != nil {
		return nil, err
	}

	return FormatWeatherData(current, forecast), nil
}
