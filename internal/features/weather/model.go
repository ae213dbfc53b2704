package weather

import (
	"github.com/goccy/go-json"
)

// CurrentResponse is the subset of the provider's current-weather response we read.
type CurrentResponse struct {
	Dt         int64   `json:"dt"`
	Name       string  `json:"name"`
	Visibility float64 `json:"visibility"`
	Main       struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Clouds *struct {
		All *float64 `json:"all"`
	} `json:"clouds"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// ForecastResponse keeps the forecast entries undecoded; they are passed
// through to callers as-is.
type ForecastResponse struct {
	List json.RawMessage `json:"list"`
}

// GeoLocation is one entry of the geocoding response.
type GeoLocation struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// providerError is the error body the provider sends with non-2xx statuses.
type providerError struct {
	Message string `json:"message"`
}

// CurrentWeather is the normalized current-conditions block.
type CurrentWeather struct {
	Date        int64   `json:"date" example:"1718000000000"`
	Temp        float64 `json:"temp" example:"22"`
	Description string  `json:"description" example:"scattered clouds"`
	WeatherIcon string  `json:"weatherIcon" example:"03d"`
	Humidity    float64 `json:"humidity" example:"64"`
	WindSpeed   float64 `json:"windSpeed" example:"4.1"`
	WindDeg     float64 `json:"windDeg" example:"250"`
	Visibility  float64 `json:"visibility" example:"10"`
	Pressure    float64 `json:"pressure" example:"1013"`
	CloudCover  float64 `json:"cloudCover" example:"40"`
}

// WeatherView merges current conditions with the raw forecast list.
type WeatherView struct {
	Location string          `json:"location" example:"London, GB"`
	Current  CurrentWeather  `json:"current"`
	Forecast json.RawMessage `json:"forecast,omitempty" swaggertype:"array,object"`
}

type LocationSuggestion struct {
	Name        string  `json:"name" example:"Springfield"`
	Country     string  `json:"country" example:"US"`
	State       string  `json:"state,omitempty" example:"Illinois"`
	Lat         float64 `json:"lat" example:"39.78"`
	Lon         float64 `json:"lon" example:"-89.64"`
	DisplayName string  `json:"displayName" example:"Springfield, Illinois, US"`
}
