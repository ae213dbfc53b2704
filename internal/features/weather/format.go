package weather

import (
	"fmt"
	"math"
)

// FormatWeatherData builds the WeatherView from a current-weather and a
// forecast payload. Rounding is half-up so 21.5 becomes 22 and -0.5 becomes 0.
func FormatWeatherData(w *CurrentResponse, f *ForecastResponse) *WeatherView {
	current := CurrentWeather{
		Date:       w.Dt * 1000,
		Temp:       roundHalfUp(w.Main.Temp),
		Humidity:   w.Main.Humidity,
		WindSpeed:  w.Wind.Speed,
		WindDeg:    w.Wind.Deg,
		Visibility: roundHalfUp(w.Visibility / 1000),
		Pressure:   w.Main.Pressure,
	}
	if len(w.Weather) > 0 {
		current.Description = w.Weather[0].Description
		current.WeatherIcon = w.Weather[0].Icon
	}
	if w.Clouds != nil && w.Clouds.All != nil {
		current.CloudCover = *w.Clouds.All
	}

	view := &WeatherView{
		Location: fmt.Sprintf("%s, %s", w.Name, w.Sys.Country),
		Current:  current,
	}
	if f != nil {
		view.Forecast = f.List
	}
	return view
}

func roundHalfUp(x float64) float64 {
	r := math.Floor(x + 0.5)
	if r == 0 {
		// avoid serializing -0
		return 0
	}
	return r
}

func displayName(g GeoLocation) string {
	if g.State != "" {
		return fmt.Sprintf("%s, %s, %s", g.Name, g.State, g.Country)
	}
	return fmt.Sprintf("%s, %s", g.Name, g.Country)
}
