package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xyz-asif/skycast/pkg/errors"
)

const sampleCurrent = `{
	"dt": 1718000000,
	"name": "London",
	"visibility": 8000,
	"main": {"temp": 21.7, "humidity": 64, "pressure": 1013},
	"wind": {"speed": 4.1, "deg": 250},
	"weather": [{"description": "scattered clouds", "icon": "03d"}],
	"sys": {"country": "GB"}
}`

const sampleForecast = `{"cod":"200","list":[{"dt":1718010800,"main":{"temp":20.1}},{"dt":1718021600,"main":{"temp":18.4}}]}`

type fakeProvider struct {
	t *testing.T

	mu    sync.Mutex
	calls []string
	query map[string][]string

	// per-path overrides: status and body
	status map[string]int
	body   map[string]string
}

func newFakeProvider(t *testing.T) (*fakeProvider, *Client) {
	fp := &fakeProvider{
		t:      t,
		query:  map[string][]string{},
		status: map[string]int{},
		body: map[string]string{
			"/data/weather":  sampleCurrent,
			"/data/forecast": sampleForecast,
			"/geo/direct":    `[]`,
		},
	}
	srv := httptest.NewServer(fp)
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/data",
		GeoURL:  srv.URL + "/geo/",
	})
	return fp, client
}

func (fp *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	fp.calls = append(fp.calls, r.URL.Path)
	fp.query[r.URL.Path] = append(fp.query[r.URL.Path], r.URL.RawQuery)
	status, ok := fp.status[r.URL.Path]
	body := fp.body[r.URL.Path]
	fp.mu.Unlock()

	assert.Equal(fp.t, "test-key", r.URL.Query().Get("appid"))
	if !ok {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (fp *fakeProvider) respond(path string, status int, body string) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.status[path] = status
	fp.body[path] = body
}

func (fp *fakeProvider) Query(path string) string {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	if len(fp.query[path]) == 0 {
		return ""
	}
	return fp.query[path][0]
}

func (fp *fakeProvider) Calls() []string {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return append([]string(nil), fp.calls...)
}

func TestFormatWeatherData(t *testing.T) {
	var current CurrentResponse
	require.NoError(t, json.Unmarshal([]byte(sampleCurrent), &current))
	var forecast ForecastResponse
	require.NoError(t, json.Unmarshal([]byte(sampleForecast), &forecast))

	view := FormatWeatherData(&current, &forecast)

	assert.Equal(t, "London, GB", view.Location)
	assert.Equal(t, int64(1718000000000), view.Current.Date)
	assert.Equal(t, 22.0, view.Current.Temp)
	assert.Equal(t, 8.0, view.Current.Visibility)
	assert.Equal(t, 0.0, view.Current.CloudCover)
	assert.Equal(t, "scattered clouds", view.Current.Description)
	assert.Equal(t, "03d", view.Current.WeatherIcon)
	assert.Equal(t, 64.0, view.Current.Humidity)
	assert.Equal(t, 4.1, view.Current.WindSpeed)
	assert.Equal(t, 250.0, view.Current.WindDeg)
	assert.Equal(t, 1013.0, view.Current.Pressure)
	assert.JSONEq(t, `[{"dt":1718010800,"main":{"temp":20.1}},{"dt":1718021600,"main":{"temp":18.4}}]`, string(view.Forecast))
}

func TestFormatWeatherData_EdgeCases(t *testing.T) {
	var current CurrentResponse
	require.NoError(t, json.Unmarshal([]byte(`{"main":{"temp":-0.5},"visibility":1500,"clouds":{"all":75}}`), &current))

	view := FormatWeatherData(&current, nil)

	assert.Equal(t, 0.0, view.Current.Temp)
	assert.Equal(t, 2.0, view.Current.Visibility)
	assert.Equal(t, 75.0, view.Current.CloudCover)
	assert.Empty(t, view.Current.Description)
	assert.Empty(t, view.Current.WeatherIcon)
	assert.Nil(t, view.Forecast)
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]float64{
		21.7: 22, 21.5: 22, 21.4: 21, -1.5: -1, -1.6: -2, 0.49: 0, 2.5: 3,
	}
	for in, want := range cases {
		assert.Equal(t, want, roundHalfUp(in), "round(%v)", in)
	}
}

func TestByLocation_CurrentThenForecast(t *testing.T) {
	fp, client := newFakeProvider(t)
	svc := NewService(client)

	view, err := svc.ByLocation(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, "London, GB", view.Location)
	assert.Equal(t, []string{"/data/weather", "/data/forecast"}, fp.Calls())

	for _, q := range []string{fp.Query("/data/weather"), fp.Query("/data/forecast")} {
		assert.Contains(t, q, "q=London")
		assert.Contains(t, q, "units=metric")
	}
}

func TestByLocation_NoForecastCallWhenCurrentFails(t *testing.T) {
	fp, client := newFakeProvider(t)
	fp.respond("/data/weather", http.StatusNotFound, `{"cod":"404","message":"city not found"}`)
	svc := NewService(client)

	_, err := svc.ByLocation(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
	assert.Equal(t, "city not found", apperrors.Message(err))
	assert.Equal(t, []string{"/data/weather"}, fp.Calls())
}

func TestByLocation_ForecastFailureUsesDefaultMessage(t *testing.T) {
	fp, client := newFakeProvider(t)
	fp.respond("/data/forecast", http.StatusBadGateway, `<html>bad gateway</html>`)
	svc := NewService(client)

	_, err := svc.ByLocation(context.Background(), "London")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, apperrors.HTTPStatus(err))
	assert.Equal(t, "Failed to fetch weather data", apperrors.Message(err))
}

func TestByCoordinates(t *testing.T) {
	fp, client := newFakeProvider(t)
	svc := NewService(client)

	_, err := svc.ByCoordinates(context.Background(), 51.5072, -0.1276)
	require.NoError(t, err)
	assert.Contains(t, fp.Query("/data/weather"), "lat=51.5072")
	assert.Contains(t, fp.Query("/data/weather"), "lon=-0.1276")

	_, err = svc.ByCoordinates(context.Background(), 91, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestSuggestLocations_ShortQueryMakesNoCall(t *testing.T) {
	fp, client := newFakeProvider(t)
	svc := NewService(client)

	for _, q := range []string{"", "a"} {
		_, err := svc.SuggestLocations(context.Background(), q)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		assert.Equal(t, "Query too short", apperrors.Message(err))
		assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	}
	assert.Empty(t, fp.Calls())
}

func TestSuggestLocations_OneCallCappedAtFive(t *testing.T) {
	fp, client := newFakeProvider(t)
	fp.respond("/geo/direct", http.StatusOK, `[
		{"name":"Springfield","state":"Illinois","country":"US","lat":39.78,"lon":-89.64},
		{"name":"Springfield","country":"AU","lat":-27.65,"lon":152.9},
		{"name":"S3","country":"US","lat":1,"lon":1},
		{"name":"S4","country":"US","lat":1,"lon":1},
		{"name":"S5","country":"US","lat":1,"lon":1},
		{"name":"S6","country":"US","lat":1,"lon":1}
	]`)
	svc := NewService(client)

	got, err := svc.SuggestLocations(context.Background(), "ab")
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, []string{"/geo/direct"}, fp.Calls())
	assert.Contains(t, fp.Query("/geo/direct"), "limit=5")

	assert.Equal(t, "Springfield, Illinois, US", got[0].DisplayName)
	assert.Equal(t, "Springfield, AU", got[1].DisplayName)
	assert.Equal(t, 39.78, got[0].Lat)
}

func TestSuggestLocations_UpstreamError(t *testing.T) {
	fp, client := newFakeProvider(t)
	fp.respond("/geo/direct", http.StatusUnauthorized, `{"cod":401,"message":"Invalid API key"}`)
	svc := NewService(client)

	_, err := svc.SuggestLocations(context.Background(), "London")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperrors.HTTPStatus(err))
	assert.Equal(t, "Invalid API key", apperrors.Message(err))

	fp.respond("/geo/direct", http.StatusUnauthorized, `{}`)
	_, err = svc.SuggestLocations(context.Background(), "London")
	assert.Equal(t, "Failed to fetch location suggestions", apperrors.Message(err))
}

func TestTransportFailureIsInternal(t *testing.T) {
	client := NewClient(ClientConfig{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	svc := NewService(client)

	_, err := svc.ByLocation(context.Background(), "London")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
}

func TestHandler(t *testing.T) {
	fp, client := newFakeProvider(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group(""), NewHandler(NewService(client)))

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		return w
	}

	w := get("/weather/location?q=London&date=2024-01-01")
	require.Equal(t, http.StatusOK, w.Code)
	var view map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "London, GB", view["location"])
	current := view["current"].(map[string]any)
	assert.Equal(t, 22.0, current["temp"])
	assert.Equal(t, float64(1718000000000), current["date"])
	assert.Len(t, view["forecast"], 2)

	assert.Equal(t, http.StatusBadRequest, get("/weather/location").Code)
	assert.Equal(t, http.StatusBadRequest, get("/weather/coords?lat=abc&lon=1").Code)
	assert.Equal(t, http.StatusOK, get("/weather/coords?lat=51.5&lon=-0.12").Code)

	w = get("/weather/suggestions?q=a")
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Query too short", body["message"])

	w = get("/weather/suggestions?q=zz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	fp.respond("/data/weather", http.StatusNotFound, `{"cod":"404","message":"city not found"}`)
	w = get("/weather/location?q=Atlantis")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "city not found", body["message"])
}
