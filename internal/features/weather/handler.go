package weather

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/skycast/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ByLocation godoc
// @Summary Current weather and forecast by place name
// @Description The date parameter is accepted for compatibility and ignored; only live data is served
// @Tags weather
// @Produce json
// @Param q query string true "Place name, e.g. London or London,GB"
// @Param date query string false "Ignored"
// @Success 200 {object} WeatherView
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /weather/location [get]
func (h *Handler) ByLocation(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.BadRequest(c, "Query parameter q is required", "INVALID_ARGUMENT")
		return
	}

	view, err := h.service.ByLocation(c.Request.Context(), q)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, view)
}

// ByCoordinates godoc
// @Summary Current weather and forecast by coordinates
// @Tags weather
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param date query string false "Ignored"
// @Success 200 {object} WeatherView
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /weather/coords [get]
func (h *Handler) ByCoordinates(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(c.Query("lat")), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(c.Query("lon")), 64)
	if errLat != nil || errLon != nil {
		response.BadRequest(c, "lat and lon must be numbers", "INVALID_ARGUMENT")
		return
	}

	view, err := h.service.ByCoordinates(c.Request.Context(), lat, lon)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, view)
}

// Suggestions godoc
// @Summary Location autocomplete
// @Description Up to five places matching the query; the query needs at least two characters
// @Tags weather
// @Produce json
// @Param q query string true "Partial place name"
// @Success 200 {array} LocationSuggestion
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /weather/suggestions [get]
func (h *Handler) Suggestions(c *gin.Context) {
	suggestions, err := h.service.SuggestLocations(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, suggestions)
}
