package reports

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/skycast/internal/middleware"
	"github.com/xyz-asif/skycast/internal/pkg/response"
)

type Handler struct {
	service *Service
	// ownerScoped restricts report reads to the caller's own records.
	ownerScoped bool
}

func NewHandler(service *Service, ownerScoped bool) *Handler {
	return &Handler{service: service, ownerScoped: ownerScoped}
}

// Create godoc
// @Summary Save a weather report
// @Description Persist a snapshot of current weather conditions for the authenticated user
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReportRequest true "Report fields"
// @Success 201 {object} Report
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /reports [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	report, err := h.service.Create(c.Request.Context(), &req, middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, report)
}

// List godoc
// @Summary List my reports
// @Description List the authenticated user's reports, newest first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param location query string false "Case-insensitive substring of the location"
// @Success 200 {array} Report
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /reports [get]
func (h *Handler) List(c *gin.Context) {
	reports, err := h.service.ListForOwner(c.Request.Context(), middleware.UserID(c), Filter{
		Location: c.Query("location"),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, reports)
}

// Get godoc
// @Summary Get a report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} Report
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var (
		report *Report
		err    error
	)
	if h.ownerScoped {
		report, err = h.service.GetOwned(ctx, id, middleware.UserID(c))
	} else {
		report, err = h.service.GetByID(ctx, id)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, report)
}

// Compare godoc
// @Summary Fetch reports for comparison
// @Description Returns the reports that exist among the comma-separated ids, in no particular order
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param ids path string true "Comma-separated report IDs"
// @Success 200 {array} Report
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /reports/compare/{ids} [get]
func (h *Handler) Compare(c *gin.Context) {
	ctx := c.Request.Context()
	ids := strings.Split(c.Param("ids"), ",")

	var (
		reports []Report
		err     error
	)
	if h.ownerScoped {
		reports, err = h.service.GetByIDsForOwner(ctx, ids, middleware.UserID(c))
	} else {
		reports, err = h.service.GetByIDs(ctx, ids)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, reports)
}

// Delete godoc
// @Summary Delete a report
// @Description Delete one of the authenticated user's reports and return it
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} Report
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	report, err := h.service.DeleteOwned(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, report)
}
