package lead

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stressorleads/internal/middleware"
	"stressorleads/internal/pkg/response"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List godoc
// @Summary List scored leads, most urgent first
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param upload_id query int false "Only leads from this upload"
// @Param min_score query number false "Minimum urgency score"
// @Param limit query int false "Page size (default 100, max 500)"
// @Success 200 {object} map[string]interface{}
// @Router /scored-leads [get]
func (h *Handler) List(c *gin.Context) {
	dealerID, ok := middleware.DealerID(c)
	if !ok {
		return
	}

	f, ok := parseFilter(c)
	if !ok {
		return
	}

	leads, err := h.repo.List(c.Request.Context(), dealerID, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewResponses(leads))
}

// GetByID godoc
// @Summary Get one scored lead with its vehicle
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /scored-leads/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	dealerID, ok := middleware.DealerID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	l, err := h.repo.GetForDealer(c.Request.Context(), dealerID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewResponse(l))
}

func parseFilter(c *gin.Context) (ListFilter, bool) {
	var f ListFilter

	if raw := c.Query("upload_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_UPLOAD_ID", "upload_id must be an integer")
			return f, false
		}
		f.UploadID = &id
	}
	if raw := c.Query("min_score"); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_MIN_SCORE", "min_score must be a number")
			return f, false
		}
		f.MinScore = &score
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer")
			return f, false
		}
		f.Limit = limit
	}
	return f, true
}
