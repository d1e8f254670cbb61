package vehicle

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
// @Summary List vehicles from my uploads
// @Tags Vehicles
// @Produce json
// @Security BearerAuth
// @Param upload_id query int false "Only vehicles from this upload"
// @Param limit query int false "Page size (default 100, max 500)"
// @Success 200 {object} map[string]interface{}
// @Router /vehicles [get]
func (h *Handler) List(c *gin.Context) {
	dealerID, ok := middleware.DealerID(c)
	if !ok {
		return
	}

	var f ListFilter
	if raw := c.Query("upload_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_UPLOAD_ID", "upload_id must be an integer")
			return
		}
		f.UploadID = &id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer")
			return
		}
		f.Limit = limit
	}

	vehicles, err := h.repo.List(c.Request.Context(), dealerID, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewResponses(vehicles))
}

func (h *Handler) GetByID(c *gin.Context) {
	dealerID, ok := middleware.DealerID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid vehicle ID")
		return
	}

	v, err := h.repo.GetForDealer(c.Request.Context(), dealerID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NewResponse(v))
}
