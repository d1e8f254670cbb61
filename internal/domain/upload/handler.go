package upload

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"stressorleads/internal/middleware"
	"stressorleads/internal/pkg/response"
)

// Handler exposes the upload registry to dealers.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload godoc
// @Summary Upload a dealer CSV
// @Description Stores the file, returns the upload in processing state and scores it in the background.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,413,500 {object} map[string]interface{}
// @Router /uploads [post]
func (h *Handler) Upload(c *gin.Context) {
	dealerID, ok := middleware.DealerID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "no file provided")
		return
	}
	if fileHeader.Size == 0 {
		response.FromError(c, ErrEmptyFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "failed to read file")
		return
	}
	defer file.Close()

	u, err := h.service.Accept(c.Request.Context(), dealerID, filepath.Base(fileHeader.Filename), file, fileHeader.Size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

// List godoc
// @Summary List my uploads
// @Tags Uploads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /uploads [get]
func (h *Handler) List(c *gin.Context) {
	dealerID, ok := middleware.DealerID(c)
	if !ok {
		return
	}

	uploads, err := h.service.List(c.Request.Context(), dealerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, uploads)
}

// GetByID godoc
// @Summary Get upload status and counts
// @Tags Uploads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Upload ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /uploads/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	dealerID, ok := middleware.DealerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	u, err := h.service.Get(c.Request.Context(), dealerID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// Delete godoc
// @Summary Delete a finished upload with its vehicles and leads
// @Tags Uploads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Upload ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404,409 {object} map[string]interface{}
// @Router /uploads/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	dealerID, ok := middleware.DealerID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), dealerID, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "deleted"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid upload ID")
		return 0, false
	}
	return id, true
}
