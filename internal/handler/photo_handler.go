package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josiaO/SmartDalaliTZ/internal/middleware"
	"github.com/josiaO/SmartDalaliTZ/internal/service"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

const defaultPhotoType = "image/jpeg"

type PhotoHandler struct {
	svc *service.PropertyService
}

func NewPhotoHandler(svc *service.PropertyService) *PhotoHandler {
	return &PhotoHandler{svc: svc}
}

func (h *PhotoHandler) RegisterRoutes(public, agent *gin.RouterGroup) {
	public.GET("/properties/:id/photo", h.DownloadPhoto)
	agent.POST("/properties/:id/photo", h.UploadPhoto)
}

func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondErrorWithCode(c, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "file is required", nil, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondErrorWithCode(c, http.StatusInternalServerError, utils.ErrCodeInternal, "cannot open file", nil, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultPhotoType
	}

	photoID, err := h.svc.AttachPhoto(c.Request.Context(), middleware.ActorFrom(c), id, file, fileHeader.Filename, contentType)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo_id": photoID, "url": service.PhotoURL(id)})
}

func (h *PhotoHandler) DownloadPhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	data, contentType, err := h.svc.Photo(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if contentType == "" {
		contentType = defaultPhotoType
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}
