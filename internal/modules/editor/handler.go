package editor

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hourlystay/internal/domain"
	"hourlystay/internal/modules/photo"
	"hourlystay/internal/pkg/response"
	"hourlystay/internal/platform"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the editor under an authenticated group. All state
// lives per (owner, listing); listing id 0 addresses the new-listing draft.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/editor/templates", h.ListTemplates)
	rg.GET("/editor/features", h.ListFeatures)

	rg.POST("/editor/open", h.Open)
	rg.GET("/editor/:listing_id", h.State)
	rg.PUT("/editor/:listing_id/draft", h.UpdateDraft)
	rg.POST("/editor/:listing_id/submit", h.Submit)
	rg.POST("/editor/:listing_id/close", h.Close)

	rg.PUT("/editor/:listing_id/buffer", h.UpdateBuffer)
	rg.POST("/editor/:listing_id/buffer/template", h.ApplyTemplate)
	rg.POST("/editor/:listing_id/buffer/save", h.SaveEditedRoom)
	rg.POST("/editor/:listing_id/buffer/cancel", h.CancelEditRoom)

	rg.POST("/editor/:listing_id/rooms", h.AddRoom)
	rg.POST("/editor/:listing_id/rooms/reorder", h.ReorderRooms)
	rg.POST("/editor/:listing_id/rooms/:index/edit", h.StartEditRoom)
	rg.POST("/editor/:listing_id/rooms/:index/duplicate", h.DuplicateRoom)
	rg.DELETE("/editor/:listing_id/rooms/:index", h.RemoveRoom)

	rg.POST("/editor/:listing_id/cover", h.UploadCover)
	rg.POST("/editor/:listing_id/logo", h.UploadLogo)

	rg.POST("/editor/:listing_id/photos", h.UploadListingPhotos)
	rg.POST("/editor/:listing_id/photos/reorder", h.ReorderListingPhotos)
	rg.POST("/editor/:listing_id/photos/drag", h.DragListingPhoto)
	rg.DELETE("/editor/:listing_id/photos/:index", h.RemoveListingPhoto)

	rg.POST("/editor/:listing_id/buffer/photos", h.UploadBufferPhotos)
	rg.PUT("/editor/:listing_id/buffer/photos/:index", h.ReplaceBufferPhoto)
	rg.DELETE("/editor/:listing_id/buffer/photos/:index", h.RemoveBufferPhoto)
	rg.POST("/editor/:listing_id/buffer/photos/drag", h.DragBufferPhoto)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"templates": domain.Templates()})
}

func (h *Handler) ListFeatures(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"features": domain.RoomFeatures})
}

func (h *Handler) Open(c *gin.Context) {
	var req OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	state, err := h.service.Open(c.Request.Context(), c.GetString("token"), c.GetInt64("user_id"), req.ListingID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) State(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	state, err := h.service.State(c.GetInt64("user_id"), listingID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) UpdateDraft(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	var req DraftFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	state, err := h.service.UpdateDraft(c.Request.Context(), c.GetInt64("user_id"), listingID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) UpdateBuffer(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	var req BufferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	ownerID := c.GetInt64("user_id")

	current, err := h.service.State(ownerID, listingID)
	if err != nil {
		writeError(c, err)
		return
	}
	state, err := h.service.UpdateBuffer(c.Request.Context(), ownerID, listingID, req.toRoom(current.Buffer))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) ApplyTemplate(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Template name is required")
		return
	}
	state, err := h.service.ApplyTemplate(c.Request.Context(), c.GetInt64("user_id"), listingID, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) AddRoom(c *gin.Context) {
	h.mutateNoBody(c, h.service.AddRoom)
}

func (h *Handler) SaveEditedRoom(c *gin.Context) {
	h.mutateNoBody(c, h.service.SaveEditedRoom)
}

func (h *Handler) CancelEditRoom(c *gin.Context) {
	h.mutateNoBody(c, h.service.CancelEditRoom)
}

func (h *Handler) StartEditRoom(c *gin.Context) {
	h.mutateIndexed(c, h.service.StartEditRoom)
}

func (h *Handler) RemoveRoom(c *gin.Context) {
	h.mutateIndexed(c, h.service.RemoveRoom)
}

func (h *Handler) DuplicateRoom(c *gin.Context) {
	h.mutateIndexed(c, h.service.DuplicateRoom)
}

func (h *Handler) ReorderRooms(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	state, err := h.service.ReorderRooms(c.Request.Context(), c.GetInt64("user_id"), listingID, req.From, req.To)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) UploadCover(c *gin.Context) {
	h.uploadSingle(c, h.service.UploadCover)
}

func (h *Handler) UploadLogo(c *gin.Context) {
	h.uploadSingle(c, h.service.UploadLogo)
}

func (h *Handler) uploadSingle(c *gin.Context, op func(ctx context.Context, token string, ownerID, listingID int64, f photo.File) (*SessionState, error)) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	files, err := formFiles(c, "image")
	if err != nil || len(files) != 1 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Exactly one image is required")
		return
	}
	state, err := op(c.Request.Context(), c.GetString("token"), c.GetInt64("user_id"), listingID, files[0])
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) UploadListingPhotos(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	files, err := formFiles(c, "photos")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid upload form")
		return
	}
	state, err := h.service.UploadListingPhotos(c.Request.Context(), c.GetString("token"), c.GetInt64("user_id"), listingID, files)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) RemoveListingPhoto(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	state, err := h.service.RemoveListingPhoto(c.Request.Context(), c.GetInt64("user_id"), listingID, index)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) ReorderListingPhotos(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	state, err := h.service.ReorderListingPhotos(c.Request.Context(), c.GetInt64("user_id"), listingID, req.From, req.To)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) DragListingPhoto(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	var req DragOverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	state, newIndex, err := h.service.DragListingPhoto(c.Request.Context(), c.GetInt64("user_id"), listingID, req.DragIndex, req.OverIndex)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": state, "drag_index": newIndex})
}

func (h *Handler) UploadBufferPhotos(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	files, err := formFiles(c, "photos")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid upload form")
		return
	}
	state, err := h.service.UploadBufferPhotos(c.Request.Context(), c.GetString("token"), c.GetInt64("user_id"), listingID, files)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) ReplaceBufferPhoto(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	files, err := formFiles(c, "photo")
	if err != nil || len(files) != 1 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Exactly one photo is required")
		return
	}
	state, err := h.service.ReplaceBufferPhoto(c.Request.Context(), c.GetString("token"), c.GetInt64("user_id"), listingID, index, files[0])
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) RemoveBufferPhoto(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	state, err := h.service.RemoveBufferPhoto(c.Request.Context(), c.GetInt64("user_id"), listingID, index)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *Handler) DragBufferPhoto(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	var req DragOverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	state, newIndex, err := h.service.DragBufferPhoto(c.Request.Context(), c.GetInt64("user_id"), listingID, req.DragIndex, req.OverIndex)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": state, "drag_index": newIndex})
}

func (h *Handler) Submit(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	result, err := h.service.Submit(c.Request.Context(), c.GetString("token"), c.GetInt64("user_id"), listingID)
	if err != nil {
		writeError(c, err)
		return
	}
	if result.RoomAutoAdded {
		response.Notice(c, http.StatusOK, result, "Заполненный номер был добавлен автоматически")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Close(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	discard := c.Query("discard") == "true"
	if err := h.service.Close(c.Request.Context(), c.GetInt64("user_id"), listingID, discard); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"closed": true})
}

/* ---------- helpers ---------- */

// mutateNoBody handles the operations that take no request body.
func (h *Handler) mutateNoBody(c *gin.Context, op func(ctx context.Context, ownerID, listingID int64) (*SessionState, error)) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	state, err := op(c.Request.Context(), c.GetInt64("user_id"), listingID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// mutateIndexed handles the operations addressing one room by index.
func (h *Handler) mutateIndexed(c *gin.Context, op func(ctx context.Context, ownerID, listingID int64, index int) (*SessionState, error)) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	state, err := op(c.Request.Context(), c.GetInt64("user_id"), listingID, index)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func listingParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("listing_id"), 10, 64)
	if err != nil || id < 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing id")
		return 0, false
	}
	return id, true
}

func indexParam(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid index")
		return 0, false
	}
	return idx, true
}

func formFiles(c *gin.Context, field string) ([]photo.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	headers := form.File[field]
	files := make([]photo.File, 0, len(headers))
	for _, hdr := range headers {
		f, err := readFormFile(hdr)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func readFormFile(hdr *multipart.FileHeader) (photo.File, error) {
	src, err := hdr.Open()
	if err != nil {
		return photo.File{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return photo.File{}, err
	}
	return photo.File{Data: data, MimeType: hdr.Header.Get("Content-Type")}, nil
}

// writeError maps service errors onto the JSON envelope.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRoomInvalid):
		response.Error(c, http.StatusUnprocessableEntity, "ROOM_INVALID", err.Error())
	case errors.Is(err, ErrIndexRange), errors.Is(err, photo.ErrIndexRange):
		response.Error(c, http.StatusBadRequest, "INDEX_RANGE", err.Error())
	case errors.Is(err, ErrNotEditing):
		response.Error(c, http.StatusConflict, "NOT_EDITING", err.Error())
	case errors.Is(err, ErrUnknownTemplate):
		response.Error(c, http.StatusNotFound, "UNKNOWN_TEMPLATE", err.Error())
	case errors.Is(err, ErrSessionClosed):
		response.Error(c, http.StatusNotFound, "SESSION_CLOSED", err.Error())
	case errors.Is(err, ErrSubmitInFlight):
		response.Error(c, http.StatusConflict, "SUBMIT_IN_FLIGHT", err.Error())
	case errors.Is(err, photo.ErrTooManyPhotos), errors.Is(err, photo.ErrBadImage), errors.Is(err, photo.ErrEmptyBatch):
		response.Error(c, http.StatusUnprocessableEntity, "PHOTO_REJECTED", err.Error())
	case errors.Is(err, photo.ErrUploadFailed):
		response.Error(c, http.StatusBadGateway, "UPLOAD_FAILED", err.Error())
	case errors.Is(err, ErrSaveFailed):
		response.Error(c, http.StatusBadGateway, "SAVE_FAILED", err.Error())
	default:
		var apiErr *platform.APIError
		if errors.As(err, &apiErr) {
			response.Error(c, apiErr.Status, "PLATFORM_ERROR", apiErr.Message)
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}
