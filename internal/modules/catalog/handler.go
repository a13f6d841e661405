package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hourlystay/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public catalog. No auth: these are the pages a
// guest browses before booking.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog", h.CityFeed)
	rg.GET("/catalog/features", h.Features)
	rg.GET("/catalog/:listing_id", h.Listing)
	rg.GET("/catalog/:listing_id/rooms/:index", h.Room)
}

func (h *Handler) CityFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	cards, err := h.service.CityFeed(c.Request.Context(), c.Query("city"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listings": cards})
}

func (h *Handler) Listing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("listing_id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing id")
		return
	}
	detail, err := h.service.Listing(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

func (h *Handler) Room(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("listing_id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing id")
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room index")
		return
	}
	detail, err := h.service.Room(c.Request.Context(), id, index)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

func (h *Handler) Features(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"features": h.service.Features()})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCityRequired):
		response.Error(c, http.StatusBadRequest, "CITY_REQUIRED", err.Error())
	case errors.Is(err, ErrListingNotFound), errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusBadGateway, "PLATFORM_ERROR", "Каталог временно недоступен")
	}
}
