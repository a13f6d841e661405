package owner

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hourlystay/internal/pkg/response"
	"hourlystay/internal/platform"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the owner dashboard. The group must already be gated
// to the owner role.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/owner/listings", h.Listings)
	rg.GET("/owner/transactions", h.Transactions)
	rg.GET("/owner/subscription", h.Subscription)
	rg.GET("/owner/listings/:listing_id/auction", h.Auction)
	rg.POST("/owner/listings/:listing_id/auction/bid", h.PlaceBid)
	rg.POST("/owner/listings/:listing_id/recheck", h.RequestRecheck)
}

func (h *Handler) Listings(c *gin.Context) {
	listings, err := h.service.Listings(c.Request.Context(), c.GetString("token"), c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listings": listings})
}

func (h *Handler) Transactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.service.Transactions(c.Request.Context(), c.GetString("token"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"transactions": txs})
}

func (h *Handler) Subscription(c *gin.Context) {
	sub, err := h.service.Subscription(c.Request.Context(), c.GetString("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sub)
}

func (h *Handler) Auction(c *gin.Context) {
	id, ok := listingParam(c)
	if !ok {
		return
	}
	st, err := h.service.Auction(c.Request.Context(), c.GetString("token"), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) PlaceBid(c *gin.Context) {
	id, ok := listingParam(c)
	if !ok {
		return
	}
	var req BidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid bid amount")
		return
	}
	st, err := h.service.PlaceBid(c.Request.Context(), c.GetString("token"), id, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) RequestRecheck(c *gin.Context) {
	id, ok := listingParam(c)
	if !ok {
		return
	}
	if err := h.service.RequestRecheck(c.Request.Context(), c.GetString("token"), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"requested": true})
}

func listingParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("listing_id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing id")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrListingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrBidAmount):
		response.Error(c, http.StatusUnprocessableEntity, "BID_AMOUNT", err.Error())
	case errors.Is(err, ErrBidRejected):
		response.Error(c, http.StatusConflict, "BID_REJECTED", err.Error())
	default:
		var apiErr *platform.APIError
		if errors.As(err, &apiErr) {
			response.Error(c, apiErr.Status, "PLATFORM_ERROR", apiErr.Message)
			return
		}
		response.Error(c, http.StatusBadGateway, "PLATFORM_ERROR", "Кабинет временно недоступен")
	}
}
