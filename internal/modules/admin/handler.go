package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hourlystay/internal/pkg/response"
	"hourlystay/internal/pkg/validator"
	"hourlystay/internal/platform"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the admin panel. The group must already be gated to
// admin/employee roles.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/listings", h.Listings)
	rg.GET("/admin/listings/:id", h.Listing)
	rg.DELETE("/admin/listings/:id", h.Archive)

	rg.GET("/admin/moderation", h.ModerationQueue)
	rg.POST("/admin/listings/:id/moderate", h.Moderate)
	rg.PUT("/admin/listings/:id/rating", h.RateFullness)

	rg.GET("/admin/employees", h.Employees)
	rg.POST("/admin/employees", h.CreateEmployee)
	rg.PUT("/admin/employees/:id", h.UpdateEmployee)
	rg.DELETE("/admin/employees/:id", h.DeleteEmployee)

	rg.GET("/admin/owners", h.Owners)
	rg.POST("/admin/owners", h.CreateOwner)
	rg.PUT("/admin/owners/:id", h.UpdateOwner)
	rg.POST("/admin/owners/:id/bonus", h.AccrueBonus)

	rg.GET("/admin/calls", h.Calls)
}

func (h *Handler) Listings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	archived := c.Query("archived") == "true"

	listings, err := h.service.Listings(c.Request.Context(), c.GetString("token"), archived, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listings": listings})
}

func (h *Handler) Listing(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	l, err := h.service.Listing(c.Request.Context(), c.GetString("token"), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Archive(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.Archive(c.Request.Context(), c.GetString("token"), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"archived": true})
}

func (h *Handler) ModerationQueue(c *gin.Context) {
	listings, err := h.service.ModerationQueue(c.Request.Context(), c.GetString("token"), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listings": listings})
}

func (h *Handler) Moderate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid moderation request")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fields)
		return
	}
	if err := h.service.Moderate(c.Request.Context(), c.GetString("token"), id, req.Action, req.Reason); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"moderated": true})
}

func (h *Handler) RateFullness(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid rating request")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fields)
		return
	}
	if err := h.service.RateFullness(c.Request.Context(), c.GetString("token"), id, req.Rating, req.Feedback); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rated": true})
}

func (h *Handler) Employees(c *gin.Context) {
	out, err := h.service.Employees(c.Request.Context(), c.GetString("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"employees": out})
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid employee")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fields)
		return
	}
	out, err := h.service.CreateEmployee(c.Request.Context(), c.GetString("token"), employeeFromRequest(req))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid employee")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fields)
		return
	}
	out, err := h.service.UpdateEmployee(c.Request.Context(), c.GetString("token"), id, employeeFromRequest(req))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteEmployee(c.Request.Context(), c.GetString("token"), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Owners(c *gin.Context) {
	out, err := h.service.Owners(c.Request.Context(), c.GetString("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"owners": out})
}

func (h *Handler) CreateOwner(c *gin.Context) {
	var req OwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid owner")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fields)
		return
	}
	out, err := h.service.CreateOwner(c.Request.Context(), c.GetString("token"), ownerFromRequest(req))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) UpdateOwner(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req OwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid owner")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fields)
		return
	}
	out, err := h.service.UpdateOwner(c.Request.Context(), c.GetString("token"), id, ownerFromRequest(req))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) AccrueBonus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req BonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid bonus")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fields)
		return
	}
	if err := h.service.AccrueBonus(c.Request.Context(), c.GetString("token"), id, req.Amount, req.Comment); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"accrued": true})
}

func (h *Handler) Calls(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	listingID, _ := strconv.ParseInt(c.Query("listing_id"), 10, 64)

	calls, err := h.service.Calls(c.Request.Context(), c.GetString("token"), listingID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"calls": calls})
}

func employeeFromRequest(req EmployeeRequest) platform.Employee {
	return platform.Employee{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Active:   req.Active,
	}
}

func ownerFromRequest(req OwnerRequest) platform.Owner {
	return platform.Owner{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Blocked:     req.Blocked,
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrBadModerationStatus),
		errors.Is(err, ErrBadModerationAction),
		errors.Is(err, ErrReasonRequired),
		errors.Is(err, ErrBadRating),
		errors.Is(err, ErrBonusAmount):
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	default:
		var apiErr *platform.APIError
		if errors.As(err, &apiErr) {
			response.Error(c, apiErr.Status, "PLATFORM_ERROR", apiErr.Message)
			return
		}
		response.Error(c, http.StatusBadGateway, "PLATFORM_ERROR", "Панель временно недоступна")
	}
}
