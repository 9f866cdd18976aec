package handler

import (
	appcustoms "github.com/gestora/backend/internal/application/customs"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeclarationHandler handles customs declaration endpoints
type DeclarationHandler struct {
	BaseHandler
	service *appcustoms.DeclarationService
}

// NewDeclarationHandler creates a new declaration handler
func NewDeclarationHandler(service *appcustoms.DeclarationService) *DeclarationHandler {
	return &DeclarationHandler{service: service}
}

// Create opens a new declaration in DRAFT
// @Summary Create declaration
// @Tags declarations
// @Accept json
// @Produce json
// @Param request body customs.CreateDeclarationRequest true "Declaration data"
// @Success 201 {object} dto.Response{data=customs.DeclarationResponse}
// @Failure 400 {object} dto.Response
// @Router /customs/declarations [post]
func (h *DeclarationHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appcustoms.CreateDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	resp, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns declarations with filtering and pagination
// @Summary List declarations
// @Tags declarations
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search by number or supplier"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response{data=[]customs.DeclarationListItemResponse}
// @Router /customs/declarations [get]
func (h *DeclarationHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter appcustoms.DeclarationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, total, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// GetByID returns a single declaration with its items
// @Summary Get declaration
// @Tags declarations
// @Produce json
// @Param id path string true "Declaration ID"
// @Success 200 {object} dto.Response{data=customs.DeclarationResponse}
// @Failure 404 {object} dto.Response
// @Router /customs/declarations/{id} [get]
func (h *DeclarationHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	declarationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), tenantID, declarationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByNumber returns a declaration by its declaration number
// @Summary Get declaration by number
// @Tags declarations
// @Produce json
// @Param number path string true "Declaration number"
// @Success 200 {object} dto.Response{data=customs.DeclarationResponse}
// @Failure 404 {object} dto.Response
// @Router /customs/declarations/by-number/{number} [get]
func (h *DeclarationHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Declaration number is required")
		return
	}

	resp, err := h.service.GetByNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateFactors updates the header cost factors of a draft declaration
// @Summary Update declaration factors
// @Tags declarations
// @Accept json
// @Produce json
// @Param id path string true "Declaration ID"
// @Param request body customs.UpdateFactorsRequest true "Factor values"
// @Success 200 {object} dto.Response{data=customs.DeclarationResponse}
// @Failure 422 {object} dto.Response
// @Router /customs/declarations/{id}/factors [put]
func (h *DeclarationHandler) UpdateFactors(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	declarationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return
	}

	var req appcustoms.UpdateFactorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateFactors(c.Request.Context(), tenantID, declarationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddItem adds a line item to a draft declaration
// @Summary Add declaration item
// @Tags declarations
// @Accept json
// @Produce json
// @Param id path string true "Declaration ID"
// @Param request body customs.AddItemRequest true "Item data"
// @Success 201 {object} dto.Response{data=customs.DeclarationResponse}
// @Failure 422 {object} dto.Response
// @Router /customs/declarations/{id}/items [post]
func (h *DeclarationHandler) AddItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	declarationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return
	}

	var req appcustoms.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.AddItem(c.Request.Context(), tenantID, declarationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// UpdateItem updates a line item on a draft declaration
// @Summary Update declaration item
// @Tags declarations
// @Accept json
// @Produce json
// @Param id path string true "Declaration ID"
// @Param itemId path string true "Item ID"
// @Param request body customs.UpdateItemRequest true "Item data"
// @Success 200 {object} dto.Response{data=customs.DeclarationResponse}
// @Failure 422 {object} dto.Response
// @Router /customs/declarations/{id}/items/{itemId} [put]
func (h *DeclarationHandler) UpdateItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	declarationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req appcustoms.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateItem(c.Request.Context(), tenantID, declarationID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveItem removes a line item from a draft declaration
// @Summary Remove declaration item
// @Tags declarations
// @Produce json
// @Param id path string true "Declaration ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} dto.Response{data=customs.DeclarationResponse}
// @Failure 422 {object} dto.Response
// @Router /customs/declarations/{id}/items/{itemId} [delete]
func (h *DeclarationHandler) RemoveItem(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	declarationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	resp, err := h.service.RemoveItem(c.Request.Context(), tenantID, declarationID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Submit moves a draft declaration to CUSTOMS
// @Summary Submit declaration
// @Tags declarations
// @Produce json
// @Param id path string true "Declaration ID"
// @Success 200 {object} dto.Response{data=customs.DeclarationResponse}
// @Failure 422 {object} dto.Response
// @Router /customs/declarations/{id}/submit [post]
func (h *DeclarationHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	declarationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), tenantID, declarationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Liquidate liquidates a declaration and freezes its cost snapshot
// @Summary Liquidate declaration
// @Tags declarations
// @Produce json
// @Param id path string true "Declaration ID"
// @Success 200 {object} dto.Response{data=customs.DeclarationResponse}
// @Failure 422 {object} dto.Response
// @Router /customs/declarations/{id}/liquidate [post]
func (h *DeclarationHandler) Liquidate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	declarationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return
	}

	resp, err := h.service.Liquidate(c.Request.Context(), tenantID, declarationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels a non-terminal declaration
// @Summary Cancel declaration
// @Tags declarations
// @Accept json
// @Produce json
// @Param id path string true "Declaration ID"
// @Param request body customs.CancelDeclarationRequest true "Cancel reason"
// @Success 200 {object} dto.Response{data=customs.DeclarationResponse}
// @Failure 422 {object} dto.Response
// @Router /customs/declarations/{id}/cancel [post]
func (h *DeclarationHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	declarationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return
	}

	var req appcustoms.CancelDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), tenantID, declarationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetCosting returns the landed cost breakdown for a declaration
// @Summary Get declaration costing
// @Tags declarations
// @Produce json
// @Param id path string true "Declaration ID"
// @Success 200 {object} dto.Response{data=customs.CostingResponse}
// @Failure 404 {object} dto.Response
// @Router /customs/declarations/{id}/costing [get]
func (h *DeclarationHandler) GetCosting(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	declarationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return
	}

	resp, err := h.service.GetCosting(c.Request.Context(), tenantID, declarationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
