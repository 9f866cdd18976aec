package handler

import (
	apptrade "github.com/gestora/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	service *apptrade.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(service *apptrade.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// Create creates a new purchase order
// @Summary Create purchase order
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param request body trade.CreatePurchaseOrderRequest true "Order data"
// @Success 201 {object} dto.Response{data=trade.PurchaseOrderResponse}
// @Failure 400 {object} dto.Response
// @Router /trade/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req apptrade.CreatePurchaseOrderRequest
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

// List returns purchase orders with filtering and pagination
// @Summary List purchase orders
// @Tags purchase-orders
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search by number or supplier"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.Response{data=[]trade.PurchaseOrderResponse}
// @Router /trade/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter apptrade.PurchaseOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.service.List(c.Request.Context(), tenantID, filter)
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

	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// GetByID returns a single purchase order
// @Summary Get purchase order
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.Response{data=trade.PurchaseOrderResponse}
// @Failure 404 {object} dto.Response
// @Router /trade/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateDeclaredValue updates the declared value of an open order
// @Summary Update declared value
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body trade.UpdateDeclaredValueRequest true "Declared value"
// @Success 200 {object} dto.Response{data=trade.PurchaseOrderResponse}
// @Failure 422 {object} dto.Response
// @Router /trade/purchase-orders/{id}/declared-value [put]
func (h *PurchaseOrderHandler) UpdateDeclaredValue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req apptrade.UpdateDeclaredValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateDeclaredValue(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkInTransit marks an order as in transit
// @Summary Mark order in transit
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.Response{data=trade.PurchaseOrderResponse}
// @Failure 422 {object} dto.Response
// @Router /trade/purchase-orders/{id}/in-transit [post]
func (h *PurchaseOrderHandler) MarkInTransit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.service.MarkInTransit(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkReceived marks an order as received
// @Summary Mark order received
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.Response{data=trade.PurchaseOrderResponse}
// @Failure 422 {object} dto.Response
// @Router /trade/purchase-orders/{id}/received [post]
func (h *PurchaseOrderHandler) MarkReceived(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.service.MarkReceived(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel cancels a purchase order
// @Summary Cancel purchase order
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.Response{data=trade.PurchaseOrderResponse}
// @Failure 422 {object} dto.Response
// @Router /trade/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// LinkDeclaration associates a customs declaration with an order
// @Summary Link declaration
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body trade.LinkDeclarationRequest true "Declaration reference"
// @Success 200 {object} dto.Response{data=trade.PurchaseOrderResponse}
// @Failure 422 {object} dto.Response
// @Router /trade/purchase-orders/{id}/declarations [post]
func (h *PurchaseOrderHandler) LinkDeclaration(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req apptrade.LinkDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.LinkDeclaration(c.Request.Context(), tenantID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UnlinkDeclaration removes a declaration association from an order
// @Summary Unlink declaration
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Order ID"
// @Param declarationId path string true "Declaration ID"
// @Success 200 {object} dto.Response{data=trade.PurchaseOrderResponse}
// @Failure 422 {object} dto.Response
// @Router /trade/purchase-orders/{id}/declarations/{declarationId} [delete]
func (h *PurchaseOrderHandler) UnlinkDeclaration(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	declarationID, err := uuid.Parse(c.Param("declarationId"))
	if err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return
	}

	resp, err := h.service.UnlinkDeclaration(c.Request.Context(), tenantID, orderID, declarationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
