package handler

import (
	appcustoms "github.com/gestora/backend/internal/application/customs"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceptionHandler handles warehouse reception endpoints
type ReceptionHandler struct {
	BaseHandler
	service *appcustoms.ReceptionService
}

// NewReceptionHandler creates a new reception handler
func NewReceptionHandler(service *appcustoms.ReceptionService) *ReceptionHandler {
	return &ReceptionHandler{service: service}
}

// Create registers a warehouse arrival for a liquidated declaration
// @Summary Create reception
// @Tags receptions
// @Accept json
// @Produce json
// @Param id path string true "Declaration ID"
// @Param request body customs.CreateReceptionRequest true "Reception data"
// @Success 201 {object} dto.Response{data=customs.ReceptionResponse}
// @Failure 422 {object} dto.Response
// @Router /customs/declarations/{id}/reception [post]
func (h *ReceptionHandler) Create(c *gin.Context) {
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

	var req appcustoms.CreateReceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), tenantID, declarationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByDeclaration returns the reception registered for a declaration
// @Summary Get reception
// @Tags receptions
// @Produce json
// @Param id path string true "Declaration ID"
// @Success 200 {object} dto.Response{data=customs.ReceptionResponse}
// @Failure 404 {object} dto.Response
// @Router /customs/declarations/{id}/reception [get]
func (h *ReceptionHandler) GetByDeclaration(c *gin.Context) {
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

	resp, err := h.service.GetByDeclaration(c.Request.Context(), tenantID, declarationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update replaces the checklist fields of an unprocessed reception
// @Summary Update reception checklist
// @Tags receptions
// @Accept json
// @Produce json
// @Param id path string true "Declaration ID"
// @Param request body customs.UpdateReceptionRequest true "Checklist data"
// @Success 200 {object} dto.Response{data=customs.ReceptionResponse}
// @Failure 422 {object} dto.Response
// @Router /customs/declarations/{id}/reception [put]
func (h *ReceptionHandler) Update(c *gin.Context) {
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

	var req appcustoms.UpdateReceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), tenantID, declarationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Finalize runs the exactly-once inventory injection for a reception.
// Clients may pass an Idempotency-Key header to make retries safe across
// requests.
// @Summary Finalize reception
// @Tags receptions
// @Produce json
// @Param id path string true "Declaration ID"
// @Param Idempotency-Key header string false "Idempotency key"
// @Success 200 {object} dto.Response{data=customs.FinalizeReceptionResponse}
// @Failure 422 {object} dto.Response
// @Router /customs/declarations/{id}/reception/finalize [post]
func (h *ReceptionHandler) Finalize(c *gin.Context) {
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

	req := appcustoms.FinalizeReceptionRequest{
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	}
	if userID, err := getUserID(c); err == nil {
		req.ProcessedBy = &userID
	}

	resp, err := h.service.Finalize(c.Request.Context(), tenantID, declarationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
