package handler

import (
	appcustoms "github.com/gestora/backend/internal/application/customs"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TrackingHandler handles shipment tracking endpoints
type TrackingHandler struct {
	BaseHandler
	service *appcustoms.TrackingService
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(service *appcustoms.TrackingService) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// AddEvent appends a tracking event to a declaration's log
// @Summary Add tracking event
// @Tags tracking
// @Accept json
// @Produce json
// @Param id path string true "Declaration ID"
// @Param request body customs.AddTrackingEventRequest true "Event data"
// @Success 201 {object} dto.Response{data=customs.TrackingEventResponse}
// @Failure 422 {object} dto.Response
// @Router /customs/declarations/{id}/tracking [post]
func (h *TrackingHandler) AddEvent(c *gin.Context) {
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

	var req appcustoms.AddTrackingEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.RecordedBy = &userID
	}

	resp, err := h.service.AddEvent(c.Request.Context(), tenantID, declarationID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetLog returns a declaration's tracking log, newest first by default
// @Summary Get tracking log
// @Tags tracking
// @Produce json
// @Param id path string true "Declaration ID"
// @Param chronological query bool false "Oldest first"
// @Success 200 {object} dto.Response{data=customs.TrackingLogResponse}
// @Failure 404 {object} dto.Response
// @Router /customs/declarations/{id}/tracking [get]
func (h *TrackingHandler) GetLog(c *gin.Context) {
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

	chronological := c.Query("chronological") == "true"

	resp, err := h.service.GetLog(c.Request.Context(), tenantID, declarationID, chronological)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
