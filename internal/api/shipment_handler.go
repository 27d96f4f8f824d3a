package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greenchainz/greenchainz-api/internal/models"
	"github.com/greenchainz/greenchainz-api/internal/repository"
	"github.com/greenchainz/greenchainz-api/internal/services"
)

// ShipmentHandler handles shipment operations
type ShipmentHandler struct {
	shipmentService services.ShipmentService
}

// NewShipmentHandler creates a new shipment handler with service injection
func NewShipmentHandler(shipmentService services.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
	}
}

// CreateShipment creates a shipment in draft status
func (h *ShipmentHandler) CreateShipment(c *gin.Context) {
	var input repository.ShipmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment format: " + err.Error()})
		return
	}

	shipment, err := h.shipmentService.Create(organizationID(c), &input, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Shipment created successfully",
		"shipment":  shipment,
		"timestamp": time.Now(),
	})
}

// GetShipment returns a single shipment by its id
func (h *ShipmentHandler) GetShipment(c *gin.Context) {
	shipment, err := h.shipmentService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shipment":  shipment,
		"timestamp": time.Now(),
	})
}

// ListShipments returns a filtered, paginated shipment listing
func (h *ShipmentHandler) ListShipments(c *gin.Context) {
	fromDate, err := parseDateParam(c.Query("from_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from_date"})
		return
	}
	toDate, err := parseDateParam(c.Query("to_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to_date"})
		return
	}

	filters := repository.ShipmentFilters{
		Status:   models.ShipmentStatus(c.Query("status")),
		Carrier:  c.Query("carrier"),
		FromDate: fromDate,
		ToDate:   toDate,
		Search:   c.Query("search"),
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.shipmentService.List(organizationID(c), filters, repository.Pagination{Page: page, Limit: limit})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateShipment applies partial updates to a shipment
func (h *ShipmentHandler) UpdateShipment(c *gin.Context) {
	var update repository.ShipmentUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update format: " + err.Error()})
		return
	}

	shipment, err := h.shipmentService.Update(c.Param("id"), &update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Shipment updated successfully",
		"shipment":  shipment,
		"timestamp": time.Now(),
	})
}

// UpdateShipmentStatus moves a shipment through its lifecycle
func (h *ShipmentHandler) UpdateShipmentStatus(c *gin.Context) {
	var update repository.StatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status format: " + err.Error()})
		return
	}

	shipment, err := h.shipmentService.UpdateStatus(c.Param("id"), &update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Shipment status updated",
		"shipment":  shipment,
		"timestamp": time.Now(),
	})
}

// AddTrackingEvent appends a tracking event to a shipment
func (h *ShipmentHandler) AddTrackingEvent(c *gin.Context) {
	var input repository.TrackingEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event format: " + err.Error()})
		return
	}

	shipment, err := h.shipmentService.AddTrackingEvent(c.Param("id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Tracking event added",
		"shipment":  shipment,
		"timestamp": time.Now(),
	})
}

// AddShipmentDocument attaches a shipping document
func (h *ShipmentHandler) AddShipmentDocument(c *gin.Context) {
	var input repository.ShipmentDocInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document format: " + err.Error()})
		return
	}

	shipment, err := h.shipmentService.AddDocument(c.Param("id"), &input, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Document added successfully",
		"shipment":  shipment,
		"timestamp": time.Now(),
	})
}

// GetRates quotes shipping rates across carriers
func (h *ShipmentHandler) GetRates(c *gin.Context) {
	var req repository.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rate request format: " + err.Error()})
		return
	}

	rates, err := h.shipmentService.GetRates(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rates":     rates,
		"count":     len(rates),
		"timestamp": time.Now(),
	})
}

// OffsetCarbon purchases carbon offsets against a shipment's footprint
func (h *ShipmentHandler) OffsetCarbon(c *gin.Context) {
	var req repository.OffsetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset format: " + err.Error()})
		return
	}

	shipment, err := h.shipmentService.OffsetCarbon(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Carbon offset recorded",
		"shipment":  shipment,
		"timestamp": time.Now(),
	})
}

// GetAnalytics returns delivery and emissions analytics for a date window
func (h *ShipmentHandler) GetAnalytics(c *gin.Context) {
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
		return
	}

	analytics, err := h.shipmentService.GetAnalytics(organizationID(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analytics": analytics,
		"timestamp": time.Now(),
	})
}

// GetActiveShipments returns shipments currently in flight
func (h *ShipmentHandler) GetActiveShipments(c *gin.Context) {
	shipments, err := h.shipmentService.GetActiveShipments(organizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shipments": shipments,
		"count":     len(shipments),
		"timestamp": time.Now(),
	})
}

// GetDeliveryExceptions returns shipments in exception status
func (h *ShipmentHandler) GetDeliveryExceptions(c *gin.Context) {
	shipments, err := h.shipmentService.GetDeliveryExceptions(organizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shipments": shipments,
		"count":     len(shipments),
		"timestamp": time.Now(),
	})
}

// CancelShipment cancels a shipment with a reason
func (h *ShipmentHandler) CancelShipment(c *gin.Context) {
	type CancelRequest struct {
		Reason string `json:"reason" binding:"required"`
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cancel format: " + err.Error()})
		return
	}

	shipment, err := h.shipmentService.Cancel(c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Shipment cancelled",
		"shipment":  shipment,
		"timestamp": time.Now(),
	})
}

// SchedulePickup books a pickup date for a shipment
func (h *ShipmentHandler) SchedulePickup(c *gin.Context) {
	var req repository.PickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pickup format: " + err.Error()})
		return
	}

	shipment, err := h.shipmentService.SchedulePickup(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Pickup scheduled",
		"shipment":  shipment,
		"timestamp": time.Now(),
	})
}

// RefreshTracking pulls fresh scan events from the carrier
func (h *ShipmentHandler) RefreshTracking(c *gin.Context) {
	shipment, err := h.shipmentService.RefreshTracking(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Tracking refreshed",
		"shipment":  shipment,
		"timestamp": time.Now(),
	})
}
