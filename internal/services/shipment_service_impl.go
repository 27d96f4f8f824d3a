package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/greenchainz/greenchainz-api/internal/errors"
	"github.com/greenchainz/greenchainz-api/internal/logger"
	"github.com/greenchainz/greenchainz-api/internal/logistics"
	"github.com/greenchainz/greenchainz-api/internal/models"
	"github.com/greenchainz/greenchainz-api/internal/repository"
)

// TrackingClient pulls scan events from a carrier's public tracking page
type TrackingClient interface {
	FetchEvents(carrier models.CarrierInfo) ([]models.ShipmentEvent, error)
	IsHealthy(carrierCode string) bool
}

// shipmentServiceImpl implements ShipmentService
type shipmentServiceImpl struct {
	repos   *repository.Repositories
	engine  *logistics.Engine
	tracker TrackingClient
	log     logger.Logger
}

// newShipmentService creates a new shipment service implementation
func newShipmentService(repos *repository.Repositories, tracker TrackingClient, log logger.Logger) ShipmentService {
	return &shipmentServiceImpl{
		repos:   repos,
		engine:  logistics.NewEngine(),
		tracker: tracker,
		log:     log,
	}
}

var validShippingMethods = map[string]bool{
	models.MethodGround:    true,
	models.MethodExpress:   true,
	models.MethodOvernight: true,
	models.MethodFreight:   true,
	models.MethodOcean:     true,
	models.MethodAir:       true,
}

// Create registers a new shipment in draft status with a synthetic creation
// event. The carbon footprint is computed up front from weight, route and
// method unless the caller supplies one.
func (s *shipmentServiceImpl) Create(organizationID string, input *repository.ShipmentInput, createdBy string) (*models.Shipment, error) {
	if !validShippingMethods[input.ShippingMethod] {
		return nil, apperrors.ValidationError(fmt.Sprintf("unknown shipping method %q", input.ShippingMethod), nil).
			WithOperation("CreateShipment")
	}
	if input.Weight.Total <= 0 {
		return nil, apperrors.ValidationError("weight total must be positive", nil).
			WithOperation("CreateShipment")
	}
	if input.Weight.Unit != models.UnitKg && input.Weight.Unit != models.UnitLb {
		return nil, apperrors.ValidationError(fmt.Sprintf("unknown weight unit %q", input.Weight.Unit), nil).
			WithOperation("CreateShipment")
	}

	shipment := &models.Shipment{
		ShipmentID:      newEntityID("SHP"),
		OrganizationID:  organizationID,
		OrderID:         input.OrderID,
		PurchaseOrderID: input.PurchaseOrderID,
		Status:          models.StatusDraft,
		Origin:          input.Origin,
		Destination:     input.Destination,
		Items:           models.ShipmentItems(input.Items),
		Carrier:         input.Carrier,
		Weight:          input.Weight,
		Dimensions:      input.Dimensions,
		PackageCount:    input.PackageCount,
		PackageType:     input.PackageType,
		ShippingMethod:  input.ShippingMethod,
		Insurance:       input.Insurance,
		Customs:         input.Customs,
		Costs:           input.Costs,
		Notes:           input.Notes,
		Tags:            models.StringList(input.Tags),
		ScheduledPickup: input.ScheduledPickup,
		EstimatedDelivery: input.EstimatedDelivery,
		CreatedBy:       createdBy,
		Events: models.ShipmentEvents{{
			ID:          uuid.NewString(),
			Timestamp:   time.Now(),
			Status:      "created",
			Description: "Shipment created",
		}},
	}

	if input.CarbonFootprint != nil {
		shipment.CarbonFootprint = input.CarbonFootprint
	} else {
		footprint := s.engine.CalculateCarbonFootprint(shipment)
		shipment.CarbonFootprint = &footprint
	}

	if err := s.repos.Shipment.Create(shipment); err != nil {
		return nil, apperrors.DatabaseError("failed to create shipment", err).
			WithOperation("CreateShipment")
	}

	s.log.Info("Created shipment",
		"shipment_id", shipment.ShipmentID,
		"shipping_method", shipment.ShippingMethod,
		"carbon_emissions", shipment.CarbonFootprint.TotalEmissions,
	)
	return shipment, nil
}

// Get retrieves a shipment by its public identifier
func (s *shipmentServiceImpl) Get(shipmentID string) (*models.Shipment, error) {
	shipment, err := s.repos.Shipment.GetByShipmentID(shipmentID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound(fmt.Sprintf("shipment %s not found", shipmentID), err)
		}
		return nil, apperrors.DatabaseError("failed to get shipment", err)
	}
	return shipment, nil
}

// List retrieves a filtered, paginated page of an organization's shipments
func (s *shipmentServiceImpl) List(organizationID string, filters repository.ShipmentFilters, page repository.Pagination) (*repository.ShipmentPage, error) {
	page = page.Normalize()

	shipments, total, err := s.repos.Shipment.List(organizationID, filters, page)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list shipments", err)
	}

	return &repository.ShipmentPage{
		Shipments: shipments,
		Total:     total,
		Page:      page.Page,
		Limit:     page.Limit,
	}, nil
}

// Update applies partial field updates to a shipment. Status changes go
// through UpdateStatus; the carbon footprint is never touched here.
func (s *shipmentServiceImpl) Update(shipmentID string, update *repository.ShipmentUpdate) (*models.Shipment, error) {
	shipment, err := s.Get(shipmentID)
	if err != nil {
		return nil, err
	}

	if update.OrderID != nil {
		shipment.OrderID = *update.OrderID
	}
	if update.PurchaseOrderID != nil {
		shipment.PurchaseOrderID = *update.PurchaseOrderID
	}
	if update.Carrier != nil {
		shipment.Carrier = *update.Carrier
	}
	if update.Weight != nil {
		shipment.Weight = *update.Weight
	}
	if update.Dimensions != nil {
		shipment.Dimensions = update.Dimensions
	}
	if update.PackageCount != nil {
		shipment.PackageCount = *update.PackageCount
	}
	if update.PackageType != nil {
		shipment.PackageType = *update.PackageType
	}
	if update.Insurance != nil {
		shipment.Insurance = update.Insurance
	}
	if update.Customs != nil {
		shipment.Customs = update.Customs
	}
	if update.Costs != nil {
		shipment.Costs = *update.Costs
	}
	if update.Notes != nil {
		shipment.Notes = *update.Notes
	}
	if update.Tags != nil {
		shipment.Tags = models.StringList(*update.Tags)
	}
	if update.ScheduledPickup != nil {
		shipment.ScheduledPickup = update.ScheduledPickup
	}
	if update.EstimatedDelivery != nil {
		shipment.EstimatedDelivery = update.EstimatedDelivery
	}

	if err := s.save(shipment, "UpdateShipment"); err != nil {
		return nil, err
	}
	return shipment, nil
}

// UpdateStatus moves a shipment through its lifecycle. Transitions are
// validated against the state machine and every change appends an event.
// Reaching delivered stamps the actual delivery time.
func (s *shipmentServiceImpl) UpdateStatus(shipmentID string, update *repository.StatusUpdate) (*models.Shipment, error) {
	shipment, err := s.Get(shipmentID)
	if err != nil {
		return nil, err
	}

	if err := logistics.ValidateTransition(shipment.Status, update.Status); err != nil {
		return nil, err
	}

	now := time.Now()
	description := update.Description
	if description == "" {
		description = fmt.Sprintf("Status updated to %s", update.Status)
	}

	shipment.Status = update.Status
	shipment.Events = append(shipment.Events, models.ShipmentEvent{
		ID:          uuid.NewString(),
		Timestamp:   now,
		Status:      string(update.Status),
		Location:    update.Location,
		Description: description,
	})

	if update.Status == models.StatusDelivered {
		shipment.ActualDelivery = &now
	}

	if err := s.save(shipment, "UpdateStatus"); err != nil {
		return nil, err
	}

	s.log.Info("Updated shipment status",
		"shipment_id", shipment.ShipmentID,
		"status", shipment.Status,
	)
	return shipment, nil
}

// AddTrackingEvent appends a tracking event without changing the status
func (s *shipmentServiceImpl) AddTrackingEvent(shipmentID string, input *repository.TrackingEventInput) (*models.Shipment, error) {
	shipment, err := s.Get(shipmentID)
	if err != nil {
		return nil, err
	}

	shipment.Events = append(shipment.Events, models.ShipmentEvent{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Status:      input.Status,
		Location:    input.Location,
		Description: input.Description,
		Carrier:     input.Carrier,
	})

	if err := s.save(shipment, "AddTrackingEvent"); err != nil {
		return nil, err
	}
	return shipment, nil
}

// AddDocument attaches a shipping document
func (s *shipmentServiceImpl) AddDocument(shipmentID string, input *repository.ShipmentDocInput, uploadedBy string) (*models.Shipment, error) {
	shipment, err := s.Get(shipmentID)
	if err != nil {
		return nil, err
	}

	shipment.Documents = append(shipment.Documents, models.ShipmentDoc{
		Type:       input.Type,
		Name:       input.Name,
		URL:        input.URL,
		UploadedAt: time.Now(),
		UploadedBy: uploadedBy,
	})

	if err := s.save(shipment, "AddDocument"); err != nil {
		return nil, err
	}
	return shipment, nil
}

// GetRates quotes the carrier rate table for a prospective shipment
func (s *shipmentServiceImpl) GetRates(req *repository.RateRequest) ([]models.ShipmentRate, error) {
	if req.Weight <= 0 {
		return nil, apperrors.ValidationError("weight must be positive", nil).
			WithOperation("GetShippingRates")
	}

	unit := req.WeightUnit
	if unit == "" {
		unit = models.UnitKg
	}
	if unit != models.UnitKg && unit != models.UnitLb {
		return nil, apperrors.ValidationError(fmt.Sprintf("unknown weight unit %q", unit), nil).
			WithOperation("GetShippingRates")
	}

	return s.engine.QuoteRates(req.Origin, req.Destination, req.Weight, unit), nil
}

// OffsetCarbon purchases offset credits against a shipment's footprint. A
// shipment without a footprint cannot be offset.
func (s *shipmentServiceImpl) OffsetCarbon(shipmentID string, req *repository.OffsetRequest) (*models.Shipment, error) {
	if req.OffsetType != models.OffsetPartial && req.OffsetType != models.OffsetFull {
		return nil, apperrors.ValidationError("offset_type must be partial or full", nil).
			WithOperation("OffsetCarbonEmissions")
	}

	shipment, err := s.Get(shipmentID)
	if err != nil {
		return nil, err
	}

	if shipment.CarbonFootprint == nil {
		return nil, apperrors.ValidationError(fmt.Sprintf("shipment %s has no carbon footprint to offset", shipmentID), nil).
			WithOperation("OffsetCarbonEmissions")
	}

	shipment.CarbonFootprint.OffsetStatus = req.OffsetType
	shipment.CarbonFootprint.OffsetCredits = s.engine.RequiredOffsetCredits(*shipment.CarbonFootprint, req.OffsetType, req.Credits)

	if err := s.save(shipment, "OffsetCarbonEmissions"); err != nil {
		return nil, err
	}

	s.log.Info("Offset shipment carbon emissions",
		"shipment_id", shipment.ShipmentID,
		"offset_status", shipment.CarbonFootprint.OffsetStatus,
		"offset_credits", shipment.CarbonFootprint.OffsetCredits,
	)
	return shipment, nil
}

// GetAnalytics builds the delivery report over a creation-date window. An
// open-ended window defaults to the last 90 days.
func (s *shipmentServiceImpl) GetAnalytics(organizationID string, from, to *time.Time) (*models.ShipmentAnalytics, error) {
	now := time.Now()
	start := now.Add(-90 * 24 * time.Hour)
	end := now
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}

	shipments, err := s.repos.Shipment.ListByDateRange(organizationID, start, end)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list shipments", err).
			WithOperation("GetShipmentAnalytics")
	}

	return s.engine.BuildAnalytics(shipments), nil
}

// GetActiveShipments lists in-flight shipments ordered by estimated delivery
func (s *shipmentServiceImpl) GetActiveShipments(organizationID string) ([]models.Shipment, error) {
	active := []models.ShipmentStatus{
		models.StatusBooked,
		models.StatusPickedUp,
		models.StatusInTransit,
		models.StatusOutForDelivery,
	}

	shipments, err := s.repos.Shipment.ListByStatuses(organizationID, active, "estimated_delivery ASC NULLS LAST")
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list active shipments", err)
	}
	return shipments, nil
}

// GetDeliveryExceptions lists shipments stuck in exception status
func (s *shipmentServiceImpl) GetDeliveryExceptions(organizationID string) ([]models.Shipment, error) {
	shipments, err := s.repos.Shipment.ListByStatuses(organizationID, []models.ShipmentStatus{models.StatusException}, "updated_at DESC")
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list delivery exceptions", err)
	}
	return shipments, nil
}

// Cancel moves a shipment to cancelled with the reason in the event trail
func (s *shipmentServiceImpl) Cancel(shipmentID, reason string) (*models.Shipment, error) {
	return s.UpdateStatus(shipmentID, &repository.StatusUpdate{
		Status:      models.StatusCancelled,
		Description: fmt.Sprintf("Cancelled: %s", reason),
	})
}

// SchedulePickup records a pickup date and books the shipment
func (s *shipmentServiceImpl) SchedulePickup(shipmentID string, req *repository.PickupRequest) (*models.Shipment, error) {
	shipment, err := s.Get(shipmentID)
	if err != nil {
		return nil, err
	}

	if shipment.Status != models.StatusBooked {
		if err := logistics.ValidateTransition(shipment.Status, models.StatusBooked); err != nil {
			return nil, err
		}
		shipment.Status = models.StatusBooked
	}

	pickupDate := req.PickupDate
	shipment.ScheduledPickup = &pickupDate
	shipment.Events = append(shipment.Events, models.ShipmentEvent{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Status:      "pickup_scheduled",
		Description: fmt.Sprintf("Pickup scheduled for %s", pickupDate.Format("2006-01-02")),
	})

	if err := s.save(shipment, "SchedulePickup"); err != nil {
		return nil, err
	}
	return shipment, nil
}

// RefreshTracking pulls scan events from the carrier's public tracking page
// and appends any the shipment does not already have. Tracking failures are
// non-fatal; the shipment is returned unchanged.
func (s *shipmentServiceImpl) RefreshTracking(shipmentID string) (*models.Shipment, error) {
	shipment, err := s.Get(shipmentID)
	if err != nil {
		return nil, err
	}

	if shipment.Carrier.TrackingNumber == "" {
		return nil, apperrors.ValidationError(fmt.Sprintf("shipment %s has no tracking number", shipmentID), nil).
			WithOperation("RefreshTracking")
	}

	// Back off carriers whose tracking page keeps failing
	if !s.tracker.IsHealthy(shipment.Carrier.Code) {
		s.log.Warn("Skipping tracking refresh for unhealthy carrier",
			"shipment_id", shipment.ShipmentID,
			"carrier", shipment.Carrier.Code,
		)
		return shipment, nil
	}

	events, err := s.tracker.FetchEvents(shipment.Carrier)
	if err != nil {
		s.log.Warn("Tracking refresh failed",
			"shipment_id", shipment.ShipmentID,
			"carrier", shipment.Carrier.Code,
			"error", err,
		)
		return shipment, nil
	}

	seen := make(map[string]bool, len(shipment.Events))
	for _, e := range shipment.Events {
		seen[eventKey(e)] = true
	}

	added := 0
	for _, e := range events {
		if seen[eventKey(e)] {
			continue
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		shipment.Events = append(shipment.Events, e)
		added++
	}

	if added == 0 {
		return shipment, nil
	}

	if err := s.save(shipment, "RefreshTracking"); err != nil {
		return nil, err
	}

	s.log.Info("Refreshed shipment tracking",
		"shipment_id", shipment.ShipmentID,
		"new_events", added,
	)
	return shipment, nil
}

// eventKey identifies an event for dedup across tracking refreshes
func eventKey(e models.ShipmentEvent) string {
	return fmt.Sprintf("%s|%s|%s", e.Timestamp.UTC().Format(time.RFC3339), e.Status, e.Location)
}

func (s *shipmentServiceImpl) save(shipment *models.Shipment, operation string) error {
	if err := s.repos.Shipment.Update(shipment); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound(fmt.Sprintf("shipment %s not found", shipment.ShipmentID), err).
				WithOperation(operation)
		}
		return apperrors.DatabaseError("failed to update shipment", err).WithOperation(operation)
	}
	return nil
}
