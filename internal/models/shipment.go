package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// ShipmentStatus is a shipment lifecycle state
type ShipmentStatus string

// Shipment statuses. The happy path is linear; exception, returned and
// cancelled are side exits (see logistics.CanTransition).
const (
	StatusDraft          ShipmentStatus = "draft"
	StatusBooked         ShipmentStatus = "booked"
	StatusPickedUp       ShipmentStatus = "picked_up"
	StatusInTransit      ShipmentStatus = "in_transit"
	StatusOutForDelivery ShipmentStatus = "out_for_delivery"
	StatusDelivered      ShipmentStatus = "delivered"
	StatusException      ShipmentStatus = "exception"
	StatusReturned       ShipmentStatus = "returned"
	StatusCancelled      ShipmentStatus = "cancelled"
)

// Shipping methods
const (
	MethodGround    = "ground"
	MethodExpress   = "express"
	MethodOvernight = "overnight"
	MethodFreight   = "freight"
	MethodOcean     = "ocean"
	MethodAir       = "air"
)

// Weight units
const (
	UnitKg = "kg"
	UnitLb = "lb"
)

// Carbon offset statuses
const (
	OffsetNone    = "none"
	OffsetPartial = "partial"
	OffsetFull    = "full"
)

// ShipmentAddress is an origin or destination address
type ShipmentAddress struct {
	Name       string `json:"name"`
	Company    string `json:"company,omitempty"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

func (a ShipmentAddress) Value() (driver.Value, error) {
	return jsonbValue(a)
}

func (a *ShipmentAddress) Scan(value interface{}) error {
	return jsonbScan(a, value)
}

// Dimensions are package dimensions
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"` // cm/in
}

// ShipmentItem is a line item in a shipment
type ShipmentItem struct {
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	SKU         string      `json:"sku"`
	Quantity    int         `json:"quantity"`
	Weight      float64     `json:"weight"`
	WeightUnit  string      `json:"weight_unit"`
	Dimensions  *Dimensions `json:"dimensions,omitempty"`
	Value       float64     `json:"value"`
	Currency    string      `json:"currency"`
	HSCode      string      `json:"hs_code,omitempty"`
}

// ShipmentItems is a JSONB-backed item list
type ShipmentItems []ShipmentItem

func (s ShipmentItems) Value() (driver.Value, error) {
	if s == nil {
		return jsonbValue([]ShipmentItem{})
	}
	return jsonbValue(s)
}

func (s *ShipmentItems) Scan(value interface{}) error {
	if value == nil {
		*s = ShipmentItems{}
		return nil
	}
	return jsonbScan(s, value)
}

// ShipmentEvent is one entry in a shipment's audit trail
type ShipmentEvent struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	Carrier     string    `json:"carrier,omitempty"`
}

// ShipmentEvents is a JSONB-backed event log
type ShipmentEvents []ShipmentEvent

func (e ShipmentEvents) Value() (driver.Value, error) {
	if e == nil {
		return jsonbValue([]ShipmentEvent{})
	}
	return jsonbValue(e)
}

func (e *ShipmentEvents) Scan(value interface{}) error {
	if value == nil {
		*e = ShipmentEvents{}
		return nil
	}
	return jsonbScan(e, value)
}

// CarrierInfo describes the carrier handling a shipment
type CarrierInfo struct {
	Name              string     `json:"name"`
	Code              string     `json:"code"`
	ServiceType       string     `json:"service_type"`
	TrackingNumber    string     `json:"tracking_number"`
	TrackingURL       string     `json:"tracking_url,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`
}

func (c CarrierInfo) Value() (driver.Value, error) {
	return jsonbValue(c)
}

func (c *CarrierInfo) Scan(value interface{}) error {
	return jsonbScan(c, value)
}

// ShipmentWeight is the total shipment weight
type ShipmentWeight struct {
	Total float64 `json:"total"`
	Unit  string  `json:"unit"` // kg/lb
}

func (w ShipmentWeight) Value() (driver.Value, error) {
	return jsonbValue(w)
}

func (w *ShipmentWeight) Scan(value interface{}) error {
	return jsonbScan(w, value)
}

// ShipmentDoc is a shipping document (bill of lading, invoice, ...)
type ShipmentDoc struct {
	Type       string    `json:"type"` // bill_of_lading/commercial_invoice/packing_list/customs_declaration/certificate_of_origin/other
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy string    `json:"uploaded_by"`
}

// ShipmentDocs is a JSONB-backed document list
type ShipmentDocs []ShipmentDoc

func (d ShipmentDocs) Value() (driver.Value, error) {
	if d == nil {
		return jsonbValue([]ShipmentDoc{})
	}
	return jsonbValue(d)
}

func (d *ShipmentDocs) Scan(value interface{}) error {
	if value == nil {
		*d = ShipmentDocs{}
		return nil
	}
	return jsonbScan(d, value)
}

// Insurance is optional shipment insurance coverage
type Insurance struct {
	Provider     string  `json:"provider"`
	PolicyNumber string  `json:"policy_number"`
	Coverage     float64 `json:"coverage"`
	Currency     string  `json:"currency"`
}

// Customs holds customs clearance details for international shipments
type Customs struct {
	DeclarationNumber string  `json:"declaration_number,omitempty"`
	DutyAmount        float64 `json:"duty_amount,omitempty"`
	TaxAmount         float64 `json:"tax_amount,omitempty"`
	Currency          string  `json:"currency,omitempty"`
	ClearanceStatus   string  `json:"clearance_status"` // pending/in_progress/cleared/held
}

// ShipmentCosts is the shipment cost breakdown
type ShipmentCosts struct {
	Shipping  float64 `json:"shipping"`
	Insurance float64 `json:"insurance,omitempty"`
	Customs   float64 `json:"customs,omitempty"`
	Handling  float64 `json:"handling,omitempty"`
	Total     float64 `json:"total"`
	Currency  string  `json:"currency"`
}

func (c ShipmentCosts) Value() (driver.Value, error) {
	return jsonbValue(c)
}

func (c *ShipmentCosts) Scan(value interface{}) error {
	return jsonbScan(c, value)
}

// CarbonFootprint is the estimated emissions for a shipment. It is computed
// once at creation and mutated only by explicit offset operations.
type CarbonFootprint struct {
	TotalEmissions float64 `json:"total_emissions"`
	Unit           string  `json:"unit"` // always kgCO2e
	TransportMode  string  `json:"transport_mode"`
	Distance       float64 `json:"distance"`
	DistanceUnit   string  `json:"distance_unit"` // km
	OffsetStatus   string  `json:"offset_status"`
	OffsetCredits  float64 `json:"offset_credits,omitempty"`
}

// Shipment is the shipment aggregate
type Shipment struct {
	ID              uuid.UUID `json:"id" db:"id"`
	ShipmentID      string    `json:"shipment_id" db:"shipment_id"`
	OrganizationID  string    `json:"organization_id" db:"organization_id"`
	OrderID         string    `json:"order_id,omitempty" db:"order_id"`
	PurchaseOrderID string    `json:"purchase_order_id,omitempty" db:"purchase_order_id"`

	Status ShipmentStatus `json:"status" db:"status"`

	Origin      ShipmentAddress `json:"origin" db:"origin"`
	Destination ShipmentAddress `json:"destination" db:"destination"`

	Items ShipmentItems `json:"items" db:"items"`

	Carrier CarrierInfo    `json:"carrier" db:"carrier"`
	Weight  ShipmentWeight `json:"weight" db:"weight"`

	Dimensions *Dimensions `json:"dimensions,omitempty" db:"dimensions"`

	PackageCount int    `json:"package_count" db:"package_count"`
	PackageType  string `json:"package_type" db:"package_type"` // box/pallet/crate/envelope/tube/other

	ShippingMethod string `json:"shipping_method" db:"shipping_method"`

	Insurance *Insurance `json:"insurance,omitempty" db:"insurance"`
	Customs   *Customs   `json:"customs,omitempty" db:"customs"`

	Costs ShipmentCosts `json:"costs" db:"costs"`

	CarbonFootprint *CarbonFootprint `json:"carbon_footprint,omitempty" db:"carbon_footprint"`

	Documents ShipmentDocs   `json:"documents" db:"documents"`
	Events    ShipmentEvents `json:"events" db:"events"`

	Notes string     `json:"notes,omitempty" db:"notes"`
	Tags  StringList `json:"tags,omitempty" db:"tags"`

	ScheduledPickup   *time.Time `json:"scheduled_pickup,omitempty" db:"scheduled_pickup"`
	ActualPickup      *time.Time `json:"actual_pickup,omitempty" db:"actual_pickup"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty" db:"estimated_delivery"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty" db:"actual_delivery"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy string    `json:"created_by" db:"created_by"`
}

// ShipmentRate is a single carrier quote
type ShipmentRate struct {
	Carrier         string  `json:"carrier"`
	CarrierCode     string  `json:"carrier_code"`
	Service         string  `json:"service"`
	ServiceCode     string  `json:"service_code"`
	Rate            float64 `json:"rate"`
	Currency        string  `json:"currency"`
	EstimatedDays   int     `json:"estimated_days"`
	Guaranteed      bool    `json:"guaranteed"`
	CarbonEmissions float64 `json:"carbon_emissions"`
}

// CarrierPerformance summarizes one carrier's delivery record
type CarrierPerformance struct {
	Carrier         string  `json:"carrier"`
	Shipments       int     `json:"shipments"`
	OnTimeRate      int     `json:"on_time_rate"`
	AvgDeliveryDays float64 `json:"avg_delivery_days"`
}

// ShipmentAnalytics is the aggregate delivery report for an organization
type ShipmentAnalytics struct {
	TotalShipments       int                  `json:"total_shipments"`
	DeliveredOnTime      int                  `json:"delivered_on_time"`
	AverageDeliveryDays  float64              `json:"average_delivery_days"`
	TotalCarbonEmissions float64              `json:"total_carbon_emissions"`
	TotalCarbonOffset    float64              `json:"total_carbon_offset"`
	CostBreakdown        map[string]float64   `json:"cost_breakdown"`
	CarrierPerformance   []CarrierPerformance `json:"carrier_performance"`
}
