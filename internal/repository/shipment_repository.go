package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greenchainz/greenchainz-api/internal/models"
)

// shipmentRepository implements ShipmentRepository
type shipmentRepository struct {
	db dbExecutor
}

// NewShipmentRepository creates a new shipment repository
func NewShipmentRepository(db dbExecutor) ShipmentRepository {
	return &shipmentRepository{db: db}
}

const shipmentColumns = `
	id, shipment_id, organization_id, order_id, purchase_order_id,
	status, origin, destination, items, carrier, weight, dimensions,
	package_count, package_type, shipping_method, insurance, customs,
	costs, carbon_footprint, documents, events, notes, tags,
	scheduled_pickup, actual_pickup, estimated_delivery, actual_delivery,
	created_at, updated_at, created_by
`

func scanShipment(row rowScanner) (*models.Shipment, error) {
	s := &models.Shipment{}
	var dimensionsRaw, insuranceRaw, customsRaw, footprintRaw []byte

	err := row.Scan(
		&s.ID, &s.ShipmentID, &s.OrganizationID, &s.OrderID, &s.PurchaseOrderID,
		&s.Status, &s.Origin, &s.Destination, &s.Items, &s.Carrier, &s.Weight, &dimensionsRaw,
		&s.PackageCount, &s.PackageType, &s.ShippingMethod, &insuranceRaw, &customsRaw,
		&s.Costs, &footprintRaw, &s.Documents, &s.Events, &s.Notes, &s.Tags,
		&s.ScheduledPickup, &s.ActualPickup, &s.EstimatedDelivery, &s.ActualDelivery,
		&s.CreatedAt, &s.UpdatedAt, &s.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	if len(dimensionsRaw) > 0 {
		s.Dimensions = &models.Dimensions{}
		if err := json.Unmarshal(dimensionsRaw, s.Dimensions); err != nil {
			return nil, fmt.Errorf("failed to decode dimensions: %w", err)
		}
	}
	if len(insuranceRaw) > 0 {
		s.Insurance = &models.Insurance{}
		if err := json.Unmarshal(insuranceRaw, s.Insurance); err != nil {
			return nil, fmt.Errorf("failed to decode insurance: %w", err)
		}
	}
	if len(customsRaw) > 0 {
		s.Customs = &models.Customs{}
		if err := json.Unmarshal(customsRaw, s.Customs); err != nil {
			return nil, fmt.Errorf("failed to decode customs: %w", err)
		}
	}
	if len(footprintRaw) > 0 {
		s.CarbonFootprint = &models.CarbonFootprint{}
		if err := json.Unmarshal(footprintRaw, s.CarbonFootprint); err != nil {
			return nil, fmt.Errorf("failed to decode carbon footprint: %w", err)
		}
	}
	return s, nil
}

func (r *shipmentRepository) nullableColumns(s *models.Shipment) (dimensions, insurance, customs, footprint interface{}, err error) {
	if dimensions, err = marshalNullable(s.Dimensions != nil, s.Dimensions); err != nil {
		return
	}
	if insurance, err = marshalNullable(s.Insurance != nil, s.Insurance); err != nil {
		return
	}
	if customs, err = marshalNullable(s.Customs != nil, s.Customs); err != nil {
		return
	}
	footprint, err = marshalNullable(s.CarbonFootprint != nil, s.CarbonFootprint)
	return
}

// Create inserts a new shipment
func (r *shipmentRepository) Create(s *models.Shipment) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	dimensionsJSON, insuranceJSON, customsJSON, footprintJSON, err := r.nullableColumns(s)
	if err != nil {
		return fmt.Errorf("failed to encode shipment: %w", err)
	}

	query := `
		INSERT INTO shipments (
			id, shipment_id, organization_id, order_id, purchase_order_id,
			status, origin, destination, items, carrier, weight, dimensions,
			package_count, package_type, shipping_method, insurance, customs,
			costs, carbon_footprint, documents, events, notes, tags,
			scheduled_pickup, actual_pickup, estimated_delivery, actual_delivery,
			created_at, updated_at, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30
		)
	`

	_, err = r.db.Exec(query,
		s.ID, s.ShipmentID, s.OrganizationID, s.OrderID, s.PurchaseOrderID,
		s.Status, s.Origin, s.Destination, s.Items, s.Carrier, s.Weight, dimensionsJSON,
		s.PackageCount, s.PackageType, s.ShippingMethod, insuranceJSON, customsJSON,
		s.Costs, footprintJSON, s.Documents, s.Events, s.Notes, s.Tags,
		s.ScheduledPickup, s.ActualPickup, s.EstimatedDelivery, s.ActualDelivery,
		s.CreatedAt, s.UpdatedAt, s.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create shipment: %w", err)
	}
	return nil
}

// GetByShipmentID retrieves a shipment by its public identifier
func (r *shipmentRepository) GetByShipmentID(shipmentID string) (*models.Shipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM shipments WHERE shipment_id = $1`, shipmentColumns)

	s, err := scanShipment(r.db.QueryRow(query, shipmentID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}
	return s, nil
}

// List retrieves an organization's shipments with filters and pagination,
// returning the page and the total matching count
func (r *shipmentRepository) List(organizationID string, filters ShipmentFilters, page Pagination) ([]models.Shipment, int, error) {
	page = page.Normalize()

	where := "WHERE organization_id = $1"
	args := []interface{}{organizationID}

	if filters.Status != "" {
		args = append(args, filters.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.Carrier != "" {
		args = append(args, filters.Carrier)
		where += fmt.Sprintf(" AND carrier->>'code' = $%d", len(args))
	}
	if filters.FromDate != nil {
		args = append(args, *filters.FromDate)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filters.ToDate != nil {
		args = append(args, *filters.ToDate)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (shipment_id ILIKE $%d
			OR carrier->>'tracking_number' ILIKE $%d
			OR destination->>'name' ILIKE $%d
			OR destination->>'company' ILIKE $%d)`, n, n, n, n)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM shipments " + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shipments: %w", err)
	}

	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf("SELECT %s FROM shipments %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		shipmentColumns, where, len(args)-1, len(args))

	shipments, err := r.queryShipments(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return shipments, total, nil
}

// ListByDateRange retrieves all of an organization's shipments created in a window
func (r *shipmentRepository) ListByDateRange(organizationID string, from, to time.Time) ([]models.Shipment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM shipments
		WHERE organization_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC
	`, shipmentColumns)

	return r.queryShipments(query, organizationID, from, to)
}

// ListByStatuses retrieves shipments in any of the given statuses
func (r *shipmentRepository) ListByStatuses(organizationID string, statuses []models.ShipmentStatus, orderBy string) ([]models.Shipment, error) {
	if orderBy == "" {
		orderBy = "updated_at DESC"
	}

	args := []interface{}{organizationID}
	placeholders := ""
	for i, status := range statuses {
		args = append(args, status)
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", len(args))
	}

	query := fmt.Sprintf(`
		SELECT %s FROM shipments
		WHERE organization_id = $1 AND status IN (%s)
		ORDER BY %s
	`, shipmentColumns, placeholders, orderBy)

	return r.queryShipments(query, args...)
}

// Update writes the full shipment document back
func (r *shipmentRepository) Update(s *models.Shipment) error {
	s.UpdatedAt = time.Now()

	dimensionsJSON, insuranceJSON, customsJSON, footprintJSON, err := r.nullableColumns(s)
	if err != nil {
		return fmt.Errorf("failed to encode shipment: %w", err)
	}

	query := `
		UPDATE shipments SET
			order_id = $2, purchase_order_id = $3, status = $4,
			origin = $5, destination = $6, items = $7, carrier = $8, weight = $9,
			dimensions = $10, package_count = $11, package_type = $12,
			shipping_method = $13, insurance = $14, customs = $15, costs = $16,
			carbon_footprint = $17, documents = $18, events = $19, notes = $20,
			tags = $21, scheduled_pickup = $22, actual_pickup = $23,
			estimated_delivery = $24, actual_delivery = $25, updated_at = $26
		WHERE shipment_id = $1
	`

	result, err := r.db.Exec(query,
		s.ShipmentID, s.OrderID, s.PurchaseOrderID, s.Status,
		s.Origin, s.Destination, s.Items, s.Carrier, s.Weight,
		dimensionsJSON, s.PackageCount, s.PackageType,
		s.ShippingMethod, insuranceJSON, customsJSON, s.Costs,
		footprintJSON, s.Documents, s.Events, s.Notes,
		s.Tags, s.ScheduledPickup, s.ActualPickup,
		s.EstimatedDelivery, s.ActualDelivery, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update shipment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *shipmentRepository) queryShipments(query string, args ...interface{}) ([]models.Shipment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipments: %w", err)
	}
	defer rows.Close()

	var shipments []models.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		shipments = append(shipments, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shipments: %w", err)
	}
	return shipments, nil
}
