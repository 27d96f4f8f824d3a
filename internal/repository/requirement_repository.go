package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greenchainz/greenchainz-api/internal/models"
)

// requirementRepository implements RequirementRepository
type requirementRepository struct {
	db dbExecutor
}

// NewRequirementRepository creates a new compliance requirement repository
func NewRequirementRepository(db dbExecutor) RequirementRepository {
	return &requirementRepository{db: db}
}

// Create inserts a new compliance requirement
func (r *requirementRepository) Create(req *models.ComplianceRequirement) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now

	query := `
		INSERT INTO compliance_requirements (
			id, requirement_id, organization_id, name, category, description,
			mandatory, applicable_supplier_tiers, document_required, frequency,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(query,
		req.ID, req.RequirementID, req.OrganizationID, req.Name, req.Category,
		req.Description, req.Mandatory, req.ApplicableSupplierTiers,
		req.DocumentRequired, req.Frequency, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create requirement: %w", err)
	}
	return nil
}

// List retrieves an organization's compliance requirements
func (r *requirementRepository) List(organizationID string) ([]models.ComplianceRequirement, error) {
	query := `
		SELECT id, requirement_id, organization_id, name, category, description,
			mandatory, applicable_supplier_tiers, document_required, frequency,
			created_at, updated_at
		FROM compliance_requirements
		WHERE organization_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer rows.Close()

	var requirements []models.ComplianceRequirement
	for rows.Next() {
		var req models.ComplianceRequirement
		err := rows.Scan(
			&req.ID, &req.RequirementID, &req.OrganizationID, &req.Name, &req.Category,
			&req.Description, &req.Mandatory, &req.ApplicableSupplierTiers,
			&req.DocumentRequired, &req.Frequency, &req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		requirements = append(requirements, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requirements: %w", err)
	}
	return requirements, nil
}
