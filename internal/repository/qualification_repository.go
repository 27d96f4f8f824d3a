package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greenchainz/greenchainz-api/internal/models"
)

// ErrNotFound is returned when a lookup matches no record
var ErrNotFound = sql.ErrNoRows

// qualificationRepository implements QualificationRepository
type qualificationRepository struct {
	db dbExecutor
}

// NewQualificationRepository creates a new qualification repository
func NewQualificationRepository(db dbExecutor) QualificationRepository {
	return &qualificationRepository{db: db}
}

const qualificationColumns = `
	id, qualification_id, supplier_id, supplier_name, organization_id,
	status, tier, overall_score, scores, documents,
	risk_assessment, overall_risk_level, certifications, sustainability_profile,
	compliance_checks, qualification_date, requalification_due,
	last_review_date, next_review_date, review_history,
	created_at, updated_at, created_by
`

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQualification(row rowScanner) (*models.SupplierQualification, error) {
	q := &models.SupplierQualification{}
	var profileRaw []byte

	err := row.Scan(
		&q.ID, &q.QualificationID, &q.SupplierID, &q.SupplierName, &q.OrganizationID,
		&q.Status, &q.Tier, &q.OverallScore, &q.Scores, &q.Documents,
		&q.RiskAssessment, &q.OverallRiskLevel, &q.Certifications, &profileRaw,
		&q.ComplianceChecks, &q.QualificationDate, &q.RequalificationDue,
		&q.LastReviewDate, &q.NextReviewDate, &q.ReviewHistory,
		&q.CreatedAt, &q.UpdatedAt, &q.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	if len(profileRaw) > 0 {
		q.SustainabilityProfile = &models.SustainabilityProfile{}
		if err := json.Unmarshal(profileRaw, q.SustainabilityProfile); err != nil {
			return nil, fmt.Errorf("failed to decode sustainability profile: %w", err)
		}
	}
	return q, nil
}

// Create inserts a new qualification
func (r *qualificationRepository) Create(q *models.SupplierQualification) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}

	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now

	profileJSON, err := marshalNullable(q.SustainabilityProfile != nil, q.SustainabilityProfile)
	if err != nil {
		return fmt.Errorf("failed to encode sustainability profile: %w", err)
	}

	query := `
		INSERT INTO supplier_qualifications (
			id, qualification_id, supplier_id, supplier_name, organization_id,
			status, tier, overall_score, scores, documents,
			risk_assessment, overall_risk_level, certifications, sustainability_profile,
			compliance_checks, qualification_date, requalification_due,
			last_review_date, next_review_date, review_history,
			created_at, updated_at, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23
		)
	`

	_, err = r.db.Exec(query,
		q.ID, q.QualificationID, q.SupplierID, q.SupplierName, q.OrganizationID,
		q.Status, q.Tier, q.OverallScore, q.Scores, q.Documents,
		q.RiskAssessment, q.OverallRiskLevel, q.Certifications, profileJSON,
		q.ComplianceChecks, q.QualificationDate, q.RequalificationDue,
		q.LastReviewDate, q.NextReviewDate, q.ReviewHistory,
		q.CreatedAt, q.UpdatedAt, q.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create qualification: %w", err)
	}
	return nil
}

// GetByQualificationID retrieves a qualification by its public identifier
func (r *qualificationRepository) GetByQualificationID(qualificationID string) (*models.SupplierQualification, error) {
	query := fmt.Sprintf(`SELECT %s FROM supplier_qualifications WHERE qualification_id = $1`, qualificationColumns)

	q, err := scanQualification(r.db.QueryRow(query, qualificationID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get qualification: %w", err)
	}
	return q, nil
}

// GetBySupplierID retrieves a qualification by supplier
func (r *qualificationRepository) GetBySupplierID(supplierID string) (*models.SupplierQualification, error) {
	query := fmt.Sprintf(`SELECT %s FROM supplier_qualifications WHERE supplier_id = $1`, qualificationColumns)

	q, err := scanQualification(r.db.QueryRow(query, supplierID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get qualification: %w", err)
	}
	return q, nil
}

// List retrieves an organization's qualifications, newest updates first
func (r *qualificationRepository) List(organizationID string, filters QualificationFilters) ([]models.SupplierQualification, error) {
	query := fmt.Sprintf(`SELECT %s FROM supplier_qualifications WHERE organization_id = $1`, qualificationColumns)
	args := []interface{}{organizationID}

	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.Tier != "" {
		args = append(args, filters.Tier)
		query += fmt.Sprintf(" AND tier = $%d", len(args))
	}
	if filters.RiskLevel != "" {
		args = append(args, filters.RiskLevel)
		query += fmt.Sprintf(" AND overall_risk_level = $%d", len(args))
	}
	if filters.RequalificationDue {
		args = append(args, time.Now().Add(30*24*time.Hour))
		query += fmt.Sprintf(" AND requalification_due IS NOT NULL AND requalification_due <= $%d", len(args))
	}

	query += " ORDER BY updated_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list qualifications: %w", err)
	}
	defer rows.Close()

	var qualifications []models.SupplierQualification
	for rows.Next() {
		q, err := scanQualification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan qualification: %w", err)
		}
		qualifications = append(qualifications, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate qualifications: %w", err)
	}
	return qualifications, nil
}

// Update writes the full qualification document back
func (r *qualificationRepository) Update(q *models.SupplierQualification) error {
	q.UpdatedAt = time.Now()

	profileJSON, err := marshalNullable(q.SustainabilityProfile != nil, q.SustainabilityProfile)
	if err != nil {
		return fmt.Errorf("failed to encode sustainability profile: %w", err)
	}

	query := `
		UPDATE supplier_qualifications SET
			supplier_name = $2, status = $3, tier = $4, overall_score = $5,
			scores = $6, documents = $7, risk_assessment = $8, overall_risk_level = $9,
			certifications = $10, sustainability_profile = $11, compliance_checks = $12,
			qualification_date = $13, requalification_due = $14,
			last_review_date = $15, next_review_date = $16, review_history = $17,
			updated_at = $18
		WHERE qualification_id = $1
	`

	result, err := r.db.Exec(query,
		q.QualificationID, q.SupplierName, q.Status, q.Tier, q.OverallScore,
		q.Scores, q.Documents, q.RiskAssessment, q.OverallRiskLevel,
		q.Certifications, profileJSON, q.ComplianceChecks,
		q.QualificationDate, q.RequalificationDue,
		q.LastReviewDate, q.NextReviewDate, q.ReviewHistory,
		q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update qualification: %w", err)
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

// marshalNullable returns nil for absent optional JSONB values
func marshalNullable(present bool, v interface{}) (interface{}, error) {
	if !present {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}
