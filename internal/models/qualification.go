package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// Qualification status values
const (
	QualificationStatusPending                = "pending"
	QualificationStatusInReview               = "in_review"
	QualificationStatusQualified              = "qualified"
	QualificationStatusConditionallyQualified = "conditionally_qualified"
	QualificationStatusDisqualified           = "disqualified"
	QualificationStatusSuspended              = "suspended"
)

// Supplier tier values
const (
	TierPreferred   = "preferred"
	TierApproved    = "approved"
	TierProvisional = "provisional"
	TierRestricted  = "restricted"
)

// RiskLevel is an ordinal risk rating
type RiskLevel string

// Risk levels, lowest to highest
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ValidRiskLevel reports whether level is a known risk level
func ValidRiskLevel(level RiskLevel) bool {
	switch level {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// QualificationScore is one evaluated criteria score.
// WeightedScore is supplied by the evaluator and is not recomputed from
// Score/MaxScore; see qualification.Engine.
type QualificationScore struct {
	CriteriaID    string    `json:"criteria_id"`
	CriteriaName  string    `json:"criteria_name"`
	Score         float64   `json:"score"`
	MaxScore      float64   `json:"max_score"`
	Weight        float64   `json:"weight"`
	WeightedScore float64   `json:"weighted_score"`
	Evidence      string    `json:"evidence,omitempty"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
	EvaluatedBy   string    `json:"evaluated_by"`
}

// QualificationScores is a JSONB-backed score list
type QualificationScores []QualificationScore

func (s QualificationScores) Value() (driver.Value, error) {
	if s == nil {
		return jsonbValue([]QualificationScore{})
	}
	return jsonbValue(s)
}

func (s *QualificationScores) Scan(value interface{}) error {
	if value == nil {
		*s = QualificationScores{}
		return nil
	}
	return jsonbScan(s, value)
}

// RiskAssessment is a single risk factor rating
type RiskAssessment struct {
	Category       string     `json:"category"`
	Level          RiskLevel  `json:"level"`
	Description    string     `json:"description"`
	MitigationPlan string     `json:"mitigation_plan,omitempty"`
	ReviewDate     *time.Time `json:"review_date,omitempty"`
}

// RiskAssessments is a JSONB-backed risk assessment list
type RiskAssessments []RiskAssessment

func (r RiskAssessments) Value() (driver.Value, error) {
	if r == nil {
		return jsonbValue([]RiskAssessment{})
	}
	return jsonbValue(r)
}

func (r *RiskAssessments) Scan(value interface{}) error {
	if value == nil {
		*r = RiskAssessments{}
		return nil
	}
	return jsonbScan(r, value)
}

// Qualification document status values
const (
	DocumentStatusPending  = "pending"
	DocumentStatusApproved = "approved"
	DocumentStatusRejected = "rejected"
	DocumentStatusExpired  = "expired"
)

// QualificationDocument is an evidence document attached to a qualification
type QualificationDocument struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"` // certification/audit_report/financial_statement/insurance/license/policy/other
	Name           string     `json:"name"`
	URL            string     `json:"url,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Status         string     `json:"status"`
	VerifiedBy     string     `json:"verified_by,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// QualificationDocuments is a JSONB-backed document list
type QualificationDocuments []QualificationDocument

func (d QualificationDocuments) Value() (driver.Value, error) {
	if d == nil {
		return jsonbValue([]QualificationDocument{})
	}
	return jsonbValue(d)
}

func (d *QualificationDocuments) Scan(value interface{}) error {
	if value == nil {
		*d = QualificationDocuments{}
		return nil
	}
	return jsonbScan(d, value)
}

// Certification is a supplier certification record
type Certification struct {
	Name       string    `json:"name"`
	Issuer     string    `json:"issuer"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
	Status     string    `json:"status"` // valid/expiring_soon/expired
}

// Certifications is a JSONB-backed certification list
type Certifications []Certification

func (c Certifications) Value() (driver.Value, error) {
	if c == nil {
		return jsonbValue([]Certification{})
	}
	return jsonbValue(c)
}

func (c *Certifications) Scan(value interface{}) error {
	if value == nil {
		*c = Certifications{}
		return nil
	}
	return jsonbScan(c, value)
}

// ComplianceCheck is a recorded compliance verification
type ComplianceCheck struct {
	Type         string     `json:"type"`
	Status       string     `json:"status"` // passed/failed/pending
	CheckedAt    time.Time  `json:"checked_at"`
	NextCheckDue *time.Time `json:"next_check_due,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// ComplianceChecks is a JSONB-backed compliance check list
type ComplianceChecks []ComplianceCheck

func (c ComplianceChecks) Value() (driver.Value, error) {
	if c == nil {
		return jsonbValue([]ComplianceCheck{})
	}
	return jsonbValue(c)
}

func (c *ComplianceChecks) Scan(value interface{}) error {
	if value == nil {
		*c = ComplianceChecks{}
		return nil
	}
	return jsonbScan(c, value)
}

// ReviewEntry is an append-only audit log record
type ReviewEntry struct {
	Date     time.Time `json:"date"`
	Reviewer string    `json:"reviewer"`
	Action   string    `json:"action"`
	Notes    string    `json:"notes,omitempty"`
}

// ReviewHistory is a JSONB-backed review log
type ReviewHistory []ReviewEntry

func (r ReviewHistory) Value() (driver.Value, error) {
	if r == nil {
		return jsonbValue([]ReviewEntry{})
	}
	return jsonbValue(r)
}

func (r *ReviewHistory) Scan(value interface{}) error {
	if value == nil {
		*r = ReviewHistory{}
		return nil
	}
	return jsonbScan(r, value)
}

// SustainabilityProfile summarizes a supplier's sustainability metrics
type SustainabilityProfile struct {
	CarbonFootprintScore       float64 `json:"carbon_footprint_score"`
	RenewableEnergyUsage       float64 `json:"renewable_energy_usage"`
	WasteReductionScore        float64 `json:"waste_reduction_score"`
	EthicalSourcingScore       float64 `json:"ethical_sourcing_score"`
	OverallSustainabilityScore float64 `json:"overall_sustainability_score"`
}

// SupplierQualification is the qualification aggregate for one supplier.
// Status, Tier, OverallScore and OverallRiskLevel are derived fields: they
// are only ever written by a recompute from Scores / RiskAssessment.
type SupplierQualification struct {
	ID              uuid.UUID `json:"id" db:"id"`
	QualificationID string    `json:"qualification_id" db:"qualification_id"`
	SupplierID      string    `json:"supplier_id" db:"supplier_id"`
	SupplierName    string    `json:"supplier_name" db:"supplier_name"`
	OrganizationID  string    `json:"organization_id" db:"organization_id"`

	Status string `json:"status" db:"status"`
	Tier   string `json:"tier" db:"tier"`

	OverallScore int                 `json:"overall_score" db:"overall_score"`
	Scores       QualificationScores `json:"scores" db:"scores"`

	Documents QualificationDocuments `json:"documents" db:"documents"`

	RiskAssessment   RiskAssessments `json:"risk_assessment" db:"risk_assessment"`
	OverallRiskLevel RiskLevel       `json:"overall_risk_level" db:"overall_risk_level"`

	Certifications        Certifications         `json:"certifications" db:"certifications"`
	SustainabilityProfile *SustainabilityProfile `json:"sustainability_profile,omitempty" db:"sustainability_profile"`
	ComplianceChecks      ComplianceChecks       `json:"compliance_checks" db:"compliance_checks"`

	QualificationDate  *time.Time `json:"qualification_date,omitempty" db:"qualification_date"`
	RequalificationDue *time.Time `json:"requalification_due,omitempty" db:"requalification_due"`
	LastReviewDate     *time.Time `json:"last_review_date,omitempty" db:"last_review_date"`
	NextReviewDate     *time.Time `json:"next_review_date,omitempty" db:"next_review_date"`

	ReviewHistory ReviewHistory `json:"review_history" db:"review_history"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy string    `json:"created_by" db:"created_by"`
}

// ComplianceRequirement is an organization-level compliance rule suppliers
// must satisfy
type ComplianceRequirement struct {
	ID                      uuid.UUID  `json:"id" db:"id"`
	RequirementID           string     `json:"requirement_id" db:"requirement_id"`
	OrganizationID          string     `json:"organization_id" db:"organization_id"`
	Name                    string     `json:"name" db:"name"`
	Category                string     `json:"category" db:"category"` // regulatory/industry/internal/sustainability
	Description             string     `json:"description" db:"description"`
	Mandatory               bool       `json:"mandatory" db:"mandatory"`
	ApplicableSupplierTiers StringList `json:"applicable_supplier_tiers" db:"applicable_supplier_tiers"`
	DocumentRequired        string     `json:"document_required,omitempty" db:"document_required"`
	Frequency               string     `json:"frequency" db:"frequency"` // one_time/annual/quarterly/monthly
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at" db:"updated_at"`
}

// ExpiringCertification is a dashboard row for certifications nearing expiry
type ExpiringCertification struct {
	Supplier        string    `json:"supplier"`
	SupplierID      string    `json:"supplier_id"`
	Certification   string    `json:"certification"`
	ExpirationDate  time.Time `json:"expiration_date"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
}

// QualificationDashboard aggregates qualification state for an organization
type QualificationDashboard struct {
	Summary                 QualificationSummary `json:"summary"`
	ByTier                  map[string]int       `json:"by_tier"`
	ByRiskLevel             map[string]int       `json:"by_risk_level"`
	UpcomingRequalifications int                 `json:"upcoming_requalifications"`
	ExpiringCertifications  int                  `json:"expiring_certifications"`
	AverageScore            int                  `json:"average_score"`
}

// QualificationSummary holds per-status counts
type QualificationSummary struct {
	Total                  int `json:"total"`
	Qualified              int `json:"qualified"`
	ConditionallyQualified int `json:"conditionally_qualified"`
	PendingReview          int `json:"pending_review"`
	Disqualified           int `json:"disqualified"`
}
