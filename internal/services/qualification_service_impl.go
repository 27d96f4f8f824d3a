package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/greenchainz/greenchainz-api/internal/errors"
	"github.com/greenchainz/greenchainz-api/internal/logger"
	"github.com/greenchainz/greenchainz-api/internal/models"
	"github.com/greenchainz/greenchainz-api/internal/qualification"
	"github.com/greenchainz/greenchainz-api/internal/repository"
)

// qualificationServiceImpl implements QualificationService
type qualificationServiceImpl struct {
	repos  *repository.Repositories
	engine *qualification.Engine
	log    logger.Logger
}

// newQualificationService creates a new qualification service implementation
func newQualificationService(repos *repository.Repositories, log logger.Logger) QualificationService {
	return &qualificationServiceImpl{
		repos:  repos,
		engine: qualification.NewEngine(),
		log:    log,
	}
}

// Create registers a new supplier qualification. The overall score and risk
// level are computed from the supplied scores and assessments.
func (s *qualificationServiceImpl) Create(organizationID string, input *repository.QualificationInput, createdBy string) (*models.SupplierQualification, error) {
	if input.SupplierID == "" || input.SupplierName == "" {
		return nil, apperrors.ValidationError("supplier_id and supplier_name are required", nil).
			WithOperation("CreateQualification")
	}

	if existing, err := s.repos.Qualification.GetBySupplierID(input.SupplierID); err == nil && existing != nil {
		return nil, apperrors.Conflict(fmt.Sprintf("qualification already exists for supplier %s", input.SupplierID), nil).
			WithOperation("CreateQualification")
	}

	q := &models.SupplierQualification{
		QualificationID:       newEntityID("QUAL"),
		SupplierID:            input.SupplierID,
		SupplierName:          input.SupplierName,
		OrganizationID:        organizationID,
		Status:                models.QualificationStatusPending,
		Tier:                  models.TierProvisional,
		Scores:                models.QualificationScores(input.Scores),
		OverallScore:          s.engine.CalculateOverallScore(input.Scores),
		RiskAssessment:        models.RiskAssessments(input.RiskAssessment),
		OverallRiskLevel:      s.engine.CalculateOverallRiskLevel(input.RiskAssessment),
		Certifications:        models.Certifications(input.Certifications),
		SustainabilityProfile: input.SustainabilityProfile,
		NextReviewDate:        input.NextReviewDate,
		CreatedBy:             createdBy,
	}

	if err := s.repos.Qualification.Create(q); err != nil {
		return nil, apperrors.DatabaseError("failed to create qualification", err).
			WithOperation("CreateQualification")
	}

	s.log.Info("Created supplier qualification",
		"qualification_id", q.QualificationID,
		"supplier_id", q.SupplierID,
		"overall_score", q.OverallScore,
	)
	return q, nil
}

// Get retrieves a qualification by its public identifier
func (s *qualificationServiceImpl) Get(qualificationID string) (*models.SupplierQualification, error) {
	q, err := s.repos.Qualification.GetByQualificationID(qualificationID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound(fmt.Sprintf("qualification %s not found", qualificationID), err)
		}
		return nil, apperrors.DatabaseError("failed to get qualification", err)
	}
	return q, nil
}

// GetBySupplier retrieves the qualification for one supplier
func (s *qualificationServiceImpl) GetBySupplier(supplierID string) (*models.SupplierQualification, error) {
	q, err := s.repos.Qualification.GetBySupplierID(supplierID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound(fmt.Sprintf("no qualification for supplier %s", supplierID), err)
		}
		return nil, apperrors.DatabaseError("failed to get qualification", err)
	}
	return q, nil
}

// List retrieves an organization's qualifications
func (s *qualificationServiceImpl) List(organizationID string, filters repository.QualificationFilters) ([]models.SupplierQualification, error) {
	qualifications, err := s.repos.Qualification.List(organizationID, filters)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list qualifications", err)
	}
	return qualifications, nil
}

// Update applies partial field updates. Derived fields are recomputed only
// when their inputs change; a review history entry records the change.
func (s *qualificationServiceImpl) Update(qualificationID string, update *repository.QualificationUpdate, updatedBy string) (*models.SupplierQualification, error) {
	q, err := s.Get(qualificationID)
	if err != nil {
		return nil, err
	}

	var updated []string
	if update.SupplierName != nil {
		q.SupplierName = *update.SupplierName
		updated = append(updated, "supplier_name")
	}
	if update.Scores != nil {
		q.Scores = models.QualificationScores(*update.Scores)
		q.OverallScore = s.engine.CalculateOverallScore(*update.Scores)
		updated = append(updated, "scores")
	}
	if update.RiskAssessment != nil {
		q.RiskAssessment = models.RiskAssessments(*update.RiskAssessment)
		q.OverallRiskLevel = s.engine.CalculateOverallRiskLevel(*update.RiskAssessment)
		updated = append(updated, "risk_assessment")
	}
	if update.Certifications != nil {
		q.Certifications = models.Certifications(*update.Certifications)
		updated = append(updated, "certifications")
	}
	if update.SustainabilityProfile != nil {
		q.SustainabilityProfile = update.SustainabilityProfile
		updated = append(updated, "sustainability_profile")
	}
	if update.NextReviewDate != nil {
		q.NextReviewDate = update.NextReviewDate
		updated = append(updated, "next_review_date")
	}

	notes := update.Notes
	if notes == "" {
		notes = "Fields updated: " + strings.Join(updated, ", ")
	}
	s.appendReview(q, updatedBy, "Updated qualification", notes)

	if err := s.save(q, "UpdateQualification"); err != nil {
		return nil, err
	}
	return q, nil
}

// EvaluateCriteria replaces the scores, recomputes the overall score and
// moves the qualification through the status/tier ladder. A qualified
// outcome stamps qualificationDate and a requalification deadline one year
// out; any other outcome clears both.
func (s *qualificationServiceImpl) EvaluateCriteria(qualificationID string, input *repository.EvaluationInput, evaluatedBy string) (*models.SupplierQualification, error) {
	q, err := s.Get(qualificationID)
	if err != nil {
		return nil, err
	}

	q.Scores = models.QualificationScores(input.Scores)
	q.OverallScore = s.engine.CalculateOverallScore(input.Scores)

	outcome := s.engine.DeriveOutcome(q.OverallScore)
	q.Status = outcome.Status
	q.Tier = outcome.Tier

	if q.Status == models.QualificationStatusQualified {
		now := time.Now()
		due := now.Add(qualification.RequalificationWindow)
		q.QualificationDate = &now
		q.RequalificationDue = &due
	} else {
		q.QualificationDate = nil
		q.RequalificationDue = nil
	}

	s.appendReview(q, evaluatedBy, "Evaluated criteria",
		fmt.Sprintf("Overall score %d, status %s, tier %s", q.OverallScore, q.Status, q.Tier))

	if err := s.save(q, "EvaluateCriteria"); err != nil {
		return nil, err
	}

	s.log.Info("Evaluated qualification criteria",
		"qualification_id", q.QualificationID,
		"overall_score", q.OverallScore,
		"status", q.Status,
		"tier", q.Tier,
	)
	return q, nil
}

// AddDocument attaches an evidence document in pending status
func (s *qualificationServiceImpl) AddDocument(qualificationID string, input *repository.DocumentInput) (*models.SupplierQualification, error) {
	q, err := s.Get(qualificationID)
	if err != nil {
		return nil, err
	}

	q.Documents = append(q.Documents, models.QualificationDocument{
		ID:             uuid.NewString(),
		Type:           input.Type,
		Name:           input.Name,
		URL:            input.URL,
		ExpirationDate: input.ExpirationDate,
		Status:         models.DocumentStatusPending,
		Notes:          input.Notes,
	})

	if err := s.save(q, "AddDocument"); err != nil {
		return nil, err
	}
	return q, nil
}

// VerifyDocument approves or rejects an attached document
func (s *qualificationServiceImpl) VerifyDocument(qualificationID, documentID string, v *repository.DocumentVerification, verifiedBy string) (*models.SupplierQualification, error) {
	if v.Status != models.DocumentStatusApproved && v.Status != models.DocumentStatusRejected {
		return nil, apperrors.ValidationError("verification status must be approved or rejected", nil).
			WithOperation("VerifyDocument")
	}

	q, err := s.Get(qualificationID)
	if err != nil {
		return nil, err
	}

	found := false
	now := time.Now()
	for i := range q.Documents {
		if q.Documents[i].ID == documentID {
			q.Documents[i].Status = v.Status
			q.Documents[i].VerifiedBy = verifiedBy
			q.Documents[i].VerifiedAt = &now
			if v.Notes != "" {
				q.Documents[i].Notes = v.Notes
			}
			found = true
			break
		}
	}
	if !found {
		return nil, apperrors.NotFound(fmt.Sprintf("document %s not found on qualification %s", documentID, qualificationID), nil)
	}

	if err := s.save(q, "VerifyDocument"); err != nil {
		return nil, err
	}
	return q, nil
}

// PerformRiskAssessment replaces the risk factor ratings and recomputes the
// overall risk level
func (s *qualificationServiceImpl) PerformRiskAssessment(qualificationID string, input *repository.RiskAssessmentInput, assessedBy string) (*models.SupplierQualification, error) {
	q, err := s.Get(qualificationID)
	if err != nil {
		return nil, err
	}

	for _, a := range input.Assessments {
		if !models.ValidRiskLevel(a.Level) {
			return nil, apperrors.ValidationError(fmt.Sprintf("unknown risk level %q", a.Level), nil).
				WithOperation("PerformRiskAssessment")
		}
	}

	q.RiskAssessment = models.RiskAssessments(input.Assessments)
	q.OverallRiskLevel = s.engine.CalculateOverallRiskLevel(input.Assessments)

	s.appendReview(q, assessedBy, "Performed risk assessment",
		fmt.Sprintf("Overall risk level %s", q.OverallRiskLevel))

	if err := s.save(q, "PerformRiskAssessment"); err != nil {
		return nil, err
	}
	return q, nil
}

// RunComplianceCheck records a compliance check with the next one due in 90
// days
func (s *qualificationServiceImpl) RunComplianceCheck(qualificationID string, input *repository.ComplianceCheckInput, checkedBy string) (*models.SupplierQualification, error) {
	if input.Status != "passed" && input.Status != "failed" {
		return nil, apperrors.ValidationError("check status must be passed or failed", nil).
			WithOperation("RunComplianceCheck")
	}

	q, err := s.Get(qualificationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	nextDue := now.Add(90 * 24 * time.Hour)
	q.ComplianceChecks = append(q.ComplianceChecks, models.ComplianceCheck{
		Type:         input.Type,
		Status:       input.Status,
		CheckedAt:    now,
		NextCheckDue: &nextDue,
		Notes:        input.Notes,
	})

	s.appendReview(q, checkedBy, "Ran compliance check",
		fmt.Sprintf("%s: %s", input.Type, input.Status))

	if err := s.save(q, "RunComplianceCheck"); err != nil {
		return nil, err
	}
	return q, nil
}

// GetExpiringCertifications lists certifications expiring within daysAhead
// days, soonest first. Already-expired certifications are included with a
// negative days-until-expiry.
func (s *qualificationServiceImpl) GetExpiringCertifications(organizationID string, daysAhead int) ([]models.ExpiringCertification, error) {
	if daysAhead <= 0 {
		daysAhead = 60
	}

	qualifications, err := s.repos.Qualification.List(organizationID, repository.QualificationFilters{})
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list qualifications", err)
	}

	now := time.Now()
	cutoff := now.Add(time.Duration(daysAhead) * 24 * time.Hour)

	var expiring []models.ExpiringCertification
	for _, q := range qualifications {
		for _, cert := range q.Certifications {
			if !cert.ValidUntil.After(cutoff) {
				days := int(math.Ceil(cert.ValidUntil.Sub(now).Hours() / 24))
				expiring = append(expiring, models.ExpiringCertification{
					Supplier:        q.SupplierName,
					SupplierID:      q.SupplierID,
					Certification:   cert.Name,
					ExpirationDate:  cert.ValidUntil,
					DaysUntilExpiry: days,
				})
			}
		}
	}

	sort.Slice(expiring, func(i, j int) bool {
		return expiring[i].DaysUntilExpiry < expiring[j].DaysUntilExpiry
	})
	return expiring, nil
}

// GetDashboard aggregates qualification state for an organization
func (s *qualificationServiceImpl) GetDashboard(organizationID string) (*models.QualificationDashboard, error) {
	qualifications, err := s.repos.Qualification.List(organizationID, repository.QualificationFilters{})
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list qualifications", err)
	}

	now := time.Now()
	thirtyDays := now.Add(30 * 24 * time.Hour)
	sixtyDays := now.Add(60 * 24 * time.Hour)

	dashboard := &models.QualificationDashboard{
		ByTier:      make(map[string]int),
		ByRiskLevel: make(map[string]int),
	}
	dashboard.Summary.Total = len(qualifications)

	totalScore := 0
	for _, q := range qualifications {
		switch q.Status {
		case models.QualificationStatusQualified:
			dashboard.Summary.Qualified++
		case models.QualificationStatusConditionallyQualified:
			dashboard.Summary.ConditionallyQualified++
		case models.QualificationStatusPending, models.QualificationStatusInReview:
			dashboard.Summary.PendingReview++
		case models.QualificationStatusDisqualified:
			dashboard.Summary.Disqualified++
		}

		dashboard.ByTier[q.Tier]++
		dashboard.ByRiskLevel[string(q.OverallRiskLevel)]++

		if q.RequalificationDue != nil && !q.RequalificationDue.After(thirtyDays) {
			dashboard.UpcomingRequalifications++
		}
		for _, cert := range q.Certifications {
			if !cert.ValidUntil.After(sixtyDays) {
				dashboard.ExpiringCertifications++
			}
		}

		totalScore += q.OverallScore
	}

	if len(qualifications) > 0 {
		dashboard.AverageScore = int(math.Round(float64(totalScore) / float64(len(qualifications))))
	}
	return dashboard, nil
}

// GetDefaultCriteria returns the default criteria catalog
func (s *qualificationServiceImpl) GetDefaultCriteria() []qualification.Criteria {
	return s.engine.DefaultCriteria()
}

// CreateRequirement registers an organization-level compliance requirement
func (s *qualificationServiceImpl) CreateRequirement(organizationID string, input *repository.RequirementInput) (*models.ComplianceRequirement, error) {
	req := &models.ComplianceRequirement{
		RequirementID:           newShortID("REQ"),
		OrganizationID:          organizationID,
		Name:                    input.Name,
		Category:                input.Category,
		Description:             input.Description,
		Mandatory:               input.Mandatory,
		ApplicableSupplierTiers: models.StringList(input.ApplicableSupplierTiers),
		DocumentRequired:        input.DocumentRequired,
		Frequency:               input.Frequency,
	}

	if err := s.repos.Requirement.Create(req); err != nil {
		return nil, apperrors.DatabaseError("failed to create requirement", err).
			WithOperation("CreateRequirement")
	}
	return req, nil
}

// ListRequirements lists requirements ordered by category then name
func (s *qualificationServiceImpl) ListRequirements(organizationID string) ([]models.ComplianceRequirement, error) {
	requirements, err := s.repos.Requirement.List(organizationID)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list requirements", err)
	}

	sort.Slice(requirements, func(i, j int) bool {
		if requirements[i].Category != requirements[j].Category {
			return requirements[i].Category < requirements[j].Category
		}
		return requirements[i].Name < requirements[j].Name
	})
	return requirements, nil
}

func (s *qualificationServiceImpl) appendReview(q *models.SupplierQualification, reviewer, action, notes string) {
	now := time.Now()
	q.LastReviewDate = &now
	q.ReviewHistory = append(q.ReviewHistory, models.ReviewEntry{
		Date:     now,
		Reviewer: reviewer,
		Action:   action,
		Notes:    notes,
	})
}

func (s *qualificationServiceImpl) save(q *models.SupplierQualification, operation string) error {
	if err := s.repos.Qualification.Update(q); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound(fmt.Sprintf("qualification %s not found", q.QualificationID), err).
				WithOperation(operation)
		}
		return apperrors.DatabaseError("failed to update qualification", err).WithOperation(operation)
	}
	return nil
}
