package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greenchainz/greenchainz-api/internal/repository"
	"github.com/greenchainz/greenchainz-api/internal/services"
)

// QualificationHandler handles supplier qualification operations
type QualificationHandler struct {
	qualificationService services.QualificationService
}

// NewQualificationHandler creates a new qualification handler with service
// injection
func NewQualificationHandler(qualificationService services.QualificationService) *QualificationHandler {
	return &QualificationHandler{
		qualificationService: qualificationService,
	}
}

// CreateQualification creates a supplier qualification record
func (h *QualificationHandler) CreateQualification(c *gin.Context) {
	var input repository.QualificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid qualification format: " + err.Error()})
		return
	}

	qualification, err := h.qualificationService.Create(organizationID(c), &input, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Qualification created successfully",
		"qualification": qualification,
		"timestamp":     time.Now(),
	})
}

// GetQualification returns a single qualification by its id
func (h *QualificationHandler) GetQualification(c *gin.Context) {
	qualification, err := h.qualificationService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"qualification": qualification,
		"timestamp":     time.Now(),
	})
}

// GetQualificationBySupplier returns the qualification for a supplier
func (h *QualificationHandler) GetQualificationBySupplier(c *gin.Context) {
	qualification, err := h.qualificationService.GetBySupplier(c.Param("supplier_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"qualification": qualification,
		"timestamp":     time.Now(),
	})
}

// ListQualifications returns qualifications for the caller's organization
func (h *QualificationHandler) ListQualifications(c *gin.Context) {
	filters := repository.QualificationFilters{
		Status:             c.Query("status"),
		Tier:               c.Query("tier"),
		RiskLevel:          c.Query("risk_level"),
		RequalificationDue: c.Query("requalification_due") == "true",
	}

	qualifications, err := h.qualificationService.List(organizationID(c), filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"qualifications": qualifications,
		"count":          len(qualifications),
		"timestamp":      time.Now(),
	})
}

// UpdateQualification applies partial updates to a qualification
func (h *QualificationHandler) UpdateQualification(c *gin.Context) {
	var update repository.QualificationUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update format: " + err.Error()})
		return
	}

	qualification, err := h.qualificationService.Update(c.Param("id"), &update, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Qualification updated successfully",
		"qualification": qualification,
		"timestamp":     time.Now(),
	})
}

// EvaluateQualification runs a full criteria evaluation
func (h *QualificationHandler) EvaluateQualification(c *gin.Context) {
	var input repository.EvaluationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid evaluation format: " + err.Error()})
		return
	}

	qualification, err := h.qualificationService.EvaluateCriteria(c.Param("id"), &input, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Evaluation completed",
		"qualification": qualification,
		"timestamp":     time.Now(),
	})
}

// AddDocument attaches a document to a qualification
func (h *QualificationHandler) AddDocument(c *gin.Context) {
	var input repository.DocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document format: " + err.Error()})
		return
	}

	qualification, err := h.qualificationService.AddDocument(c.Param("id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Document added successfully",
		"qualification": qualification,
		"timestamp":     time.Now(),
	})
}

// VerifyDocument approves or rejects an attached document
func (h *QualificationHandler) VerifyDocument(c *gin.Context) {
	var verification repository.DocumentVerification
	if err := c.ShouldBindJSON(&verification); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification format: " + err.Error()})
		return
	}

	qualification, err := h.qualificationService.VerifyDocument(c.Param("id"), c.Param("document_id"), &verification, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Document verification recorded",
		"qualification": qualification,
		"timestamp":     time.Now(),
	})
}

// PerformRiskAssessment replaces the risk factor ratings
func (h *QualificationHandler) PerformRiskAssessment(c *gin.Context) {
	var input repository.RiskAssessmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assessment format: " + err.Error()})
		return
	}

	qualification, err := h.qualificationService.PerformRiskAssessment(c.Param("id"), &input, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Risk assessment recorded",
		"qualification": qualification,
		"timestamp":     time.Now(),
	})
}

// RunComplianceCheck records a compliance check result
func (h *QualificationHandler) RunComplianceCheck(c *gin.Context) {
	var input repository.ComplianceCheckInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid compliance check format: " + err.Error()})
		return
	}

	qualification, err := h.qualificationService.RunComplianceCheck(c.Param("id"), &input, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Compliance check recorded",
		"qualification": qualification,
		"timestamp":     time.Now(),
	})
}

// GetExpiringCertifications returns certifications expiring soon
func (h *QualificationHandler) GetExpiringCertifications(c *gin.Context) {
	daysAhead := 0
	if raw := c.Query("days_ahead"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days_ahead must be an integer"})
			return
		}
		daysAhead = parsed
	}

	certifications, err := h.qualificationService.GetExpiringCertifications(organizationID(c), daysAhead)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"certifications": certifications,
		"count":          len(certifications),
		"timestamp":      time.Now(),
	})
}

// GetDashboard returns qualification summary statistics
func (h *QualificationHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.qualificationService.GetDashboard(organizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dashboard": dashboard,
		"timestamp": time.Now(),
	})
}

// GetDefaultCriteria returns the built-in qualification criteria catalog
func (h *QualificationHandler) GetDefaultCriteria(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"criteria":  h.qualificationService.GetDefaultCriteria(),
		"timestamp": time.Now(),
	})
}

// CreateRequirement creates a compliance requirement
func (h *QualificationHandler) CreateRequirement(c *gin.Context) {
	var input repository.RequirementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requirement format: " + err.Error()})
		return
	}

	requirement, err := h.qualificationService.CreateRequirement(organizationID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Requirement created successfully",
		"requirement": requirement,
		"timestamp":   time.Now(),
	})
}

// ListRequirements returns compliance requirements for the organization
func (h *QualificationHandler) ListRequirements(c *gin.Context) {
	requirements, err := h.qualificationService.ListRequirements(organizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requirements": requirements,
		"count":        len(requirements),
		"timestamp":    time.Now(),
	})
}
