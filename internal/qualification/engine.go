package qualification

import (
	"math"
	"time"

	"github.com/greenchainz/greenchainz-api/internal/models"
)

// Engine computes qualification scores, tiers and risk levels
type Engine struct{}

// NewEngine creates a new qualification engine instance
func NewEngine() *Engine {
	return &Engine{}
}

// Criteria represents a single qualification criteria definition
type Criteria struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"` // financial/operational/sustainability/quality/compliance/social
	Weight        float64 `json:"weight"`   // 0-100
	Required      bool    `json:"required"`
	Description   string  `json:"description,omitempty"`
	ScoringMethod string  `json:"scoring_method"` // binary/scale/calculated
	PassingScore  float64 `json:"passing_score,omitempty"`
}

// Outcome is the status/tier pair derived from an overall score
type Outcome struct {
	Status string
	Tier   string
}

var riskOrdinals = map[models.RiskLevel]int{
	models.RiskLow:      1,
	models.RiskMedium:   2,
	models.RiskHigh:     3,
	models.RiskCritical: 4,
}

var ordinalLevels = map[int]models.RiskLevel{
	1: models.RiskLow,
	2: models.RiskMedium,
	3: models.RiskHigh,
	4: models.RiskCritical,
}

// CalculateOverallScore computes the weighted overall score on a 0-100 scale.
// Each WeightedScore is taken as supplied by the evaluator; the engine does
// not cross-check it against Score/MaxScore, which keeps non-linear scoring
// methods possible. Empty input and zero total weight both yield 0.
func (e *Engine) CalculateOverallScore(scores []models.QualificationScore) int {
	if len(scores) == 0 {
		return 0
	}

	var totalWeight, weightedSum float64
	for _, s := range scores {
		totalWeight += s.Weight
		weightedSum += s.WeightedScore
	}

	if totalWeight == 0 {
		return 0
	}

	return int(math.Round(weightedSum / totalWeight * 100))
}

// CalculateOverallRiskLevel returns the highest risk level present in the
// assessments. A single critical factor makes the whole assessment critical.
// An empty list defaults to low.
func (e *Engine) CalculateOverallRiskLevel(assessments []models.RiskAssessment) models.RiskLevel {
	if len(assessments) == 0 {
		return models.RiskLow
	}

	maxOrdinal := 0
	for _, a := range assessments {
		if ord, ok := riskOrdinals[a.Level]; ok && ord > maxOrdinal {
			maxOrdinal = ord
		}
	}
	if maxOrdinal == 0 {
		return models.RiskLow
	}
	return ordinalLevels[maxOrdinal]
}

// DeriveOutcome maps an overall score to status and tier via the fixed
// threshold ladder
func (e *Engine) DeriveOutcome(overallScore int) Outcome {
	switch {
	case overallScore >= 85:
		return Outcome{Status: models.QualificationStatusQualified, Tier: models.TierPreferred}
	case overallScore >= 70:
		return Outcome{Status: models.QualificationStatusQualified, Tier: models.TierApproved}
	case overallScore >= 55:
		return Outcome{Status: models.QualificationStatusConditionallyQualified, Tier: models.TierProvisional}
	default:
		return Outcome{Status: models.QualificationStatusDisqualified, Tier: models.TierRestricted}
	}
}

// RequalificationWindow is how long a qualification remains valid
const RequalificationWindow = 365 * 24 * time.Hour

// DefaultCriteria returns the default qualification criteria catalog
func (e *Engine) DefaultCriteria() []Criteria {
	return []Criteria{
		{
			ID:            "fin-stability",
			Name:          "Financial Stability",
			Category:      "financial",
			Weight:        15,
			Required:      true,
			Description:   "Assessment of financial health and stability",
			ScoringMethod: "scale",
			PassingScore:  60,
		},
		{
			ID:            "quality-system",
			Name:          "Quality Management System",
			Category:      "quality",
			Weight:        20,
			Required:      true,
			Description:   "ISO 9001 or equivalent certification",
			ScoringMethod: "binary",
		},
		{
			ID:            "env-management",
			Name:          "Environmental Management",
			Category:      "sustainability",
			Weight:        15,
			Required:      false,
			Description:   "ISO 14001 or equivalent environmental certification",
			ScoringMethod: "binary",
		},
		{
			ID:            "carbon-footprint",
			Name:          "Carbon Footprint Disclosure",
			Category:      "sustainability",
			Weight:        10,
			Required:      true,
			Description:   "Documented carbon footprint measurement and reduction goals",
			ScoringMethod: "scale",
			PassingScore:  50,
		},
		{
			ID:            "ethical-sourcing",
			Name:          "Ethical Sourcing Practices",
			Category:      "social",
			Weight:        10,
			Required:      true,
			Description:   "Demonstrated ethical and fair labor practices",
			ScoringMethod: "scale",
			PassingScore:  70,
		},
		{
			ID:            "delivery-capability",
			Name:          "Delivery Capability",
			Category:      "operational",
			Weight:        15,
			Required:      true,
			Description:   "Track record of on-time delivery",
			ScoringMethod: "calculated",
			PassingScore:  85,
		},
		{
			ID:            "regulatory-compliance",
			Name:          "Regulatory Compliance",
			Category:      "compliance",
			Weight:        15,
			Required:      true,
			Description:   "Compliance with applicable laws and regulations",
			ScoringMethod: "binary",
		},
	}
}
