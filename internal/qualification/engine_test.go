package qualification

import (
	"testing"

	"github.com/greenchainz/greenchainz-api/internal/models"
)

func score(weight, weightedScore float64) models.QualificationScore {
	return models.QualificationScore{
		CriteriaID:    "test-criteria",
		Score:         weightedScore,
		MaxScore:      100,
		Weight:        weight,
		WeightedScore: weightedScore,
	}
}

func TestCalculateOverallScore(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name   string
		scores []models.QualificationScore
		want   int
	}{
		{"empty list", nil, 0},
		{"zero total weight", []models.QualificationScore{score(0, 10), score(0, 20)}, 0},
		{"perfect score", []models.QualificationScore{score(20, 20), score(30, 30)}, 100},
		{"half score", []models.QualificationScore{score(50, 25)}, 50},
		{"mixed weights", []models.QualificationScore{score(15, 12), score(20, 20), score(15, 9)}, 82},
		{"rounds to nearest integer", []models.QualificationScore{score(3, 1)}, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.CalculateOverallScore(tt.scores)
			if got != tt.want {
				t.Errorf("CalculateOverallScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateOverallScoreIdempotent(t *testing.T) {
	engine := NewEngine()
	scores := []models.QualificationScore{score(15, 11), score(20, 17), score(10, 4)}

	first := engine.CalculateOverallScore(scores)
	second := engine.CalculateOverallScore(scores)
	if first != second {
		t.Errorf("Expected identical results for identical input, got %d then %d", first, second)
	}
}

func TestCalculateOverallScoreMonotonic(t *testing.T) {
	engine := NewEngine()
	scores := []models.QualificationScore{score(15, 8), score(20, 12), score(10, 5)}
	base := engine.CalculateOverallScore(scores)

	// Raising any single weighted score must never decrease the overall score
	for i := range scores {
		bumped := make([]models.QualificationScore, len(scores))
		copy(bumped, scores)
		bumped[i].WeightedScore += 2

		if got := engine.CalculateOverallScore(bumped); got < base {
			t.Errorf("Score decreased from %d to %d after raising weighted score %d", base, got, i)
		}
	}
}

func TestCalculateOverallScoreTrustsWeightedScore(t *testing.T) {
	engine := NewEngine()

	// The engine does not recompute weighted scores from score/max_score;
	// an inconsistent weighted score passes through untouched.
	scores := []models.QualificationScore{
		{CriteriaID: "x", Score: 0, MaxScore: 100, Weight: 10, WeightedScore: 10},
	}
	if got := engine.CalculateOverallScore(scores); got != 100 {
		t.Errorf("Expected caller-supplied weighted score to be trusted, got %d", got)
	}
}

func TestCalculateOverallRiskLevel(t *testing.T) {
	engine := NewEngine()

	risk := func(level models.RiskLevel) models.RiskAssessment {
		return models.RiskAssessment{Category: "test", Level: level}
	}

	tests := []struct {
		name        string
		assessments []models.RiskAssessment
		want        models.RiskLevel
	}{
		{"empty defaults to low", nil, models.RiskLow},
		{"single low", []models.RiskAssessment{risk(models.RiskLow)}, models.RiskLow},
		{"highest wins", []models.RiskAssessment{risk(models.RiskLow), risk(models.RiskHigh), risk(models.RiskMedium)}, models.RiskHigh},
		{"single critical dominates", []models.RiskAssessment{risk(models.RiskLow), risk(models.RiskLow), risk(models.RiskCritical)}, models.RiskCritical},
		{"unknown level ignored", []models.RiskAssessment{risk("bogus"), risk(models.RiskMedium)}, models.RiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.CalculateOverallRiskLevel(tt.assessments)
			if got != tt.want {
				t.Errorf("CalculateOverallRiskLevel() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDeriveOutcomeLadder(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		score      int
		wantStatus string
		wantTier   string
	}{
		{100, models.QualificationStatusQualified, models.TierPreferred},
		{85, models.QualificationStatusQualified, models.TierPreferred},
		{84, models.QualificationStatusQualified, models.TierApproved},
		{70, models.QualificationStatusQualified, models.TierApproved},
		{69, models.QualificationStatusConditionallyQualified, models.TierProvisional},
		{55, models.QualificationStatusConditionallyQualified, models.TierProvisional},
		{54, models.QualificationStatusDisqualified, models.TierRestricted},
		{0, models.QualificationStatusDisqualified, models.TierRestricted},
	}

	for _, tt := range tests {
		outcome := engine.DeriveOutcome(tt.score)
		if outcome.Status != tt.wantStatus || outcome.Tier != tt.wantTier {
			t.Errorf("DeriveOutcome(%d) = %s/%s, want %s/%s",
				tt.score, outcome.Status, outcome.Tier, tt.wantStatus, tt.wantTier)
		}
	}
}

func TestDefaultCriteria(t *testing.T) {
	engine := NewEngine()
	criteria := engine.DefaultCriteria()

	if len(criteria) != 7 {
		t.Fatalf("Expected 7 default criteria, got %d", len(criteria))
	}

	var totalWeight float64
	for _, c := range criteria {
		totalWeight += c.Weight
		if c.ID == "" || c.Name == "" || c.Category == "" || c.ScoringMethod == "" {
			t.Errorf("Criteria %q is missing required fields", c.ID)
		}
	}
	if totalWeight != 100 {
		t.Errorf("Expected default criteria weights to sum to 100, got %v", totalWeight)
	}
}
