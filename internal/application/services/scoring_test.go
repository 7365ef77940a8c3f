package services

import (
	"math"
	"testing"

	"github.com/medichat/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
)

func TestWeightsFor_SumTo100(t *testing.T) {
	withReq := WeightsFor([]string{"MRI"})
	assert.Equal(t, 100.0, withReq.Equipment+withReq.Specialist+withReq.Distance)
	assert.Equal(t, 50.0, withReq.Equipment)

	noReq := WeightsFor(nil)
	assert.Equal(t, 100.0, noReq.Equipment+noReq.Specialist+noReq.Distance)
	assert.Equal(t, 40.0, noReq.Specialist)
}

func TestScore_FullEquipmentMatch(t *testing.T) {
	scorer := NewScorer(DefaultScoringParams())
	result := scorer.Score(ScoreInput{
		DistanceKm:        0,
		RequiredEquipment: []string{"MRI", "CT"},
		HospitalEquipment: []string{"MRI", "CT", "X-ray"},
		SpecialistCount:   0,
		Category:          entities.CategoryGeneralHospital,
		RadiusKm:          10,
	})

	// 2/2 * 50 equipment, full 20 distance, priority (3-2)*0.5.
	assert.InDelta(t, 50.0+0.0+20.0+0.5, result.Score, 1e-9)
	assert.Equal(t, 2, result.Breakdown.MatchedEquipmentCount)
	assert.Equal(t, 2, result.Breakdown.TotalRequiredEquipment)
	assert.Contains(t, result.Reason, "required equipment 2/2 held")
}

func TestScore_PartialEquipmentMatch(t *testing.T) {
	scorer := NewScorer(DefaultScoringParams())
	result := scorer.Score(ScoreInput{
		RequiredEquipment: []string{"MRI", "CT"},
		HospitalEquipment: []string{"CT"},
		Category:          entities.CategoryClinic,
		RadiusKm:          10,
		DistanceKm:        10,
	})

	assert.InDelta(t, 25.0, result.Breakdown.EquipmentScore, 1e-9)
	assert.Equal(t, 1, result.Breakdown.MatchedEquipmentCount)
}

func TestScore_NoRequirementSaturates(t *testing.T) {
	scorer := NewScorer(DefaultScoringParams())
	many := make([]string, 30)
	for i := range many {
		many[i] = string(rune('A' + i))
	}
	result := scorer.Score(ScoreInput{
		HospitalEquipment: many,
		Category:          entities.CategoryClinic,
		RadiusKm:          10,
		DistanceKm:        10,
	})

	// Saturates at the weight itself (30 in the no-requirement profile).
	assert.InDelta(t, 30.0, result.Breakdown.EquipmentScore, 1e-9)
}

func TestScore_EquipmentMinItemPointsIsConfigurable(t *testing.T) {
	// With 12 saturation items the per-category rate would be 30/12 = 2.5;
	// a higher floor must win when configured.
	params := DefaultScoringParams()
	params.EquipmentMinItemPoints = 5.0
	scorer := NewScorer(params)

	result := scorer.Score(ScoreInput{
		HospitalEquipment: []string{"혈압계", "심전도계"},
		Category:          entities.CategoryClinic,
		RadiusKm:          10,
		DistanceKm:        10,
	})

	assert.InDelta(t, 10.0, result.Breakdown.EquipmentScore, 1e-9)
}

func TestScore_SpecialistCurve(t *testing.T) {
	scorer := NewScorer(DefaultScoringParams())
	in := ScoreInput{
		RequiredEquipment: []string{"MRI"},
		Category:          entities.CategoryClinic,
		RadiusKm:          10,
		DistanceKm:        10,
	}

	in.SpecialistCount = 4
	four := scorer.Score(in).Breakdown.SpecialistScore
	assert.InDelta(t, math.Sqrt(4)*10, four, 1e-3)

	// Nine specialists reach the cap with the default divisor.
	in.SpecialistCount = 9
	nine := scorer.Score(in).Breakdown.SpecialistScore
	assert.InDelta(t, 30.0, nine, 1e-3)

	in.SpecialistCount = 500
	capped := scorer.Score(in).Breakdown.SpecialistScore
	assert.InDelta(t, 30.0, capped, 1e-3)

	in.SpecialistCount = -7
	negative := scorer.Score(in).Breakdown.SpecialistScore
	assert.Equal(t, 0.0, negative)
}

func TestScore_SpecialistMonotonic(t *testing.T) {
	scorer := NewScorer(DefaultScoringParams())
	in := ScoreInput{Category: entities.CategoryClinic, RadiusKm: 10, DistanceKm: 5}

	prev := -1.0
	for n := 0; n <= 10; n++ {
		in.SpecialistCount = n
		score := scorer.Score(in).Breakdown.SpecialistScore
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestScore_DistanceDecay(t *testing.T) {
	scorer := NewScorer(DefaultScoringParams())
	in := ScoreInput{
		RequiredEquipment: []string{"MRI"},
		Category:          entities.CategoryClinic,
		RadiusKm:          20,
	}

	in.DistanceKm = 0
	atUser := scorer.Score(in).Breakdown.DistanceScore
	assert.InDelta(t, 20.0, atUser, 1e-9)

	in.DistanceKm = 10
	halfway := scorer.Score(in).Breakdown.DistanceScore
	assert.InDelta(t, 10.0, halfway, 1e-9)

	in.DistanceKm = 20
	atBoundary := scorer.Score(in).Breakdown.DistanceScore
	assert.Equal(t, 0.0, atBoundary)

	in.DistanceKm = 25
	beyond := scorer.Score(in).Breakdown.DistanceScore
	assert.Equal(t, 0.0, beyond)
}

func TestScore_ZeroRadiusFallsBack(t *testing.T) {
	scorer := NewScorer(DefaultScoringParams())
	result := scorer.Score(ScoreInput{
		RequiredEquipment: []string{"MRI"},
		Category:          entities.CategoryClinic,
		RadiusKm:          0,
		DistanceKm:        2.5,
	})

	// Radius falls back to 5 km, so 2.5 km scores half the distance weight.
	assert.InDelta(t, 10.0, result.Breakdown.DistanceScore, 1e-9)
}

func TestScore_PriorityBonus(t *testing.T) {
	scorer := NewScorer(DefaultScoringParams())
	in := ScoreInput{RequiredEquipment: []string{"MRI"}, RadiusKm: 10, DistanceKm: 10}

	in.Category = entities.CategoryClinic
	assert.Equal(t, 1.5, scorer.Score(in).Breakdown.PriorityBonus)

	in.Category = entities.CategoryGeneralHospital
	assert.Equal(t, 0.5, scorer.Score(in).Breakdown.PriorityBonus)

	in.Category = entities.CategoryOrientalClinic
	assert.Equal(t, -0.5, scorer.Score(in).Breakdown.PriorityBonus)

	in.Category = entities.HospitalCategory("정신병원")
	assert.Equal(t, 0.0, scorer.Score(in).Breakdown.PriorityBonus)
}

func TestScore_DuplicateRequirementsCountOnce(t *testing.T) {
	scorer := NewScorer(DefaultScoringParams())
	result := scorer.Score(ScoreInput{
		RequiredEquipment: []string{"MRI", "MRI", "CT"},
		HospitalEquipment: []string{"MRI"},
		Category:          entities.CategoryClinic,
		RadiusKm:          10,
		DistanceKm:        10,
	})

	assert.Equal(t, 1, result.Breakdown.MatchedEquipmentCount)
}

func TestNewScorer_ZeroParamsUseDefaults(t *testing.T) {
	scorer := NewScorer(ScoringParams{})
	assert.Equal(t, DefaultScoringParams(), scorer.params)
}
