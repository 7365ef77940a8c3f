package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/medichat/backend/internal/domain/entities"
)

// Weight profiles. With an equipment requirement the equipment axis
// dominates; without one the specialist axis does. Either way the three
// weights sum to 100.
var (
	weightsWithRequirement = entities.Weights{Equipment: 50, Specialist: 30, Distance: 20}
	weightsNoRequirement   = entities.Weights{Equipment: 30, Specialist: 40, Distance: 30}
)

// WeightsFor selects the weight profile for a disease's required-equipment
// set. Chosen once per recommendation run, never per hospital.
func WeightsFor(requiredEquipment []string) entities.Weights {
	if len(requiredEquipment) > 0 {
		return weightsWithRequirement
	}
	return weightsNoRequirement
}

// ScoringParams are the empirically tuned curve constants. They are
// configuration, not invariants.
type ScoringParams struct {
	// EquipmentSaturationItems is roughly how many distinct held equipment
	// categories saturate the equipment sub-score when the disease has no
	// explicit requirement.
	EquipmentSaturationItems int

	// EquipmentMinItemPoints is the floor for the per-category points
	// awarded in the no-requirement branch, so small weight profiles still
	// credit equipment at all.
	EquipmentMinItemPoints float64

	// SpecialistCurveDivisor tunes the square-root specialist curve;
	// sqrt(n) * (W_spec / divisor), capped at W_spec. With the default 3,
	// nine specialists reach the cap.
	SpecialistCurveDivisor float64
}

// DefaultScoringParams returns the tuning used in production.
func DefaultScoringParams() ScoringParams {
	return ScoringParams{
		EquipmentSaturationItems: 12,
		EquipmentMinItemPoints:   2.0,
		SpecialistCurveDivisor:   3.0,
	}
}

// ScoreInput carries everything the composite score needs for one hospital.
type ScoreInput struct {
	DistanceKm        float64
	RequiredEquipment []string
	HospitalEquipment []string
	SpecialistCount   int
	Category          entities.HospitalCategory
	RadiusKm          float64
}

// ScoreResult is the composite score with its explanation.
type ScoreResult struct {
	Score            float64
	Reason           string
	CategoryPriority int
	Breakdown        entities.ScoreBreakdown
}

// Scorer computes composite recommendation scores.
type Scorer struct {
	params ScoringParams
}

// NewScorer creates a scorer; zero-valued params fall back to defaults.
func NewScorer(params ScoringParams) *Scorer {
	defaults := DefaultScoringParams()
	if params.EquipmentSaturationItems <= 0 {
		params.EquipmentSaturationItems = defaults.EquipmentSaturationItems
	}
	if params.EquipmentMinItemPoints <= 0 {
		params.EquipmentMinItemPoints = defaults.EquipmentMinItemPoints
	}
	if params.SpecialistCurveDivisor <= 0 {
		params.SpecialistCurveDivisor = defaults.SpecialistCurveDivisor
	}
	return &Scorer{params: params}
}

// Score combines distance, equipment match, specialist count and category
// priority into one composite score. Pure function: malformed inputs are
// clamped, never rejected.
func (s *Scorer) Score(in ScoreInput) ScoreResult {
	weights := WeightsFor(in.RequiredEquipment)

	// 1. Equipment sub-score
	var (
		equipmentScore  float64
		equipmentReason string
		matchedCount    int
	)
	totalRequired := len(in.RequiredEquipment)
	if totalRequired > 0 {
		matchedCount = len(intersect(in.RequiredEquipment, in.HospitalEquipment))
		equipmentScore = float64(matchedCount) / float64(totalRequired) * weights.Equipment
		equipmentReason = fmt.Sprintf("required equipment %d/%d held", matchedCount, totalRequired)
	} else {
		// No requirement: reward general capability, saturating so a large
		// inventory cannot dominate the score.
		held := len(in.HospitalEquipment)
		perItem := math.Max(weights.Equipment/float64(s.params.EquipmentSaturationItems), s.params.EquipmentMinItemPoints)
		equipmentScore = math.Min(float64(held)*perItem, weights.Equipment)
		equipmentReason = fmt.Sprintf("%d equipment categories", held)
	}

	// 2. Specialist sub-score: concave square-root curve
	specialists := in.SpecialistCount
	if specialists < 0 {
		specialists = 0
	}
	if specialists > 100 {
		specialists = 100
	}
	specialistScore := math.Min(
		math.Sqrt(float64(specialists))*(weights.Specialist/s.params.SpecialistCurveDivisor),
		weights.Specialist,
	)

	// 3. Distance sub-score: linear decay to zero at the radius boundary
	radius := in.RadiusKm
	if radius <= 0 {
		radius = 5.0
	}
	distanceScore := math.Max(0, (radius-in.DistanceKm)/radius) * weights.Distance

	// 4. Category priority nudge, roughly -0.5 to +1.5
	priority := in.Category.Priority()
	priorityBonus := float64(priority-2) * 0.5

	finalScore := equipmentScore + specialistScore + distanceScore + priorityBonus
	reason := fmt.Sprintf("%s, %d specialists, %.1fkm away", equipmentReason, specialists, in.DistanceKm)

	return ScoreResult{
		Score:            finalScore,
		Reason:           reason,
		CategoryPriority: priority,
		Breakdown: entities.ScoreBreakdown{
			Weights:                weights,
			EquipmentScore:         round3(equipmentScore),
			SpecialistScore:        round3(specialistScore),
			DistanceScore:          round3(distanceScore),
			PriorityBonus:          round3(priorityBonus),
			FinalScore:             round3(finalScore),
			MatchedEquipmentCount:  matchedCount,
			TotalRequiredEquipment: totalRequired,
		},
	}
}

// intersect returns the sorted intersection of two name lists.
func intersect(required, held []string) []string {
	heldSet := make(map[string]struct{}, len(held))
	for _, h := range held {
		heldSet[h] = struct{}{}
	}
	var matched []string
	seen := make(map[string]struct{}, len(required))
	for _, r := range required {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		if _, ok := heldSet[r]; ok {
			matched = append(matched, r)
		}
	}
	sort.Strings(matched)
	return matched
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
