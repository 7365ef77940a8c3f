package entities

import (
	"time"

	"github.com/google/uuid"
)

// Weights is the sub-score weight profile applied to every candidate of a
// run. The three components always sum to 100.
type Weights struct {
	Equipment  float64 `json:"equip"`
	Specialist float64 `json:"spec"`
	Distance   float64 `json:"dist"`
}

// ScoreBreakdown itemizes how a candidate's composite score was assembled.
// Sub-scores are rounded to 3 decimals.
type ScoreBreakdown struct {
	Weights                Weights `json:"weights"`
	EquipmentScore         float64 `json:"equipment_score"`
	SpecialistScore        float64 `json:"specialist_score"`
	DistanceScore          float64 `json:"distance_score"`
	PriorityBonus          float64 `json:"priority_bonus"`
	FinalScore             float64 `json:"final_score"`
	MatchedEquipmentCount  int     `json:"matched_equipment_count"`
	TotalRequiredEquipment int     `json:"total_required_equipment"`
}

// RecommendedHospital is one ranked entry of a recommendation response.
type RecommendedHospital struct {
	HospitalID       int64             `json:"hospital_id"`
	Name             string            `json:"name"`
	Address          string            `json:"address"`
	CategoryName     HospitalCategory  `json:"category_name"`
	Phone            string            `json:"phone,omitempty"`
	DistanceKm       float64           `json:"distance_km"`
	Rank             int               `json:"rank"`
	Score            float64           `json:"score"`
	DepartmentMatch  bool              `json:"department_match"`
	EquipmentMatch   bool              `json:"equipment_match"`
	Reason           string            `json:"reason"`
	SpecialistCount  int               `json:"specialist_count"`
	EquipmentDetails []EquipmentDetail `json:"equipment_details"`
	ScoreBreakdown   ScoreBreakdown    `json:"score_breakdown"`
}

// RecommendationSet is the full response of one recommendation run.
type RecommendationSet struct {
	DiseaseID         int64                 `json:"disease_id"`
	DiseaseName       string                `json:"disease_name,omitempty"`
	TotalCandidates   int                   `json:"total_candidates"`
	RequiredEquipment []string              `json:"required_equipment"`
	Recommendations   []RecommendedHospital `json:"recommendations"`
	RadiusKm          float64               `json:"radius_km"`
	Limit             int                   `json:"limit"`
}

// Recommendation is the persisted audit row for one ranked hospital of a
// run. Each run writes its own independent row set.
type Recommendation struct {
	ID             int64     `json:"id" db:"id"`
	RunID          uuid.UUID `json:"run_id" db:"run_id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	DiseaseID      int64     `json:"disease_id" db:"disease_id"`
	HospitalID     int64     `json:"hospital_id" db:"hospital_id"`
	DistanceKm     float64   `json:"distance_km" db:"distance_km"`
	Rank           int       `json:"rank" db:"rank"`
	Score          float64   `json:"score" db:"score"`
	DepartmentMatch bool     `json:"department_match" db:"department_match"`
	EquipmentMatch  bool     `json:"equipment_match" db:"equipment_match"`
	Reason         string    `json:"reason" db:"reason"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
