package entities

import "time"

// DiseasePrediction is one labeled score returned by the classifier.
type DiseasePrediction struct {
	DiseaseID   int64   `json:"disease_id"`
	DiseaseName string  `json:"disease_name"`
	Score       float64 `json:"score"`
}

// InferenceResult stores the classifier output for one symptom message.
// The model returns up to three labeled predictions, best first.
type InferenceResult struct {
	ID            int64               `json:"id" db:"id"`
	ChatMessageID int64               `json:"chat_message_id" db:"chat_message_id"`
	InputText     string              `json:"input_text" db:"input_text"`
	Predictions   []DiseasePrediction `json:"predictions" db:"-"`
	InferenceTime float64             `json:"inference_time,omitempty" db:"inference_time"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
}

// Top returns the primary prediction, or nil when the model produced none.
func (r *InferenceResult) Top() *DiseasePrediction {
	if len(r.Predictions) == 0 {
		return nil
	}
	return &r.Predictions[0]
}
