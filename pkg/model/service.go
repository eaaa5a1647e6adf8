package model

// Service is a catalog entry owned by an external catalog collaborator.
// Matching reads it to derive the eligibility terms (category and name).
type Service struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty"`
	Name     string `json:"name" bson:"name"`
	Category string `json:"category" bson:"category"`
}
