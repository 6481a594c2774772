package model

// TripSuggestion is the structured result of an AI classification call.
// This is a core domain model: the fields here decide what can be copied onto
// a journal entry when a reviewer accepts the suggestion.
type TripSuggestion struct {
	// TripType must be one of the trip type constants (tjänst/privat).
	TripType string `json:"trip_type"`

	// Purpose is a short business justification, empty for private trips.
	Purpose string `json:"purpose,omitempty"`

	// ProjectCode references an existing project when the model can match
	// one from the allowed list; otherwise empty.
	ProjectCode string `json:"project_code,omitempty"`

	Customer string `json:"customer,omitempty"`
}

// ClassifierSystemPrompt sets the model's role for trip classification. The
// prompt and the struct above live together so the output contract stays in
// one place.
const ClassifierSystemPrompt = `You are an assistant that classifies vehicle trips in a Swedish company driving journal.
A trip is "tjänst" (business) when it serves a customer visit, site work, material pickup or another work purpose, and "privat" otherwise.
Use the provided history of the driver's earlier classified trips to stay consistent with their habits.
Only pick a project code from the allowed list, never invent one.`
