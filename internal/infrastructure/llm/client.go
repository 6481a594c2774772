package llm

import (
	"context"

	"github.com/eklundh/tidflow/internal/model"
)

// Classifier is the AI trip classification collaborator.
type Classifier interface {
	// ClassifyTrip proposes a classification for one trip. tripContext is a
	// rendered description of the trip (route, distance, time of day),
	// projectCodes is the allowed project code list, and history holds the
	// driver's similar past classifications for consistency.
	ClassifyTrip(ctx context.Context, tripContext string, projectCodes []string, history []string) (*model.TripSuggestion, error)
}
