package repository

import "context"

// TripMemoryResult is one similar past trip pulled from the vector store.
type TripMemoryResult struct {
	Content   string
	TripType  string
	Timestamp int64
}

// TripMemoryRepo stores classified trips as vectors so the classifier can
// look up how the same driver labeled similar trips before.
type TripMemoryRepo interface {
	SaveMemory(ctx context.Context, driverEmail string, entryID uint, description, tripType string, vector []float32) error
	SearchSimilar(ctx context.Context, driverEmail string, limit int, queryVector []float32) ([]TripMemoryResult, error)
	Delete(ctx context.Context, entryID uint) error
}
