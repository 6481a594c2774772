package vectordb

import (
	"context"
	"fmt"
	"time"

	"github.com/eklundh/tidflow/internal/repository"
	pb "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// TripMemoryRepository persists classified trips in qdrant, keyed by journal
// entry id so accept/delete stay idempotent.
type TripMemoryRepository struct {
	client *QdrantClient
}

func NewTripMemoryRepository(client *QdrantClient) repository.TripMemoryRepo {
	return &TripMemoryRepository{client: client}
}

func (r *TripMemoryRepository) SaveMemory(ctx context.Context, driverEmail string, entryID uint, description, tripType string, vector []float32) error {
	points := []*pb.PointStruct{
		{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Num{Num: uint64(entryID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: vector},
				},
			},
			Payload: map[string]*pb.Value{
				"driver_email": {Kind: &pb.Value_StringValue{StringValue: driverEmail}},
				"entry_id":     {Kind: &pb.Value_IntegerValue{IntegerValue: int64(entryID)}},
				"description":  {Kind: &pb.Value_StringValue{StringValue: description}},
				"trip_type":    {Kind: &pb.Value_StringValue{StringValue: tripType}},
				"timestamp":    {Kind: &pb.Value_IntegerValue{IntegerValue: time.Now().Unix()}},
			},
		},
	}

	wait := true
	_, err := r.client.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.client.collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		r.client.log.Error("qdrant upsert failed", zap.Uint("entry_id", entryID), zap.Error(err))
		return fmt.Errorf("qdrant upsert failed: %v", err)
	}

	return nil
}

func (r *TripMemoryRepository) SearchSimilar(ctx context.Context, driverEmail string, limit int, queryVector []float32) ([]repository.TripMemoryResult, error) {
	filter := &pb.Filter{
		Must: []*pb.Condition{{
			ConditionOneOf: &pb.Condition_Field{
				Field: &pb.FieldCondition{
					Key: "driver_email",
					Match: &pb.Match{
						MatchValue: &pb.Match_Text{Text: driverEmail},
					},
				},
			},
		}},
	}

	searchResult, err := r.client.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.client.collection,
		Vector:         queryVector,
		Limit:          uint64(limit),
		Filter:         filter,
		// Without payload enabled qdrant only returns ids and scores.
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{
				Enable: true,
			},
		},
	})
	if err != nil {
		r.client.log.Error("qdrant search failed", zap.Error(err))
		return nil, fmt.Errorf("qdrant search failed: %v", err)
	}

	var results []repository.TripMemoryResult
	for _, point := range searchResult.Result {
		var res repository.TripMemoryResult
		if val, ok := point.Payload["description"]; ok {
			if strVal, ok := val.Kind.(*pb.Value_StringValue); ok {
				res.Content = strVal.StringValue
			}
		}
		if val, ok := point.Payload["trip_type"]; ok {
			if strVal, ok := val.Kind.(*pb.Value_StringValue); ok {
				res.TripType = strVal.StringValue
			}
		}
		if val, ok := point.Payload["timestamp"]; ok {
			res.Timestamp = val.GetIntegerValue()
		}
		results = append(results, res)
	}

	return results, nil
}

func (r *TripMemoryRepository) Delete(ctx context.Context, entryID uint) error {
	_, err := r.client.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.client.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{
						{PointIdOptions: &pb.PointId_Num{Num: uint64(entryID)}},
					},
				},
			},
		},
	})
	return err
}
