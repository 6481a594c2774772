package vectordb

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// VectorSize matches the dimensionality of text-embedding-3-small.
const VectorSize = 1536

// QdrantClient wraps the raw grpc clients for one collection.
type QdrantClient struct {
	conn       *grpc.ClientConn
	collection string
	client     pb.CollectionsClient
	points     pb.PointsClient
	log        *zap.Logger
}

func NewQdrantClient(host string, port int, collection string, log *zap.Logger) (*QdrantClient, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	conn, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("did not connect to qdrant: %v", err)
	}

	return &QdrantClient{
		conn:       conn,
		collection: collection,
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		log:        log,
	}, nil
}

func (q *QdrantClient) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

// InitCollection ensures the trip memory collection exists. Failure here is
// fatal at boot so the suggestion flow never hits a missing collection later.
func (q *QdrantClient) InitCollection(ctx context.Context) error {
	exists, err := q.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: q.collection,
	})
	if err == nil && exists != nil {
		q.log.Info("qdrant collection already exists", zap.String("collection", q.collection))
		return nil
	}

	q.log.Info("creating qdrant collection",
		zap.String("collection", q.collection),
		zap.Int("dim", VectorSize),
	)

	_, err = q.client.Create(ctx, &pb.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     VectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %v", err)
	}

	return nil
}
