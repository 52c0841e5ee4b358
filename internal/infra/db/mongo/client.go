package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Client wraps the driver handle for one logical database.
type Client struct {
	DB *mongo.Database
}

// New connects with retryable writes enabled, which the transactional
// repositories rely on.
func New(uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	m, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRetryWrites(true))
	if err != nil {
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

// Ping backs the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}
