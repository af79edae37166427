// Package docstore owns the MongoDB client shared by the document repository.
package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/Dilyara077/practice-task/pkg/logger"
)

const (
	connectTimeout  = 10 * time.Second
	serverSelection = 5 * time.Second
)

// Client wraps a connected *mongo.Client bound to one database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	log    logger.Logger
}

// NewMongoClient connects to uri and pings the primary before returning.
// The caller owns the client and must call Close on shutdown.
func NewMongoClient(ctx context.Context, uri, database string, log logger.Logger) (*Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(serverSelection)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("docstore: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("docstore: ping: %w", err)
	}

	log.InfoContext(ctx, "mongodb connected", "database", database)
	return &Client{client: client, db: client.Database(database), log: log}, nil
}

// Collection returns a handle to the named collection.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("docstore: ping: %w", err)
	}
	return nil
}

// Close disconnects the client, waiting for in-flight operations until ctx expires.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("docstore: disconnect: %w", err)
	}
	return nil
}
