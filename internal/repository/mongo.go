package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Mongo wraps a MongoDB connection shared by the document repositories.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

// NewMongo connects to MongoDB and verifies the connection.
func NewMongo(uri, database string, log *zap.Logger) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("connected to MongoDB", zap.String("database", database))
	return &Mongo{
		client: client,
		db:     client.Database(database),
		log:    log,
	}, nil
}

// Close disconnects from MongoDB.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// Ping verifies the MongoDB connection.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// collection returns a handle with a unique index ensured on idField.
func (m *Mongo) collection(name, idField string) *mongo.Collection {
	coll := m.db.Collection(name)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: idField, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := coll.Indexes().CreateOne(ctx, indexModel); err != nil {
		m.log.Warn("failed to create index",
			zap.String("collection", name), zap.String("field", idField), zap.Error(err))
	}

	return coll
}

// sortNewestFirst orders listings by descending creation time.
var sortNewestFirst = bson.D{{Key: "created_at", Value: -1}}
