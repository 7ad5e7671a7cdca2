package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "audit_logs"

// MongoStore appends audit entries to the audit_logs collection.
type MongoStore struct {
	coll *mongo.Collection
	node *snowflake.Node
}

func NewMongoStore(db *mongo.Database, node *snowflake.Node) *MongoStore {
	return &MongoStore{
		coll: db.Collection(collectionName),
		node: node,
	}
}

func (s *MongoStore) Append(ctx context.Context, entry *Entry) (string, error) {
	if err := validate(entry); err != nil {
		return "", err
	}

	if entry.ID == "" {
		entry.ID = s.node.Generate().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if _, err := s.coll.InsertOne(ctx, entry); err != nil {
		return "", fmt.Errorf("append audit entry: %w", err)
	}
	return entry.ID, nil
}

func (s *MongoStore) Find(ctx context.Context, filter Filter) ([]*Entry, error) {
	query := bson.M{}
	if filter.Action != "" {
		query["action"] = filter.Action
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.TenantID != "" {
		query["tenant_id"] = filter.TenantID
	}
	if filter.Since != nil {
		query["created_at"] = bson.M{"$gte": *filter.Since}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*Entry
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode audit entries: %w", err)
	}
	return out, nil
}
