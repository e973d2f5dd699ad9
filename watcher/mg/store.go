package mg

import (
	"context"
	"dexwatch/watcher/defs"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const GlucoseCollection = "glucose"

// GlucoseStore mirrors accepted readings into a queryable collection. The
// CSV log stays the system of record; this store is best-effort.
type GlucoseStore interface {
	WriteGlucose(ctx context.Context, r *defs.Reading) (bool, error)
	ReadGlucose(ctx context.Context, start, end time.Time) ([]defs.Reading, error)
}

type MongoStore struct {
	Client *mongo.Client
	Logger *zap.Logger

	DBName string
}

func New(ctx context.Context, cfg defs.MongoConfig, dbName string, logger *zap.Logger) (*MongoStore, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Username != "" {
		opts = opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}

	mongoClient, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongo: %w", err)
	}

	return &MongoStore{
		Client: mongoClient,
		Logger: logger,
		DBName: dbName,
	}, nil
}

// WriteGlucose inserts the reading if no document with the same timestamp
// exists yet. Reports whether a document already existed.
func (ms *MongoStore) WriteGlucose(ctx context.Context, r *defs.Reading) (bool, error) {
	ms.Logger.Debug(
		"inserting reading",
		zap.String("collection", GlucoseCollection),
		zap.Time("time", r.Time),
	)

	res, err := ms.Client.
		Database(ms.DBName).
		Collection(GlucoseCollection).
		UpdateOne(ctx,
			bson.M{"time": r.Time},
			bson.M{"$setOnInsert": r},
			options.Update().SetUpsert(true),
		)
	if err != nil {
		return false, fmt.Errorf("unable to insert if new: %w", err)
	}

	return res.MatchedCount > 0, nil
}

func (ms *MongoStore) ReadGlucose(ctx context.Context, start, end time.Time) ([]defs.Reading, error) {
	cur, err := ms.Client.
		Database(ms.DBName).
		Collection(GlucoseCollection).
		Find(ctx,
			bson.M{"time": bson.M{"$gte": start, "$lte": end}},
			options.Find().SetSort(bson.M{"time": 1}),
		)
	if err != nil {
		return nil, fmt.Errorf("unable to read glucose: %w", err)
	}

	var rs []defs.Reading
	if err := cur.All(ctx, &rs); err != nil {
		return nil, fmt.Errorf("unable to decode readings: %w", err)
	}

	return rs, nil
}
