package registry

import (
	"context"
	"iter"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
	"github.com/pdssp/pds-crawler/pkg/fingerprint"
	"github.com/pdssp/pds-crawler/pkg/model"
)

// mongoEntry is the BSON document shape for one registry row, mirroring
// entry's JSON-lines layout so operators can read either store's data
// with the same mental model.
type mongoEntry struct {
	Target     string                     `bson:"target"`
	Mission    string                     `bson:"mission"`
	Host       string                     `bson:"host"`
	Instrument string                     `bson:"instrument"`
	DatasetID  string                     `bson:"dataset_id"`
	Descriptor model.CollectionDescriptor `bson:"descriptor"`
}

func (e mongoEntry) fingerprint() fingerprint.Fingerprint {
	return fingerprint.Fingerprint{
		Target: e.Target, Mission: e.Mission, Host: e.Host,
		Instrument: e.Instrument, DatasetID: e.DatasetID,
	}
}

func mongoFilter(fp fingerprint.Fingerprint) bson.M {
	return bson.M{
		"target": fp.Target, "mission": fp.Mission, "host": fp.Host,
		"instrument": fp.Instrument, "dataset_id": fp.DatasetID,
	}
}

// MongoStore is the optional shared [Store] backend, for operators
// running the crawler from multiple hosts against one discovery
// registry. It implements the same create-or-replace/lazy-sequence
// semantics as [FileStore], backed by a single MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to uri and opens database/collection for
// registry storage.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "connecting to mongo registry")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "pinging mongo registry")
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Put inserts or replaces the descriptor for fp.
func (m *MongoStore) Put(ctx context.Context, fp fingerprint.Fingerprint, descriptor model.CollectionDescriptor) error {
	doc := mongoEntry{
		Target: fp.Target, Mission: fp.Mission, Host: fp.Host,
		Instrument: fp.Instrument, DatasetID: fp.DatasetID, Descriptor: descriptor,
	}
	_, err := m.collection.ReplaceOne(ctx, mongoFilter(fp), doc, options.Replace().SetUpsert(true))
	if err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "writing mongo registry entry")
	}
	return nil
}

// Get returns the descriptor for fp, or ok=false if absent.
func (m *MongoStore) Get(ctx context.Context, fp fingerprint.Fingerprint) (model.CollectionDescriptor, bool, error) {
	var doc mongoEntry
	err := m.collection.FindOne(ctx, mongoFilter(fp)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return model.CollectionDescriptor{}, false, nil
	}
	if err != nil {
		return model.CollectionDescriptor{}, false, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "reading mongo registry entry")
	}
	return doc.Descriptor, true, nil
}

// All returns a lazy sequence over stored descriptors, optionally
// filtered by target body. Errors are not reported: a failed query
// yields nothing, and a document that cannot be decoded is skipped.
func (m *MongoStore) All(ctx context.Context, target string) iter.Seq2[fingerprint.Fingerprint, model.CollectionDescriptor] {
	return func(yield func(fingerprint.Fingerprint, model.CollectionDescriptor) bool) {
		filter := bson.M{}
		if target != "" {
			filter["target"] = target
		}
		cursor, err := m.collection.Find(ctx, filter)
		if err != nil {
			return
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var doc mongoEntry
			if err := cursor.Decode(&doc); err != nil {
				continue
			}
			if !yield(doc.fingerprint(), doc.Descriptor) {
				return
			}
		}
	}
}

// Close disconnects the underlying Mongo client.
func (m *MongoStore) Close() error {
	return m.client.Disconnect(context.Background())
}
