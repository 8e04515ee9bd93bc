package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/store"
)

// DefaultCollection is the record collection used when none is configured.
const DefaultCollection = "batchwatch_records"

// Ensure Store implements store.Store at compile time.
var _ store.Store = (*Store)(nil)

// Store is a MongoDB implementation of store.Store.
type Store struct {
	db         *mongod.Database
	client     *mongod.Client // set when the Store owns the connection
	collection string
	logger     *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithCollection sets the record collection name.
func WithCollection(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.collection = name
		}
	}
}

// New creates a new MongoDB store. The caller owns the db lifecycle. The
// Store will not close it on Close().
func New(db *mongod.Database, opts ...Option) *Store {
	s := &Store{
		db:         db,
		collection: DefaultCollection,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to uri and uses database dbName. The returned Store
// disconnects the client on Close.
func Open(ctx context.Context, uri, dbName string, opts ...Option) (*Store, error) {
	client, err := mongod.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("batchwatch/mongo: connect: %w", err)
	}
	s := New(client.Database(dbName), opts...)
	s.client = client
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// DB returns the underlying *mongo.Database for advanced usage.
func (s *Store) DB() *mongod.Database {
	return s.db
}

func (s *Store) records() *mongod.Collection {
	return s.db.Collection(s.collection)
}

// Migrate creates the record collection if it does not exist. The _id index
// is the only one needed.
func (s *Store) Migrate(ctx context.Context) error {
	names, err := s.db.ListCollectionNames(ctx, bson.M{"name": s.collection})
	if err != nil {
		return wrapErr("list collections", err)
	}
	if len(names) > 0 {
		return nil
	}
	if err := s.db.CreateCollection(ctx, s.collection); err != nil {
		return wrapErr("create collection", err)
	}
	s.logger.Info("created collection", "collection", s.collection)
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return wrapErr("ping", err)
	}
	return nil
}

// Close disconnects the client when it was created by Open.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

// ── helpers ──────────────────────────────────────────────────────

// isNoDocuments returns true when err indicates no MongoDB documents found.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

// isUnavailable reports transport failures and expired deadlines.
func isUnavailable(err error) bool {
	return mongod.IsTimeout(err) ||
		mongod.IsNetworkError(err) ||
		errors.Is(err, mongod.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// wrapErr maps err onto the store sentinels. Collections are created on
// first write, so there is no schema failure to report.
func wrapErr(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("batchwatch/mongo: %s: %w: %w", op, batchwatch.ErrConnectivity, err)
	}
	return fmt.Errorf("batchwatch/mongo: %s: %w", op, err)
}
