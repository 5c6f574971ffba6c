package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wrenfield/curator/internal/logger"
)

const (
	usersCollection   = "users"
	libraryCollection = "public_library"
)

// Store handles MongoDB operations for subscription documents and the
// public library.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	users   *mongo.Collection
	library *mongo.Collection
	timeout time.Duration
	logger  logger.Logger
}

// ConnectOptions defines how the store reaches MongoDB.
type ConnectOptions struct {
	URI      string
	Database string
	Timeout  time.Duration // per-operation timeout
}

// Connect dials MongoDB and prepares the collections. Fails fast when the
// server is unreachable.
func Connect(ctx context.Context, opts ConnectOptions, log logger.Logger) (*Store, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	dialCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(opts.Database)
	s := &Store{
		client:  client,
		db:      db,
		users:   db.Collection(usersCollection),
		library: db.Collection(libraryCollection),
		timeout: opts.Timeout,
		logger:  log,
	}

	if err := s.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	return s, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Duplicate shares are rejected at the application level too, but the
	// unique index closes the race between two concurrent shares.
	_, err := s.library.Indexes().CreateOne(opCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Disconnect(opCtx)
}

// Ping reports whether MongoDB is reachable. Used by readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(opCtx, nil)
}

func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}
