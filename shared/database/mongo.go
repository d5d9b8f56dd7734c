package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
)

// DefaultDatabase is used when neither the configuration nor the connection
// string names a database.
const DefaultDatabase = "authAPI"

// Mongo owns a MongoDB client and the database the service works in.
// It is created once at start-up and closed on shutdown.
type Mongo struct {
	client   *mongo.Client
	database *mongo.Database
	timeout  time.Duration
}

// NewMongo connects to uri and verifies the connection with a ping.
// When database is empty the name is taken from uri, falling back to
// DefaultDatabase.
func NewMongo(ctx context.Context, uri, database string, timeout time.Duration) (*Mongo, error) {
	if database == "" {
		name, err := DatabaseFromURI(uri)
		if err != nil {
			return nil, err
		}
		database = name
	}

	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		opts.SetTimeout(timeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	m := &Mongo{
		client:   client,
		database: client.Database(database),
		timeout:  timeout,
	}

	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return m, nil
}

// DatabaseFromURI returns the database named in a MongoDB connection string,
// or DefaultDatabase when the string has none.
func DatabaseFromURI(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongo url: %w", err)
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}

// Database returns the handle repositories are built on.
func (m *Mongo) Database() *mongo.Database {
	return m.database
}

// Ping checks that the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
