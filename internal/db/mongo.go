package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sceneframes/backend/internal/logging"
)

// Collection names used by the application.
const (
	UsersCollectionName = "Personal"
	ChatsCollectionName = "chats"
)

// ErrUnavailable indicates the manager holds no usable connection. Callers can
// inspect the wrapped message for the state and the original dial failure.
var ErrUnavailable = errors.New("database unavailable")

// State describes the lifecycle of the managed connection.
type State int

const (
	StateUninitialized State = iota
	StateConnecting
	StateReady
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// CollectionProvider is the dependency repositories take instead of a concrete
// manager, to keep them testable.
type CollectionProvider interface {
	Collection(name string) (*mongo.Collection, error)
}

// Manager owns a single MongoDB client shared by every collection accessor.
// It replaces the older pattern of one cached handle plus a fresh client per
// chats lookup; all collections now resolve through the same pooled client.
type Manager struct {
	uri     string
	dbName  string
	timeout time.Duration

	mu      sync.Mutex
	state   State
	lastErr error
	client  *mongo.Client
	db      *mongo.Database
	users   *mongo.Collection
}

// NewManager constructs a manager targeting the provided endpoint. No network
// activity happens until Initialize is called.
func NewManager(uri, dbName string, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Manager{
		uri:     uri,
		dbName:  dbName,
		timeout: timeout,
		state:   StateUninitialized,
	}
}

// Initialize dials the configured endpoint, confirms reachability with a ping
// and caches the users collection handle. Connection failures are logged and
// recorded but never returned: the manager stays degraded and accessors report
// ErrUnavailable until a later Initialize succeeds. Safe to call concurrently;
// a superseding call disconnects the client it replaces.
func (m *Manager) Initialize(ctx context.Context) {
	logger := logging.FromContext(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateConnecting

	client, err := m.connect(ctx)
	if err != nil {
		if m.client != nil {
			_ = m.client.Disconnect(ctx)
		}
		m.state = StateDegraded
		m.lastErr = err
		m.client = nil
		m.db = nil
		m.users = nil
		logger.Error("could not connect to MongoDB", "database", m.dbName, "error", err)
		return
	}

	if m.client != nil {
		_ = m.client.Disconnect(ctx)
	}

	m.client = client
	m.db = client.Database(m.dbName)
	m.users = m.db.Collection(UsersCollectionName)
	m.state = StateReady
	m.lastErr = nil
	logger.Info("connected to MongoDB", "database", m.dbName)
}

func (m *Manager) connect(ctx context.Context) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(m.uri).
		SetServerSelectionTimeout(m.timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// UsersCollection returns the cached handle to the Personal collection, or nil
// when the manager has never connected or is degraded.
func (m *Manager) UsersCollection() *mongo.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users
}

// Collection resolves a named collection on the shared client. When the
// manager is not ready the returned error wraps ErrUnavailable together with
// the recorded failure reason, so callers can branch on cause.
func (m *Manager) Collection(name string) (*mongo.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		if m.lastErr != nil {
			return nil, fmt.Errorf("%w: state %s: %v", ErrUnavailable, m.state, m.lastErr)
		}
		return nil, fmt.Errorf("%w: state %s", ErrUnavailable, m.state)
	}
	return m.db.Collection(name), nil
}

// ChatsCollection resolves the chats collection through the shared client.
func (m *Manager) ChatsCollection() (*mongo.Collection, error) {
	return m.Collection(ChatsCollectionName)
}

// Status reports the current state and, when degraded, the last dial failure.
func (m *Manager) Status() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.lastErr
}

// Disconnect tears down the shared client and resets the manager.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}

	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	m.users = nil
	m.state = StateUninitialized
	m.lastErr = nil
	if err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

var _ CollectionProvider = (*Manager)(nil)
