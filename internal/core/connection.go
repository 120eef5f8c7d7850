package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/platform"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/provider"
)

// ConnectionService tracks provider connections. The last-seen connection per
// provider lives in an RWMutex-guarded map; when a database is configured,
// connections are also persisted so they survive restarts.
type ConnectionService struct {
	db DB // nil means in-memory only

	mu    sync.RWMutex
	conns map[string]*model.CloudConnection
}

func NewConnectionService(db DB) *ConnectionService {
	return &ConnectionService{
		db:    db,
		conns: make(map[string]*model.CloudConnection),
	}
}

// Load hydrates the in-memory registry from the database.
func (s *ConnectionService) Load(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, provider, account_id, status, regions, connected_at, updated_at FROM cloud_connections`)
	if err != nil {
		return fmt.Errorf("load connections: %w", err)
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var c model.CloudConnection
		if err := rows.Scan(&c.ID, &c.Provider, &c.AccountID, &c.Status, &c.Regions, &c.ConnectedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("scan connection: %w", err)
		}
		s.conns[c.Provider] = &c
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate connections: %w", err)
	}
	return nil
}

// Connect validates the credentials against the provider and records the
// resulting connection.
func (s *ConnectionService) Connect(ctx context.Context, p provider.Provider, creds provider.Credentials) (*model.CloudConnection, error) {
	conn, err := p.Connect(ctx, creds)
	if err != nil {
		return nil, err
	}
	conn.ID = platform.NewID()
	conn.UpdatedAt = time.Now().UTC()

	if s.db != nil {
		_, err := s.db.Exec(ctx,
			`INSERT INTO cloud_connections (id, provider, account_id, status, regions, connected_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (provider) DO UPDATE
			 SET account_id = EXCLUDED.account_id,
			     status = EXCLUDED.status,
			     regions = EXCLUDED.regions,
			     updated_at = EXCLUDED.updated_at`,
			conn.ID, conn.Provider, conn.AccountID, conn.Status, conn.Regions, conn.ConnectedAt, conn.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("store connection: %w", err)
		}
	}

	s.mu.Lock()
	s.conns[conn.Provider] = conn
	s.mu.Unlock()

	return conn, nil
}

// Get returns the last-seen connection for the provider.
func (s *ConnectionService) Get(providerName string) (*model.CloudConnection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conns[providerName]
	return c, ok
}

// List returns all known connections ordered by provider name.
func (s *ConnectionService) List() []model.CloudConnection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.CloudConnection, 0, len(s.conns))
	for _, c := range s.conns {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}
