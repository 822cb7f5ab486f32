package registry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mymai1208/AntiBot/internal/domain"
)

// DocumentStore persists the whole registry document.
type DocumentStore interface {
	Load(ctx context.Context) (*domain.RegistryDocument, error)
	Save(ctx context.Context, doc *domain.RegistryDocument) error
}

type Service interface {
	Get(communityID domain.Snowflake) (domain.CommunityConfig, error)
	Upsert(ctx context.Context, communityID, grantRoleID domain.Snowflake) error
}

type service struct {
	mu      sync.RWMutex
	servers []domain.CommunityConfig
	store   DocumentStore
}

// NewService loads the registry document from store. A load failure is fatal
// for the caller: the process must not run against a registry it could not read.
func NewService(ctx context.Context, store DocumentStore) (Service, error) {
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	s := &service{store: store}
	for _, c := range doc.Servers {
		// Later entries win if the document was edited by hand.
		s.servers = upsert(s.servers, c.ID, c.GrantRoleID)
	}
	slog.Info("server registry loaded", "servers", len(s.servers))
	return s, nil
}

func (s *service) Get(communityID domain.Snowflake) (domain.CommunityConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.servers, func(c domain.CommunityConfig) bool { return c.ID == communityID })
	if i < 0 {
		return domain.CommunityConfig{}, fmt.Errorf("community %s not configured: %w", communityID, domain.ErrNotFound)
	}
	return s.servers[i], nil
}

// Upsert sets the grant role for communityID and rewrites the durable document.
// The in-memory registry only changes once the write has succeeded.
func (s *service) Upsert(ctx context.Context, communityID, grantRoleID domain.Snowflake) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := upsert(slices.Clone(s.servers), communityID, grantRoleID)
	if err := s.store.Save(ctx, &domain.RegistryDocument{Servers: next}); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	s.servers = next
	slog.Info("community configured", "community_id", communityID, "grant_role_id", grantRoleID)
	return nil
}

func upsert(servers []domain.CommunityConfig, communityID, grantRoleID domain.Snowflake) []domain.CommunityConfig {
	for i := range servers {
		if servers[i].ID == communityID {
			servers[i].GrantRoleID = grantRoleID
			return servers
		}
	}
	return append(servers, domain.CommunityConfig{ID: communityID, GrantRoleID: grantRoleID})
}
