package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mymai1208/AntiBot/internal/domain"
	"github.com/mymai1208/AntiBot/internal/pkg/id"
	"github.com/mymai1208/AntiBot/internal/pkg/token"
	"golang.org/x/crypto/blake2b"
)

// mintAttempts bounds regeneration when a fresh token collides with a live one.
const mintAttempts = 3

type digest [blake2b.Size256]byte

type memberKey struct {
	community domain.Snowflake
	member    domain.Snowflake
}

// KeyStore holds live verification keys in process memory.
// Keys are indexed by a BLAKE2b digest of their token; the plaintext token is
// returned once from Mint and never kept. Minting for a (community, member)
// pair revokes that pair's previous key.
type KeyStore struct {
	mu      sync.RWMutex
	keys    map[digest]domain.VerificationKey
	members map[memberKey]digest
	ttl     time.Duration

	now      func() time.Time
	newToken func() (string, error)
}

// NewKeyStore creates an empty store. A ttl of zero disables expiry.
func NewKeyStore(ttl time.Duration) *KeyStore {
	return &KeyStore{
		keys:     make(map[digest]domain.VerificationKey),
		members:  make(map[memberKey]digest),
		ttl:      ttl,
		now:      time.Now,
		newToken: token.NewVerificationKey,
	}
}

func hash(tok string) digest {
	return blake2b.Sum256([]byte(tok))
}

// Mint creates a key for the member and returns it with Token populated.
func (s *KeyStore) Mint(communityID, memberID domain.Snowflake) (domain.VerificationKey, error) {
	now := s.now()
	k := domain.VerificationKey{
		ID:          id.New(),
		CommunityID: communityID,
		MemberID:    memberID,
		CreatedAt:   now,
	}
	if s.ttl > 0 {
		k.ExpiresAt = now.Add(s.ttl)
	}

	for attempt := 0; attempt < mintAttempts; attempt++ {
		tok, err := s.newToken()
		if err != nil {
			return domain.VerificationKey{}, err
		}
		d := hash(tok)

		s.mu.Lock()
		if _, taken := s.keys[d]; taken {
			s.mu.Unlock()
			continue
		}
		mk := memberKey{community: communityID, member: memberID}
		if prev, ok := s.members[mk]; ok {
			delete(s.keys, prev)
		}
		s.keys[d] = k
		s.members[mk] = d
		s.mu.Unlock()

		k.Token = tok
		return k, nil
	}
	return domain.VerificationKey{}, fmt.Errorf("mint verification key: %w", domain.ErrConflict)
}

// Lookup returns the live key for tok without consuming it.
// Unknown and expired tokens both report domain.ErrNotFound.
func (s *KeyStore) Lookup(tok string) (domain.VerificationKey, error) {
	s.mu.RLock()
	k, ok := s.keys[hash(tok)]
	s.mu.RUnlock()
	if !ok {
		return domain.VerificationKey{}, fmt.Errorf("verification key not found: %w", domain.ErrNotFound)
	}
	if k.Expired(s.now()) {
		return domain.VerificationKey{}, fmt.Errorf("verification key expired: %w", domain.ErrNotFound)
	}
	k.Token = tok
	return k, nil
}

// Consume removes the key for tok. Consuming an absent key is a no-op.
func (s *KeyStore) Consume(tok string) {
	d := hash(tok)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(d)
}

func (s *KeyStore) removeLocked(d digest) {
	k, ok := s.keys[d]
	if !ok {
		return
	}
	delete(s.keys, d)
	mk := memberKey{community: k.CommunityID, member: k.MemberID}
	if cur, ok := s.members[mk]; ok && cur == d {
		delete(s.members, mk)
	}
}

// Len returns the number of stored keys, including expired ones not yet swept.
func (s *KeyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Sweep removes every key expired at now and returns how many were removed.
func (s *KeyStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for d, k := range s.keys {
		if k.Expired(now) {
			s.removeLocked(d)
			n++
		}
	}
	return n
}

// Run sweeps expired keys every interval until ctx is cancelled.
func (s *KeyStore) Run(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(s.now()); n > 0 {
				slog.Debug("swept expired verification keys", "count", n, "live", s.Len())
			}
		}
	}
}
