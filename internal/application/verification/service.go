package verification

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mymai1208/AntiBot/internal/domain"
)

// KeyStore mints, looks up and invalidates verification keys.
type KeyStore interface {
	Mint(communityID, memberID domain.Snowflake) (domain.VerificationKey, error)
	Lookup(token string) (domain.VerificationKey, error)
	Consume(token string)
}

// Registry is the read/write view of per-community configuration.
type Registry interface {
	Get(communityID domain.Snowflake) (domain.CommunityConfig, error)
	Upsert(ctx context.Context, communityID, grantRoleID domain.Snowflake) error
}

// ChallengeVerifier checks a human-verification challenge response.
type ChallengeVerifier interface {
	Verify(ctx context.Context, response, remoteIP string) error
}

// RoleGranter assigns a role to a member within a community.
type RoleGranter interface {
	Grant(ctx context.Context, communityID, memberID, roleID domain.Snowflake) error
}

// CompleteRequest is the challenge page submission. Token is the challenge
// response, not the verification key.
type CompleteRequest struct {
	Key      string `json:"key" validate:"required,alphanum"`
	Token    string `json:"token" validate:"required"`
	RemoteIP string `json:"-"`
}

type Service interface {
	// Setup records the role granted on verification in communityID.
	Setup(ctx context.Context, communityID, grantRoleID domain.Snowflake) error
	// Start mints a key for the member and returns the verification URL.
	Start(ctx context.Context, communityID, memberID domain.Snowflake) (string, error)
	// Complete validates the challenge, grants the role and consumes the key.
	// A nil error means the member was verified.
	Complete(ctx context.Context, req CompleteRequest) error
}

type ServiceDeps struct {
	Keys             KeyStore
	Registry         Registry
	Challenge        ChallengeVerifier
	Granter          RoleGranter
	BaseURL          string
	ChallengeTimeout time.Duration
	GrantTimeout     time.Duration
}

type service struct {
	keys             KeyStore
	registry         Registry
	challenge        ChallengeVerifier
	granter          RoleGranter
	baseURL          string
	challengeTimeout time.Duration
	grantTimeout     time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(deps ServiceDeps) Service {
	return &service{
		keys:             deps.Keys,
		registry:         deps.Registry,
		challenge:        deps.Challenge,
		granter:          deps.Granter,
		baseURL:          strings.TrimRight(deps.BaseURL, "/"),
		challengeTimeout: deps.ChallengeTimeout,
		grantTimeout:     deps.GrantTimeout,
		inFlight:         make(map[string]struct{}),
	}
}

func (s *service) Setup(ctx context.Context, communityID, grantRoleID domain.Snowflake) error {
	if communityID == 0 || grantRoleID == 0 {
		return fmt.Errorf("community and role are required: %w", domain.ErrBadRequest)
	}
	return s.registry.Upsert(ctx, communityID, grantRoleID)
}

func (s *service) Start(_ context.Context, communityID, memberID domain.Snowflake) (string, error) {
	key, err := s.keys.Mint(communityID, memberID)
	if err != nil {
		return "", err
	}
	slog.Info("verification started", "key_id", key.ID, "community_id", communityID, "member_id", memberID)
	return s.baseURL + "/verify/" + url.PathEscape(key.Token), nil
}

// Complete runs the checks cheapest first and only consumes the key after the
// role grant succeeded, so a failed grant leaves the link usable for a retry.
func (s *service) Complete(ctx context.Context, req CompleteRequest) error {
	if !s.claim(req.Key) {
		return fmt.Errorf("verification already in progress: %w", domain.ErrConflict)
	}
	defer s.release(req.Key)

	cctx, cancel := withTimeout(ctx, s.challengeTimeout)
	err := s.challenge.Verify(cctx, req.Token, req.RemoteIP)
	cancel()
	if err != nil {
		return err
	}

	key, err := s.keys.Lookup(req.Key)
	if err != nil {
		return err
	}

	cfg, err := s.registry.Get(key.CommunityID)
	if err != nil {
		return err
	}

	gctx, cancel := withTimeout(ctx, s.grantTimeout)
	err = s.granter.Grant(gctx, key.CommunityID, key.MemberID, cfg.GrantRoleID)
	cancel()
	if err != nil {
		slog.Warn("role grant failed", "key_id", key.ID, "community_id", key.CommunityID, "member_id", key.MemberID, "err", err)
		return err
	}

	s.keys.Consume(req.Key)
	slog.Info("member verified", "key_id", key.ID, "community_id", key.CommunityID, "member_id", key.MemberID, "role_id", cfg.GrantRoleID)
	return nil
}

// claim marks tok as being completed. Concurrent completions of the same
// token would otherwise both pass Lookup before either consumes.
func (s *service) claim(tok string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[tok]; busy {
		return false
	}
	s.inFlight[tok] = struct{}{}
	return true
}

func (s *service) release(tok string) {
	s.mu.Lock()
	delete(s.inFlight, tok)
	s.mu.Unlock()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
