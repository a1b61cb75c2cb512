package identity

import (
	"JapaneseShikhi/internal/models"
	"JapaneseShikhi/pkg/logger"
	"context"
)

type tokenVerifier interface {
	Verify(token string) (models.Identity, error)
}

type userRepo interface {
	SyncUser(ctx context.Context, identity models.Identity, isAdmin bool) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
}

type IdentityService struct {
	log      logger.Log
	verifier tokenVerifier
	userRepo userRepo
}

func NewIdentityService(l logger.Log, v tokenVerifier, u userRepo) *IdentityService {
	return &IdentityService{
		log:      l,
		verifier: v,
		userRepo: u,
	}
}

// Authenticate verifies the bearer token and mirrors the asserted profile
// into the local user table.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (models.Identity, *models.User, error) {
	identity, err := s.verifier.Verify(token)
	if err != nil {
		return models.Identity{}, nil, err
	}
	user, err := s.userRepo.SyncUser(ctx, identity, identity.Has(models.CapabilityAdmin))
	if err != nil {
		s.log.ErrorErr("identity: failed to sync user", err, "user_id", identity.UserID)
		return models.Identity{}, nil, err
	}
	return identity, user, nil
}

func (s *IdentityService) User(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.UserByID(ctx, id)
}
