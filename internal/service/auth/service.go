package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/service/event"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/auth"
	apperrors "github.com/dteti-sys-rsch/wafi-dental-care/pkg/errors"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/security"
)

// LoginResult bundles the issued token with the sanitized user profile.
type LoginResult struct {
	Token string             `json:"token"`
	User  *model.UserProfile `json:"user"`
}

type Service struct {
	userRepo   repository.UserRepository
	branchRepo repository.BranchRepository
	hasher     security.PasswordHasher
	jwtSvc     auth.JWTService
	events     *event.Service
}

func NewService(userRepo repository.UserRepository, branchRepo repository.BranchRepository,
	hasher security.PasswordHasher, jwtSvc auth.JWTService, events *event.Service) *Service {
	return &Service{
		userRepo:   userRepo,
		branchRepo: branchRepo,
		hasher:     hasher,
		jwtSvc:     jwtSvc,
		events:     events,
	}
}

// Register hashes the password and persists a new user. The password is
// never returned.
func (s *Service) Register(ctx context.Context, username, password string, branchID uuid.UUID, role string) (*model.UserProfile, error) {
	if role == "" {
		role = model.RoleStaff
	}
	if !model.ValidRole(role) {
		return nil, apperrors.BadRequest("Invalid role", nil)
	}

	if _, err := s.branchRepo.Get(ctx, branchID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.BadRequest("Branch not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		BranchID:     branchID,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Username already exists", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.events.Record(ctx, event.TypeUserCreated, user)

	profile, err := s.userRepo.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return profile, nil
}

// Login verifies the credentials and issues a signed token embedding the
// user id.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthenticated("Invalid credentials", nil)
	}

	token, err := s.jwtSvc.Generate(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	profile, err := s.userRepo.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &LoginResult{Token: token, User: profile}, nil
}

// ValidateToken verifies a token and extracts its identity claim.
func (s *Service) ValidateToken(token string) (*auth.Claims, error) {
	return s.jwtSvc.Validate(token)
}

// GetUser loads a user by id; used by the role gate.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Forbidden("Unknown user", err)
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}
