package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/service/event"
	apperrors "github.com/dteti-sys-rsch/wafi-dental-care/pkg/errors"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/security"
)

type Service struct {
	userRepo   repository.UserRepository
	branchRepo repository.BranchRepository
	hasher     security.PasswordHasher
	events     *event.Service
}

func NewService(userRepo repository.UserRepository, branchRepo repository.BranchRepository,
	hasher security.PasswordHasher, events *event.Service) *Service {
	return &Service{
		userRepo:   userRepo,
		branchRepo: branchRepo,
		hasher:     hasher,
		events:     events,
	}
}

// List returns all users, sanitized and with branch populated, together
// with per-role aggregate counts.
func (s *Service) List(ctx context.Context) (*model.UserList, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	counts, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.UserList{Users: users, Counts: counts}, nil
}

// Update applies a partial update; a supplied password is re-hashed
// before storing.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.UserProfile, error) {
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		user.PasswordHash = hash
	}
	if req.BranchID != nil {
		branchID, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return nil, apperrors.BadRequest("Invalid branch ID", err)
		}
		if _, err := s.branchRepo.Get(ctx, branchID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.BadRequest("Branch not found", err)
			}
			return nil, apperrors.Internal(err)
		}
		user.BranchID = branchID
	}
	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			return nil, apperrors.BadRequest("Invalid role", nil)
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Username already exists", err)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.events.Record(ctx, event.TypeUserUpdated, user)

	profile, err := s.userRepo.GetProfile(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return profile, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("User not found", err)
		}
		return apperrors.Internal(err)
	}
	s.events.Record(ctx, event.TypeUserDeleted, map[string]interface{}{"id": id})
	return nil
}
