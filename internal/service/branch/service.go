package branch

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/service/event"
	apperrors "github.com/dteti-sys-rsch/wafi-dental-care/pkg/errors"
)

type Service struct {
	repo   repository.BranchRepository
	events *event.Service
}

func NewService(repo repository.BranchRepository, events *event.Service) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) Create(ctx context.Context, name, location string) (*model.Branch, error) {
	branch := &model.Branch{Name: name, Location: location}
	if err := s.repo.Create(ctx, branch); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.events.Record(ctx, event.TypeBranchCreated, branch)
	return branch, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Branch, error) {
	branches, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return branches, nil
}

// Update merges only the supplied fields into the stored branch.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBranchRequest) (*model.Branch, error) {
	branch, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Branch not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Location != nil {
		branch.Location = *req.Location
	}

	if err := s.repo.Update(ctx, branch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Branch not found", err)
		}
		return nil, apperrors.Internal(err)
	}

	s.events.Record(ctx, event.TypeBranchUpdated, branch)
	return branch, nil
}

// Delete removes the branch unconditionally; referencing users are not
// checked.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Branch not found", err)
		}
		return apperrors.Internal(err)
	}
	s.events.Record(ctx, event.TypeBranchDeleted, map[string]interface{}{"id": id})
	return nil
}
