package branch

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
	apperrors "github.com/dteti-sys-rsch/wafi-dental-care/pkg/errors"
)

type fakeBranchRepo struct {
	branches map[uuid.UUID]*model.Branch
}

func newFakeBranchRepo() *fakeBranchRepo {
	return &fakeBranchRepo{branches: make(map[uuid.UUID]*model.Branch)}
}

func (f *fakeBranchRepo) Create(_ context.Context, branch *model.Branch) error {
	if branch.ID == uuid.Nil {
		branch.ID = uuid.New()
	}
	f.branches[branch.ID] = branch
	return nil
}

func (f *fakeBranchRepo) Get(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	branch, ok := f.branches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *branch
	return &copied, nil
}

func (f *fakeBranchRepo) List(_ context.Context) ([]*model.Branch, error) {
	var branches []*model.Branch
	for _, branch := range f.branches {
		branches = append(branches, branch)
	}
	return branches, nil
}

func (f *fakeBranchRepo) Update(_ context.Context, branch *model.Branch) error {
	if _, ok := f.branches[branch.ID]; !ok {
		return repository.ErrNotFound
	}
	f.branches[branch.ID] = branch
	return nil
}

func (f *fakeBranchRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.branches[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.branches, id)
	return nil
}

func strptr(s string) *string { return &s }

func TestCreateAndList(t *testing.T) {
	svc := NewService(newFakeBranchRepo(), nil)

	branch, err := svc.Create(context.Background(), "Pusat", "Yogyakarta")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, branch.ID)

	branches, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, branches, 1)
}

func TestUpdateMergesOnlySuppliedFields(t *testing.T) {
	repo := newFakeBranchRepo()
	svc := NewService(repo, nil)

	branch, err := svc.Create(context.Background(), "Pusat", "Yogyakarta")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), branch.ID,
		&model.UpdateBranchRequest{Location: strptr("Sleman")})
	require.NoError(t, err)
	assert.Equal(t, "Pusat", updated.Name)
	assert.Equal(t, "Sleman", updated.Location)
}

func TestUpdateUnknownBranch(t *testing.T) {
	svc := NewService(newFakeBranchRepo(), nil)

	_, err := svc.Update(context.Background(), uuid.New(),
		&model.UpdateBranchRequest{Name: strptr("Baru")})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode())
	assert.Equal(t, "Branch not found", appErr.Message)
}

func TestDeleteUnknownBranch(t *testing.T) {
	svc := NewService(newFakeBranchRepo(), nil)

	err := svc.Delete(context.Background(), uuid.New())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode())
}

func TestDeleteExistingBranch(t *testing.T) {
	repo := newFakeBranchRepo()
	svc := NewService(repo, nil)

	branch, err := svc.Create(context.Background(), "Pusat", "Yogyakarta")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), branch.ID))
	assert.Empty(t, repo.branches)
}
