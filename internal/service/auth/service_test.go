package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/auth"
	apperrors "github.com/dteti-sys-rsch/wafi-dental-care/pkg/errors"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/security"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetProfile(_ context.Context, id uuid.UUID) (*model.UserProfile, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	profile := &model.UserProfile{Username: user.Username, Role: user.Role}
	profile.ID = user.ID
	return profile, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*model.UserProfile, error) { return nil, nil }

func (f *fakeUserRepo) CountByRole(_ context.Context) (model.RoleCounts, error) {
	return model.RoleCounts{}, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeBranchRepo struct {
	branches map[uuid.UUID]*model.Branch
}

func newFakeBranchRepo() *fakeBranchRepo {
	return &fakeBranchRepo{branches: make(map[uuid.UUID]*model.Branch)}
}

func (f *fakeBranchRepo) add() *model.Branch {
	branch := &model.Branch{Name: "Pusat", Location: "Yogyakarta"}
	branch.ID = uuid.New()
	f.branches[branch.ID] = branch
	return branch
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
	return branch, nil
}

func (f *fakeBranchRepo) List(_ context.Context) ([]*model.Branch, error) { return nil, nil }

func (f *fakeBranchRepo) Update(_ context.Context, branch *model.Branch) error { return nil }

func (f *fakeBranchRepo) Delete(_ context.Context, id uuid.UUID) error { return nil }

func newTestService() (*Service, *fakeUserRepo, *fakeBranchRepo) {
	users := newFakeUserRepo()
	branches := newFakeBranchRepo()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	hasher := security.NewBcryptHasher(4)
	return NewService(users, branches, hasher, jwtSvc, nil), users, branches
}

func assertStatus(t *testing.T, err error, status int) *apperrors.AppError {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode())
	return appErr
}

func TestRegisterDefaultsToStaff(t *testing.T) {
	svc, _, branches := newTestService()
	branch := branches.add()

	profile, err := svc.Register(context.Background(), "siti", "secret123", branch.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, profile.Role)
}

func TestRegisterInvalidRole(t *testing.T) {
	svc, _, branches := newTestService()
	branch := branches.add()

	_, err := svc.Register(context.Background(), "siti", "secret123", branch.ID, "ADMIN")
	appErr := assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid role", appErr.Message)
}

func TestRegisterUnknownBranch(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), "siti", "secret123", uuid.New(), model.RoleStaff)
	appErr := assertStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Branch not found", appErr.Message)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, branches := newTestService()
	branch := branches.add()

	_, err := svc.Register(context.Background(), "siti", "secret123", branch.ID, model.RoleDoctor)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "siti", "other456", branch.ID, model.RoleStaff)
	appErr := assertStatus(t, err, http.StatusConflict)
	assert.Equal(t, "Username already exists", appErr.Message)
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	svc, users, branches := newTestService()
	branch := branches.add()

	profile, err := svc.Register(context.Background(), "siti", "secret123", branch.ID, "")
	require.NoError(t, err)

	stored := users.users[profile.ID]
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _, branches := newTestService()
	branch := branches.add()

	profile, err := svc.Register(context.Background(), "siti", "secret123", branch.ID, model.RoleDoctor)
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "siti", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "siti", result.User.Username)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, branches := newTestService()
	branch := branches.add()

	_, err := svc.Register(context.Background(), "siti", "secret123", branch.ID, "")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "siti", "wrong")
	appErr := assertStatus(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Invalid credentials", appErr.Message)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Login(context.Background(), "ghost", "secret123")
	appErr := assertStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestGetUserUnknown(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetUser(context.Background(), uuid.New())
	appErr := assertStatus(t, err, http.StatusForbidden)
	assert.Equal(t, "Unknown user", appErr.Message)
}
