package service

import (
	"context"
	"testing"

	"bizbook/internal/model"
	"bizbook/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byID    map[int]*model.User
	byEmail map[string]*model.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int]*model.User{}, byEmail: map[string]*model.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = f.nextID
	f.nextID++
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int, hash string) error {
	f.byID[id].PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) FindSubusers(_ context.Context, ownerID int) ([]model.User, error) {
	var out []model.User
	for _, u := range f.byID {
		if u.ParentID != nil && *u.ParentID == ownerID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id int, active bool) error {
	f.byID[id].IsActive = active
	return nil
}

func (f *fakeUserRepo) FindAll(_ context.Context, _ model.AdminUserFilters) ([]model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetPlatformStats(_ context.Context) (*model.PlatformStats, error) {
	return &model.PlatformStats{}, nil
}

func TestCreateSubuser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	subuser, err := svc.CreateSubuser(context.Background(), 1, model.CreateSubuserRequest{
		Email:       "clerk@shop.test",
		Name:        "Clerk",
		Password:    "secret123",
		Permissions: []string{model.PermEstimates, model.PermReports},
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleSubuser, subuser.Role)
	require.NotNil(t, subuser.ParentID)
	assert.Equal(t, 1, *subuser.ParentID)
	assert.Equal(t, 1, subuser.AccountID())
	assert.True(t, subuser.IsActive)
	assert.True(t, utils.CheckPasswordHash("secret123", subuser.PasswordHash))
}

func TestCreateSubuser_UnknownPermission(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.CreateSubuser(context.Background(), 1, model.CreateSubuserRequest{
		Email:       "clerk@shop.test",
		Name:        "Clerk",
		Password:    "secret123",
		Permissions: []string{"launch-rockets"},
	})
	assert.ErrorIs(t, err, ErrUnknownPermission)
}

func TestCreateSubuser_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	require.NoError(t, repo.Create(context.Background(), &model.User{Email: "clerk@shop.test"}))
	svc := NewUserService(repo)

	_, err := svc.CreateSubuser(context.Background(), 1, model.CreateSubuserRequest{
		Email:       "clerk@shop.test",
		Name:        "Clerk",
		Password:    "secret123",
		Permissions: []string{model.PermEstimates},
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUpdateSubuser_WrongOwner(t *testing.T) {
	repo := newFakeUserRepo()
	ownerID := 1
	require.NoError(t, repo.Create(context.Background(), &model.User{
		Email: "clerk@shop.test", Role: model.RoleSubuser, ParentID: &ownerID,
	}))
	svc := NewUserService(repo)

	name := "New Name"
	_, err := svc.UpdateSubuser(context.Background(), 2, 1, model.UpdateSubuserRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotSubuser)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := utils.HashPassword("rightpass")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &model.User{
		Email: "owner@shop.test", PasswordHash: hash,
	}))
	svc := NewUserService(repo)

	err = svc.ChangePassword(context.Background(), 1, model.ChangePasswordRequest{
		CurrentPassword: "wrongpass",
		NewPassword:     "newpass123",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)
}
