package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notectl/internal/api"
	"notectl/internal/logging"
	"notectl/internal/models"
)

func sampleUsers() []models.User {
	return []models.User{
		{ID: 1, Username: "root", Role: models.RoleAdmin, IsAdmin: true, IsActive: true},
		{ID: 2, Username: "bob", Role: models.RoleUser, IsActive: true},
	}
}

func TestUsers_ReloadAndCurrent(t *testing.T) {
	fc := &fakeClient{UsersRet: sampleUsers()}
	s := NewUsers(fc, adminSession(), logging.Nop())

	users, err := s.Reload(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "root", s.Current()[0].Username)
}

func TestUsers_CreateCarriesBothAdminFlags(t *testing.T) {
	fc := &fakeClient{}
	s := NewUsers(fc, adminSession(), logging.Nop())

	require.NoError(t, s.Create(context.Background(), "carol", "pw", models.RoleUser, false))

	assert.Equal(t, "carol", fc.LastUserDraft.Username)
	assert.False(t, fc.LastUserDraft.IsAdmin, "flag for the new account")
	assert.True(t, fc.LastUserDraft.RequestingUserIsAdmin, "advisory claim of the caller")
}

func TestUsers_CreateRequiresCredentials(t *testing.T) {
	fc := &fakeClient{}
	s := NewUsers(fc, adminSession(), logging.Nop())

	err := s.Create(context.Background(), "carol", "", models.RoleUser, false)
	require.ErrorIs(t, err, api.ErrValidation)
	assert.Empty(t, fc.LastUserDraft.Username)
}

func TestUsers_SetActiveSendsPatchWithAdvisoryFlag(t *testing.T) {
	fc := &fakeClient{UsersRet: sampleUsers()}
	s := NewUsers(fc, adminSession(), logging.Nop())

	require.NoError(t, s.SetActive(context.Background(), 2, false))

	assert.Equal(t, int64(2), fc.LastUserPatchID)
	require.NotNil(t, fc.LastUserPatch.IsActive)
	assert.False(t, *fc.LastUserPatch.IsActive)
	require.NotNil(t, fc.LastUserPatch.RequestingUserIsAdmin)
	assert.True(t, *fc.LastUserPatch.RequestingUserIsAdmin)
}

func TestUsers_SetAdminRefusesSuperAdmin(t *testing.T) {
	fc := &fakeClient{UsersRet: sampleUsers()}
	s := NewUsers(fc, adminSession(), logging.Nop())

	err := s.SetAdmin(context.Background(), models.SuperAdminID, false)
	require.ErrorIs(t, err, api.ErrForbidden)
	assert.Zero(t, fc.UpdateUserCalls, "no request reaches the backend")
}

func TestUsers_SetAdminForRegularUser(t *testing.T) {
	fc := &fakeClient{UsersRet: sampleUsers()}
	s := NewUsers(fc, adminSession(), logging.Nop())

	require.NoError(t, s.SetAdmin(context.Background(), 2, true))

	assert.Equal(t, int64(2), fc.LastUserPatchID)
	require.NotNil(t, fc.LastUserPatch.IsAdmin)
	assert.True(t, *fc.LastUserPatch.IsAdmin)
}

func TestUsers_DeleteSendsAdvisoryFlag(t *testing.T) {
	fc := &fakeClient{UsersRet: sampleUsers()}
	s := NewUsers(fc, adminSession(), logging.Nop())

	require.NoError(t, s.Delete(context.Background(), 2))
	assert.Equal(t, int64(2), fc.LastDeleteUserID)
	assert.True(t, fc.LastDeleteUserAdmin)
}

func TestUsers_FailedUpdateLeavesListUnchanged(t *testing.T) {
	fc := &fakeClient{UsersRet: sampleUsers(), UpdateUserErr: &api.Error{Kind: api.ErrForbidden, Message: "nope"}}
	s := NewUsers(fc, adminSession(), logging.Nop())

	_, err := s.Reload(context.Background())
	require.NoError(t, err)

	err = s.SetActive(context.Background(), 2, false)
	require.ErrorIs(t, err, api.ErrForbidden)
	assert.Equal(t, "nope", api.UserMessage(err))
	assert.Equal(t, sampleUsers(), s.Current())
}
