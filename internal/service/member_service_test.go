package service

import (
	"testing"

	"go-student-center/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMemberHashesPassword(t *testing.T) {
	f := newFixture(t)
	m := f.member(t, "ana", "Ana Pérez")

	assert.True(t, m.IsActive)
	assert.NotEqual(t, "secreto1", m.Password)
	assert.True(t, m.CheckPassword("secreto1"))

	_, err := f.members.CreateMember(f.ctx, &CreateMemberRequest{Username: "ana", Password: "otro123", FullName: "Otra Ana"}, "admin")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.members.CreateMember(f.ctx, &CreateMemberRequest{Username: "bad", Password: "123", FullName: "Corto"}, "admin")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateAndDeleteMember(t *testing.T) {
	f := newFixture(t)
	m := f.member(t, "luis", "Luis Gómez")
	inactive := false

	updated, err := f.members.UpdateMember(f.ctx, m.ID, &UpdateMemberRequest{FullName: "Luis A. Gómez", Course: "6B", IsActive: &inactive}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "Luis A. Gómez", updated.FullName)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.CheckPassword("secreto1"))

	all, err := f.members.GetAllMembers(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "6B", all[0].Course)

	require.NoError(t, f.members.DeleteMember(f.ctx, m.ID))
	_, err = f.members.GetMemberByID(f.ctx, m.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, f.members.DeleteMember(f.ctx, m.ID), apperror.ErrNotFound)
}

func TestChangeAndResetPassword(t *testing.T) {
	f := newFixture(t)
	f.member(t, "ana", "Ana Pérez")

	assert.ErrorIs(t, f.members.ChangePassword(f.ctx, "ana", "equivocada", "nueva123"), apperror.ErrValidation)
	require.NoError(t, f.members.ChangePassword(f.ctx, "ana", "secreto1", "nueva123"))

	require.NoError(t, f.members.ResetPassword(f.ctx, "ana", "reseteada", "admin"))
	assert.ErrorIs(t, f.members.ResetPassword(f.ctx, "nadie", "reseteada", "admin"), apperror.ErrNotFound)
	assert.ErrorIs(t, f.members.ResetPassword(f.ctx, "ana", "123", "admin"), apperror.ErrValidation)
}
