package service

import (
	"testing"

	"go-student-center/internal/apperror"
	"go-student-center/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) member(t *testing.T, username, fullName string) *model.Member {
	t.Helper()
	m, err := f.members.CreateMember(f.ctx, &CreateMemberRequest{
		Username: username,
		Password: "secreto1",
		FullName: fullName,
		Course:   "5A",
	}, "admin")
	require.NoError(t, err)
	return m
}

func TestAssignRoleAndBoard(t *testing.T) {
	f := newFixture(t)
	period := f.period(t)
	ana := f.member(t, "ana", "Ana Pérez")
	luis := f.member(t, "luis", "Luis Gómez")

	roles, err := f.members.ListRoles(f.ctx)
	require.NoError(t, err)
	require.Len(t, roles, 5)
	president, treasurer := roles[0], roles[3]
	assert.Equal(t, model.RolePresident, president.Code)
	assert.Equal(t, model.RoleTreasurer, treasurer.Code)

	_, err = f.periods.AssignRole(f.ctx, period.ID, &AssignRoleRequest{MemberID: ana.ID, RoleID: president.ID}, "admin")
	require.NoError(t, err)
	seat, err := f.periods.AssignRole(f.ctx, period.ID, &AssignRoleRequest{MemberID: luis.ID, RoleID: treasurer.ID}, "admin")
	require.NoError(t, err)
	require.NotNil(t, seat.Member)
	assert.Equal(t, "Luis Gómez", seat.Member.FullName)

	_, err = f.periods.AssignRole(f.ctx, period.ID, &AssignRoleRequest{MemberID: ana.ID, RoleID: president.ID}, "admin")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.periods.AssignRole(f.ctx, period.ID, &AssignRoleRequest{MemberID: uuid.New(), RoleID: president.ID}, "admin")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = f.periods.AssignRole(f.ctx, period.ID, &AssignRoleRequest{MemberID: ana.ID, RoleID: 99}, "admin")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = f.periods.AssignRole(f.ctx, uuid.New(), &AssignRoleRequest{MemberID: ana.ID, RoleID: president.ID}, "admin")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	board, err := f.periods.ListBoard(f.ctx, period.ID)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "Ana Pérez", board[0].FullName)
	assert.Equal(t, model.RolePresident, board[0].RoleCode)
	assert.Equal(t, model.RoleTreasurer, board[1].RoleCode)

	require.NoError(t, f.periods.RemoveAssignment(f.ctx, period.ID, seat.ID))
	board, err = f.periods.ListBoard(f.ctx, period.ID)
	require.NoError(t, err)
	assert.Len(t, board, 1)
}

func TestPeriodDatesAndDelete(t *testing.T) {
	f := newFixture(t)

	_, err := f.periods.CreatePeriod(f.ctx, &PeriodRequest{Name: "Gestión", StartDate: "2026-03-01", EndDate: "2025-12-01"}, "admin")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	period, err := f.periods.CreatePeriod(f.ctx, &PeriodRequest{Name: "Gestión 2025", StartDate: "2025-03-01", EndDate: "2025-12-01"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", period.ToResponse().EndDate)

	product := f.product(t, "Alfajor", 10, "5.00", "8.00")
	event, err := f.events.CreateEvent(f.ctx, &EventRequest{Name: "Kermesse", Date: "2025-10-20", PeriodID: period.ID}, "admin")
	require.NoError(t, err)
	sale, err := f.sales.CreateSale(f.ctx, &CreateSaleRequest{ProductID: product.ID, Quantity: 1, PaymentMethod: model.PaymentCash, EventID: &event.ID}, "caja")
	require.NoError(t, err)

	require.NoError(t, f.periods.DeletePeriod(f.ctx, period.ID))

	_, err = f.periods.GetPeriod(f.ctx, period.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = f.events.GetEvent(f.ctx, event.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	stored, err := f.sales.GetSale(f.ctx, sale.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.EventID)
}
