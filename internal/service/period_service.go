package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go-student-center/internal/apperror"
	"go-student-center/internal/model"
	"go-student-center/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PeriodService interface {
	CreatePeriod(ctx context.Context, req *PeriodRequest, actor string) (*model.ManagementPeriod, error)
	UpdatePeriod(ctx context.Context, id uuid.UUID, req *PeriodRequest, actor string) (*model.ManagementPeriod, error)
	DeletePeriod(ctx context.Context, id uuid.UUID) error
	GetPeriod(ctx context.Context, id uuid.UUID) (*model.ManagementPeriod, error)
	ListPeriods(ctx context.Context) ([]model.PeriodResponse, error)

	AssignRole(ctx context.Context, periodID uuid.UUID, req *AssignRoleRequest, actor string) (*model.PeriodMembership, error)
	RemoveAssignment(ctx context.Context, periodID, membershipID uuid.UUID) error
	ListBoard(ctx context.Context, periodID uuid.UUID) ([]BoardSeat, error)
}

type PeriodRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`                       // YYYY-MM-DD, optional
}

type AssignRoleRequest struct {
	MemberID uuid.UUID `json:"member_id" validate:"uuid_required"`
	RoleID   uint      `json:"role_id" validate:"required"`
}

// BoardSeat is one member holding one role during a period.
type BoardSeat struct {
	MembershipID uuid.UUID `json:"membership_id"`
	MemberID     uuid.UUID `json:"member_id"`
	FullName     string    `json:"full_name"`
	RoleCode     string    `json:"role_code"`
	RoleName     string    `json:"role_name"`
}

type periodService struct {
	periodRepo repository.PeriodRepository
	memberRepo repository.MemberRepository
	roleRepo   repository.RoleRepository
	after      committer
	logger     *zap.Logger
}

func NewPeriodService(
	periodRepo repository.PeriodRepository,
	memberRepo repository.MemberRepository,
	roleRepo repository.RoleRepository,
	cache SummaryStore,
	logger *zap.Logger,
) PeriodService {
	return &periodService{
		periodRepo: periodRepo,
		memberRepo: memberRepo,
		roleRepo:   roleRepo,
		after:      committer{cache: cache, logger: logger},
		logger:     logger,
	}
}

func (s *periodService) apply(period *model.ManagementPeriod, req *PeriodRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return err
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return err
	}
	var end *time.Time
	if strings.TrimSpace(req.EndDate) != "" {
		parsed, err := parseDate("end_date", req.EndDate)
		if err != nil {
			return err
		}
		if parsed.Before(start) {
			return apperror.Invalid("end_date", "end date cannot be before start date")
		}
		end = &parsed
	}

	period.Name = req.Name
	period.StartDate = start
	period.EndDate = end
	return nil
}

func (s *periodService) CreatePeriod(ctx context.Context, req *PeriodRequest, actor string) (*model.ManagementPeriod, error) {
	period := &model.ManagementPeriod{}
	if err := s.apply(period, req); err != nil {
		return nil, err
	}
	period.CreatedBy = actor
	period.UpdatedBy = actor

	if err := s.periodRepo.Create(ctx, period); err != nil {
		return nil, err
	}

	s.logger.Info("period created", zap.String("operation", "create_period"), zap.String("name", period.Name))
	return period, nil
}

func (s *periodService) UpdatePeriod(ctx context.Context, id uuid.UUID, req *PeriodRequest, actor string) (*model.ManagementPeriod, error) {
	period, err := s.GetPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(period, req); err != nil {
		return nil, err
	}
	period.UpdatedBy = actor

	if err := s.periodRepo.Update(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

// DeletePeriod also deletes the period's events and board.
func (s *periodService) DeletePeriod(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPeriod(ctx, id); err != nil {
		return err
	}
	if err := s.periodRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("period deleted", zap.String("operation", "delete_period"), zap.String("period_id", id.String()))
	s.after.invalidate(ctx)
	return nil
}

func (s *periodService) GetPeriod(ctx context.Context, id uuid.UUID) (*model.ManagementPeriod, error) {
	period, err := s.periodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "period", id)
	}
	return period, nil
}

func (s *periodService) ListPeriods(ctx context.Context) ([]model.PeriodResponse, error) {
	periods, err := s.periodRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = periods[i].ToResponse()
	}
	return responses, nil
}

func (s *periodService) AssignRole(ctx context.Context, periodID uuid.UUID, req *AssignRoleRequest, actor string) (*model.PeriodMembership, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	if _, err := s.memberRepo.FindByID(ctx, req.MemberID); err != nil {
		return nil, notFoundOr(err, "member", req.MemberID)
	}
	if _, err := s.roleRepo.FindByID(ctx, req.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "role", ID: strconv.FormatUint(uint64(req.RoleID), 10)}
		}
		return nil, err
	}

	exists, err := s.periodRepo.MembershipExists(ctx, req.MemberID, req.RoleID, periodID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Invalid("role_id", "member already holds this role in the period")
	}

	membership := &model.PeriodMembership{
		MemberID: req.MemberID,
		RoleID:   req.RoleID,
		PeriodID: periodID,
	}
	membership.CreatedBy = actor
	membership.UpdatedBy = actor

	if err := s.periodRepo.AddMembership(ctx, membership); err != nil {
		return nil, err
	}

	s.logger.Info("role assigned",
		zap.String("operation", "assign_role"),
		zap.String("period_id", periodID.String()),
		zap.String("member_id", req.MemberID.String()),
		zap.Uint("role_id", req.RoleID),
	)
	return s.periodRepo.FindMembership(ctx, membership.ID)
}

func (s *periodService) RemoveAssignment(ctx context.Context, periodID, membershipID uuid.UUID) error {
	membership, err := s.periodRepo.FindMembership(ctx, membershipID)
	if err != nil {
		return notFoundOr(err, "membership", membershipID)
	}
	if membership.PeriodID != periodID {
		return apperror.NotFound("membership", membershipID)
	}
	return s.periodRepo.RemoveMembership(ctx, membershipID)
}

func (s *periodService) ListBoard(ctx context.Context, periodID uuid.UUID) ([]BoardSeat, error) {
	if _, err := s.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}

	memberships, err := s.periodRepo.FindMemberships(ctx, periodID)
	if err != nil {
		return nil, err
	}

	seats := make([]BoardSeat, 0, len(memberships))
	for _, m := range memberships {
		seat := BoardSeat{MembershipID: m.ID, MemberID: m.MemberID}
		if m.Member != nil {
			seat.FullName = m.Member.FullName
		}
		if m.Role != nil {
			seat.RoleCode = m.Role.Code
			seat.RoleName = m.Role.Name
		}
		seats = append(seats, seat)
	}
	return seats, nil
}
