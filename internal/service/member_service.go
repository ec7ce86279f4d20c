package service

import (
	"context"
	"errors"
	"strings"

	"go-student-center/internal/apperror"
	"go-student-center/internal/model"
	"go-student-center/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MemberService interface {
	CreateMember(ctx context.Context, req *CreateMemberRequest, actor string) (*model.Member, error)
	UpdateMember(ctx context.Context, id uuid.UUID, req *UpdateMemberRequest, actor string) (*model.Member, error)
	DeleteMember(ctx context.Context, id uuid.UUID) error
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	ResetPassword(ctx context.Context, username, newPassword, actor string) error
	GetAllMembers(ctx context.Context) ([]model.MemberResponse, error)
	GetMemberByID(ctx context.Context, id uuid.UUID) (*model.MemberResponse, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
}

type CreateMemberRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Course   string `json:"course" validate:"max=20"`
	Phone    string `json:"phone" validate:"max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type UpdateMemberRequest struct {
	FullName string  `json:"full_name" validate:"required,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	Course   string  `json:"course" validate:"max=20"`
	Phone    string  `json:"phone" validate:"max=20"`
	Email    string  `json:"email" validate:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

type memberService struct {
	memberRepo repository.MemberRepository
	roleRepo   repository.RoleRepository
	logger     *zap.Logger
}

func NewMemberService(memberRepo repository.MemberRepository, roleRepo repository.RoleRepository, logger *zap.Logger) MemberService {
	return &memberService{
		memberRepo: memberRepo,
		roleRepo:   roleRepo,
		logger:     logger,
	}
}

func (s *memberService) CreateMember(ctx context.Context, req *CreateMemberRequest, actor string) (*model.Member, error) {
	// 1. Validate request
	req.Username = strings.TrimSpace(req.Username)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 2. Check if username already exists
	_, err := s.memberRepo.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, apperror.Invalid("username", "already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 3. Create member
	member := &model.Member{
		Username: req.Username,
		FullName: req.FullName,
		Course:   req.Course,
		Phone:    req.Phone,
		Email:    req.Email,
		IsActive: true,
	}
	member.CreatedBy = actor
	member.UpdatedBy = actor

	if err := member.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("member created", zap.String("operation", "create_member"), zap.String("username", member.Username))
	return member, nil
}

func (s *memberService) UpdateMember(ctx context.Context, id uuid.UUID, req *UpdateMemberRequest, actor string) (*model.Member, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "member", id)
	}

	member.FullName = req.FullName
	member.Course = req.Course
	member.Phone = req.Phone
	member.Email = req.Email
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		if err := member.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}
	member.UpdatedBy = actor

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// DeleteMember removes the member and every board assignment they hold.
func (s *memberService) DeleteMember(ctx context.Context, id uuid.UUID) error {
	if _, err := s.memberRepo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "member", id)
	}
	return s.memberRepo.Delete(ctx, id)
}

func (s *memberService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	member, err := s.memberRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperror.NotFoundError{Entity: "member", ID: username}
		}
		return err
	}
	if !member.CheckPassword(oldPassword) {
		return apperror.Invalid("old_password", "does not match")
	}
	return s.setPassword(ctx, member, newPassword, member.Username)
}

// ResetPassword sets a new password without checking the old one.
func (s *memberService) ResetPassword(ctx context.Context, username, newPassword, actor string) error {
	member, err := s.memberRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperror.NotFoundError{Entity: "member", ID: username}
		}
		return err
	}
	return s.setPassword(ctx, member, newPassword, actor)
}

func (s *memberService) setPassword(ctx context.Context, member *model.Member, password, actor string) error {
	if len(password) < 6 {
		return apperror.Invalid("new_password", "must be at least 6 characters")
	}
	if err := member.SetPassword(password); err != nil {
		return err
	}
	member.UpdatedBy = actor
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return err
	}

	s.logger.Info("member password changed", zap.String("username", member.Username), zap.String("by", actor))
	return nil
}

func (s *memberService) GetAllMembers(ctx context.Context) ([]model.MemberResponse, error) {
	members, err := s.memberRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.MemberResponse, len(members))
	for i, member := range members {
		responses[i] = member.ToResponse()
	}
	return responses, nil
}

func (s *memberService) GetMemberByID(ctx context.Context, id uuid.UUID) (*model.MemberResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "member", id)
	}
	response := member.ToResponse()
	return &response, nil
}

func (s *memberService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.roleRepo.FindAll(ctx)
}
