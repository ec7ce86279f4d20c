package handler

import (
	"go-student-center/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// CreateMember handles member registration
// POST /api/v1/members
func (h *MemberHandler) CreateMember(c *fiber.Ctx) error {
	var req service.CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	member, err := h.memberService.CreateMember(c.UserContext(), &req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Member created successfully",
		"data":    member.ToResponse(),
	})
}

// PUT /api/v1/members/:id
func (h *MemberHandler) UpdateMember(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid member ID")
	}

	var req service.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	member, err := h.memberService.UpdateMember(c.UserContext(), id, &req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Member updated successfully",
		"data":    member.ToResponse(),
	})
}

// DELETE /api/v1/members/:id
func (h *MemberHandler) DeleteMember(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid member ID")
	}

	if err := h.memberService.DeleteMember(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Member deleted successfully"})
}

// ChangePassword verifies the old password before setting the new one
// POST /api/v1/members/change-password
func (h *MemberHandler) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		Username    string `json:"username"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if err := h.memberService.ChangePassword(c.UserContext(), req.Username, req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

func (h *MemberHandler) GetMembers(c *fiber.Ctx) error {
	members, err := h.memberService.GetAllMembers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(members)
}

func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.GetMemberByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(member)
}

// GetRoles returns all board positions
// GET /api/v1/roles
func (h *MemberHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.memberService.ListRoles(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch roles"})
	}
	return c.JSON(roles)
}
