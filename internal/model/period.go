package model

import (
	"time"

	"github.com/google/uuid"
)

// ManagementPeriod (gestión) is a dated term during which members hold roles.
type ManagementPeriod struct {
	BaseModel
	Name      string     `gorm:"type:varchar(100);not null" json:"name"`
	StartDate time.Time  `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`
}

// PeriodMembership assigns a member to a role during a period.
// The (member, role, period) triple is unique.
type PeriodMembership struct {
	BaseModel
	MemberID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_member_role_period" json:"member_id"`
	Member   *Member           `gorm:"constraint:OnDelete:CASCADE;" json:"member,omitempty"`
	RoleID   uint              `gorm:"not null;uniqueIndex:idx_member_role_period" json:"role_id"`
	Role     *Role             `gorm:"constraint:OnDelete:CASCADE;" json:"role,omitempty"`
	PeriodID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_member_role_period" json:"period_id"`
	Period   *ManagementPeriod `gorm:"constraint:OnDelete:CASCADE;" json:"period,omitempty"`
}

type PeriodResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date,omitempty"`
}

func (p *ManagementPeriod) ToResponse() PeriodResponse {
	response := PeriodResponse{
		ID:        p.ID,
		Name:      p.Name,
		StartDate: p.StartDate.Format(DateLayout),
	}
	if p.EndDate != nil {
		response.EndDate = p.EndDate.Format(DateLayout)
	}
	return response
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"
