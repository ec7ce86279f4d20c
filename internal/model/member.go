package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Member is a person registered with the student center (board member or visitor).
type Member struct {
	BaseModel
	Username string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	FullName string `gorm:"type:varchar(100);not null" json:"full_name"`
	Course   string `gorm:"type:varchar(20)" json:"course"`
	Phone    string `gorm:"type:varchar(20)" json:"phone"`
	Email    string `gorm:"type:varchar(255)" json:"email"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

// SetPassword hashes and sets the member's password
func (m *Member) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (m *Member) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(m.Password), []byte(password)) == nil
}

type MemberResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Course   string    `json:"course"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`
	IsActive bool      `json:"is_active"`
}

func (m *Member) ToResponse() MemberResponse {
	return MemberResponse{
		ID:       m.ID,
		Username: m.Username,
		FullName: m.FullName,
		Course:   m.Course,
		Phone:    m.Phone,
		Email:    m.Email,
		IsActive: m.IsActive,
	}
}
