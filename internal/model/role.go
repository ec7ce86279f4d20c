package model

// Role is a board position (cargo) a member can hold during a management period.
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(50)" json:"name"`
}

// Role codes as constants
const (
	RolePresident     = "PRESIDENTE"
	RoleVicePresident = "VICEPRESIDENTE"
	RoleSecretary     = "SECRETARIO"
	RoleTreasurer     = "TESORERO"
	RoleVocal         = "VOCAL"
)

// DefaultRoles defines the positions seeded at startup
var DefaultRoles = []Role{
	{Code: RolePresident, Name: "Presidente"},
	{Code: RoleVicePresident, Name: "Vicepresidente"},
	{Code: RoleSecretary, Name: "Secretario"},
	{Code: RoleTreasurer, Name: "Tesorero"},
	{Code: RoleVocal, Name: "Vocal"},
}
