package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryIncome  EntryKind = "Ingreso"
	EntryExpense EntryKind = "Egreso"
)

func (k EntryKind) Valid() bool {
	return k == EntryIncome || k == EntryExpense
}

// TreasuryEntry is a ledger line. Entries generated by a sale carry SaleID;
// at most one entry exists per sale.
type TreasuryEntry struct {
	BaseModel
	Kind        EntryKind       `gorm:"type:varchar(10);not null;index" json:"kind"`
	Description string          `gorm:"type:varchar(200);not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	EventID     *uuid.UUID      `gorm:"type:uuid;index" json:"event_id,omitempty"`
	Event       *Event          `gorm:"constraint:OnDelete:SET NULL;" json:"event,omitempty"`
	SaleID      *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"sale_id,omitempty"`
	Sale        *Sale           `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
