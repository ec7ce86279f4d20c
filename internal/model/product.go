package model

import "github.com/shopspring/decimal"

// Product is an item the center sells at its point of sale.
type Product struct {
	BaseModel
	Name          string          `gorm:"type:varchar(50);not null" json:"name"`
	Stock         int             `gorm:"not null;default:0" json:"stock"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price"`
	Active        bool            `gorm:"not null" json:"active"`
}

// UnitProfit is the margin of one unit at the product's current prices.
func (p *Product) UnitProfit() decimal.Decimal {
	return p.SalePrice.Sub(p.PurchasePrice)
}
