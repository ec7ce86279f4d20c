package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "Efectivo"
	PaymentMercadoPago PaymentMethod = "Mercado Pago"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentMercadoPago
}

// Sale is a point-of-sale transaction against inventory.
// UnitSalePrice and UnitPurchasePrice are copied from the product when the sale
// is created and are never refreshed, so historical totals survive price edits.
type Sale struct {
	BaseModel
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product           *Product        `gorm:"constraint:OnDelete:CASCADE;" json:"product,omitempty"`
	EventID           *uuid.UUID      `gorm:"type:uuid;index" json:"event_id,omitempty"`
	Event             *Event          `gorm:"constraint:OnDelete:SET NULL;" json:"event,omitempty"`
	Quantity          int             `gorm:"not null" json:"quantity"`
	PaymentMethod     PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	UnitSalePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_sale_price"`
	UnitPurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_purchase_price"`
	SoldAt            time.Time       `gorm:"not null;index" json:"sold_at"`
}

// Total is the gross amount: quantity × unit sale price.
func (s *Sale) Total() decimal.Decimal {
	return Round2(decimal.NewFromInt(int64(s.Quantity)).Mul(s.UnitSalePrice))
}

// Cost is quantity × unit purchase price.
func (s *Sale) Cost() decimal.Decimal {
	return Round2(decimal.NewFromInt(int64(s.Quantity)).Mul(s.UnitPurchasePrice))
}

// Profit is quantity × (unit sale price − unit purchase price).
func (s *Sale) Profit() decimal.Decimal {
	return Round2(decimal.NewFromInt(int64(s.Quantity)).Mul(s.UnitSalePrice.Sub(s.UnitPurchasePrice)))
}

type SaleResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	EventID           *uuid.UUID      `json:"event_id,omitempty"`
	EventName         string          `json:"event_name,omitempty"`
	Quantity          int             `json:"quantity"`
	PaymentMethod     PaymentMethod   `json:"payment_method"`
	UnitSalePrice     decimal.Decimal `json:"unit_sale_price"`
	UnitPurchasePrice decimal.Decimal `json:"unit_purchase_price"`
	Total             decimal.Decimal `json:"total"`
	Profit            decimal.Decimal `json:"profit"`
	SoldAt            time.Time       `json:"sold_at"`
	CreatedBy         string          `json:"created_by"`
	UpdatedBy         string          `json:"updated_by"`
}

func (s *Sale) ToResponse() SaleResponse {
	response := SaleResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		EventID:           s.EventID,
		Quantity:          s.Quantity,
		PaymentMethod:     s.PaymentMethod,
		UnitSalePrice:     s.UnitSalePrice,
		UnitPurchasePrice: s.UnitPurchasePrice,
		Total:             s.Total(),
		Profit:            s.Profit(),
		SoldAt:            s.SoldAt,
		CreatedBy:         s.CreatedBy,
		UpdatedBy:         s.UpdatedBy,
	}
	if s.Product != nil {
		response.ProductName = s.Product.Name
	}
	if s.Event != nil {
		response.EventName = s.Event.Name
	}
	return response
}
