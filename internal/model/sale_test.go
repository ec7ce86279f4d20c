package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSaleTotalAndProfit(t *testing.T) {
	sale := Sale{
		Quantity:          3,
		UnitSalePrice:     decimal.RequireFromString("8.00"),
		UnitPurchasePrice: decimal.RequireFromString("5.00"),
	}

	assert.Equal(t, "24.00", sale.Total().StringFixed(2))
	assert.Equal(t, "15.00", sale.Cost().StringFixed(2))
	assert.Equal(t, "9.00", sale.Profit().StringFixed(2))
}

func TestSaleProfitRoundsToCents(t *testing.T) {
	sale := Sale{
		Quantity:          3,
		UnitSalePrice:     decimal.RequireFromString("1.335"),
		UnitPurchasePrice: decimal.RequireFromString("0.50"),
	}

	// 3 × 0.835 = 2.505
	assert.Equal(t, "2.51", sale.Profit().StringFixed(2))
	assert.Equal(t, "4.01", sale.Total().StringFixed(2))
}

func TestSaleResponseCarriesNames(t *testing.T) {
	sale := Sale{
		Product:           &Product{Name: "Alfajor"},
		Event:             &Event{Name: "Kermesse"},
		Quantity:          2,
		PaymentMethod:     PaymentMercadoPago,
		UnitSalePrice:     decimal.NewFromInt(10),
		UnitPurchasePrice: decimal.NewFromInt(4),
	}

	resp := sale.ToResponse()

	assert.Equal(t, "Alfajor", resp.ProductName)
	assert.Equal(t, "Kermesse", resp.EventName)
	assert.Equal(t, "12.00", resp.Profit.StringFixed(2))
}

func TestPaymentMethodAndEntryKind(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentMercadoPago.Valid())
	assert.False(t, PaymentMethod("Tarjeta").Valid())

	assert.True(t, EntryIncome.Valid())
	assert.False(t, EntryKind("Otro").Valid())
}

func TestMemberPassword(t *testing.T) {
	m := Member{}
	assert.NoError(t, m.SetPassword("secreto"))
	assert.True(t, m.CheckPassword("secreto"))
	assert.False(t, m.CheckPassword("otro"))
}
