package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockMessage(t *testing.T) {
	err := &InsufficientStockError{Product: "Gaseosa", Available: 2}

	assert.Equal(t, "Stock insuficiente para Gaseosa. Disponible: 2", err.Error())
	assert.ErrorIs(t, fmt.Errorf("create sale: %w", err), ErrInsufficientStock)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestErrorsAsRecoversDetails(t *testing.T) {
	wrapped := fmt.Errorf("update: %w", &InsufficientStockError{Product: "Alfajor", Available: 0})

	var stockErr *InsufficientStockError
	assert.True(t, errors.As(wrapped, &stockErr))
	assert.Equal(t, 0, stockErr.Available)
}

func TestNotFound(t *testing.T) {
	id := uuid.MustParse("7b0b8c1e-7d3f-4c51-9a0e-0f6f1c2d3e4f")

	err := NotFound("product", id)

	assert.Equal(t, "product 7b0b8c1e-7d3f-4c51-9a0e-0f6f1c2d3e4f not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "sale not found", NotFound("sale", nil).Error())
}

func TestValidationAndInactive(t *testing.T) {
	assert.Equal(t, "quantity: must be at least 1", Invalid("quantity", "must be at least 1").Error())
	assert.ErrorIs(t, Invalid("", "bad"), ErrValidation)
	assert.ErrorIs(t, &InactiveProductError{Product: "Pancho"}, ErrInactiveProduct)
}
