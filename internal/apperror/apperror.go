// Package apperror defines the domain failures returned by the services.
// Each kind is a struct so callers can recover details with errors.As, and
// each one matches its sentinel with errors.Is.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInactiveProduct   = errors.New("inactive product")
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
)

// InsufficientStockError reports a requested quantity above the available stock.
type InsufficientStockError struct {
	Product   string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente para %s. Disponible: %d", e.Product, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InactiveProductError reports a sale attempted against a disabled product.
type InactiveProductError struct {
	Product string
}

func (e *InactiveProductError) Error() string {
	return fmt.Sprintf("El producto %s está inactivo y no puede venderse", e.Product)
}

func (e *InactiveProductError) Is(target error) bool { return target == ErrInactiveProduct }

// NotFoundError reports a missing product, event, sale or other record.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func NotFound(entity string, id fmt.Stringer) *NotFoundError {
	if id == nil {
		return &NotFoundError{Entity: entity}
	}
	return &NotFoundError{Entity: entity, ID: id.String()}
}

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
