package service

import "errors"

var (
	ErrUnknownProduct    = errors.New("unknown product")
	ErrEmptyProductName  = errors.New("product name cannot be empty")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInvalidPrice      = errors.New("price cannot be negative")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNegativeStock     = errors.New("stock cannot go negative")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTaxInput   = errors.New("invalid tax input")
	ErrStockConflict     = errors.New("stock changed since cart validation")
)
