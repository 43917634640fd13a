package services

import "errors"

var (
	ErrCartEmpty          = errors.New("cart is empty, add items first")
	ErrCartLineIndex      = errors.New("cart line does not exist")
	ErrCartBusy           = errors.New("cart is locked while an order is being placed")
	ErrUnknownOption      = errors.New("option does not belong to this menu item")
	ErrInvalidOrderType   = errors.New("order type must be one of Delivery, Pick Up, Eat In")
	ErrSubmissionInFlight = errors.New("an order is already being placed")
	ErrPlaceOrderFailed   = errors.New("failed to place the order, please try again")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrForbidden          = errors.New("forbidden")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
