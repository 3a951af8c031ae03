package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrItemNotFound indicates that catalog item does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrInsufficientStock indicates that requested quantity exceeds stock
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrCartDisabled indicates that the cart of the user is switched off by an administrator
	ErrCartDisabled = errors.New("cart disabled")

	// ErrCartEmpty indicates checkout of an empty cart
	ErrCartEmpty = errors.New("cart is empty")
)
