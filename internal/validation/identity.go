package validation

import (
	"fmt"
	"net/mail"
	"regexp"
)

// UsernamePattern определяет допустимый формат username
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
// Длина: 3-32 символа
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

// ItemIDPattern допустимый идентификатор товара
var ItemIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]{1,64}$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username/email
	MaxUsernameLen = 254
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
)

// ValidateUsername проверяет username: либо email, либо латинский логин 3-32 символа
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if UsernamePattern.MatchString(username) {
		return nil
	}

	// Email допускается как идентификатор
	addr, err := mail.ParseAddress(username)
	if err != nil || addr.Address != username {
		return fmt.Errorf("username must be an email or contain only letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}

// ValidateItemID проверяет идентификатор товара
func ValidateItemID(itemID string) error {
	if itemID == "" {
		return fmt.Errorf("item id cannot be empty")
	}
	if !ItemIDPattern.MatchString(itemID) {
		return fmt.Errorf("invalid item id %q", itemID)
	}
	return nil
}
