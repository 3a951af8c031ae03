package models

import (
	"fmt"
	"strings"
)

// Role роль пользователя
type Role string

const (
	RoleShopper       Role = "shopper" // обычный покупатель, работает с корзиной
	RoleAdministrator Role = "admin"   // администратор, корзиной не пользуется
)

// ParseRole разбирает роль из claims/ответа сервера.
// Пустая строка трактуется как покупатель.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "shopper", "user", "customer":
		return RoleShopper, nil
	case "admin", "administrator":
		return RoleAdministrator, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Identity активный пользователь клиентской сессии
type Identity struct {
	ID   string `json:"id"`   // email или UUID пользователя
	Role Role   `json:"role"` // роль
}

// IsAdmin reports whether the identity is an administrator.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdministrator
}
