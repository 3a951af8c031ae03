package models

import "time"

// User представляет пользователя на сервере корзин
type User struct {
	CreatedAt    time.Time  `json:"created_at"`    // время создания
	LastLogin    *time.Time `json:"last_login"`    // время последнего входа
	ID           string     `json:"id"`            // UUID пользователя
	Username     string     `json:"username"`      // уникальный username/email
	PasswordHash string     `json:"password_hash"` // argon2id хеш пароля
	Role         Role       `json:"role"`          // роль
}
