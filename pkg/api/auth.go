package api

// RegisterRequest представляет запрос на регистрацию нового покупателя
type RegisterRequest struct {
	Username string `json:"username"` // email или username покупателя
	Password string `json:"password"` // пароль в открытом виде (только по TLS)
}

// RegisterResponse представляет ответ на успешную регистрацию
type RegisterResponse struct {
	UserID  string `json:"user_id"` // UUID пользователя
	Message string `json:"message"` // сообщение об успешной регистрации
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token (claims: user_id, username, role)
	UserID      string `json:"user_id"`      // UUID пользователя
	Role        string `json:"role"`         // "shopper" или "admin"
	ExpiresIn   int64  `json:"expires_in"`   // время жизни access token в секундах
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
