package cart

import (
	"sync"

	"github.com/iudanet/cartkeeper/internal/models"
)

// IdentitySource отдает активную identity
type IdentitySource interface {
	Current() (models.Identity, bool)
}

// Eligible политика доступа к корзине.
// Администраторам корзина недоступна всегда; покупателям - только при явно
// включенном удаленном флаге. Неизвестный флаг блокирует операции.
func Eligible(role models.Role, flag models.CartFlag) bool {
	if role != models.RoleShopper {
		return false
	}
	return flag == models.FlagEnabled
}

// Gate применяет Eligible к активной identity и последнему известному флагу.
// Проверять нужно перед каждой мутацией: флаг может смениться посреди сессии.
type Gate struct {
	identities IdentitySource
	flags      map[string]models.CartFlag
	mu         sync.RWMutex
}

// NewGate creates a gate reading the live identity from identities.
func NewGate(identities IdentitySource) *Gate {
	return &Gate{
		identities: identities,
		flags:      make(map[string]models.CartFlag),
	}
}

// SetRemoteFlag запоминает флаг, полученный от сервера для identityID
func (g *Gate) SetRemoteFlag(identityID string, flag models.CartFlag) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.flags[identityID] = flag
}

// RemoteFlag returns the cached flag, FlagUnknown if none was observed.
func (g *Gate) RemoteFlag(identityID string) models.CartFlag {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.flags[identityID]
}

// Forget drops the cached flag of identityID.
func (g *Gate) Forget(identityID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.flags, identityID)
}

// IsEnabled reports whether cart operations are permitted right now.
func (g *Gate) IsEnabled() bool {
	return g.Check() == nil
}

// Check returns the reason cart operations are blocked, nil if they are permitted.
func (g *Gate) Check() error {
	id, ok := g.identities.Current()
	if !ok {
		return models.ErrNoIdentity
	}
	if id.Role != models.RoleShopper {
		return models.ErrNotShopper
	}
	if !Eligible(id.Role, g.RemoteFlag(id.ID)) {
		return models.ErrCartDisabled
	}
	return nil
}
