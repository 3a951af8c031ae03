// Package identity tracks the active user of a client session.
package identity

import (
	"sync"

	"github.com/iudanet/cartkeeper/internal/models"
)

// Listener получает уведомление о смене identity.
// prev или next равны nil, если пользователя не было/нет.
type Listener func(prev, next *models.Identity)

// Context хранит текущую identity и рассылает уведомления о ее смене
type Context struct {
	current   *models.Identity
	listeners map[uint64]Listener
	nextID    uint64
	mu        sync.RWMutex
	notifyMu  sync.Mutex
}

// NewContext creates a context without an active identity.
func NewContext() *Context {
	return &Context{
		listeners: make(map[uint64]Listener),
	}
}

// Current returns the active identity.
func (c *Context) Current() (models.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return models.Identity{}, false
	}
	return *c.current, true
}

// Switch делает id активной identity (login / восстановление сессии).
// Повторный Switch на ту же identity уведомлений не порождает.
func (c *Context) Switch(id models.Identity) {
	c.set(&id)
}

// Clear сбрасывает активную identity (logout).
func (c *Context) Clear() {
	c.set(nil)
}

func (c *Context) set(next *models.Identity) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	prev := c.current
	if sameIdentity(prev, next) {
		c.mu.Unlock()
		return
	}
	c.current = next
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(prev, next)
	}
}

// Subscribe registers a listener and returns the function that removes it.
// Listeners run synchronously inside Switch/Clear and must not call them.
func (c *Context) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func sameIdentity(a, b *models.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
