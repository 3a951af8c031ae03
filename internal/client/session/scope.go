package session

import (
	"sync"

	"github.com/iudanet/cartkeeper/internal/client/broadcast"
	"github.com/iudanet/cartkeeper/internal/client/cart"
)

// Scope группа подписок одного представления. Закрывается при смене
// identity, после чего уведомления в нее не приходят.
type Scope struct {
	stocks   *broadcast.Broadcast
	store    *cart.Store
	done     chan struct{}
	cleanups []func()
	mu       sync.Mutex
	closed   bool
}

func newScope(store *cart.Store, stocks *broadcast.Broadcast) *Scope {
	return &Scope{
		store:  store,
		stocks: stocks,
		done:   make(chan struct{}),
	}
}

// OnCart подписывает l на изменения корзины
func (s *Scope) OnCart(l cart.Listener) {
	s.add(func() func() {
		return s.store.Subscribe(l)
	})
}

// OnStock подписывает l на остатки товара (broadcast.Wildcard - на все товары)
func (s *Scope) OnStock(itemID string, l broadcast.Listener) {
	s.add(func() func() {
		tok := s.stocks.Subscribe(itemID, l)
		return func() { s.stocks.Unsubscribe(tok) }
	})
}

// Done закрывается вместе со scope
func (s *Scope) Done() <-chan struct{} {
	return s.done
}

// Closed reports whether the scope was torn down.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close снимает все подписки. Повторный вызов ничего не делает.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cleanups := s.cleanups
	s.cleanups = nil
	close(s.done)
	s.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// add регистрирует подписку; в закрытый scope подписки не добавляются
func (s *Scope) add(subscribe func() func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cleanups = append(s.cleanups, subscribe())
}
