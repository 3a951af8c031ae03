// Package broadcast fans stock level changes out to independent views.
package broadcast

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/iudanet/cartkeeper/internal/models"
)

// Wildcard подписка на события по всем товарам
const Wildcard = "*"

// Listener получает событие об изменении остатка
type Listener func(models.StockEvent)

// Token идентифицирует подписку
type Token uint64

type subscription struct {
	listener Listener
	key      string
	active   atomic.Bool
}

// Broadcast keyed publish/subscribe channel for stock levels.
// Доставка синхронная, в порядке публикаций для одного товара;
// между разными товарами порядок не гарантируется.
type Broadcast struct {
	logger *slog.Logger
	subs   map[Token]*subscription
	byKey  map[string][]Token
	latest map[string]int
	// itemLocks сериализует доставку по одному товару
	itemLocks map[string]*sync.Mutex
	next      Token
	mu        sync.RWMutex
}

// New creates an empty broadcast.
func New(logger *slog.Logger) *Broadcast {
	return &Broadcast{
		logger:    logger,
		subs:      make(map[Token]*subscription),
		byKey:     make(map[string][]Token),
		latest:    make(map[string]int),
		itemLocks: make(map[string]*sync.Mutex),
	}
}

// Subscribe подписывает listener на товар itemID или на все товары (Wildcard).
func (b *Broadcast) Subscribe(itemID string, l Listener) Token {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	tok := b.next
	sub := &subscription{listener: l, key: itemID}
	sub.active.Store(true)
	b.subs[tok] = sub
	b.byKey[itemID] = append(b.byKey[itemID], tok)
	return tok
}

// Unsubscribe removes the subscription. After it returns the listener
// receives no further events, including ones from a publish already in progress.
func (b *Broadcast) Unsubscribe(tok Token) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[tok]
	if !ok {
		return
	}
	sub.active.Store(false)
	delete(b.subs, tok)

	tokens := b.byKey[sub.key]
	for i, t := range tokens {
		if t == tok {
			tokens = append(tokens[:i:i], tokens[i+1:]...)
			break
		}
	}
	if len(tokens) == 0 {
		delete(b.byKey, sub.key)
	} else {
		b.byKey[sub.key] = tokens
	}
}

// Publish записывает последний остаток и доставляет событие подписчикам товара и wildcard.
func (b *Broadcast) Publish(itemID string, newStock int) {
	if newStock < 0 {
		newStock = 0
	}
	ev := models.StockEvent{ItemID: itemID, NewStock: newStock}

	lock := b.itemLock(itemID)
	lock.Lock()
	defer lock.Unlock()

	b.mu.Lock()
	b.latest[itemID] = newStock
	targets := b.collect(itemID)
	b.mu.Unlock()

	for _, sub := range targets {
		if !sub.active.Load() {
			continue
		}
		b.deliver(sub, ev)
	}
}

// Latest returns the last published stock for itemID.
func (b *Broadcast) Latest(itemID string) (int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stock, ok := b.latest[itemID]
	return stock, ok
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcast) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Broadcast) collect(itemID string) []*subscription {
	scoped := b.byKey[itemID]
	wild := b.byKey[Wildcard]
	out := make([]*subscription, 0, len(scoped)+len(wild))
	for _, tok := range scoped {
		out = append(out, b.subs[tok])
	}
	if itemID != Wildcard {
		for _, tok := range wild {
			out = append(out, b.subs[tok])
		}
	}
	return out
}

func (b *Broadcast) itemLock(itemID string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.itemLocks[itemID]
	if !ok {
		l = &sync.Mutex{}
		b.itemLocks[itemID] = l
	}
	return l
}

// deliver вызывает listener; паника подписчика логируется и не ломает публикацию
func (b *Broadcast) deliver(sub *subscription, ev models.StockEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("stock listener panicked",
				"item_id", ev.ItemID,
				"error", r,
				"stack", string(debug.Stack()))
		}
	}()
	sub.listener(ev)
}
