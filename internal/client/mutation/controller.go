// Package mutation applies add/remove-one operations optimistically and
// reconciles them with the remote cart.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/iudanet/cartkeeper/internal/client/cart"
	"github.com/iudanet/cartkeeper/internal/client/normalize"
	"github.com/iudanet/cartkeeper/internal/models"
)

//go:generate moq -out remote_mock.go . RemoteCart

// RemoteCart удаленные мутации корзины
type RemoteCart interface {
	AddLine(ctx context.Context, identityID, itemID string, qty int, idempotencyKey string) (normalize.MutationResult, error)
	RemoveLine(ctx context.Context, identityID, itemID string, qty int, idempotencyKey string) (normalize.MutationResult, error)
}

// Catalog метаданные и известный остаток товара
type Catalog interface {
	Lookup(ctx context.Context, itemID string) (models.Item, error)
}

// StockBus публикация подтвержденных остатков
type StockBus interface {
	Publish(itemID string, newStock int)
	Latest(itemID string) (int, bool)
}

// Controller выполняет AddOne/RemoveOne. Вызовы блокируются до ответа сервера;
// интерфейс вызывает их в отдельной горутине и следит за Store.
// Сетевые ошибки не повторяются автоматически.
type Controller struct {
	remote  RemoteCart
	catalog Catalog
	stocks  StockBus
	store   *cart.Store
	gate    *cart.Gate
	logger  *slog.Logger
	states  map[key]State
	mu      sync.Mutex
}

// NewController creates a controller.
func NewController(remote RemoteCart, store *cart.Store, gate *cart.Gate, catalog Catalog, stocks StockBus, logger *slog.Logger) *Controller {
	return &Controller{
		remote:  remote,
		store:   store,
		gate:    gate,
		catalog: catalog,
		stocks:  stocks,
		logger:  logger,
		states:  make(map[key]State),
	}
}

// op описывает одну мутацию
type op struct {
	prev    models.CartLine // строка до оптимистичного изменения
	itemID  string
	owner   string
	gen     uint64
	delta   int
	index   int // позиция строки в порядке до изменения
	existed bool
}

// State returns the state of the latest mutation of itemID for the active identity.
func (c *Controller) State(itemID string) State {
	gen := c.store.Generation()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[key{itemID: itemID, gen: gen}]
}

// AddOne добавляет единицу товара
func (c *Controller) AddOne(ctx context.Context, itemID string) error {
	return c.mutate(ctx, itemID, +1)
}

// RemoveOne убирает единицу товара. Для отсутствующей строки это no-op.
func (c *Controller) RemoveOne(ctx context.Context, itemID string) error {
	return c.mutate(ctx, itemID, -1)
}

func (c *Controller) mutate(ctx context.Context, itemID string, delta int) error {
	if err := c.gate.Check(); err != nil {
		return err
	}
	owner, gen := c.store.Session()
	if owner == "" {
		return models.ErrNoIdentity
	}

	o, hint, err := c.prepare(ctx, owner, gen, itemID, delta)
	if err != nil || o == nil {
		return err
	}

	opts := []cart.DeltaOption{cart.WithPending(true)}
	if hint != nil {
		opts = append(opts, cart.WithHint(*hint))
	}
	if _, err := c.store.ApplyDelta(ctx, gen, itemID, delta, opts...); err != nil {
		c.finish(o, StateRolledBack)
		return err
	}

	idemKey := uuid.NewString()
	c.logger.Debug("Mutation sent",
		"user_id", owner,
		"item_id", itemID,
		"delta", delta,
		"idempotency_key", idemKey)

	var res normalize.MutationResult
	if delta > 0 {
		res, err = c.remote.AddLine(ctx, owner, itemID, delta, idemKey)
	} else {
		res, err = c.remote.RemoveLine(ctx, owner, itemID, -delta, idemKey)
	}

	// результат применяется даже если вызывающий отменил ctx
	return c.resolve(context.WithoutCancel(ctx), o, res, err)
}

// prepare занимает позицию и проверяет предусловия. nil op без ошибки - no-op.
// Позиция занимается до проверок, чтобы второй вызов сразу получил ErrMutationInProgress.
func (c *Controller) prepare(ctx context.Context, owner string, gen uint64, itemID string, delta int) (*op, *models.Item, error) {
	k := key{itemID: itemID, gen: gen}

	c.mu.Lock()
	prevState := c.states[k]
	if prevState == StatePending {
		c.mu.Unlock()
		return nil, nil, fmt.Errorf("item %s: %w", itemID, models.ErrMutationInProgress)
	}
	c.pruneLocked(gen)
	c.states[k] = StatePending
	c.mu.Unlock()

	o, hint, err := c.check(ctx, owner, gen, itemID, delta)
	if err != nil || o == nil {
		c.release(k, prevState)
		return nil, nil, err
	}
	return o, hint, nil
}

func (c *Controller) check(ctx context.Context, owner string, gen uint64, itemID string, delta int) (*op, *models.Item, error) {
	snap := c.store.Read()
	line, existed := snap.Line(itemID)
	if !existed {
		line.ItemID = itemID
	}
	o := &op{
		itemID:  itemID,
		owner:   owner,
		gen:     gen,
		delta:   delta,
		prev:    line,
		existed: existed,
		index:   snap.Index(itemID),
	}

	if delta < 0 {
		if !existed || line.Quantity <= 0 {
			return nil, nil, nil
		}
		return o, nil, nil
	}

	stock, item, err := c.knownStock(ctx, line, existed)
	if err != nil {
		return nil, nil, err
	}
	if stock <= line.Quantity {
		return nil, nil, fmt.Errorf("item %s: stock %d, in cart %d: %w",
			itemID, stock, line.Quantity, models.ErrInsufficientStock)
	}
	return o, item, nil
}

// release возвращает позицию в состояние до неудавшейся попытки
func (c *Controller) release(k key, prev State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev == StateIdle {
		delete(c.states, k)
		return
	}
	c.states[k] = prev
}

// knownStock: последнее событие StockBroadcast, иначе остаток строки, иначе каталог.
// Для новой строки каталог дает и метаданные.
func (c *Controller) knownStock(ctx context.Context, line models.CartLine, existed bool) (int, *models.Item, error) {
	if existed {
		if s, ok := c.stocks.Latest(line.ItemID); ok {
			return s, nil, nil
		}
		return line.CachedStock, nil, nil
	}

	item, err := c.catalog.Lookup(ctx, line.ItemID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to resolve item: %w", err)
	}
	return item.Stock, &item, nil
}

func (c *Controller) resolve(ctx context.Context, o *op, res normalize.MutationResult, remoteErr error) error {
	if remoteErr == nil {
		return c.confirm(ctx, o, res)
	}

	c.logger.Warn("Mutation failed, rolling back",
		"user_id", o.owner,
		"item_id", o.itemID,
		"delta", o.delta,
		"error", remoteErr)

	conflict := errors.Is(remoteErr, models.ErrConflict) && res.StockKnown
	if conflict {
		// остаток сервера побеждает; он общий для всех identity
		c.stocks.Publish(o.itemID, res.NewStock)
	}

	if err := c.rollback(ctx, o); err != nil {
		c.finish(o, StateRolledBack)
		return c.dropped(o, err)
	}

	switch {
	case conflict:
		c.store.ApplyStock(ctx, o.itemID, res.NewStock)
	case errors.Is(remoteErr, models.ErrRemoteForbidden):
		c.gate.SetRemoteFlag(o.owner, models.FlagDisabled)
		if err := c.store.SetEnabled(ctx, o.gen, false); err != nil {
			c.logger.Debug("Failed to disable cart", "user_id", o.owner, "error", err)
		}
	}

	c.finish(o, StateRolledBack)
	return fmt.Errorf("item %s: %w", o.itemID, remoteErr)
}

func (c *Controller) confirm(ctx context.Context, o *op, res normalize.MutationResult) error {
	if res.StockKnown {
		c.stocks.Publish(o.itemID, res.NewStock)
	}

	_, err := c.store.Modify(ctx, o.gen, func(cur *models.CartSnapshot) bool {
		line, ok := cur.Lines[o.itemID]
		if !ok {
			if res.Quantity == nil || *res.Quantity <= 0 {
				return false
			}
			// строка ушла в 0 оптимистично, а сервер ее оставил
			line = o.prev
		}
		line.Pending = false
		if res.StockKnown {
			line.CachedStock = res.NewStock
		}
		if res.Quantity != nil && *res.Quantity != line.Quantity {
			c.logger.Info("Server quantity differs, adopting server value",
				"item_id", o.itemID,
				"local", line.Quantity,
				"server", *res.Quantity)
			line.Quantity = *res.Quantity
		}
		cur.PutAt(line, o.index)
		return true
	})
	if err != nil {
		c.finish(o, StateConfirmed)
		return c.dropped(o, err)
	}

	c.finish(o, StateConfirmed)
	c.logger.Debug("Mutation confirmed",
		"user_id", o.owner,
		"item_id", o.itemID,
		"new_stock", res.NewStock)
	return nil
}

// rollback применяет обратную delta и возвращает строку на прежнее место,
// так что снапшот совпадает с состоянием до мутации
func (c *Controller) rollback(ctx context.Context, o *op) error {
	_, err := c.store.Modify(ctx, o.gen, func(cur *models.CartSnapshot) bool {
		line, ok := cur.Lines[o.itemID]
		if !ok {
			if !o.existed {
				return false
			}
			line = o.prev
			line.Quantity = 0
		}
		line.Quantity = max(line.Quantity-o.delta, 0)
		line.Pending = false
		if line.Quantity == 0 {
			cur.Remove(o.itemID)
			return true
		}
		cur.PutAt(line, o.index)
		return true
	})
	return err
}

// dropped: identity сменилась, пока запрос был в полете
func (c *Controller) dropped(o *op, err error) error {
	if errors.Is(err, models.ErrStaleSession) {
		c.logger.Info("Identity changed, mutation result dropped",
			"user_id", o.owner,
			"item_id", o.itemID)
	}
	return fmt.Errorf("item %s: %w", o.itemID, err)
}

func (c *Controller) finish(o *op, to State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{itemID: o.itemID, gen: o.gen}
	if !canTransition(c.states[k], to) {
		c.logger.Error("Invalid mutation state transition",
			"item_id", o.itemID,
			"from", c.states[k].String(),
			"to", to.String())
	}
	c.states[k] = to
}

// pruneLocked забывает завершенные мутации прошлых поколений
func (c *Controller) pruneLocked(gen uint64) {
	for k, s := range c.states {
		if k.gen != gen && s != StatePending {
			delete(c.states, k)
		}
	}
}
