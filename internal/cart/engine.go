// Package cart presents one coherent cart regardless of authentication
// state. While unauthenticated, the durable local copy is authoritative;
// after login the server cart takes over, with a one-time reconciliation
// merging the local copy into it.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"storefront-client/internal/api"
	"storefront-client/internal/domain"
	"storefront-client/internal/storage"
)

const storageKey = "cart"

type remoteClient interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
	Cart(ctx context.Context) (*domain.Cart, error)
	AddCartLine(ctx context.Context, productID string, quantity int) (*domain.Cart, error)
	SetCartLineQuantity(ctx context.Context, lineID string, quantity int) (*domain.Cart, error)
	RemoveCartLine(ctx context.Context, lineID string) error
	CreateOrder(ctx context.Context) (*domain.Order, error)
}

type sessionReader interface {
	Authenticated() bool
}

type mode int

const (
	// modeLocal: all mutations write to the durable local copy.
	modeLocal mode = iota
	// modeRemote: the server cart is authoritative; mutations go through
	// the API and the cached view is refreshed from its responses.
	modeRemote
)

type subscriber struct {
	id int
	fn func(count int)
}

// Engine owns the cart state machine. Mutations are serialized on an
// internal mutex, so two concurrently triggered actions are ordered
// instead of racing.
type Engine struct {
	mu       sync.Mutex
	kv       storage.Store
	remote   remoteClient
	sessions sessionReader
	logger   *log.Logger
	mode     mode
	view     []domain.CartLine // cached remote lines while remote-authoritative

	subMu   sync.Mutex
	nextSub int
	subs    []subscriber
}

func New(kv storage.Store, remote remoteClient, sessions sessionReader, logger *log.Logger) *Engine {
	return &Engine{kv: kv, remote: remote, sessions: sessions, logger: logger}
}

// Subscribe registers a listener for count changes. Listeners run
// synchronously on the mutating goroutine in subscription order and must
// not call back into the Engine. The returned function unsubscribes.
func (e *Engine) Subscribe(fn func(count int)) func() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		for i := range e.subs {
			if e.subs[i].id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Items returns a copy of the current cart view.
func (e *Engine) Items() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.CartLine(nil), e.linesLocked()...)
}

// Count sums quantities across all lines.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return countLines(e.linesLocked())
}

// AddItem adds delta of a product to the cart and returns the resulting
// line. A product new to the cart gets its price and stock snapshotted at
// add time. While remote-authoritative, a session-expired failure degrades
// to a local add so the user's action is never lost.
func (e *Engine) AddItem(ctx context.Context, productID string, delta int) (*domain.CartLine, error) {
	if delta < 1 {
		return nil, errors.New("delta must be at least 1")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.remoteAuthoritativeLocked() {
		cart, err := e.remote.AddCartLine(ctx, productID, delta)
		if err == nil {
			e.adoptRemoteLocked(cart)
			return lineForProduct(cart.Lines, productID)
		}
		if !errors.Is(err, domain.ErrSessionExpired) {
			return nil, err
		}
		e.logger.Printf("add item %s: session expired, falling back to local cart", productID)
		e.mode = modeLocal
	}
	return e.addLocalLocked(ctx, productID, delta)
}

// UpdateQuantity sets (not adds) the quantity for a product. A quantity of
// zero or less removes the line. The quantity is not clamped to stock here;
// clamping happens only during Reconcile.
func (e *Engine) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return e.RemoveItem(ctx, productID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.remoteAuthoritativeLocked() {
		var cart *domain.Cart
		var err error
		if line := lineInView(e.view, productID); line != nil {
			cart, err = e.remote.SetCartLineQuantity(ctx, line.ServerLineID, quantity)
		} else {
			cart, err = e.remote.AddCartLine(ctx, productID, quantity)
		}
		if err == nil {
			e.adoptRemoteLocked(cart)
			return nil
		}
		if !errors.Is(err, domain.ErrSessionExpired) {
			return err
		}
		e.logger.Printf("update %s: session expired, falling back to local cart", productID)
		e.mode = modeLocal
	}

	local := e.loadLocalLocked()
	if line := local.Line(productID); line != nil {
		line.Quantity = quantity
		return e.saveLocalLocked(local)
	}
	_, err := e.addLocalLocked(ctx, productID, quantity)
	return err
}

// RemoveItem removes a product from the cart. Removing an absent product
// is a no-op success, and a server-side 404 counts as already removed.
func (e *Engine) RemoveItem(ctx context.Context, productID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.remoteAuthoritativeLocked() {
		line := lineInView(e.view, productID)
		if line == nil {
			return nil
		}
		err := e.remote.RemoveCartLine(ctx, line.ServerLineID)
		switch {
		case err == nil, api.IsStatus(err, http.StatusNotFound):
			return e.pullRemoteLocked(ctx)
		case errors.Is(err, domain.ErrSessionExpired):
			e.logger.Printf("remove %s: session expired, falling back to local cart", productID)
			e.mode = modeLocal
		default:
			return err
		}
	}

	local := e.loadLocalLocked()
	if !local.Remove(productID) {
		return nil
	}
	return e.saveLocalLocked(local)
}

// ClearCart empties the cart. Remote lines are deleted individually,
// continuing past per-line failures; the durable local copy is cleared
// unconditionally so clearing is never blocked by a partial backend
// failure.
func (e *Engine) ClearCart(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.remoteAuthoritativeLocked() {
		for _, line := range e.view {
			if err := e.remote.RemoveCartLine(ctx, line.ServerLineID); err != nil && !api.IsStatus(err, http.StatusNotFound) {
				e.logger.Printf("clear cart: remove line %s: %v", line.ServerLineID, err)
			}
		}
	}

	if err := e.kv.Delete(storageKey); err != nil {
		return err
	}
	e.view = nil
	e.notifyLocked()
	return nil
}

// Reconcile merges the durable local cart into the server cart. It is
// invoked once per login transition. Merge policy per product: quantity is
// the max of both sides (never the sum, so a re-login cannot double a
// line), clamped to the stock ceiling; local-only lines are created at
// min(quantity, stock) and zero-stock lines are dropped. Per-line failures
// are logged and skipped. On completion the local copy is discarded and
// the merged server cart is adopted.
func (e *Engine) Reconcile(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	local := e.loadLocalLocked()
	if len(local.Items) == 0 {
		cart, err := e.remote.Cart(ctx)
		if err != nil {
			return fmt.Errorf("pull remote cart: %w", err)
		}
		e.mode = modeRemote
		e.adoptRemoteLocked(cart)
		return nil
	}

	remote := &domain.Cart{}
	if cart, err := e.remote.Cart(ctx); err != nil {
		// Best-effort pull: treat the remote cart as empty rather than
		// aborting the merge.
		e.logger.Printf("reconcile: pull remote cart: %v", err)
	} else {
		remote = cart
	}

	remoteByProduct := make(map[string]domain.CartLine, len(remote.Lines))
	for _, line := range remote.Lines {
		remoteByProduct[line.ProductID] = line
	}

	for _, line := range local.Items {
		if remoteLine, ok := remoteByProduct[line.ProductID]; ok {
			quantity := line.Quantity
			if remoteLine.Quantity > quantity {
				quantity = remoteLine.Quantity
			}
			// The remote line carries the freshest stock snapshot.
			if quantity > remoteLine.Stock {
				quantity = remoteLine.Stock
			}
			if quantity == remoteLine.Quantity {
				continue
			}
			if _, err := e.remote.SetCartLineQuantity(ctx, remoteLine.ServerLineID, quantity); err != nil {
				e.logger.Printf("reconcile: set quantity for %s: %v", line.ProductID, err)
			}
			continue
		}

		quantity := line.Quantity
		if quantity > line.Stock {
			quantity = line.Stock
		}
		if quantity <= 0 {
			// Out of stock since it was added; nothing to create.
			continue
		}
		if _, err := e.remote.AddCartLine(ctx, line.ProductID, quantity); err != nil {
			e.logger.Printf("reconcile: add %s: %v", line.ProductID, err)
		}
	}

	if err := e.kv.Delete(storageKey); err != nil {
		return err
	}
	e.mode = modeRemote
	if err := e.pullRemoteLocked(ctx); err != nil {
		e.logger.Printf("reconcile: final pull: %v", err)
	}
	return nil
}

// SyncFromRemote is a pull-only refresh of the cached view.
func (e *Engine) SyncFromRemote(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.sessions.Authenticated() {
		return errors.New("sync requires an authenticated session")
	}
	e.mode = modeRemote
	return e.pullRemoteLocked(ctx)
}

// Checkout places an order from the server cart and empties the cart.
func (e *Engine) Checkout(ctx context.Context) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.remoteAuthoritativeLocked() {
		return nil, errors.New("checkout requires an authenticated session")
	}
	order, err := e.remote.CreateOrder(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.kv.Delete(storageKey); err != nil {
		e.logger.Printf("checkout: clear local cart: %v", err)
	}
	e.view = nil
	e.notifyLocked()
	return order, nil
}

func (e *Engine) addLocalLocked(ctx context.Context, productID string, delta int) (*domain.CartLine, error) {
	local := e.loadLocalLocked()
	line := local.Line(productID)
	if line == nil {
		product, err := e.remote.Product(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("fetch product snapshot: %w", err)
		}
		local.Items = append(local.Items, domain.CartLine{
			ProductID:      productID,
			Quantity:       delta,
			UnitPriceCents: product.PriceCents,
			Stock:          product.Stock,
		})
		line = &local.Items[len(local.Items)-1]
	} else {
		line.Quantity += delta
	}
	if err := e.saveLocalLocked(local); err != nil {
		return nil, err
	}
	out := *line
	return &out, nil
}

func (e *Engine) remoteAuthoritativeLocked() bool {
	return e.mode == modeRemote && e.sessions.Authenticated()
}

func (e *Engine) linesLocked() []domain.CartLine {
	if e.remoteAuthoritativeLocked() {
		return e.view
	}
	return e.loadLocalLocked().Items
}

func (e *Engine) loadLocalLocked() *domain.LocalCart {
	var local domain.LocalCart
	if err := e.kv.Get(storageKey, &local); err != nil && !errors.Is(err, storage.ErrNoValue) {
		e.logger.Printf("load local cart: %v", err)
	}
	return &local
}

func (e *Engine) saveLocalLocked(local *domain.LocalCart) error {
	if err := e.kv.Set(storageKey, local); err != nil {
		return err
	}
	e.notifyLocked()
	return nil
}

func (e *Engine) adoptRemoteLocked(cart *domain.Cart) {
	e.view = append([]domain.CartLine(nil), cart.Lines...)
	e.notifyLocked()
}

func (e *Engine) pullRemoteLocked(ctx context.Context) error {
	cart, err := e.remote.Cart(ctx)
	if err != nil {
		return err
	}
	e.adoptRemoteLocked(cart)
	return nil
}

func (e *Engine) notifyLocked() {
	count := countLines(e.linesLocked())
	e.subMu.Lock()
	subs := append([]subscriber(nil), e.subs...)
	e.subMu.Unlock()
	for _, s := range subs {
		s.fn(count)
	}
}

func countLines(lines []domain.CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}

func lineInView(lines []domain.CartLine, productID string) *domain.CartLine {
	for i := range lines {
		if lines[i].ProductID == productID {
			return &lines[i]
		}
	}
	return nil
}

func lineForProduct(lines []domain.CartLine, productID string) (*domain.CartLine, error) {
	if line := lineInView(lines, productID); line != nil {
		out := *line
		return &out, nil
	}
	return nil, fmt.Errorf("line for product %s missing from cart response", productID)
}
