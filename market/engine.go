package market

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"curvemarket/kvstore"
)

// Engine orchestrates issuance, listing and purchase. It owns all mutable
// state (sequence counter, pool balance, order book, parameters), funnels
// every mutation through its entrypoints and persists each successful
// operation as one batch. A mutex serializes callers; a transfer flag turns
// re-entrant calls from outbound-transfer callbacks into a clean error
// instead of a deadlock.
type Engine struct {
	mu         sync.Mutex
	inTransfer atomic.Bool

	store   kvstore.Store
	assets  OwnershipRegistry
	ledger  ValueLedger
	sink    EventSink
	metrics *Metrics

	params Params
	issued uint64 // next sequence number == total issued so far
	pool   poolLedger
	book   *listingBook
}

// Open builds an engine over the given store and capabilities. When the store
// already holds state (parameters, counters, listings) it is reloaded and the
// in-memory book rebuilt; otherwise defaults are validated and written.
func Open(store kvstore.Store, assets OwnershipRegistry, ledger ValueLedger, sink EventSink, metrics *Metrics, defaults Params) (*Engine, error) {
	if sink == nil {
		sink = NopSink{}
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	e := &Engine{
		store:   store,
		assets:  assets,
		ledger:  ledger,
		sink:    sink,
		metrics: metrics,
	}

	stored, err := loadParams(store)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		e.params = *stored
	} else {
		if err := defaults.Validate(); err != nil {
			return nil, err
		}
		e.params = defaults
		b := kvstore.NewBatch()
		if err := stageParams(b, e.params); err != nil {
			return nil, err
		}
		if err := b.Flush(store); err != nil {
			return nil, err
		}
	}

	if e.issued, err = loadCount(store, issuedCountKey()); err != nil {
		return nil, err
	}
	poolRaw, err := loadCount(store, poolBalanceKey())
	if err != nil {
		return nil, err
	}
	e.pool.balance = Amount(poolRaw)
	if e.book, err = loadBook(store); err != nil {
		return nil, err
	}
	e.observe()
	return e, nil
}

// enter guards every entrypoint. The flag check runs before the lock so a
// callback re-entering on the same goroutine fails fast instead of
// deadlocking on the mutex.
func (e *Engine) enter() error {
	if e.inTransfer.Load() {
		return ErrReentrantCall
	}
	e.mu.Lock()
	return nil
}

// persist flushes one operation's dirty keys; callers revert their in-memory
// changes when it fails so memory and disk never drift.
func (e *Engine) persist(b *kvstore.Batch) error {
	if err := b.Flush(e.store); err != nil {
		return stateErr("storage", "persist failed: %v", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Issuance
// -----------------------------------------------------------------------------

// Mint issues the next asset to the caller, paying the curve price out of the
// minting pool. Every check runs before any mutation; a registry failure
// rolls the counter and pool back untouched.
func (e *Engine) Mint(ctx CallCtx) (uint64, error) {
	if err := e.enter(); err != nil {
		return 0, err
	}
	defer e.mu.Unlock()

	if !ctx.Sender.IsValid() {
		return 0, validationErr("bad_address", "invalid minter address %q", ctx.Sender)
	}
	return e.mintTo(ctx.Sender, true)
}

// AdminMint issues the next asset to the recipient without touching the pool.
func (e *Engine) AdminMint(ctx CallCtx, recipient Address) (uint64, error) {
	if err := e.enter(); err != nil {
		return 0, err
	}
	defer e.mu.Unlock()

	if ctx.Sender != e.params.Admin {
		return 0, ErrNotAdmin
	}
	if !recipient.IsValid() {
		return 0, validationErr("bad_address", "invalid recipient address %q", recipient)
	}
	return e.mintTo(recipient, false)
}

// mintTo is the shared issuance path; callers hold the lock.
func (e *Engine) mintTo(to Address, paid bool) (uint64, error) {
	if e.issued >= e.params.MaxSupply {
		return 0, ErrMaxSupplyReached
	}
	price, err := e.params.curve().Price(e.issued)
	if err != nil {
		return 0, err
	}
	if paid {
		if e.pool.balance < price {
			return 0, ErrInsufficientPool
		}
	} else {
		price = 0
	}

	// checks done; mutate, then ask the registry to create the asset
	prevIssued, prevPool := e.issued, e.pool.balance
	if paid {
		if err := e.pool.spend(price); err != nil {
			return 0, err
		}
	}
	seq := e.issued
	e.issued++

	e.inTransfer.Store(true)
	id, err := e.assets.MintTo(to)
	e.inTransfer.Store(false)
	if err != nil {
		e.issued, e.pool.balance = prevIssued, prevPool
		return 0, transferErr("mint_failed", "ownership registry rejected mint: %v", err)
	}
	if id != seq {
		e.issued, e.pool.balance = prevIssued, prevPool
		return 0, stateErr("registry_out_of_sync", "registry issued id %d, expected %d", id, seq)
	}

	b := kvstore.NewBatch()
	stageCounters(b, e.issued, e.pool.balance)
	stageIssuePrice(b, id, price)
	if err := e.persist(b); err != nil {
		e.issued, e.pool.balance = prevIssued, prevPool
		return 0, err
	}

	e.metrics.MintedTotal.Inc()
	e.observe()
	e.emitIssued(id, price, to)
	return id, nil
}

// -----------------------------------------------------------------------------
// Listing
// -----------------------------------------------------------------------------

// ListAtFloor offers the caller's asset at the current floor price, falling
// back to the asset's original issuance price while the book is empty.
func (e *Engine) ListAtFloor(ctx CallCtx, id uint64) (Amount, error) {
	if err := e.enter(); err != nil {
		return 0, err
	}
	defer e.mu.Unlock()

	price := e.book.floor
	if price == FloorNone {
		var err error
		if price, err = loadIssuePrice(e.store, id); err != nil {
			return 0, err
		}
	}
	if err := e.list(ctx, id, price); err != nil {
		return 0, err
	}
	return price, nil
}

// ListAtPrice offers the caller's asset at a caller-chosen positive price.
func (e *Engine) ListAtPrice(ctx CallCtx, id uint64, price Amount) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.mu.Unlock()

	return e.list(ctx, id, price)
}

// list is the shared listing path; callers hold the lock.
func (e *Engine) list(ctx CallCtx, id uint64, price Amount) error {
	if price <= 0 {
		return ErrBadPrice
	}
	owner, err := e.assets.OwnerOf(id)
	if err != nil {
		return stateErr("unknown_asset", "asset %d: %v", id, err)
	}
	if owner != ctx.Sender {
		return ErrNotOwner
	}
	if err := e.book.list(id, ctx.Sender, price); err != nil {
		return err
	}

	b := kvstore.NewBatch()
	if err := stageListing(b, id, Listing{Price: price, Seller: ctx.Sender, Active: true}); err != nil {
		e.rollbackListing(id)
		return err
	}
	stageIndex(b, e.book.ids)
	if err := e.persist(b); err != nil {
		e.rollbackListing(id)
		return err
	}

	e.observe()
	e.emitListed(id, price, ctx.Sender)
	return nil
}

// rollbackListing undoes an in-memory list() after a persistence failure.
func (e *Engine) rollbackListing(id uint64) {
	_, _ = e.book.take(id)
}

// Delist pulls the caller's own offer off the book.
func (e *Engine) Delist(ctx CallCtx, id uint64) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.mu.Unlock()

	l, ok := e.book.get(id)
	if !ok {
		return ErrNotListed
	}
	if l.Seller != ctx.Sender {
		return ErrNotSeller
	}
	prevFloor := e.book.floor
	if _, err := e.book.take(id); err != nil {
		return err
	}

	b := kvstore.NewBatch()
	b.Del(listingKey(id))
	stageIndex(b, e.book.ids)
	if err := e.persist(b); err != nil {
		e.book.restore(id, l, prevFloor)
		return err
	}

	e.observe()
	e.emitDelisted(id, ctx.Sender)
	return nil
}

// -----------------------------------------------------------------------------
// Purchase
// -----------------------------------------------------------------------------

// feeFor computes floor(price*feeBps/10000) through a 128-bit intermediate
// so the split stays exact for any positive int64 price. feeBps is below the
// denominator, so the quotient always fits back into an Amount.
func feeFor(price Amount, feeBps uint64) Amount {
	hi, lo := bits.Mul64(uint64(price), feeBps)
	q, _ := bits.Div64(hi, lo, feeBpsDenominator)
	return Amount(q)
}

// Purchase buys the listed asset for the caller. The listing is removed and
// the floor updated before any ownership or value movement; the treasury fee
// is floor(price*feeBps/10000), the seller gets the rest and any excess
// payment flows back to the buyer. A failed transfer restores the listing
// exactly as it was.
func (e *Engine) Purchase(ctx CallCtx, id uint64) (Receipt, error) {
	if err := e.enter(); err != nil {
		return Receipt{}, err
	}
	defer e.mu.Unlock()

	if !ctx.Sender.IsValid() {
		return Receipt{}, validationErr("bad_address", "invalid buyer address %q", ctx.Sender)
	}
	l, ok := e.book.get(id)
	if !ok {
		return Receipt{}, ErrNotListed
	}
	if ctx.Payment < l.Price {
		return Receipt{}, newErr(KindState, ErrInsufficientPayment.Code,
			"payment %s below listing price %s", FormatAmount(ctx.Payment), FormatAmount(l.Price))
	}

	fee := feeFor(l.Price, e.params.FeeBps)
	r := Receipt{
		ID:             id,
		Price:          l.Price,
		Fee:            fee,
		SellerProceeds: l.Price - fee,
		Refund:         ctx.Payment - l.Price,
		Seller:         l.Seller,
		Buyer:          ctx.Sender,
	}

	// remove the listing and persist before anything leaves the engine
	prevFloor := e.book.floor
	if _, err := e.book.take(id); err != nil {
		return Receipt{}, err
	}
	b := kvstore.NewBatch()
	b.Del(listingKey(id))
	stageIndex(b, e.book.ids)
	if err := e.persist(b); err != nil {
		e.book.restore(id, l, prevFloor)
		return Receipt{}, err
	}

	// unwind restores memory and disk to the pre-purchase state
	unwind := func() {
		e.book.restore(id, l, prevFloor)
		rb := kvstore.NewBatch()
		if err := stageListing(rb, id, l); err == nil {
			stageIndex(rb, e.book.ids)
			_ = e.persist(rb)
		}
	}

	e.inTransfer.Store(true)
	defer e.inTransfer.Store(false)

	if err := e.assets.Transfer(l.Seller, ctx.Sender, id); err != nil {
		unwind()
		return Receipt{}, newErr(KindTransfer, ErrTransferFailed.Code, "asset %d handover failed: %v", id, err)
	}

	tx := e.ledger.Begin()
	err := func() error {
		if err := tx.Draw(ctx.Sender, ctx.Payment); err != nil {
			return err
		}
		if err := tx.Transfer(l.Seller, r.SellerProceeds); err != nil {
			return err
		}
		if fee > 0 {
			if err := tx.Transfer(e.params.Treasury, fee); err != nil {
				return err
			}
		}
		if r.Refund > 0 {
			if err := tx.Transfer(ctx.Sender, r.Refund); err != nil {
				return err
			}
		}
		return tx.Commit()
	}()
	if err != nil {
		tx.Discard()
		// hand the asset back before restoring the listing
		if herr := e.assets.Transfer(ctx.Sender, l.Seller, id); herr != nil {
			return Receipt{}, transferErr("unwind_failed", "payment failed (%v) and asset %d handback failed (%v)", err, id, herr)
		}
		unwind()
		return Receipt{}, newErr(KindTransfer, ErrTransferFailed.Code, "payment settlement failed: %v", err)
	}

	e.metrics.PurchasesTotal.Inc()
	e.observe()
	e.emitPurchased(r)
	return r, nil
}

// -----------------------------------------------------------------------------
// Pool / relay surface
// -----------------------------------------------------------------------------

// Deposit adds value to the minting pool. It never fails for a positive
// amount and never mints by itself; the relay follows up with Mint and
// tolerates that failing independently.
func (e *Engine) Deposit(ctx CallCtx, amount Amount) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.mu.Unlock()

	if err := e.pool.deposit(amount); err != nil {
		return err
	}
	b := kvstore.NewBatch()
	stageCounters(b, e.issued, e.pool.balance)
	if err := e.persist(b); err != nil {
		e.pool.balance -= amount
		return err
	}

	e.metrics.DepositsTotal.Inc()
	e.observe()
	e.emitPoolFunded(amount, ctx.Sender)
	return nil
}

// CurrentPrice quotes the next issuance without mutating anything.
func (e *Engine) CurrentPrice() (Amount, error) {
	if err := e.enter(); err != nil {
		return 0, err
	}
	defer e.mu.Unlock()
	return e.params.curve().Price(e.issued)
}

// TotalIssued reports how many assets have left the curve so far.
func (e *Engine) TotalIssued() (uint64, error) {
	if err := e.enter(); err != nil {
		return 0, err
	}
	defer e.mu.Unlock()
	return e.issued, nil
}

// PoolBalance reports the value currently backing issuance.
func (e *Engine) PoolBalance() (Amount, error) {
	if err := e.enter(); err != nil {
		return 0, err
	}
	defer e.mu.Unlock()
	return e.pool.balance, nil
}

// FloorPrice returns the cheapest ask, or FloorNone while nothing is listed.
func (e *Engine) FloorPrice() (Amount, error) {
	if err := e.enter(); err != nil {
		return 0, err
	}
	defer e.mu.Unlock()
	return e.book.floor, nil
}

// ActiveListings copies out the book in insertion/swap order.
func (e *Engine) ActiveListings() ([]ListingSnapshot, error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return e.book.snapshot(), nil
}

// GetListing returns one active listing, if present.
func (e *Engine) GetListing(id uint64) (Listing, bool, error) {
	if err := e.enter(); err != nil {
		return Listing{}, false, err
	}
	defer e.mu.Unlock()
	l, ok := e.book.get(id)
	return l, ok, nil
}

// Params returns a copy of the current parameter set.
func (e *Engine) Params() (Params, error) {
	if err := e.enter(); err != nil {
		return Params{}, err
	}
	defer e.mu.Unlock()
	return e.params, nil
}
