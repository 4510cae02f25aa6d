package market

// The engine does not own assets or account balances itself. It talks to two
// host capabilities: an ownership registry tracking who holds which asset,
// and a value ledger moving funds between accounts. Both are synchronous and
// fail loudly; any error aborts the calling operation.

// OwnershipRegistry is the external asset ownership/transfer registry.
type OwnershipRegistry interface {
	// OwnerOf returns the current holder of the asset or an error when the
	// asset does not exist.
	OwnerOf(id uint64) (Address, error)
	// MintTo creates the next asset for the recipient and returns its id.
	// Ids are sequential and never reused.
	MintTo(to Address) (uint64, error)
	// Transfer moves the asset between holders. It fails when from is not
	// the current holder.
	Transfer(from, to Address, id uint64) error
}

// ValueLedger hands out transactional sessions over account balances. The
// session makes the host environment's all-or-nothing semantics explicit:
// nothing moves until Commit, and Discard drops every staged movement.
type ValueLedger interface {
	Begin() LedgerTx
}

// LedgerTx stages value movements through the engine's escrow. Draw pulls
// payment from an account into escrow, Transfer pays out of escrow. Commit
// applies everything atomically or nothing at all.
type LedgerTx interface {
	Draw(from Address, amount Amount) error
	Transfer(to Address, amount Amount) error
	Commit() error
	Discard()
}

// EventSink receives the append-only notification stream for off-core
// consumers: explorers, indexers, the websocket feed.
type EventSink interface {
	Emit(ev Event)
}

// EventSinkFunc adapts a plain function to an EventSink.
type EventSinkFunc func(ev Event)

func (f EventSinkFunc) Emit(ev Event) {
	f(ev)
}

// NopSink drops every event, for tests that do not care.
type NopSink struct{}

func (NopSink) Emit(Event) {}
