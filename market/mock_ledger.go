package market

import "fmt"

// MockLedger is an in-memory account ledger with transactional sessions.
// Draws pull into an internal escrow, transfers pay out of it; nothing lands
// until Commit. Used by tests and the bundled daemon.
type MockLedger struct {
	balances map[Address]Amount

	// FailTransferTo makes any staged transfer to that address error.
	FailTransferTo Address
	// FailCommit forces the next Commit to error after staging succeeded.
	FailCommit bool
	// OnTransfer, when set, runs before each staged transfer. Re-entrancy
	// tests hook engine calls in here.
	OnTransfer func(to Address, amount Amount)
}

func NewMockLedger() *MockLedger {
	return &MockLedger{balances: make(map[Address]Amount)}
}

// Credit funds an account directly; test/dev setup only.
func (m *MockLedger) Credit(acct Address, amount Amount) {
	m.balances[acct] += amount
}

// BalanceOf reads an account balance.
func (m *MockLedger) BalanceOf(acct Address) Amount {
	return m.balances[acct]
}

func (m *MockLedger) Begin() LedgerTx {
	return &mockLedgerTx{ledger: m, staged: make(map[Address]Amount)}
}

type mockLedgerTx struct {
	ledger *MockLedger
	staged map[Address]Amount // net balance deltas
	escrow Amount
	done   bool
}

func (t *mockLedgerTx) Draw(from Address, amount Amount) error {
	if t.done {
		return fmt.Errorf("ledger tx already finished")
	}
	if amount < 0 {
		return fmt.Errorf("negative draw")
	}
	if t.ledger.balances[from]+t.staged[from] < amount {
		return fmt.Errorf("insufficient balance on %s", from)
	}
	t.staged[from] -= amount
	t.escrow += amount
	return nil
}

func (t *mockLedgerTx) Transfer(to Address, amount Amount) error {
	if t.done {
		return fmt.Errorf("ledger tx already finished")
	}
	if t.ledger.OnTransfer != nil {
		t.ledger.OnTransfer(to, amount)
	}
	if t.ledger.FailTransferTo != "" && to == t.ledger.FailTransferTo {
		return fmt.Errorf("transfer to %s rejected", to)
	}
	if amount < 0 {
		return fmt.Errorf("negative transfer")
	}
	if t.escrow < amount {
		return fmt.Errorf("escrow underflow")
	}
	t.escrow -= amount
	t.staged[to] += amount
	return nil
}

func (t *mockLedgerTx) Commit() error {
	if t.done {
		return fmt.Errorf("ledger tx already finished")
	}
	t.done = true
	if t.ledger.FailCommit {
		t.ledger.FailCommit = false
		return fmt.Errorf("commit rejected")
	}
	if t.escrow != 0 {
		return fmt.Errorf("unbalanced tx, %s left in escrow", FormatAmount(t.escrow))
	}
	for acct, delta := range t.staged {
		t.ledger.balances[acct] += delta
	}
	return nil
}

func (t *mockLedgerTx) Discard() {
	t.done = true
}
