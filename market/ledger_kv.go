package market

import (
	"strconv"

	"curvemarket/kvstore"
)

// kAccountBalance stores per-account value balances for the bundled ledger.
const kAccountBalance byte = 0x30

func accountKey(acct Address) string {
	s := acct.String()
	buf := make([]byte, 0, 1+len(s))
	buf = append(buf, kAccountBalance)
	buf = append(buf, s...)
	return string(buf)
}

// KVLedger is the bundled value ledger: persistent account balances with
// transactional sessions over the kv store. Real deployments supply their
// own ledger capability instead.
type KVLedger struct {
	store kvstore.Store
}

func NewKVLedger(store kvstore.Store) *KVLedger {
	return &KVLedger{store: store}
}

// Credit funds an account directly; admin/dev surface only.
func (l *KVLedger) Credit(acct Address, amount Amount) error {
	if amount <= 0 {
		return validationErr("bad_amount", "credit must be positive")
	}
	bal, err := l.balance(acct)
	if err != nil {
		return err
	}
	return l.store.Set(accountKey(acct), strconv.FormatInt(int64(bal+amount), 10))
}

// BalanceOf reads an account balance.
func (l *KVLedger) BalanceOf(acct Address) (Amount, error) {
	return l.balance(acct)
}

func (l *KVLedger) balance(acct Address) (Amount, error) {
	ptr, err := l.store.Get(accountKey(acct))
	if err != nil {
		return 0, err
	}
	if ptr == nil || *ptr == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(*ptr, 10, 64)
	if err != nil {
		return 0, stateErr("storage", "corrupt balance for %s: %v", acct, err)
	}
	return Amount(n), nil
}

func (l *KVLedger) Begin() LedgerTx {
	return &kvLedgerTx{ledger: l, staged: make(map[Address]Amount)}
}

type kvLedgerTx struct {
	ledger *KVLedger
	staged map[Address]Amount
	escrow Amount
	done   bool
}

func (t *kvLedgerTx) Draw(from Address, amount Amount) error {
	if t.done {
		return stateErr("ledger_tx_done", "ledger tx already finished")
	}
	if amount < 0 {
		return validationErr("bad_amount", "negative draw")
	}
	bal, err := t.ledger.balance(from)
	if err != nil {
		return err
	}
	if bal+t.staged[from] < amount {
		return transferErr("insufficient_funds", "account %s cannot cover %s", from, FormatAmount(amount))
	}
	t.staged[from] -= amount
	t.escrow += amount
	return nil
}

func (t *kvLedgerTx) Transfer(to Address, amount Amount) error {
	if t.done {
		return stateErr("ledger_tx_done", "ledger tx already finished")
	}
	if amount < 0 {
		return validationErr("bad_amount", "negative transfer")
	}
	if t.escrow < amount {
		return transferErr("escrow_underflow", "tx escrow cannot cover %s", FormatAmount(amount))
	}
	t.escrow -= amount
	t.staged[to] += amount
	return nil
}

func (t *kvLedgerTx) Commit() error {
	if t.done {
		return stateErr("ledger_tx_done", "ledger tx already finished")
	}
	t.done = true
	if t.escrow != 0 {
		return transferErr("unbalanced_tx", "%s left in escrow", FormatAmount(t.escrow))
	}
	puts := make(map[string]string, len(t.staged))
	for acct, delta := range t.staged {
		bal, err := t.ledger.balance(acct)
		if err != nil {
			return err
		}
		next := bal + delta
		if next < 0 {
			return transferErr("insufficient_funds", "account %s would go negative", acct)
		}
		puts[accountKey(acct)] = strconv.FormatInt(int64(next), 10)
	}
	return t.ledger.store.Apply(puts, nil)
}

func (t *kvLedgerTx) Discard() {
	t.done = true
}
