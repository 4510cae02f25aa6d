package market

// poolLedger is the minting pool: a single balance that gates issuance.
// Deposits only add, issuance only removes exactly the price paid.
type poolLedger struct {
	balance Amount
}

// deposit adds value to the pool. Amounts must be positive; a deposit never
// has any other precondition and never triggers issuance by itself.
func (p *poolLedger) deposit(amount Amount) error {
	if amount <= 0 {
		return validationErr("bad_amount", "deposit must be positive, got %s", FormatAmount(amount))
	}
	p.balance += amount
	return nil
}

// spend removes exactly the issuance price. The caller checks affordability
// first so a failed spend never mutates.
func (p *poolLedger) spend(amount Amount) error {
	if amount < 0 {
		return validationErr("bad_amount", "spend must not be negative")
	}
	if p.balance < amount {
		return ErrInsufficientPool
	}
	p.balance -= amount
	return nil
}
