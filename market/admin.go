package market

import (
	"strconv"

	"curvemarket/kvstore"
)

// Administrative surface: one authorized identity may retune the curve, move
// the treasury, change the metadata base or hand the role over. Each setter
// validates its input, persists the whole parameter record and emits a change
// event. None of them touches already-issued assets.

// requireAdmin gates the setters; callers hold the lock.
func (e *Engine) requireAdmin(ctx CallCtx) error {
	if ctx.Sender != e.params.Admin {
		return ErrNotAdmin
	}
	return nil
}

// setParams swaps the record in and persists it, reverting on failure.
func (e *Engine) setParams(next Params) error {
	if err := next.Validate(); err != nil {
		return err
	}
	prev := e.params
	e.params = next
	b := kvstore.NewBatch()
	if err := stageParams(b, next); err != nil {
		e.params = prev
		return err
	}
	if err := e.persist(b); err != nil {
		e.params = prev
		return err
	}
	return nil
}

// SetTreasury redirects future fee payouts.
func (e *Engine) SetTreasury(ctx CallCtx, treasury Address) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.mu.Unlock()

	if err := e.requireAdmin(ctx); err != nil {
		return err
	}
	next := e.params
	next.Treasury = treasury
	if err := e.setParams(next); err != nil {
		return err
	}
	e.emitAdminChange("treasury", treasury.String(), ctx.Sender)
	return nil
}

// SetMultiplier retunes the curve for future issuances only.
func (e *Engine) SetMultiplier(ctx CallCtx, multiplierNano uint64) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.mu.Unlock()

	if err := e.requireAdmin(ctx); err != nil {
		return err
	}
	next := e.params
	next.MultiplierNano = multiplierNano
	if err := e.setParams(next); err != nil {
		return err
	}
	e.observe()
	e.emitAdminChange("multiplier", strconv.FormatUint(multiplierNano, 10), ctx.Sender)
	return nil
}

// SetMinPrice moves the price floor for future issuances.
func (e *Engine) SetMinPrice(ctx CallCtx, min Amount) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.mu.Unlock()

	if err := e.requireAdmin(ctx); err != nil {
		return err
	}
	next := e.params
	next.MinPrice = min
	if err := e.setParams(next); err != nil {
		return err
	}
	e.observe()
	e.emitAdminChange("min_price", FormatAmount(min), ctx.Sender)
	return nil
}

// SetBaseMetadata changes the metadata reference prefix for off-core viewers.
func (e *Engine) SetBaseMetadata(ctx CallCtx, base string) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.mu.Unlock()

	if err := e.requireAdmin(ctx); err != nil {
		return err
	}
	if base == "" {
		return validationErr("bad_metadata", "metadata base must not be empty")
	}
	next := e.params
	next.BaseMetadata = base
	if err := e.setParams(next); err != nil {
		return err
	}
	e.emitAdminChange("base_metadata", base, ctx.Sender)
	return nil
}

// TransferAdmin hands the role to a new identity.
func (e *Engine) TransferAdmin(ctx CallCtx, next Address) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.mu.Unlock()

	if err := e.requireAdmin(ctx); err != nil {
		return err
	}
	p := e.params
	p.Admin = next
	if err := e.setParams(p); err != nil {
		return err
	}
	e.emitAdminChange("admin", next.String(), ctx.Sender)
	return nil
}
