// Package relay ships the reference fee relay: the external process that
// observes trading fees elsewhere, accumulates them and periodically funds
// the minting pool, then opportunistically asks the engine to mint. The
// engine core only ever sees Deposit and Mint calls from it.
package relay

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"curvemarket/market"
)

// FeeSource hands the relay whatever fees accrued since the last cycle.
// Holder-exemption and accounting policy live entirely behind this interface.
type FeeSource interface {
	Collect() (market.Amount, error)
}

// FeeSourceFunc adapts a plain function to a FeeSource.
type FeeSourceFunc func() (market.Amount, error)

func (f FeeSourceFunc) Collect() (market.Amount, error) {
	return f()
}

// StaticSource accrues a fixed amount per cycle; dev and demo runs only.
type StaticSource struct {
	PerCycle market.Amount
}

func (s StaticSource) Collect() (market.Amount, error) {
	return s.PerCycle, nil
}

// Engine is the slice of the market surface the relay talks to.
type Engine interface {
	Deposit(ctx market.CallCtx, amount market.Amount) error
	Mint(ctx market.CallCtx) (uint64, error)
	CurrentPrice() (market.Amount, error)
	TotalIssued() (uint64, error)
}

// Relay runs the deposit-then-mint cycle. Any failure in a cycle is logged
// and skipped, never propagated: fees stay accumulated at the source or in
// the pool and the next cycle retries.
type Relay struct {
	engine   Engine
	source   FeeSource
	identity market.Address
	interval time.Duration
	log      zerolog.Logger

	// carry holds fees collected from the source that could not be
	// deposited yet, so a deposit failure never loses value.
	carry market.Amount
}

func New(engine Engine, source FeeSource, identity market.Address, interval time.Duration, log zerolog.Logger) *Relay {
	return &Relay{
		engine:   engine,
		source:   source,
		identity: identity,
		interval: interval,
		log:      log.With().Str("component", "relay").Logger(),
	}
}

// Run loops until the context is cancelled.
func (r *Relay) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	r.log.Info().Dur("interval", r.interval).Msg("relay started")
	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("relay stopped")
			return
		case <-t.C:
			r.Cycle()
		}
	}
}

// Cycle runs one collect/deposit/mint round. Exported so tests and the CLI
// can drive it without the ticker.
func (r *Relay) Cycle() {
	collected, err := r.source.Collect()
	if err != nil {
		// assume nothing accrued and skip this cycle
		r.log.Warn().Err(err).Msg("fee source unavailable, skipping cycle")
		return
	}
	r.carry += collected

	if r.carry > 0 {
		if err := r.engine.Deposit(market.CallCtx{Sender: r.identity}, r.carry); err != nil {
			r.log.Warn().Err(err).Str("amount", market.FormatAmount(r.carry)).Msg("deposit failed, retrying next cycle")
			return
		}
		r.log.Info().Str("amount", market.FormatAmount(r.carry)).Msg("pool funded")
		r.carry = 0
	}

	// a mint failure is independent of the deposit and simply retried later
	id, err := r.engine.Mint(market.CallCtx{Sender: r.identity})
	if err != nil {
		r.log.Debug().Err(err).Msg("mint not possible this cycle")
		return
	}
	r.log.Info().Uint64("id", id).Msg("minted from pool")
}
