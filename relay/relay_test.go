package relay

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"curvemarket/market"
)

// fakeEngine records relay calls and fails on demand.
type fakeEngine struct {
	deposits    []market.Amount
	mints       int
	failDeposit bool
	failMint    bool
}

func (f *fakeEngine) Deposit(ctx market.CallCtx, amount market.Amount) error {
	if f.failDeposit {
		return fmt.Errorf("deposit refused")
	}
	f.deposits = append(f.deposits, amount)
	return nil
}

func (f *fakeEngine) Mint(ctx market.CallCtx) (uint64, error) {
	if f.failMint {
		return 0, market.ErrInsufficientPool
	}
	f.mints++
	return uint64(f.mints - 1), nil
}

func (f *fakeEngine) CurrentPrice() (market.Amount, error) { return market.FloatToAmount(1), nil }
func (f *fakeEngine) TotalIssued() (uint64, error)         { return uint64(f.mints), nil }

func newTestRelay(e Engine, src FeeSource) *Relay {
	return New(e, src, "system:fee-relay", 0, zerolog.Nop())
}

func TestCycleDepositsAndMints(t *testing.T) {
	e := &fakeEngine{}
	r := newTestRelay(e, StaticSource{PerCycle: market.FloatToAmount(2)})

	r.Cycle()
	require.Equal(t, []market.Amount{market.FloatToAmount(2)}, e.deposits)
	require.Equal(t, 1, e.mints)
	require.Equal(t, market.Amount(0), r.carry)
}

func TestCycleToleratesMintFailure(t *testing.T) {
	e := &fakeEngine{failMint: true}
	r := newTestRelay(e, StaticSource{PerCycle: market.FloatToAmount(1)})

	// the pool still gets funded even when the follow-up mint cannot run
	r.Cycle()
	require.Len(t, e.deposits, 1)
	require.Equal(t, 0, e.mints)
	require.Equal(t, market.Amount(0), r.carry)
}

func TestCycleCarriesFeesAcrossDepositFailures(t *testing.T) {
	e := &fakeEngine{failDeposit: true}
	r := newTestRelay(e, StaticSource{PerCycle: market.FloatToAmount(1)})

	r.Cycle()
	r.Cycle()
	require.Empty(t, e.deposits)
	require.Equal(t, market.FloatToAmount(2), r.carry)

	// once deposits work again the whole carry lands in one call
	e.failDeposit = false
	r.Cycle()
	require.Equal(t, []market.Amount{market.FloatToAmount(3)}, e.deposits)
	require.Equal(t, market.Amount(0), r.carry)
}

func TestCycleSkipsOnSourceError(t *testing.T) {
	e := &fakeEngine{}
	r := newTestRelay(e, FeeSourceFunc(func() (market.Amount, error) {
		return 0, fmt.Errorf("upstream down")
	}))

	r.Cycle()
	require.Empty(t, e.deposits)
	require.Equal(t, 0, e.mints)
}

func TestCycleNothingAccrued(t *testing.T) {
	e := &fakeEngine{}
	r := newTestRelay(e, StaticSource{PerCycle: 0})

	// no deposit, but the opportunistic mint still runs
	r.Cycle()
	require.Empty(t, e.deposits)
	require.Equal(t, 1, e.mints)
}
