package market

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"curvemarket/kvstore"
)

const (
	tAdmin    = Address("user:admin")
	tTreasury = Address("system:treasury")
	tAlice    = Address("user:alice")
	tBob      = Address("user:bob")
	tCarol    = Address("user:carol")
)

// testingT is the slice of testing.T the helpers need, so property runners
// like rapid.T fit too.
type testingT interface {
	require.TestingT
	Helper()
}

type testEnv struct {
	store  *kvstore.Mem
	assets *MockOwnership
	ledger *MockLedger
	events []Event
	engine *Engine
}

func testParams() Params {
	return Params{
		Admin:          tAdmin,
		Treasury:       tTreasury,
		FeeBps:         FallbackFeeBps,
		MultiplierNano: DefaultMultiplierNano,
		MinPrice:       DefaultMinPrice,
		MaxSupply:      FallbackMaxSupply,
		BaseMetadata:   "ipfs://test/",
	}
}

func newTestEnv(t testingT) *testEnv {
	t.Helper()
	env := &testEnv{
		store:  kvstore.NewMem(),
		assets: NewMockOwnership(),
		ledger: NewMockLedger(),
	}
	sink := EventSinkFunc(func(ev Event) { env.events = append(env.events, ev) })
	e, err := Open(env.store, env.assets, env.ledger, sink, nil, testParams())
	require.NoError(t, err)
	env.engine = e
	return env
}

// mint funds the pool with exactly the current price and issues to owner.
func (env *testEnv) mint(t testingT, owner Address) uint64 {
	t.Helper()
	price, err := env.engine.CurrentPrice()
	require.NoError(t, err)
	require.NoError(t, env.engine.Deposit(CallCtx{Sender: "system:fee-relay"}, price))
	id, err := env.engine.Mint(CallCtx{Sender: owner})
	require.NoError(t, err)
	return id
}

func TestMintDrawsCurvePriceFromPool(t *testing.T) {
	env := newTestEnv(t)

	// a dry pool cannot issue
	_, err := env.engine.Mint(CallCtx{Sender: tAlice})
	require.ErrorIs(t, err, ErrInsufficientPool)

	id := env.mint(t, tAlice)
	require.Equal(t, uint64(0), id)

	owner, err := env.assets.OwnerOf(0)
	require.NoError(t, err)
	require.Equal(t, tAlice, owner)

	issued, err := env.engine.TotalIssued()
	require.NoError(t, err)
	require.Equal(t, uint64(1), issued)

	// the pool was spent down to exactly zero
	pool, err := env.engine.PoolBalance()
	require.NoError(t, err)
	require.Equal(t, Amount(0), pool)

	// sequence 1 is strictly more expensive than sequence 0
	p0, err := testParams().curve().Price(0)
	require.NoError(t, err)
	p1, err := env.engine.CurrentPrice()
	require.NoError(t, err)
	require.Greater(t, p1, p0)
}

func TestMintRollsBackOnRegistryMismatch(t *testing.T) {
	env := newTestEnv(t)

	// skew the registry so its next id no longer matches the engine counter
	_, err := env.assets.MintTo(tBob)
	require.NoError(t, err)

	price, err := env.engine.CurrentPrice()
	require.NoError(t, err)
	require.NoError(t, env.engine.Deposit(CallCtx{Sender: tAdmin}, price))

	_, err = env.engine.Mint(CallCtx{Sender: tAlice})
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, KindState, merr.Kind)

	// counter and pool are exactly as before the attempt
	issued, err := env.engine.TotalIssued()
	require.NoError(t, err)
	require.Equal(t, uint64(0), issued)
	pool, err := env.engine.PoolBalance()
	require.NoError(t, err)
	require.Equal(t, price, pool)
}

func TestMintStopsAtMaxSupply(t *testing.T) {
	p := testParams()
	p.MaxSupply = 2
	store := kvstore.NewMem()
	e, err := Open(store, NewMockOwnership(), NewMockLedger(), nil, nil, p)
	require.NoError(t, err)

	require.NoError(t, e.Deposit(CallCtx{Sender: tAdmin}, FloatToAmount(10)))
	for i := 0; i < 2; i++ {
		_, err := e.Mint(CallCtx{Sender: tAlice})
		require.NoError(t, err)
	}
	_, err = e.Mint(CallCtx{Sender: tAlice})
	require.ErrorIs(t, err, ErrMaxSupplyReached)

	_, err = e.AdminMint(CallCtx{Sender: tAdmin}, tBob)
	require.ErrorIs(t, err, ErrMaxSupplyReached)
}

func TestAdminMintSkipsPool(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.AdminMint(CallCtx{Sender: tAlice}, tAlice)
	require.ErrorIs(t, err, ErrNotAdmin)

	id, err := env.engine.AdminMint(CallCtx{Sender: tAdmin}, tBob)
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)

	pool, err := env.engine.PoolBalance()
	require.NoError(t, err)
	require.Equal(t, Amount(0), pool)
}

func TestListDelistFloorScenario(t *testing.T) {
	env := newTestEnv(t)
	for _, owner := range []Address{tAlice, tBob, tCarol} {
		env.mint(t, owner)
	}

	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, 0, FloatToAmount(3)))
	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tBob}, 1, FloatToAmount(1)))
	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tCarol}, 2, FloatToAmount(2)))

	floor, err := env.engine.FloorPrice()
	require.NoError(t, err)
	require.Equal(t, FloatToAmount(1), floor)

	// pulling the floor listing moves the floor up to the next cheapest
	require.NoError(t, env.engine.Delist(CallCtx{Sender: tBob}, 1))
	floor, err = env.engine.FloorPrice()
	require.NoError(t, err)
	require.Equal(t, FloatToAmount(2), floor)

	listings, err := env.engine.ActiveListings()
	require.NoError(t, err)
	require.Len(t, listings, 2)
}

func TestListAuthorization(t *testing.T) {
	env := newTestEnv(t)
	env.mint(t, tAlice)

	require.ErrorIs(t, env.engine.ListAtPrice(CallCtx{Sender: tBob}, 0, FloatToAmount(1)), ErrNotOwner)
	require.ErrorIs(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, 0, 0), ErrBadPrice)

	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, 0, FloatToAmount(1)))
	require.ErrorIs(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, 0, FloatToAmount(2)), ErrAlreadyListed)

	require.ErrorIs(t, env.engine.Delist(CallCtx{Sender: tBob}, 0), ErrNotSeller)
	require.ErrorIs(t, env.engine.Delist(CallCtx{Sender: tAlice}, 99), ErrNotListed)
}

func TestListAtFloorFallsBackToIssuePrice(t *testing.T) {
	env := newTestEnv(t)
	id := env.mint(t, tAlice)
	issuePrice, err := loadIssuePrice(env.store, id)
	require.NoError(t, err)

	// empty book, the asset's own issuance price is the ask
	got, err := env.engine.ListAtFloor(CallCtx{Sender: tAlice}, id)
	require.NoError(t, err)
	require.Equal(t, issuePrice, got)

	// with a live floor the second lister matches it
	id2 := env.mint(t, tBob)
	got2, err := env.engine.ListAtFloor(CallCtx{Sender: tBob}, id2)
	require.NoError(t, err)
	require.Equal(t, issuePrice, got2)
}

func TestPurchaseSettlement(t *testing.T) {
	env := newTestEnv(t)
	id := env.mint(t, tAlice)
	price := FloatToAmount(2)
	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, id, price))

	payment := FloatToAmount(2.5)
	env.ledger.Credit(tBob, payment)

	r, err := env.engine.Purchase(CallCtx{Sender: tBob, Payment: payment}, id)
	require.NoError(t, err)

	// the split is exact and conserves the payment
	require.Equal(t, price, r.Price)
	require.Equal(t, Amount(uint64(price)*FallbackFeeBps/10000), r.Fee)
	require.Equal(t, price-r.Fee, r.SellerProceeds)
	require.Equal(t, payment-price, r.Refund)
	require.Equal(t, payment, r.Fee+r.SellerProceeds+r.Refund)

	require.Equal(t, r.SellerProceeds, env.ledger.BalanceOf(tAlice))
	require.Equal(t, r.Fee, env.ledger.BalanceOf(tTreasury))
	require.Equal(t, r.Refund, env.ledger.BalanceOf(tBob))

	owner, err := env.assets.OwnerOf(id)
	require.NoError(t, err)
	require.Equal(t, tBob, owner)

	_, ok, err := env.engine.GetListing(id)
	require.NoError(t, err)
	require.False(t, ok)
	floor, err := env.engine.FloorPrice()
	require.NoError(t, err)
	require.Equal(t, FloorNone, floor)
}

func TestPurchaseFeeExactOnHugePrices(t *testing.T) {
	env := newTestEnv(t)
	id := env.mint(t, tAlice)

	// 4e18 micro-units: uint64(price)*feeBps would wrap, the wide split must not
	price := Amount(4_000_000_000_000_000_000)
	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, id, price))
	env.ledger.Credit(tBob, price)

	r, err := env.engine.Purchase(CallCtx{Sender: tBob, Payment: price}, id)
	require.NoError(t, err)
	require.Equal(t, Amount(200_000_000_000_000_000), r.Fee)
	require.Equal(t, price-r.Fee, r.SellerProceeds)
	require.Equal(t, price, r.Fee+r.SellerProceeds)
	require.Equal(t, r.Fee, env.ledger.BalanceOf(tTreasury))
}

func TestPurchaseInsufficientPayment(t *testing.T) {
	env := newTestEnv(t)
	id := env.mint(t, tAlice)
	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, id, FloatToAmount(2)))
	env.ledger.Credit(tBob, FloatToAmount(1))

	_, err := env.engine.Purchase(CallCtx{Sender: tBob, Payment: FloatToAmount(1)}, id)
	require.ErrorIs(t, err, ErrInsufficientPayment)

	// nothing moved
	owner, err := env.assets.OwnerOf(id)
	require.NoError(t, err)
	require.Equal(t, tAlice, owner)
	require.Equal(t, FloatToAmount(1), env.ledger.BalanceOf(tBob))
	_, ok, err := env.engine.GetListing(id)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPurchaseNotListed(t *testing.T) {
	env := newTestEnv(t)
	env.mint(t, tAlice)
	_, err := env.engine.Purchase(CallCtx{Sender: tBob, Payment: FloatToAmount(1)}, 0)
	require.ErrorIs(t, err, ErrNotListed)
}

func TestPurchaseOwnershipTransferFailureRestoresListing(t *testing.T) {
	env := newTestEnv(t)
	id := env.mint(t, tAlice)
	price := FloatToAmount(2)
	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, id, price))
	env.ledger.Credit(tBob, price)

	env.assets.FailTransfer = true
	_, err := env.engine.Purchase(CallCtx{Sender: tBob, Payment: price}, id)
	require.ErrorIs(t, err, ErrTransferFailed)

	l, ok, err := env.engine.GetListing(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, price, l.Price)
	floor, err := env.engine.FloorPrice()
	require.NoError(t, err)
	require.Equal(t, price, floor)
	require.Equal(t, price, env.ledger.BalanceOf(tBob))
}

func TestPurchasePaymentFailureHandsAssetBack(t *testing.T) {
	env := newTestEnv(t)
	id := env.mint(t, tAlice)
	price := FloatToAmount(2)
	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, id, price))
	env.ledger.Credit(tBob, price)

	for _, breakIt := range []func(){
		func() { env.ledger.FailTransferTo = tAlice },
		func() { env.ledger.FailCommit = true },
	} {
		breakIt()
		_, err := env.engine.Purchase(CallCtx{Sender: tBob, Payment: price}, id)
		require.ErrorIs(t, err, ErrTransferFailed)
		env.ledger.FailTransferTo = ""

		// the asset went back to the seller and the listing survived
		owner, err := env.assets.OwnerOf(id)
		require.NoError(t, err)
		require.Equal(t, tAlice, owner)
		_, ok, err := env.engine.GetListing(id)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, price, env.ledger.BalanceOf(tBob))
		require.Equal(t, Amount(0), env.ledger.BalanceOf(tAlice))
	}
}

func TestPurchaseReentrancyBlocked(t *testing.T) {
	env := newTestEnv(t)
	id := env.mint(t, tAlice)
	price := FloatToAmount(2)
	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, id, price))
	env.ledger.Credit(tBob, price)

	// a ledger callback trying to re-enter the engine gets a clean error
	var reentryErr error
	env.ledger.OnTransfer = func(to Address, amount Amount) {
		if reentryErr == nil {
			_, reentryErr = env.engine.Mint(CallCtx{Sender: tBob})
		}
	}

	_, err := env.engine.Purchase(CallCtx{Sender: tBob, Payment: price}, id)
	require.NoError(t, err)
	require.ErrorIs(t, reentryErr, ErrReentrantCall)
}

func TestDepositValidation(t *testing.T) {
	env := newTestEnv(t)
	require.Error(t, env.engine.Deposit(CallCtx{Sender: tAlice}, 0))
	require.Error(t, env.engine.Deposit(CallCtx{Sender: tAlice}, -1))
	require.NoError(t, env.engine.Deposit(CallCtx{Sender: tAlice}, FloatToAmount(1)))
	pool, err := env.engine.PoolBalance()
	require.NoError(t, err)
	require.Equal(t, FloatToAmount(1), pool)
}

func TestAdminSetters(t *testing.T) {
	env := newTestEnv(t)

	require.ErrorIs(t, env.engine.SetMultiplier(CallCtx{Sender: tAlice}, DefaultMultiplierNano*2), ErrNotAdmin)
	require.ErrorIs(t, env.engine.SetTreasury(CallCtx{Sender: tAlice}, "system:other"), ErrNotAdmin)

	env.mint(t, tAlice) // move past sequence 0 so the multiplier matters
	require.NoError(t, env.engine.SetMultiplier(CallCtx{Sender: tAdmin}, DefaultMultiplierNano*2))
	want, err := Curve{MultiplierNano: DefaultMultiplierNano * 2, MinPrice: DefaultMinPrice}.Price(1)
	require.NoError(t, err)
	after, err := env.engine.CurrentPrice()
	require.NoError(t, err)
	require.Equal(t, want, after)

	// degenerate parameters never reach storage
	require.Error(t, env.engine.SetMultiplier(CallCtx{Sender: tAdmin}, 0))
	p, err := env.engine.Params()
	require.NoError(t, err)
	require.Equal(t, DefaultMultiplierNano*2, p.MultiplierNano)

	require.NoError(t, env.engine.SetTreasury(CallCtx{Sender: tAdmin}, "system:other"))
	require.NoError(t, env.engine.SetBaseMetadata(CallCtx{Sender: tAdmin}, "ipfs://new/"))
	require.NoError(t, env.engine.SetMinPrice(CallCtx{Sender: tAdmin}, DefaultMinPrice*2))

	require.NoError(t, env.engine.TransferAdmin(CallCtx{Sender: tAdmin}, tBob))
	require.ErrorIs(t, env.engine.SetBaseMetadata(CallCtx{Sender: tAdmin}, "x"), ErrNotAdmin)
	require.NoError(t, env.engine.SetBaseMetadata(CallCtx{Sender: tBob}, "ipfs://newer/"))
}

func TestReopenRestoresState(t *testing.T) {
	env := newTestEnv(t)
	for _, owner := range []Address{tAlice, tBob} {
		env.mint(t, owner)
	}
	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, 0, FloatToAmount(3)))
	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tBob}, 1, FloatToAmount(1.5)))
	require.NoError(t, env.engine.Deposit(CallCtx{Sender: tAdmin}, FloatToAmount(7)))
	require.NoError(t, env.engine.SetBaseMetadata(CallCtx{Sender: tAdmin}, "ipfs://persisted/"))

	// a fresh engine over the same store sees identical state; the stored
	// parameters win over whatever defaults the second Open passes
	reopened, err := Open(env.store, env.assets, env.ledger, nil, nil, Params{})
	require.NoError(t, err)

	issued, err := reopened.TotalIssued()
	require.NoError(t, err)
	require.Equal(t, uint64(2), issued)
	pool, err := reopened.PoolBalance()
	require.NoError(t, err)
	require.Equal(t, FloatToAmount(7), pool)
	floor, err := reopened.FloorPrice()
	require.NoError(t, err)
	require.Equal(t, FloatToAmount(1.5), floor)
	listings, err := reopened.ActiveListings()
	require.NoError(t, err)
	require.Len(t, listings, 2)
	p, err := reopened.Params()
	require.NoError(t, err)
	require.Equal(t, "ipfs://persisted/", p.BaseMetadata)
	require.Equal(t, tAdmin, p.Admin)
}

func TestEventStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.mint(t, tAlice)
	require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, id, FloatToAmount(1)))
	env.ledger.Credit(tBob, FloatToAmount(1))
	_, err := env.engine.Purchase(CallCtx{Sender: tBob, Payment: FloatToAmount(1)}, id)
	require.NoError(t, err)

	var codes []string
	for _, ev := range env.events {
		codes = append(codes, ev.Type)
	}
	require.Equal(t, []string{EvPoolFunded, EvIssued, EvListed, EvPurchased}, codes)
}

// TestPurchaseConservation fuzzes the settlement split across the whole
// supported price range: no value is created or destroyed and the fee never
// exceeds its basis-point share.
func TestPurchaseConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		env := newTestEnv(t)
		id := env.mint(t, tAlice)

		price := Amount(rapid.Int64Range(1_000, 1_000_000_000).Draw(t, "price"))
		overpay := Amount(rapid.Int64Range(0, 1_000_000).Draw(t, "overpay"))
		payment := price + overpay

		require.NoError(t, env.engine.ListAtPrice(CallCtx{Sender: tAlice}, id, price))
		env.ledger.Credit(tBob, payment)

		// an underpayment in the same state leaves everything untouched
		short := Amount(rapid.Int64Range(1, int64(price)).Draw(t, "short"))
		_, err := env.engine.Purchase(CallCtx{Sender: tBob, Payment: price - short}, id)
		require.ErrorIs(t, err, ErrInsufficientPayment)
		require.Equal(t, payment, env.ledger.BalanceOf(tBob))

		r, err := env.engine.Purchase(CallCtx{Sender: tBob, Payment: payment}, id)
		require.NoError(t, err)

		require.Equal(t, payment, r.Fee+r.SellerProceeds+r.Refund)
		require.Equal(t, price, r.Fee+r.SellerProceeds)
		require.Equal(t, overpay, r.Refund)
		require.LessOrEqual(t, uint64(r.Fee)*10000, uint64(price)*FallbackFeeBps)
		require.Equal(t, r.SellerProceeds, env.ledger.BalanceOf(tAlice))
		require.Equal(t, r.Fee, env.ledger.BalanceOf(tTreasury))
		require.Equal(t, r.Refund, env.ledger.BalanceOf(tBob))
	})
}
