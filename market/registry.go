package market

// listingBook is the order book: active listings keyed by asset id, a dense
// sequence of listed ids with a reverse position map for O(1) insert and
// swap-remove, and the maintained floor price. It is a plain in-memory
// structure; the engine owns it, serializes access and persists it.
type listingBook struct {
	listings map[uint64]Listing
	ids      []uint64       // dense sequence of listed ids
	pos      map[uint64]int // id -> exact position in ids
	floor    Amount         // min price over active listings, FloorNone when empty
}

func newListingBook() *listingBook {
	return &listingBook{
		listings: make(map[uint64]Listing),
		pos:      make(map[uint64]int),
		floor:    FloorNone,
	}
}

// list records a new offer. The caller has already authorized the seller.
func (b *listingBook) list(id uint64, seller Address, price Amount) error {
	if price <= 0 {
		return ErrBadPrice
	}
	if l, ok := b.listings[id]; ok && l.Active {
		return ErrAlreadyListed
	}
	b.listings[id] = Listing{Price: price, Seller: seller, Active: true}
	b.pos[id] = len(b.ids)
	b.ids = append(b.ids, id)
	if b.floor == FloorNone || price < b.floor {
		b.floor = price
	}
	return nil
}

// take removes the listing for id and hands back its price and seller so the
// engine can settle. delist is the same removal without caring about the
// payout side.
func (b *listingBook) take(id uint64) (Listing, error) {
	l, ok := b.listings[id]
	if !ok || !l.Active {
		return Listing{}, ErrNotListed
	}

	// swap-with-last-and-truncate keeps the sequence dense
	p := b.pos[id]
	last := len(b.ids) - 1
	if p != last {
		moved := b.ids[last]
		b.ids[p] = moved
		b.pos[moved] = p
	}
	b.ids = b.ids[:last]
	delete(b.pos, id)
	delete(b.listings, id)

	switch {
	case len(b.ids) == 0:
		b.floor = FloorNone
	case l.Price == b.floor:
		// only a removed floor holder forces the rescan
		b.floor = b.rescanFloor()
	}
	return l, nil
}

// rescanFloor walks every remaining active listing for the new minimum.
func (b *listingBook) rescanFloor() Amount {
	min := FloorNone
	for _, id := range b.ids {
		p := b.listings[id].Price
		if min == FloorNone || p < min {
			min = p
		}
	}
	return min
}

// restore re-adds a previously taken listing and resets the floor to the
// exact pre-removal value. Used to unwind a purchase whose settlement failed;
// the id lands at the end of the sequence, which is fine since snapshot order
// is not guaranteed stable.
func (b *listingBook) restore(id uint64, l Listing, floor Amount) {
	b.listings[id] = l
	b.pos[id] = len(b.ids)
	b.ids = append(b.ids, id)
	b.floor = floor
}

// get returns the active listing for id, if any.
func (b *listingBook) get(id uint64) (Listing, bool) {
	l, ok := b.listings[id]
	if !ok || !l.Active {
		return Listing{}, false
	}
	return l, true
}

func (b *listingBook) len() int {
	return len(b.ids)
}

// snapshot copies out every active listing in insertion/swap order.
func (b *listingBook) snapshot() []ListingSnapshot {
	out := make([]ListingSnapshot, 0, len(b.ids))
	for _, id := range b.ids {
		l := b.listings[id]
		out = append(out, ListingSnapshot{ID: id, Price: l.Price, Seller: l.Seller})
	}
	return out
}
