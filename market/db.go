package market

import (
	"strconv"
	"strings"

	"curvemarket/kvstore"
)

////////////////////////////////////////////////////////////////////////////////
// Engine state persistence helpers
////////////////////////////////////////////////////////////////////////////////

// stageListing serializes one listing record into the batch.
func stageListing(b *kvstore.Batch, id uint64, l Listing) error {
	data, err := l.MarshalJSON()
	if err != nil {
		return stateErr("storage", "failed to encode listing %d: %v", id, err)
	}
	b.Put(listingKey(id), string(data))
	return nil
}

// stageIndex persists the dense active-id sequence as comma-joined decimals.
func stageIndex(b *kvstore.Batch, ids []uint64) {
	b.Put(listingIndexKey(), uint64SliceToString(ids))
}

// stageCounters writes both scalar counters; cheap enough to always rewrite.
func stageCounters(b *kvstore.Batch, issued uint64, pool Amount) {
	b.Put(issuedCountKey(), strconv.FormatUint(issued, 10))
	b.Put(poolBalanceKey(), strconv.FormatInt(int64(pool), 10))
}

// stageParams serializes the parameter record.
func stageParams(b *kvstore.Batch, p Params) error {
	data, err := p.MarshalJSON()
	if err != nil {
		return stateErr("storage", "failed to encode params: %v", err)
	}
	b.Put(paramsKey(), string(data))
	return nil
}

// loadCount reads a decimal counter and defaults to zero, nothing magical here.
func loadCount(s kvstore.Store, key string) (uint64, error) {
	ptr, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	if ptr == nil || *ptr == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(*ptr, 10, 64)
	if err != nil {
		return 0, stateErr("storage", "corrupt counter under %x: %v", key, err)
	}
	return n, nil
}

// loadParams returns the stored parameter record, or nil when never written.
func loadParams(s kvstore.Store) (*Params, error) {
	ptr, err := s.Get(paramsKey())
	if err != nil {
		return nil, err
	}
	if ptr == nil {
		return nil, nil
	}
	var p Params
	if err := p.UnmarshalJSON([]byte(*ptr)); err != nil {
		return nil, stateErr("storage", "corrupt params record: %v", err)
	}
	return &p, nil
}

// loadBook rebuilds the in-memory order book from the persisted index plus
// the per-id listing records, then rescans for the floor.
func loadBook(s kvstore.Store) (*listingBook, error) {
	book := newListingBook()
	ptr, err := s.Get(listingIndexKey())
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return book, nil
	}
	ids, err := stringToUint64Slice(*ptr)
	if err != nil {
		return nil, stateErr("storage", "corrupt listing index: %v", err)
	}
	for _, id := range ids {
		lptr, err := s.Get(listingKey(id))
		if err != nil {
			return nil, err
		}
		if lptr == nil {
			return nil, stateErr("storage", "listing %d indexed but missing", id)
		}
		var l Listing
		if err := l.UnmarshalJSON([]byte(*lptr)); err != nil {
			return nil, stateErr("storage", "corrupt listing %d: %v", id, err)
		}
		if err := book.list(id, l.Seller, l.Price); err != nil {
			return nil, err
		}
	}
	return book, nil
}

// stageIssuePrice records what an asset cost at mint time.
func stageIssuePrice(b *kvstore.Batch, id uint64, price Amount) {
	b.Put(issuePriceKey(id), strconv.FormatInt(int64(price), 10))
}

// loadIssuePrice reads the recorded issuance price for an asset.
func loadIssuePrice(s kvstore.Store, id uint64) (Amount, error) {
	ptr, err := s.Get(issuePriceKey(id))
	if err != nil {
		return 0, err
	}
	if ptr == nil || *ptr == "" {
		return 0, stateErr("storage", "no issuance price recorded for asset %d", id)
	}
	n, err := strconv.ParseInt(*ptr, 10, 64)
	if err != nil {
		return 0, stateErr("storage", "corrupt issuance price for asset %d: %v", id, err)
	}
	return Amount(n), nil
}

// uint64SliceToString encodes ids as "3,7,12" for the index key.
// Example payload: uint64SliceToString([]uint64{0, 2, 3})
func uint64SliceToString(nums []uint64) string {
	strNums := make([]string, len(nums))
	for i, n := range nums {
		strNums[i] = strconv.FormatUint(n, 10)
	}
	return strings.Join(strNums, ",")
}

// stringToUint64Slice is the inverse for rebuilding the index at load time.
func stringToUint64Slice(s string) ([]uint64, error) {
	parts := strings.Split(s, ",")
	out := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
