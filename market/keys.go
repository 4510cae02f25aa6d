package market

// Storage key prefixes. One byte per record family keeps keys compact in the
// kv store and guarantees families never collide.
const (
	// kParams stores the serialized engine parameters.
	kParams byte = 0x01
	// kIssuedCount holds the issuance sequence counter as a decimal string.
	kIssuedCount byte = 0x02
	// kPoolBalance holds the minting pool balance as a decimal string.
	kPoolBalance byte = 0x03
	// kListing houses serialized Listing records, asset-id scoped.
	kListing byte = 0x10
	// kListingIndex stores the dense active-id sequence as comma-joined decimals.
	kListingIndex byte = 0x11
	// kIssuePrice records the price paid at issuance per asset id.
	kIssuePrice byte = 0x12
)

// packU64LEInline sprinkles a uint64 into dst in little-endian order so our keys stay compact.
func packU64LEInline(x uint64, dst []byte) {
	dst[0] = byte(x)
	dst[1] = byte(x >> 8)
	dst[2] = byte(x >> 16)
	dst[3] = byte(x >> 24)
	dst[4] = byte(x >> 32)
	dst[5] = byte(x >> 40)
	dst[6] = byte(x >> 48)
	dst[7] = byte(x >> 56)
}

// paramsKey is the singleton key for engine parameters.
func paramsKey() string {
	return string([]byte{kParams})
}

// issuedCountKey is the singleton issuance counter key.
func issuedCountKey() string {
	return string([]byte{kIssuedCount})
}

// poolBalanceKey is the singleton pool balance key.
func poolBalanceKey() string {
	return string([]byte{kPoolBalance})
}

// listingKey builds the storage key for one asset's listing record.
func listingKey(id uint64) string {
	var buf [9]byte
	buf[0] = kListing
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}

// listingIndexKey is the singleton dense-sequence key.
func listingIndexKey() string {
	return string([]byte{kListingIndex})
}

// issuePriceKey builds the storage key for the price an asset was issued at.
func issuePriceKey(id uint64) string {
	var buf [9]byte
	buf[0] = kIssuePrice
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}
