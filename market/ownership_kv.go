package market

import (
	"strconv"

	"curvemarket/kvstore"
)

// Reference-collaborator storage prefixes, kept apart from the engine's own
// families in keys.go.
const (
	// kAssetOwner stores the holder address per asset id.
	kAssetOwner byte = 0x20
	// kAssetNext holds the registry's own sequence counter.
	kAssetNext byte = 0x21
)

func assetOwnerKey(id uint64) string {
	var buf [9]byte
	buf[0] = kAssetOwner
	packU64LEInline(id, buf[1:])
	return string(buf[:])
}

func assetNextKey() string {
	return string([]byte{kAssetNext})
}

// KVOwnership is the bundled ownership registry: a persistent sequential
// asset register over the same kv store the engine uses. Real deployments
// point the engine at their own registry instead.
type KVOwnership struct {
	store kvstore.Store
}

func NewKVOwnership(store kvstore.Store) *KVOwnership {
	return &KVOwnership{store: store}
}

func (o *KVOwnership) OwnerOf(id uint64) (Address, error) {
	ptr, err := o.store.Get(assetOwnerKey(id))
	if err != nil {
		return "", err
	}
	if ptr == nil {
		return "", stateErr("unknown_asset", "asset %d does not exist", id)
	}
	return Address(*ptr), nil
}

func (o *KVOwnership) MintTo(to Address) (uint64, error) {
	id, err := loadCount(o.store, assetNextKey())
	if err != nil {
		return 0, err
	}
	puts := map[string]string{
		assetOwnerKey(id): to.String(),
		assetNextKey():    strconv.FormatUint(id+1, 10),
	}
	if err := o.store.Apply(puts, nil); err != nil {
		return 0, err
	}
	return id, nil
}

func (o *KVOwnership) Transfer(from, to Address, id uint64) error {
	owner, err := o.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != from {
		return stateErr("not_holder", "asset %d held by %s, not %s", id, owner, from)
	}
	return o.store.Set(assetOwnerKey(id), to.String())
}
