package yieldstrategy

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/vaultguard-labs/vaultguard-contract/common"
)

const (
	assetKey     = "asset"
	shortfallKey = "shortfall"

	balancePrefix = 'b'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.(struct {
		asset interop.Hash160
	})

	storage.Put(storage.GetContext(), assetKey, args.asset)
}

// Asset returns the token accepted by the strategy.
func Asset() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), assetKey).(interop.Hash160)
}

// OnNEP17Payment credits the sender or the holder passed in data. The latter
// emulates yield earned by the holder.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if !runtime.GetCallingScriptHash().Equals(Asset()) {
		common.AbortWithMessage("strategy accepts only its asset")
	}

	holder := from
	if data != nil {
		holder = data.(interop.Hash160)
	}

	ctx := storage.GetContext()
	storage.Put(ctx, balanceKey(holder), common.Counter(ctx, balanceKey(holder))+amount)
}

// BalanceOf returns funds of the holder reported by the strategy.
func BalanceOf(holder interop.Hash160) int {
	return common.Counter(storage.GetReadOnlyContext(), balanceKey(holder))
}

// Withdraw returns funds to the holder. If shortfall is set, the holder gets
// less than requested.
func Withdraw(holder interop.Hash160, amount int) {
	common.CheckWitness(holder)

	ctx := storage.GetContext()

	balance := common.Counter(ctx, balanceKey(holder))
	if balance < amount {
		panic("insufficient balance")
	}

	storage.Put(ctx, balanceKey(holder), balance-amount)

	common.TransferAsset(Asset(), holder, amount-common.Counter(ctx, shortfallKey), nil)
}

// SetLoss decreases reported funds of the holder without moving the asset.
func SetLoss(holder interop.Hash160, amount int) {
	ctx := storage.GetContext()
	storage.Put(ctx, balanceKey(holder), common.Counter(ctx, balanceKey(holder))-amount)
}

// SetShortfall makes every following withdrawal deliver amount less.
func SetShortfall(amount int) {
	storage.Put(storage.GetContext(), shortfallKey, amount)
}

func balanceKey(holder interop.Hash160) []byte {
	return append([]byte{balancePrefix}, holder...)
}
