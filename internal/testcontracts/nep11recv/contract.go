package nep11recv

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/vaultguard-labs/vaultguard-contract/common"
)

const countKey = "count"

type Payment struct {
	From    interop.Hash160
	TokenID []byte
}

func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
	if amount != 1 {
		panic("wrong amount")
	}

	ctx := storage.GetContext()
	n := common.NextID(ctx, countKey)
	common.SetSerialized(ctx, append([]byte{'p'}, convert.ToBytes(n)...), Payment{
		From:    from,
		TokenID: tokenID,
	})
}

func Count() int {
	return common.Counter(storage.GetReadOnlyContext(), countKey)
}

func Get(n int) Payment {
	val := storage.Get(storage.GetReadOnlyContext(), append([]byte{'p'}, convert.ToBytes(n)...))
	if val == nil {
		return Payment{}
	}
	return std.Deserialize(val.([]byte)).(Payment)
}
