package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

// ErrTransferFailed is thrown when NEP-17 token contract refuses the transfer.
const ErrTransferFailed = "asset transfer failed"

// TransferAsset transfers amount of NEP-17 asset from the executing contract
// account to the recipient. It panics with ErrTransferFailed if token contract
// returns false. Zero amount is skipped.
func TransferAsset(asset, to interop.Hash160, amount int, data any) {
	if amount == 0 {
		return
	}

	from := runtime.GetExecutingScriptHash()

	ok := contract.Call(asset, "transfer", contract.All, from, to, amount, data).(bool)
	if !ok {
		panic(ErrTransferFailed)
	}
}

// AssetBalance returns NEP-17 asset balance of the given account.
func AssetBalance(asset, holder interop.Hash160) int {
	return contract.Call(asset, "balanceOf", contract.ReadStates, holder).(int)
}

// AbortWithMessage calls `runtime.Log` with passed message
// and calls `ABORT` opcode.
func AbortWithMessage(msg string) {
	runtime.Log(msg)
	util.Abort()
}
