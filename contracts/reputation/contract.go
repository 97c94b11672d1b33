package reputation

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/vaultguard-labs/vaultguard-contract/common"
)

// Credential is a non-transferable record of the paid out submission.
type Credential struct {
	Owner        interop.Hash160
	VaultID      int
	SubmissionID int
	Severity     int
	Amount       int
}

const (
	adminKey       = "admin"
	minterKey      = "minter"
	totalSupplyKey = "totalSupply"

	// credential by token ID
	tokenPrefix = 0x01
	// number of credentials by owner
	balancePrefix = 0x02
	// token ID by owner and token ID
	accountTokenPrefix = 0x03
	// accumulated score by owner
	scorePrefix = 0x04

	// ErrNotMinter is thrown on mint by anyone except the configured minter.
	ErrNotMinter = "only minter can issue credentials"
	// ErrTokenNotFound is thrown on access to unknown token.
	ErrTokenNotFound = "token not found"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		admin  interop.Hash160
		minter interop.Hash160
	})

	if len(args.admin) != interop.Hash160Len {
		panic("incorrect length of admin script hash")
	}

	storage.Put(ctx, adminKey, args.admin)

	if len(args.minter) == interop.Hash160Len {
		storage.Put(ctx, minterKey, args.minter)
	}

	runtime.Log("reputation contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("reputation contract updated")
}

// Symbol returns token symbol.
func Symbol() string {
	return "VGREP"
}

// Decimals returns token decimals. Credentials are indivisible.
func Decimals() int {
	return 0
}

// TotalSupply returns the number of issued credentials.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.Counter(ctx, totalSupplyKey)
}

// BalanceOf returns the number of credentials owned by the account.
func BalanceOf(owner interop.Hash160) int {
	if len(owner) != interop.Hash160Len {
		panic("invalid owner")
	}

	ctx := storage.GetReadOnlyContext()

	return common.Counter(ctx, append([]byte{balancePrefix}, owner...))
}

// OwnerOf returns the owner of the credential.
func OwnerOf(tokenID []byte) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getCredential(ctx, tokenID).Owner
}

// Properties returns details of the paid out submission the credential was
// issued for.
func Properties(tokenID []byte) map[string]any {
	ctx := storage.GetReadOnlyContext()
	c := getCredential(ctx, tokenID)

	return map[string]any{
		"name":         "VaultGuard reputation #" + string(tokenID),
		"vaultID":      c.VaultID,
		"submissionID": c.SubmissionID,
		"severity":     c.Severity,
		"amount":       c.Amount,
	}
}

// Tokens returns iterator over IDs of all issued credentials.
func Tokens() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{tokenPrefix}, storage.KeysOnly|storage.RemovePrefix)
}

// TokensOf returns iterator over IDs of the credentials owned by the account.
func TokensOf(owner interop.Hash160) iterator.Iterator {
	if len(owner) != interop.Hash160Len {
		panic("invalid owner")
	}

	ctx := storage.GetReadOnlyContext()

	return storage.Find(ctx, append([]byte{accountTokenPrefix}, owner...), storage.ValuesOnly)
}

// Transfer always returns false: credentials are bound to the account they
// were issued to.
func Transfer(to interop.Hash160, tokenID []byte, data any) bool {
	return false
}

// Score returns the reputation score of the account. Each credential adds
// its severity tier plus one.
func Score(owner interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.Counter(ctx, append([]byte{scorePrefix}, owner...))
}

// Mint issues a credential to the researcher for the paid out submission. It
// can be invoked only by the minter.
//
// Produces NEP-11 Transfer notification with empty sender. Contract
// recipients get onNEP11Payment call.
func Mint(to interop.Hash160, vaultID int, submissionID int, severity int, amount int) []byte {
	ctx := storage.GetContext()

	minter := storage.Get(ctx, minterKey)
	if minter == nil || !runtime.CheckWitness(minter.(interop.Hash160)) {
		panic(ErrNotMinter)
	}

	if len(to) != interop.Hash160Len {
		panic("invalid receiver")
	}

	n := common.NextID(ctx, totalSupplyKey) + 1
	tokenID := []byte(std.Itoa10(n))

	common.SetSerialized(ctx, append([]byte{tokenPrefix}, tokenID...), Credential{
		Owner:        to,
		VaultID:      vaultID,
		SubmissionID: submissionID,
		Severity:     severity,
		Amount:       amount,
	})

	balanceKey := append([]byte{balancePrefix}, to...)
	storage.Put(ctx, balanceKey, common.Counter(ctx, balanceKey)+1)

	scoreKey := append([]byte{scorePrefix}, to...)
	storage.Put(ctx, scoreKey, common.Counter(ctx, scoreKey)+severity+1)

	accountTokenKey := append(append([]byte{accountTokenPrefix}, to...), tokenID...)
	storage.Put(ctx, accountTokenKey, tokenID)

	var from interop.Hash160

	runtime.Notify("Transfer", from, to, 1, tokenID)
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP11Payment", contract.All, from, 1, tokenID, nil)
	}

	return tokenID
}

// SetMinter sets the account allowed to issue credentials. It can be invoked
// only by the contract administrator.
func SetMinter(minter interop.Hash160) {
	ctx := storage.GetContext()

	common.CheckAdminWitness(storage.Get(ctx, adminKey).(interop.Hash160))

	if len(minter) != interop.Hash160Len {
		panic("incorrect length of minter script hash")
	}

	storage.Put(ctx, minterKey, minter)
	runtime.Log("minter has been updated")
}

// Minter returns the account allowed to issue credentials.
func Minter() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()

	minter := storage.Get(ctx, minterKey)
	if minter == nil {
		return nil
	}

	return minter.(interop.Hash160)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getCredential(ctx storage.Context, tokenID []byte) Credential {
	data := storage.Get(ctx, append([]byte{tokenPrefix}, tokenID...))
	if data == nil {
		panic(ErrTokenNotFound)
	}

	return std.Deserialize(data.([]byte)).(Credential)
}
