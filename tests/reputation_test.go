package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/vaultguard-labs/vaultguard-contract/common"
	"github.com/vaultguard-labs/vaultguard-contract/contracts/reputation"
	cst "github.com/vaultguard-labs/vaultguard-contract/contracts/vaultguard/vaultguardconst"
)

const nep11RecvPath = "../internal/testcontracts/nep11recv"

func newReputationInvoker(t *testing.T) (*neotest.ContractInvoker, neotest.Signer, neotest.Signer) {
	e := newExecutor(t)

	admin := e.NewAccount(t)
	minter := e.NewAccount(t)

	c := neotest.CompileFile(t, e.CommitteeHash, reputationPath, path.Join(reputationPath, "config.yml"))
	e.DeployContract(t, c, []any{admin.ScriptHash(), minter.ScriptHash()})

	return e.CommitteeInvoker(c.Hash), admin, minter
}

func mintCredential(t *testing.T, c *neotest.ContractInvoker, minter neotest.Signer, to util.Uint160, severity int64, amount int64) []byte {
	tx := c.WithSigners(minter).PrepareInvoke(t, "mint", to, int64(0), int64(0), severity, amount)
	c.AddNewBlock(t, tx)
	c.CheckHalt(t, tx.Hash())

	res := c.GetTxExecResult(t, tx.Hash())
	require.Len(t, res.Stack, 1)

	tokenID, err := res.Stack[0].TryBytes()
	require.NoError(t, err)

	return tokenID
}

func credentialProperty(t *testing.T, c *neotest.ContractInvoker, tokenID []byte, key string) stackitem.Item {
	s, err := c.TestInvoke(t, "properties", tokenID)
	require.NoError(t, err)

	props, ok := s.Pop().Item().(*stackitem.Map)
	require.True(t, ok)

	i := props.Index(stackitem.Make(key))
	require.True(t, i >= 0, "missing property %s", key)

	return props.Value().([]stackitem.MapElement)[i].Value
}

func TestReputation_Mint(t *testing.T) {
	c, admin, minter := newReputationInvoker(t)

	c.Invoke(t, "VGREP", "symbol")
	c.Invoke(t, 0, "decimals")
	c.Invoke(t, 0, "totalSupply")
	checkHash(t, c, minter.ScriptHash(), "minter")

	researcher := c.NewAccount(t)

	c.WithSigners(admin).InvokeFail(t, reputation.ErrNotMinter, "mint",
		researcher.ScriptHash(), int64(0), int64(0), int64(cst.SeverityLow), int64(1))

	first := mintCredential(t, c, minter, researcher.ScriptHash(), cst.SeverityMedium, 100)
	second := mintCredential(t, c, minter, researcher.ScriptHash(), cst.SeverityCritical, 200)

	require.Equal(t, []byte("1"), first)
	require.Equal(t, []byte("2"), second)

	c.Invoke(t, 2, "totalSupply")
	c.Invoke(t, 2, "balanceOf", researcher.ScriptHash())
	checkHash(t, c, researcher.ScriptHash(), "ownerOf", first)
	c.Invoke(t, (cst.SeverityMedium+1)+(cst.SeverityCritical+1), "score", researcher.ScriptHash())

	amount, err := credentialProperty(t, c, second, "amount").TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 200, amount.Int64())

	s, err := c.TestInvoke(t, "tokensOf", researcher.ScriptHash())
	require.NoError(t, err)
	tokens := iteratorToArray(s.Pop().Value().(*storage.Iterator))
	require.Len(t, tokens, 2)

	s, err = c.TestInvoke(t, "tokens")
	require.NoError(t, err)
	require.Len(t, iteratorToArray(s.Pop().Value().(*storage.Iterator)), 2)

	c.WithSigners(researcher).Invoke(t, false, "transfer", admin.ScriptHash(), first, nil)
	checkHash(t, c, researcher.ScriptHash(), "ownerOf", first)

	c.InvokeFail(t, reputation.ErrTokenNotFound, "ownerOf", []byte("3"))
	c.InvokeFail(t, "invalid owner", "balanceOf", []byte{1, 2, 3})
}

func TestReputation_SetMinter(t *testing.T) {
	c, admin, minter := newReputationInvoker(t)

	next := c.NewAccount(t)

	c.WithSigners(minter).InvokeFail(t, common.ErrAdminWitnessFailed, "setMinter", next.ScriptHash())
	c.WithSigners(admin).InvokeFail(t, "incorrect length", "setMinter", []byte{1})

	c.WithSigners(admin).Invoke(t, stackitem.Null{}, "setMinter", next.ScriptHash())
	checkHash(t, c, next.ScriptHash(), "minter")

	c.WithSigners(minter).InvokeFail(t, reputation.ErrNotMinter, "mint",
		admin.ScriptHash(), int64(0), int64(0), int64(cst.SeverityLow), int64(1))
	mintCredential(t, c, next, admin.ScriptHash(), cst.SeverityLow, 1)
}

func TestReputation_ContractRecipient(t *testing.T) {
	c, _, minter := newReputationInvoker(t)

	rc := neotest.CompileFile(t, c.CommitteeHash, nep11RecvPath, path.Join(nep11RecvPath, "config.yml"))
	c.DeployContract(t, rc, nil)

	tokenID := mintCredential(t, c, minter, rc.Hash, cst.SeverityHigh, 1)

	recv := c.CommitteeInvoker(rc.Hash)
	recv.Invoke(t, 1, "count")

	s, err := recv.TestInvoke(t, "get", 0)
	require.NoError(t, err)

	payment := s.Pop().Array()
	require.Equal(t, stackitem.Null{}, payment[0])

	received, err := payment[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, tokenID, received)
}

func TestReputation_VaultGuardPayout(t *testing.T) {
	env := newVaultGuardEnvWithReputation(t, true)

	rep := env.e.CommitteeInvoker(env.reputation)

	checkHash(t, rep, env.hash, "minter")
	checkHash(t, env.reader(), env.reputation, "reputationContract")

	vaultID := env.createVault(t, 1)
	subID := env.submit(t, vaultID, cst.SeverityCritical)
	env.vote(t, subID, 0, true)

	h := env.claim(t, subID)

	var transfers []state.NotificationEvent
	for _, ev := range env.e.GetTxExecResult(t, h).Events {
		if ev.ScriptHash.Equals(env.reputation) && ev.Name == "Transfer" {
			transfers = append(transfers, ev)
		}
	}
	require.Len(t, transfers, 1)

	items := transfers[0].Item.Value().([]stackitem.Item)
	require.Len(t, items, 4)
	require.Equal(t, stackitem.Null{}, items[0])

	to, err := items[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, env.researcher.ScriptHash().BytesBE(), to)

	tokenID, err := items[3].TryBytes()
	require.NoError(t, err)

	rep.Invoke(t, 1, "balanceOf", env.researcher.ScriptHash())
	checkHash(t, rep, env.researcher.ScriptHash(), "ownerOf", tokenID)
	rep.Invoke(t, cst.SeverityCritical+1, "score", env.researcher.ScriptHash())

	amount, err := credentialProperty(t, rep, tokenID, "amount").TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, vaultDeposit, amount.Int64())

	submission, err := credentialProperty(t, rep, tokenID, "submissionID").TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, subID, submission.Int64())

	t.Run("minting disabled", func(t *testing.T) {
		env.invoker(env.admin).Invoke(t, stackitem.Null{}, "setReputationContract", []byte{})

		env.deposit(t, vaultID, vaultDeposit)
		subID := env.submit(t, vaultID, cst.SeverityLow)
		env.vote(t, subID, 0, true)
		env.claim(t, subID)

		rep.Invoke(t, 1, "totalSupply")
	})
}
