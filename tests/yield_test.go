package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	cst "github.com/vaultguard-labs/vaultguard-contract/contracts/vaultguard/vaultguardconst"
	"github.com/vaultguard-labs/vaultguard-contract/rpc/vaultguard"
)

const yieldStrategyPath = "../internal/testcontracts/yieldstrategy"

// deployStrategy deploys yield strategy contract of the asset. Name makes the
// contract hash unique, so a few strategies can coexist.
func (env *vaultGuardEnv) deployStrategy(t *testing.T, name string, asset util.Uint160) util.Uint160 {
	c := neotest.CompileFile(t, env.e.CommitteeHash, yieldStrategyPath, path.Join(yieldStrategyPath, "config.yml"))

	m := *c.Manifest
	m.Name = name

	named := &neotest.Contract{
		Hash:     state.CreateContractHash(env.e.CommitteeHash, c.NEF.Checksum, name),
		NEF:      c.NEF,
		Manifest: &m,
	}

	env.e.DeployContract(t, named, []any{asset})

	return named.Hash
}

func (env *vaultGuardEnv) strategyBalance(t *testing.T, strategy util.Uint160) int64 {
	s, err := env.e.CommitteeInvoker(strategy).TestInvoke(t, "balanceOf", env.hash)
	require.NoError(t, err)
	return s.Pop().BigInt().Int64()
}

// accrue adds amount to the strategy funds of the VaultGuard contract as if
// the strategy earned it.
func (env *vaultGuardEnv) accrue(t *testing.T, strategy util.Uint160, amount int64) {
	env.e.NewInvoker(env.gas, env.e.Validator).Invoke(t, true, "transfer",
		env.e.Validator.ScriptHash(), strategy, amount, env.hash)
}

func (env *vaultGuardEnv) setStrategy(t *testing.T, vaultID int64, strategy any) util.Uint256 {
	return env.invoker(env.owner).Invoke(t, stackitem.Null{}, "setYieldStrategy", vaultID, strategy)
}

func TestVaultGuard_YieldStrategy(t *testing.T) {
	env := newVaultGuardEnv(t)

	vaultID := env.createVault(t, 1)
	strategy := env.deployStrategy(t, "strategy A", env.gas)

	env.invoker(env.researcher).InvokeFail(t, cst.ErrNotOwner, "setYieldStrategy", vaultID, strategy)

	h := env.setStrategy(t, vaultID, strategy)

	evs, err := vaultguard.YieldStrategySetEventsFromApplicationLog(env.appLog(t, h))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.EqualValues(t, vaultID, evs[0].VaultID.Int64())
	require.Equal(t, strategy, evs[0].Strategy)

	v := env.vault(t, vaultID)
	require.Equal(t, strategy, v.Strategy)
	require.EqualValues(t, vaultDeposit, v.RemainingFunds.Int64())

	require.EqualValues(t, 0, env.gasBalance(env.hash))
	require.EqualValues(t, vaultDeposit, env.gasBalance(strategy))
	require.EqualValues(t, vaultDeposit, env.strategyBalance(t, strategy))

	const extra = int64(1_0000_0000)

	t.Run("deposit is forwarded", func(t *testing.T) {
		env.deposit(t, vaultID, extra)

		require.EqualValues(t, 0, env.gasBalance(env.hash))
		require.EqualValues(t, vaultDeposit+extra, env.strategyBalance(t, strategy))
		require.EqualValues(t, vaultDeposit+extra, env.vault(t, vaultID).RemainingFunds.Int64())
	})

	t.Run("claim withdraws from strategy", func(t *testing.T) {
		const (
			// 50% of 11 GAS
			payout = int64(5_5000_0000)
			fee    = payout * cst.PlatformFee / cst.BasisPoints
		)

		subID := env.submit(t, vaultID, cst.SeverityHigh)
		env.vote(t, subID, 0, true)
		require.EqualValues(t, payout, env.submission(t, subID).PayoutAmount.Int64())

		researcherBalance := env.gasBalance(env.researcher.ScriptHash())
		platformBalance := env.gasBalance(env.platform.ScriptHash())

		env.claim(t, subID)

		require.Equal(t, researcherBalance+payout-fee, env.gasBalance(env.researcher.ScriptHash()))
		require.Equal(t, platformBalance+fee, env.gasBalance(env.platform.ScriptHash()))
		require.EqualValues(t, 0, env.gasBalance(env.hash))
		require.EqualValues(t, vaultDeposit+extra-payout, env.strategyBalance(t, strategy))
		require.EqualValues(t, vaultDeposit+extra-payout, env.gasBalance(strategy))
	})

	// 5.5 GAS left, Low severity payout is 0.55 GAS
	const remaining = int64(5_5000_0000)
	subID := env.submit(t, vaultID, cst.SeverityLow)
	env.vote(t, subID, 0, true)
	require.EqualValues(t, remaining/10, env.submission(t, subID).PayoutAmount.Int64())

	s := env.e.CommitteeInvoker(strategy)

	t.Run("strategy loss", func(t *testing.T) {
		const loss = int64(5_0000_0000)

		s.Invoke(t, stackitem.Null{}, "setLoss", env.hash, loss)
		env.claimFail(t, subID, cst.ErrInsufficientStrategyBalance)

		s.Invoke(t, stackitem.Null{}, "setLoss", env.hash, -loss)
	})

	t.Run("strategy shortfall", func(t *testing.T) {
		s.Invoke(t, stackitem.Null{}, "setShortfall", 1)
		env.claimFail(t, subID, cst.ErrStrategyWithdrawFailed)

		s.Invoke(t, stackitem.Null{}, "setShortfall", 0)
	})

	require.EqualValues(t, cst.StatusApproved, env.submission(t, subID).Status.Int64())
	require.EqualValues(t, remaining, env.strategyBalance(t, strategy))

	env.claim(t, subID)

	left := remaining - remaining/10
	require.EqualValues(t, left, env.strategyBalance(t, strategy))
	require.EqualValues(t, left, env.vault(t, vaultID).RemainingFunds.Int64())

	t.Run("migrate", func(t *testing.T) {
		next := env.deployStrategy(t, "strategy B", env.gas)

		env.setStrategy(t, vaultID, next)

		require.EqualValues(t, 0, env.strategyBalance(t, strategy))
		require.EqualValues(t, 0, env.gasBalance(strategy))
		require.EqualValues(t, left, env.strategyBalance(t, next))
		require.EqualValues(t, left, env.gasBalance(next))
		require.Equal(t, next, env.vault(t, vaultID).Strategy)

		t.Run("detach", func(t *testing.T) {
			h := env.setStrategy(t, vaultID, []byte{})

			evs, err := vaultguard.YieldStrategySetEventsFromApplicationLog(env.appLog(t, h))
			require.NoError(t, err)
			require.Len(t, evs, 1)
			require.Equal(t, util.Uint160{}, evs[0].Strategy)

			require.False(t, env.vault(t, vaultID).HasStrategy())
			require.EqualValues(t, 0, env.strategyBalance(t, next))
			require.EqualValues(t, left, env.gasBalance(env.hash))
		})
	})
}

func TestVaultGuard_YieldStrategyAsset(t *testing.T) {
	env := newVaultGuardEnv(t)

	vaultID := env.createVault(t, 1)
	strategy := env.deployStrategy(t, "NEO strategy", env.neo)

	env.invoker(env.owner).InvokeFail(t, cst.ErrAssetMismatch, "setYieldStrategy", vaultID, strategy)
	require.False(t, env.vault(t, vaultID).HasStrategy())
	require.EqualValues(t, vaultDeposit, env.gasBalance(env.hash))
}

func TestVaultGuard_CloseWithStrategy(t *testing.T) {
	env := newVaultGuardEnv(t)

	vaultID := env.createVault(t, 1)
	strategy := env.deployStrategy(t, "strategy", env.gas)
	env.setStrategy(t, vaultID, strategy)

	ownerBalance := env.gasBalance(env.owner.ScriptHash())

	env.invoker(env.e.Validator, env.owner).Invoke(t, stackitem.Null{}, "closeVault", vaultID)

	require.Equal(t, ownerBalance+vaultDeposit, env.gasBalance(env.owner.ScriptHash()))
	require.EqualValues(t, 0, env.strategyBalance(t, strategy))
	require.EqualValues(t, 0, env.gasBalance(strategy))
	require.EqualValues(t, 0, env.gasBalance(env.hash))

	env.invoker(env.owner).InvokeFail(t, cst.ErrVaultInactive, "setYieldStrategy", vaultID, strategy)
}

func TestVaultGuard_StrategyLoss(t *testing.T) {
	const loss = int64(1)

	newLossyVault := func(t *testing.T) (*vaultGuardEnv, int64, util.Uint160) {
		env := newVaultGuardEnv(t)

		vaultID := env.createVault(t, 1)
		strategy := env.deployStrategy(t, "strategy", env.gas)
		env.setStrategy(t, vaultID, strategy)

		env.e.CommitteeInvoker(strategy).Invoke(t, stackitem.Null{}, "setLoss", env.hash, loss)
		require.EqualValues(t, vaultDeposit-loss, env.strategyBalance(t, strategy))

		return env, vaultID, strategy
	}

	t.Run("close", func(t *testing.T) {
		env, vaultID, strategy := newLossyVault(t)

		ownerBalance := env.gasBalance(env.owner.ScriptHash())

		h := env.invoker(env.e.Validator, env.owner).Invoke(t, stackitem.Null{}, "closeVault", vaultID)

		evs, err := vaultguard.VaultClosedEventsFromApplicationLog(env.appLog(t, h))
		require.NoError(t, err)
		require.Len(t, evs, 1)
		require.EqualValues(t, vaultDeposit-loss, evs[0].Refund.Int64())

		require.Equal(t, ownerBalance+vaultDeposit-loss, env.gasBalance(env.owner.ScriptHash()))
		require.EqualValues(t, 0, env.strategyBalance(t, strategy))
		require.EqualValues(t, 0, env.gasBalance(env.hash))

		v := env.vault(t, vaultID)
		require.False(t, v.Active)
		require.EqualValues(t, 0, v.RemainingFunds.Int64())
	})

	t.Run("detach", func(t *testing.T) {
		env, vaultID, strategy := newLossyVault(t)

		env.setStrategy(t, vaultID, []byte{})

		v := env.vault(t, vaultID)
		require.False(t, v.HasStrategy())
		require.EqualValues(t, vaultDeposit-loss, v.RemainingFunds.Int64())
		require.EqualValues(t, vaultDeposit, v.TotalDeposit.Int64())
		require.EqualValues(t, 0, env.strategyBalance(t, strategy))
		require.EqualValues(t, vaultDeposit-loss, env.gasBalance(env.hash))
	})

	t.Run("re-point", func(t *testing.T) {
		env, vaultID, _ := newLossyVault(t)

		next := env.deployStrategy(t, "next strategy", env.gas)
		env.setStrategy(t, vaultID, next)

		require.EqualValues(t, vaultDeposit-loss, env.vault(t, vaultID).RemainingFunds.Int64())
		require.EqualValues(t, vaultDeposit-loss, env.strategyBalance(t, next))
	})
}

func TestVaultGuard_StrategyYield(t *testing.T) {
	env := newVaultGuardEnv(t)

	first := env.createVault(t, 1)
	second := env.createVault(t, 1)

	strategy := env.deployStrategy(t, "shared strategy", env.gas)
	env.setStrategy(t, first, strategy)
	env.setStrategy(t, second, strategy)

	const gain = int64(2_0000_0000)

	env.accrue(t, strategy, gain)
	require.EqualValues(t, 2*vaultDeposit+gain, env.strategyBalance(t, strategy))

	// vaults have equal principal, so yield is split in halves
	const share = vaultDeposit + gain/2

	ownerBalance := env.gasBalance(env.owner.ScriptHash())

	h := env.invoker(env.e.Validator, env.owner).Invoke(t, stackitem.Null{}, "closeVault", first)

	evs, err := vaultguard.VaultClosedEventsFromApplicationLog(env.appLog(t, h))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.EqualValues(t, share, evs[0].Refund.Int64())

	require.Equal(t, ownerBalance+share, env.gasBalance(env.owner.ScriptHash()))
	require.EqualValues(t, share, env.strategyBalance(t, strategy))

	env.setStrategy(t, second, []byte{})

	v := env.vault(t, second)
	require.False(t, v.HasStrategy())
	require.EqualValues(t, share, v.RemainingFunds.Int64())
	require.EqualValues(t, share, v.TotalDeposit.Int64())
	require.EqualValues(t, 0, env.strategyBalance(t, strategy))
	require.EqualValues(t, share, env.gasBalance(env.hash))
}
