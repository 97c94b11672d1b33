package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for VaultGuard deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns an error if requested contract is
	// missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the VaultGuard deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It pays for the deployment and determines contract addresses.
	LocalAccount *wallet.Account

	// Administrator of the deployed contracts. Local account is used if zero.
	Admin util.Uint160

	// Account receiving platform fee of every payout.
	PlatformWallet util.Uint160

	// Reputation contract is optional: when its NEF is empty, VaultGuard is
	// deployed without credential minting.
	ReputationContract CommonDeployPrm
	VaultGuardContract CommonDeployPrm
}

// Result groups addresses of the deployed contracts.
type Result struct {
	VaultGuard util.Uint160
	// Zero if Reputation contract was not deployed.
	Reputation util.Uint160
}

// Deploy deploys Reputation and VaultGuard contracts to the blockchain given in
// Prm.Blockchain. Contracts that are already deployed by the local account are
// reused. VaultGuard is set as the only credential minter of the Reputation
// contract.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	if prm.PlatformWallet.Equals(util.Uint160{}) {
		return res, errors.New("platform wallet is not set")
	}

	a, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	admin := prm.Admin
	if admin.Equals(util.Uint160{}) {
		admin = a.Sender()
	}

	res.VaultGuard = state.CreateContractHash(a.Sender(), prm.VaultGuardContract.NEF.Checksum, prm.VaultGuardContract.Manifest.Name)

	syncPrm := syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		actor:      a,
	}

	var reputationArg any = []byte{}

	if len(prm.ReputationContract.NEF.Script) != 0 {
		syncPrm.common = prm.ReputationContract
		syncPrm.deployArgs = []any{admin, res.VaultGuard}

		prm.Logger.Info("synchronizing Reputation contract with the chain...")

		res.Reputation, err = syncContract(ctx, syncPrm)
		if err != nil {
			return res, fmt.Errorf("sync Reputation contract with the chain: %w", err)
		}

		prm.Logger.Info("Reputation contract successfully synchronized", zap.Stringer("address", res.Reputation))

		reputationArg = res.Reputation
	}

	syncPrm.common = prm.VaultGuardContract
	syncPrm.deployArgs = []any{admin, prm.PlatformWallet, reputationArg}

	prm.Logger.Info("synchronizing VaultGuard contract with the chain...")

	res.VaultGuard, err = syncContract(ctx, syncPrm)
	if err != nil {
		return res, fmt.Errorf("sync VaultGuard contract with the chain: %w", err)
	}

	prm.Logger.Info("VaultGuard contract successfully synchronized", zap.Stringer("address", res.VaultGuard))

	if res.Reputation.Equals(util.Uint160{}) {
		return res, nil
	}

	err = ensureMinter(ctx, prm.Logger, a, res.Reputation, res.VaultGuard)
	if err != nil {
		return res, fmt.Errorf("set VaultGuard as Reputation minter: %w", err)
	}

	return res, nil
}

type syncContractPrm struct {
	logger     *zap.Logger
	blockchain Blockchain
	actor      *actor.Actor
	common     CommonDeployPrm
	deployArgs []any
}

// syncContract deploys the contract if it is missing on the chain and returns
// its address.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	addr := state.CreateContractHash(prm.actor.Sender(), prm.common.NEF.Checksum, prm.common.Manifest.Name)

	l := prm.logger.With(zap.String("contract", prm.common.Manifest.Name), zap.Stringer("address", addr))

	_, err := prm.blockchain.GetContractStateByHash(addr)
	if err == nil {
		l.Info("contract is already deployed, skip")
		return addr, nil
	}

	l.Debug("contract is missing on the chain, deploying...", zap.Error(err))

	if err = ctx.Err(); err != nil {
		return addr, err
	}

	txHash, vub, err := management.New(prm.actor).Deploy(&prm.common.NEF, &prm.common.Manifest, prm.deployArgs)
	if err != nil {
		return addr, fmt.Errorf("send deploy transaction: %w", err)
	}

	l.Info("deploy transaction sent, waiting to be accepted...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	err = await(prm.actor, txHash, vub, nil)
	if err != nil {
		return addr, fmt.Errorf("deploy transaction %s: %w", txHash.StringLE(), err)
	}

	return addr, nil
}

func ensureMinter(ctx context.Context, l *zap.Logger, a *actor.Actor, reputation, minter util.Uint160) error {
	current, err := unwrap.Uint160(a.Call(reputation, "minter"))
	if err == nil && current.Equals(minter) {
		l.Debug("VaultGuard is already Reputation minter")
		return nil
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	l.Info("setting VaultGuard as Reputation minter...")

	txHash, vub, err := a.SendCall(reputation, "setMinter", minter)
	return await(a, txHash, vub, err)
}

// await waits for the transaction to be accepted and checks it succeeded.
func await(a *actor.Actor, txHash util.Uint256, vub uint32, err error) error {
	res, err := a.Wait(txHash, vub, err)
	if err != nil {
		return err
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction failed with %s state: %s", res.VMState, res.FaultException)
	}

	return nil
}
